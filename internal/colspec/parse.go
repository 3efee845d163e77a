package colspec

import (
	"fmt"
	"strconv"
	"strings"
)

// parseIndexList parses a comma-separated list of 1-based column numbers
// ("2,5") into a set. Empty tokens are skipped so trailing commas are
// harmless.
func parseIndexList(list string) (map[int]bool, error) {
	out := map[int]bool{}
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("bad column number %q", tok)
		}
		if n < 1 {
			return nil, fmt.Errorf("column number %d is not 1-based", n)
		}
		out[n] = true
	}
	return out, nil
}

// parseAssignList parses the dual positional/pinned syntax used by label and
// cast lists. Each token is either a bare value, assigned to columns 1, 2,
// 3, ... in bare-token order, or an "N:value" pair pinned to column N. Tokens
// are folded left to right into one map, so a later token overrides an
// earlier one that landed on the same column.
func parseAssignList(list string) (map[int]string, error) {
	out := map[int]string{}
	pos := 0
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if i := strings.Index(tok, ":"); i >= 0 {
			n, err := strconv.Atoi(strings.TrimSpace(tok[:i]))
			if err != nil {
				return nil, fmt.Errorf("bad pinned entry %q", tok)
			}
			if n < 1 {
				return nil, fmt.Errorf("pinned column %d is not 1-based", n)
			}
			v := strings.TrimSpace(tok[i+1:])
			if v == "" {
				return nil, fmt.Errorf("pinned entry %q has no value", tok)
			}
			out[n] = v
			continue
		}
		pos++
		out[pos] = tok
	}
	return out, nil
}
