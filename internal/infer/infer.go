// Package infer suggests column labels and type casts from a sample of CSV
// rows. It backs the castprobe command: point it at a dataset and it prints
// the -l/-t flags (or a profile) to start from.
package infer

import (
	"strconv"
	"strings"

	"csv2opal/internal/colspec"
	"csv2opal/internal/sanitize"
)

// Epoch-seconds heuristic bounds: 2001-09-09 .. 2033-05-18. Ten-digit
// integers inside this window are far more likely timestamps than counts.
const (
	epochSecondsMin = 1_000_000_000
	epochSecondsMax = 2_000_000_000
)

// Column is one suggested column configuration.
type Column struct {
	// Number is the original 1-based column position.
	Number int
	// Label is the suggested output field name.
	Label string
	// Cast is the suggested type-cast function name.
	Cast string
}

// Columns inspects the header and sample rows and suggests a label and cast
// per column. Values are considered with literal quotes stripped, matching
// how a dequoted run would embed them; empty values are ignored. A column
// with no usable sample values suggests the default string cast.
func Columns(header []string, rows [][]string, sanitizeLabels bool) []Column {
	out := make([]Column, len(header))
	for i, cell := range header {
		label := colspec.StripQuotes(cell)
		if sanitizeLabels {
			label = sanitize.Identifier(label)
		}
		out[i] = Column{
			Number: i + 1,
			Label:  label,
			Cast:   suggestCast(column(rows, i)),
		}
	}
	return out
}

// column extracts the i-th field of every row that has one.
func column(rows [][]string, i int) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if i < len(r) {
			out = append(out, r[i])
		}
	}
	return out
}

// suggestCast picks the narrowest cast every non-empty sample value fits.
func suggestCast(values []string) string {
	allInt := true
	allFloat := true
	allEpoch := true
	seen := 0

	for _, v := range values {
		v = strings.TrimSpace(colspec.StripQuotes(v))
		if v == "" {
			continue
		}
		seen++
		n, intErr := strconv.ParseInt(v, 10, 64)
		if intErr != nil {
			allInt = false
			allEpoch = false
		} else if n < epochSecondsMin || n > epochSecondsMax {
			allEpoch = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allFloat = false
		}
	}

	switch {
	case seen == 0:
		return colspec.DefaultCast
	case allEpoch:
		return "from_seconds"
	case allInt:
		return "int64"
	case allFloat:
		return "float64"
	default:
		return colspec.DefaultCast
	}
}

// Flags renders the suggestions as ready-to-paste -l and -t flag values.
// Default string casts are pinned explicitly so the suggestion is complete.
func Flags(cols []Column) (labels, casts string) {
	lp := make([]string, len(cols))
	cp := make([]string, len(cols))
	for i, c := range cols {
		lp[i] = strconv.Itoa(c.Number) + ":" + c.Label
		cp[i] = strconv.Itoa(c.Number) + ":" + c.Cast
	}
	return strings.Join(lp, ","), strings.Join(cp, ",")
}
