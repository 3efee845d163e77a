// Package colspec models the per-column configuration that drives a CSV to
// OPAL conversion: which input columns are dropped, which are dequoted, what
// output label each one carries, and which type-cast function projects it in
// the generated script.
//
// The lifecycle is deliberately two-phase:
//
//  1. A Builder is folded from CLI flags and/or a profile file. Entries are
//     keyed by original 1-based CSV column number; label and cast lists use a
//     dual syntax where a bare token is assigned positionally and an "N:value"
//     token pins the value to column N (last write wins, in token order).
//  2. Resolve consumes the CSV header line, fills the gaps (labels from header
//     cells with literal quotes stripped, casts defaulting to "string"), and
//     returns an immutable Spec. Every data row is processed against that one
//     frozen Spec.
package colspec

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultCast is the type-cast applied to columns without an explicit one.
// It is a plain pass-through in the target language.
const DefaultCast = "string"

// Column is the resolved configuration for one input column.
type Column struct {
	// Number is the original 1-based position in the CSV header/rows,
	// counted before any dropping.
	Number int

	// Drop excludes the column from all output stages.
	Drop bool

	// Dequote strips literal '"' characters from the column's raw field text
	// before it is embedded in a row fragment.
	Dequote bool

	// Label is the output JSON field name.
	Label string

	// Cast names the type-conversion function used in the final projection.
	Cast string
}

// Spec is the frozen column configuration for one conversion run. Columns are
// ordered by ascending original column number and fully resolved: every entry
// has a label and a cast. Treat a Spec as read-only once Resolve returns it.
type Spec struct {
	Columns []Column
}

// Total returns the input column count recorded from the header.
func (s *Spec) Total() int { return len(s.Columns) }

// Surviving returns the non-dropped columns in ascending column-number order.
func (s *Spec) Surviving() []Column {
	out := make([]Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		if !c.Drop {
			out = append(out, c)
		}
	}
	return out
}

// Labels returns the surviving labels in ascending column-number order.
func (s *Spec) Labels() []string {
	surv := s.Surviving()
	out := make([]string, len(surv))
	for i, c := range surv {
		out[i] = c.Label
	}
	return out
}

// StripQuotes removes every literal '"' from s. It is the dequote operation
// applied to header cells and to dequote-flagged field values; it is a no-op
// on text without quote characters.
func StripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// Builder accumulates column settings before the header is known. Keys are
// original 1-based column numbers. Zero value is not usable; call NewBuilder.
type Builder struct {
	drop    map[int]bool
	dequote map[int]bool
	labels  map[int]string
	casts   map[int]string

	// SanitizeLabels converts labels derived from header cells into lowercase
	// ASCII identifiers. Pinned and positional labels are used as given.
	SanitizeLabels bool

	sanitizer func(string) string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		drop:    map[int]bool{},
		dequote: map[int]bool{},
		labels:  map[int]string{},
		casts:   map[int]string{},
	}
}

// SetSanitizer installs the identifier sanitizer used when SanitizeLabels is
// set. Keeping it injected avoids a package dependency from colspec onto the
// text-normalization stack.
func (b *Builder) SetSanitizer(fn func(string) string) { b.sanitizer = fn }

// SetDrop replaces the drop set from a comma-separated list of 1-based column
// numbers, e.g. "2,5".
func (b *Builder) SetDrop(list string) error {
	m, err := parseIndexList(list)
	if err != nil {
		return fmt.Errorf("colspec: drop list: %w", err)
	}
	b.drop = m
	return nil
}

// SetDequote replaces the dequote set from a comma-separated list of 1-based
// column numbers.
func (b *Builder) SetDequote(list string) error {
	m, err := parseIndexList(list)
	if err != nil {
		return fmt.Errorf("colspec: dequote list: %w", err)
	}
	b.dequote = m
	return nil
}

// SetLabels replaces the label assignments from a dual-syntax list, e.g.
// "host,3:bytes" (positional "host" for column 1, pinned "bytes" on column 3).
func (b *Builder) SetLabels(list string) error {
	m, err := parseAssignList(list)
	if err != nil {
		return fmt.Errorf("colspec: label list: %w", err)
	}
	b.labels = m
	return nil
}

// SetCasts replaces the type-cast assignments from a dual-syntax list, e.g.
// "1:int64,from_seconds".
func (b *Builder) SetCasts(list string) error {
	m, err := parseAssignList(list)
	if err != nil {
		return fmt.Errorf("colspec: cast list: %w", err)
	}
	b.casts = m
	return nil
}

// Resolve reconciles the builder with the CSV header cells and freezes the
// configuration. Unlabeled columns take the header cell text with quotes
// stripped (optionally sanitized); columns without a cast get DefaultCast.
//
// It returns lint findings for settings that reference columns outside the
// header width, and an error when no column survives dropping. The error
// path is taken before any data row is read.
func (b *Builder) Resolve(header []string) (*Spec, []Issue, error) {
	total := len(header)
	if total == 0 {
		return nil, nil, fmt.Errorf("colspec: empty header")
	}

	issues := b.lint(total)

	cols := make([]Column, total)
	dropped := 0
	for i := range cols {
		n := i + 1
		c := Column{
			Number:  n,
			Drop:    b.drop[n],
			Dequote: b.dequote[n],
			Cast:    b.casts[n],
		}
		if c.Drop {
			dropped++
		}
		if lbl, ok := b.labels[n]; ok {
			c.Label = lbl
		} else {
			c.Label = StripQuotes(header[i])
			if b.SanitizeLabels && b.sanitizer != nil {
				c.Label = b.sanitizer(c.Label)
			}
		}
		if c.Cast == "" {
			c.Cast = DefaultCast
		}
		cols[i] = c
	}

	if dropped >= total {
		return nil, issues, fmt.Errorf("colspec: all %d columns dropped, nothing to emit", total)
	}

	return &Spec{Columns: cols}, issues, nil
}

// lint reports settings that cannot take effect for a header of the given
// width. These are warnings, not errors: the run proceeds without them.
// Findings are ordered by setting name, then by ascending column number.
func (b *Builder) lint(total int) []Issue {
	var issues []Issue
	add := func(path string, nums []int) {
		for _, n := range nums {
			if n > total {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path,
					Message:  fmt.Sprintf("column %d is beyond the %d-column header; ignored", n, total),
				})
			}
		}
	}
	add("casts", sortedAssignKeys(b.casts))
	add("dequote", sortedSetKeys(b.dequote))
	add("drop", sortedSetKeys(b.drop))
	add("labels", sortedAssignKeys(b.labels))
	return issues
}

func sortedSetKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func sortedAssignKeys(m map[int]string) []int {
	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
