package opal

import (
	"strings"

	"csv2opal/internal/colspec"
)

// field is the compiled per-column formatter state: where to read the value
// in a split row, what label to emit it under, and how to embed it.
type field struct {
	idx     int // 0-based index into the split row
	label   string
	cast    string
	numeric bool
	dequote bool
}

// Program is the row-processing procedure compiled once from a resolved Spec
// and applied uniformly to every data row. It is immutable after Compile.
type Program struct {
	fields []field
	total  int
}

// Compile derives the formatter for every surviving column, in ascending
// original column-number order.
func Compile(spec *colspec.Spec) *Program {
	surv := spec.Surviving()
	p := &Program{
		fields: make([]field, len(surv)),
		total:  spec.Total(),
	}
	for i, c := range surv {
		p.fields[i] = field{
			idx:     c.Number - 1,
			label:   c.Label,
			cast:    c.Cast,
			numeric: IsNumericCast(c.Cast),
			dequote: c.Dequote,
		}
	}
	return p
}

// Fragment renders the JSON-object text for one split data row. Fields the
// row does not have substitute as empty strings; values are embedded verbatim
// (no JSON escaping), so malformed input flows through to the output script
// unchanged.
func (p *Program) Fragment(row []string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range p.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		v := ""
		if f.idx < len(row) {
			v = row[f.idx]
		}
		if f.dequote {
			v = colspec.StripQuotes(v)
		}
		b.WriteByte('"')
		b.WriteString(f.label)
		b.WriteString(`":`)
		if f.numeric {
			b.WriteString(v)
		} else {
			b.WriteByte('"')
			b.WriteString(v)
			b.WriteByte('"')
		}
	}
	b.WriteByte('}')
	return b.String()
}

// Projection renders the final pick_col statement listing every surviving
// column as label:cast(path.label).
func (p *Program) Projection() string {
	parts := make([]string, len(p.fields))
	for i, f := range p.fields {
		parts[i] = f.label + ":" + f.cast + "(" + flattenPath + "." + f.label + ")"
	}
	return "pick_col " + strings.Join(parts, ",")
}
