// Package opal generates the output script: a fixed OPAL pipeline that
// rebuilds the CSV rows as a JSON array via parse_json/concat_strings,
// flattens it, and projects typed columns with pick_col.
package opal

// numericCasts is the closed set of cast names whose column values are
// embedded as bare (unquoted) tokens in the per-row JSON fragments. The set
// covers the integer, float, and time-from-epoch conversions. The output-side
// cast in pick_col is independent and open-ended; any name outside this set
// simply embeds quoted.
var numericCasts = map[string]bool{
	"int64":             true,
	"float64":           true,
	"from_seconds":      true,
	"from_milliseconds": true,
	"from_nanoseconds":  true,
}

// IsNumericCast reports whether name is one of the numeric/time cast names
// that embed unquoted values.
func IsNumericCast(name string) bool { return numericCasts[name] }

// NumericCasts returns the members of the closed numeric cast set. The slice
// is a copy; callers may not grow the set.
func NumericCasts() []string {
	out := make([]string, 0, len(numericCasts))
	for name := range numericCasts {
		out = append(out, name)
	}
	return out
}
