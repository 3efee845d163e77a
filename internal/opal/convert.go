package opal

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/zeebo/xxh3"

	"csv2opal/internal/colspec"
)

// jsonCol is the intermediate column carrying the reconstructed JSON array;
// flattenPath is the value path flatten_single derives from it.
const (
	jsonCol     = "foo"
	flattenPath = "_c_" + jsonCol + "_value"
)

const (
	scriptPreamble = "filter false | statsby count(), group_by()\n" +
		"make_col " + jsonCol + ":parse_json(concat_strings('['\n"
	scriptClose = ", ']'))\n" +
		"flatten_single " + jsonCol + "\n"
)

// UTF8BOM is the byte order mark stripped from the first header cell if
// present.
const UTF8BOM = "\ufeff"

// Options tunes a conversion run.
type Options struct {
	// Debug enables column and row tracing on the standard logger. Output
	// content is unaffected.
	Debug bool
}

// Stats summarizes one conversion run.
type Stats struct {
	// Rows is the number of data-row fragments emitted, in input order.
	Rows int
	// Padded counts rows shorter than the header that had missing fields
	// substituted with empty strings.
	Padded int
	// Blank counts entirely empty lines, which emit nothing.
	Blank int
	// Bytes is the size of the emitted script.
	Bytes int64
	// Fingerprint is the xxh3 hash of the emitted script, for cheap
	// comparison of runs in traces and tests.
	Fingerprint uint64
}

// Result carries the resolved configuration and run summary back to the
// caller alongside any lint findings from header reconciliation.
type Result struct {
	Spec   *colspec.Spec
	Issues []colspec.Issue
	Stats  Stats
}

// countingWriter tracks how many bytes pass through to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// SplitRow splits one raw CSV line on commas. The input convention is
// unescaped comma-separated values, so quote characters are ordinary text and
// embedded commas are not supported.
func SplitRow(line string) []string {
	return strings.Split(line, ",")
}

// Convert reads the CSV header and data rows from r, resolves b against the
// header, and writes the complete output script to w. It is a single forward
// pass: rows are formatted and written as they are read, in input order.
//
// Rows shorter than the header pad missing fields with empty strings and are
// counted in Stats.Padded. Completely empty lines emit nothing. On a
// configuration error (e.g. every column dropped) Convert returns before any
// data row is read and nothing is written to w.
func Convert(w io.Writer, r io.Reader, b *colspec.Builder, opts Options) (*Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("opal: read header: %w", err)
		}
		return nil, fmt.Errorf("opal: empty input, expected a CSV header line")
	}
	header := SplitRow(strings.TrimSuffix(sc.Text(), "\r"))
	header[0] = strings.TrimPrefix(header[0], UTF8BOM)

	spec, issues, err := b.Resolve(header)
	if err != nil {
		return &Result{Issues: issues}, err
	}
	prog := Compile(spec)

	if opts.Debug {
		for _, c := range spec.Columns {
			log.Printf("opal: col %d drop=%v dequote=%v label=%q cast=%s",
				c.Number, c.Drop, c.Dequote, c.Label, c.Cast)
		}
	}

	res := &Result{Spec: spec, Issues: issues}
	h := xxh3.New()
	cw := &countingWriter{w: io.MultiWriter(w, h)}
	out := bufio.NewWriter(cw)

	if _, err := out.WriteString(scriptPreamble); err != nil {
		return res, fmt.Errorf("opal: write preamble: %w", err)
	}

	for line := 2; sc.Scan(); line++ {
		raw := strings.TrimSuffix(sc.Text(), "\r")
		if raw == "" {
			res.Stats.Blank++
			continue
		}
		row := SplitRow(raw)
		if len(row) < spec.Total() {
			res.Stats.Padded++
			if opts.Debug {
				log.Printf("opal: line %d has %d of %d fields, padding", line, len(row), spec.Total())
			}
		}

		out.WriteString(", '")
		if res.Stats.Rows > 0 {
			out.WriteByte(',')
		}
		out.WriteString(prog.Fragment(row))
		if _, err := out.WriteString("'\n"); err != nil {
			return res, fmt.Errorf("opal: write row %d: %w", line, err)
		}
		res.Stats.Rows++
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("opal: read input: %w", err)
	}

	out.WriteString(scriptClose)
	out.WriteString(prog.Projection())
	out.WriteByte('\n')
	if err := out.Flush(); err != nil {
		return res, fmt.Errorf("opal: flush output: %w", err)
	}

	res.Stats.Bytes = cw.n
	res.Stats.Fingerprint = h.Sum64()
	if opts.Debug {
		log.Printf("opal: emitted %d rows, %d bytes, fingerprint=%016x",
			res.Stats.Rows, res.Stats.Bytes, res.Stats.Fingerprint)
	}
	return res, nil
}
