// Command castprobe samples a CSV (header plus up to -rows data rows) and
// prints suggested csv2opal flags, or a ready-to-edit JSON profile, inferring
// int64/float64/from_seconds casts per column.
//
// Usage:
//
//	castprobe -rows 200 < data.csv
//	castprobe -json -s < data.csv > data.profile.json
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"csv2opal/internal/infer"
	"csv2opal/internal/opal"
	"csv2opal/internal/profile"
)

var (
	flagIn       = flag.String("in", "", "read the CSV from a file instead of stdin")
	flagRows     = flag.Int("rows", 100, "maximum number of data rows to sample")
	flagJSON     = flag.Bool("json", false, "print a JSON profile instead of flag values")
	flagSanitize = flag.Bool("s", false, "sanitize header-derived labels into lowercase identifiers")
	flagJob      = flag.String("job", "", "job name written into the JSON profile")
)

func main() {
	flag.Parse()

	var in io.Reader = os.Stdin
	if *flagIn != "" {
		f, err := os.Open(*flagIn)
		if err != nil {
			fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	header, rows, err := sample(in, *flagRows)
	if err != nil {
		fatalf("%v", err)
	}

	cols := infer.Columns(header, rows, *flagSanitize)
	labels, casts := infer.Flags(cols)

	if *flagJSON {
		p := profile.Profile{
			Job:            *flagJob,
			Labels:         labels,
			Casts:          casts,
			SanitizeLabels: *flagSanitize,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&p); err != nil {
			fatalf("encode profile: %v", err)
		}
		return
	}

	fmt.Printf("-l %s -t %s\n", labels, casts)
}

// sample reads the header line and up to max data rows, split but otherwise
// untouched. Blank lines are skipped like the converter does.
func sample(r io.Reader, max int) (header []string, rows [][]string, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, nil, fmt.Errorf("read header: %w", err)
		}
		return nil, nil, fmt.Errorf("empty input, expected a CSV header line")
	}
	header = opal.SplitRow(strings.TrimSuffix(sc.Text(), "\r"))
	header[0] = strings.TrimPrefix(header[0], opal.UTF8BOM)

	for len(rows) < max && sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		rows = append(rows, opal.SplitRow(line))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	return header, rows, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
