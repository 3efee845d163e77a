// Command csv2opal reads unescaped comma-separated text on stdin (header
// line first) and writes an OPAL script to stdout that reconstructs the rows
// as a JSON array and projects typed columns out of it.
//
// Usage:
//
//	csv2opal [-x cols] [-d cols] [-l labels] [-t casts] [-D] < data.csv
//
// Example:
//
//	csv2opal -x 2 -l 1:host,3:bytes -t 3:int64 < access.csv > access.opal
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"csv2opal/internal/colspec"
	"csv2opal/internal/metrics"
	"csv2opal/internal/metrics/datadog"
	"csv2opal/internal/metrics/prompush"
	"csv2opal/internal/opal"
	"csv2opal/internal/profile"
	"csv2opal/internal/sanitize"
)

func main() {
	var (
		dropFlg     string
		dequoteFlg  string
		labelsFlg   string
		castsFlg    string
		debugFlg    bool
		sanitizeFlg bool
		inPath      string
		profilePath string
		jobFlg      string

		metricsBackendFlg string
		pushGatewayURLFlg string
		dogstatsdAddrFlg  string
	)

	flag.StringVar(&dropFlg, "x", "", "comma-separated 1-based column numbers to drop")
	flag.StringVar(&dequoteFlg, "d", "", "comma-separated 1-based column numbers to dequote")
	flag.StringVar(&labelsFlg, "l", "", `output labels, positional or pinned "N:name" entries`)
	flag.StringVar(&castsFlg, "t", "", `output type casts, positional or pinned "N:name" entries`)
	flag.BoolVar(&debugFlg, "D", false, "enable debug tracing to stderr")
	flag.BoolVar(&sanitizeFlg, "s", false, "sanitize header-derived labels into lowercase identifiers")
	flag.StringVar(&inPath, "in", "", "read the CSV from a file instead of stdin")
	flag.StringVar(&profilePath, "profile", "", "JSON conversion profile; explicit flags override its fields")
	flag.StringVar(&jobFlg, "job", "", "job name for metrics and traces")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddrFlg, "dogstatsd-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument %q; input is read from stdin or -in\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	debug := debugFlg || os.Getenv("CSV2OPAL_DEBUG") != ""

	b := colspec.NewBuilder()
	b.SetSanitizer(sanitize.Identifier)

	job := "csv2opal"
	if profilePath != "" {
		p, err := profile.Load(profilePath)
		if err != nil {
			fatalf("%v", err)
		}
		for _, iss := range p.Lint() {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		}
		if err := p.Apply(b); err != nil {
			fatalf("%v", err)
		}
		if p.Job != "" {
			job = p.Job
		}
	}
	if jobFlg != "" {
		job = jobFlg
	}

	// Explicit flags override profile values field by field. Visit only sees
	// flags that were actually set on the command line.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "x":
			flagErr = b.SetDrop(dropFlg)
		case "d":
			flagErr = b.SetDequote(dequoteFlg)
		case "l":
			flagErr = b.SetLabels(labelsFlg)
		case "t":
			flagErr = b.SetCasts(castsFlg)
		case "s":
			b.SanitizeLabels = sanitizeFlg
		}
	})
	if flagErr != nil {
		fatalf("%v", flagErr)
	}

	// Decide metrics backend: flag → env → default (none). The script goes to
	// stdout, so nothing here may write there.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		bk, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			metrics.SetBackend(bk)
		}

	case "datadog":
		addr := dogstatsdAddrFlg
		if addr == "" {
			addr = os.Getenv("DD_AGENT_ADDR")
		}
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		bk, err := datadog.NewBackend(datadog.Config{Addr: addr, Namespace: "csv2opal."})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			metrics.SetBackend(bk)
		}

	case "", "none":
		// metrics disabled; nop backend remains
		if debug {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	var in io.Reader = os.Stdin
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	start := time.Now()
	res, convErr := opal.Convert(os.Stdout, in, b, opal.Options{Debug: debug})
	if res != nil {
		for _, iss := range res.Issues {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		}
		metrics.RecordRows(job, "emitted", int64(res.Stats.Rows))
		metrics.RecordRows(job, "padded", int64(res.Stats.Padded))
		metrics.RecordRows(job, "blank_skipped", int64(res.Stats.Blank))
	}
	metrics.RecordRun(job, convErr, time.Since(start))
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}

	if convErr != nil {
		fatalf("%v", convErr)
	}
	if debug {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
