package infer_test

import (
	"testing"

	"csv2opal/internal/infer"
)

func TestColumns(t *testing.T) {
	header := []string{"host", "bytes", "ratio", "ts", "note"}
	rows := [][]string{
		{"web-1", "512", "0.25", "1700000000", "ok"},
		{"web-2", "1024", "3", "1700000060", ""},
		{"web-3", "", "1.5", "1700000120", "busy"},
	}

	cols := infer.Columns(header, rows, false)
	if len(cols) != 5 {
		t.Fatalf("cols=%d want=5", len(cols))
	}
	wantCasts := []string{"string", "int64", "float64", "from_seconds", "string"}
	for i, want := range wantCasts {
		if got := cols[i].Cast; got != want {
			t.Fatalf("col %d (%s) cast=%q want=%q", cols[i].Number, cols[i].Label, got, want)
		}
	}
}

func TestColumnsQuotedValues(t *testing.T) {
	// Values are judged with literal quotes stripped, matching a dequoted run.
	cols := infer.Columns([]string{`"n"`}, [][]string{{`"42"`}, {`"7"`}}, false)
	if got := cols[0].Cast; got != "int64" {
		t.Fatalf("cast=%q want=int64", got)
	}
	if got := cols[0].Label; got != "n" {
		t.Fatalf("label=%q want=n", got)
	}
}

func TestColumnsEmptySample(t *testing.T) {
	cols := infer.Columns([]string{"a"}, nil, false)
	if got := cols[0].Cast; got != "string" {
		t.Fatalf("cast=%q want=string", got)
	}
}

func TestColumnsSanitized(t *testing.T) {
	cols := infer.Columns([]string{"Host Name"}, nil, true)
	if got := cols[0].Label; got != "host_name" {
		t.Fatalf("label=%q want=host_name", got)
	}
}

func TestFlags(t *testing.T) {
	cols := []infer.Column{
		{Number: 1, Label: "host", Cast: "string"},
		{Number: 2, Label: "bytes", Cast: "int64"},
	}
	labels, casts := infer.Flags(cols)
	if labels != "1:host,2:bytes" {
		t.Fatalf("labels=%q", labels)
	}
	if casts != "1:string,2:int64" {
		t.Fatalf("casts=%q", casts)
	}
}
