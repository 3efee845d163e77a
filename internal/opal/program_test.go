package opal_test

import (
	"testing"

	"csv2opal/internal/colspec"
	"csv2opal/internal/opal"
)

func mustResolve(t *testing.T, b *colspec.Builder, header []string) *colspec.Spec {
	t.Helper()
	spec, _, err := b.Resolve(header)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return spec
}

func TestFragmentPlaceholders(t *testing.T) {
	b := colspec.NewBuilder()
	if err := b.SetCasts("2:int64"); err != nil {
		t.Fatalf("casts: %v", err)
	}
	spec := mustResolve(t, b, []string{"name", "count"})
	p := opal.Compile(spec)

	got := p.Fragment([]string{"web", "42"})
	want := `{"name":"web","count":42}`
	if got != want {
		t.Fatalf("fragment=%s want=%s", got, want)
	}
}

func TestFragmentDequote(t *testing.T) {
	b := colspec.NewBuilder()
	if err := b.SetDequote("1,2"); err != nil {
		t.Fatalf("dequote: %v", err)
	}
	if err := b.SetCasts("2:int64"); err != nil {
		t.Fatalf("casts: %v", err)
	}
	spec := mustResolve(t, b, []string{"host", "bytes"})
	p := opal.Compile(spec)

	got := p.Fragment([]string{`"web-1"`, `"512"`})
	want := `{"host":"web-1","bytes":512}`
	if got != want {
		t.Fatalf("fragment=%s want=%s", got, want)
	}
}

func TestFragmentShortRowPads(t *testing.T) {
	spec := mustResolve(t, colspec.NewBuilder(), []string{"a", "b", "c"})
	p := opal.Compile(spec)

	got := p.Fragment([]string{"only"})
	want := `{"a":"only","b":"","c":""}`
	if got != want {
		t.Fatalf("fragment=%s want=%s", got, want)
	}
}

func TestFragmentSkipsDroppedColumns(t *testing.T) {
	b := colspec.NewBuilder()
	if err := b.SetDrop("2"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	spec := mustResolve(t, b, []string{"a", "b", "c"})
	p := opal.Compile(spec)

	got := p.Fragment([]string{"1", "2", "3"})
	want := `{"a":"1","c":"3"}`
	if got != want {
		t.Fatalf("fragment=%s want=%s", got, want)
	}
}

func TestProjectionOrderAndCasts(t *testing.T) {
	b := colspec.NewBuilder()
	if err := b.SetDrop("2"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := b.SetLabels("1:x,3:z"); err != nil {
		t.Fatalf("labels: %v", err)
	}
	if err := b.SetCasts("1:int64"); err != nil {
		t.Fatalf("casts: %v", err)
	}
	spec := mustResolve(t, b, []string{"a", "b", "c"})
	p := opal.Compile(spec)

	got := p.Projection()
	want := "pick_col x:int64(_c_foo_value.x),z:string(_c_foo_value.z)"
	if got != want {
		t.Fatalf("projection=%s want=%s", got, want)
	}
}

func TestIsNumericCast(t *testing.T) {
	for _, name := range []string{"int64", "float64", "from_seconds", "from_milliseconds", "from_nanoseconds"} {
		if !opal.IsNumericCast(name) {
			t.Fatalf("%s should be numeric", name)
		}
	}
	for _, name := range []string{"string", "", "int", "INT64", "timestamp"} {
		if opal.IsNumericCast(name) {
			t.Fatalf("%s should not be numeric", name)
		}
	}

	members := opal.NumericCasts()
	if len(members) != 5 {
		t.Fatalf("NumericCasts returned %d members, want 5", len(members))
	}
	for _, name := range members {
		if !opal.IsNumericCast(name) {
			t.Fatalf("NumericCasts member %s not reported numeric", name)
		}
	}
}
