package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters  []counterCall
	callsDurations []durationCall
	flushCount     int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type durationCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveDuration(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsDurations = append(f.callsDurations, durationCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func TestRecordRun(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	backend = fb

	RecordRun("jobA", nil, 2*time.Second)
	RecordRun("jobB", errors.New("boom"), 1500*time.Millisecond)

	if len(fb.callsCounters) != 2 {
		t.Fatalf("expected 2 counter calls, got %d", len(fb.callsCounters))
	}
	if len(fb.callsDurations) != 2 {
		t.Fatalf("expected 2 duration calls, got %d", len(fb.callsDurations))
	}

	c0 := fb.callsCounters[0]
	if c0.name != "csv2opal_runs_total" || c0.delta != 1 {
		t.Fatalf("counter[0] = %#v; want csv2opal_runs_total with delta 1", c0)
	}
	if c0.labels["job"] != "jobA" || c0.labels["status"] != "success" {
		t.Fatalf("counter[0] labels = %v; want job=jobA status=success", c0.labels)
	}

	d0 := fb.callsDurations[0]
	if d0.name != "csv2opal_run_duration_seconds" {
		t.Fatalf("duration[0].name = %q", d0.name)
	}
	if d0.value < 1.999 || d0.value > 2.001 {
		t.Fatalf("duration[0].value = %v; want ~2.0", d0.value)
	}

	c1 := fb.callsCounters[1]
	if c1.labels["job"] != "jobB" || c1.labels["status"] != "failure" {
		t.Fatalf("counter[1] labels = %v; want job=jobB status=failure", c1.labels)
	}
	d1 := fb.callsDurations[1]
	if d1.value < 1.499 || d1.value > 1.501 {
		t.Fatalf("duration[1].value = %v; want ~1.5", d1.value)
	}
}

func TestRecordRows(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	backend = fb

	RecordRows("jobX", "emitted", 3)
	RecordRows("jobX", "emitted", 0) // zero delta is a no-op
	RecordRows("jobY", "padded", 5)

	if len(fb.callsCounters) != 2 {
		t.Fatalf("expected 2 counter calls, got %d", len(fb.callsCounters))
	}

	c0 := fb.callsCounters[0]
	if c0.name != "csv2opal_rows_total" || c0.delta != 3 {
		t.Fatalf("counter[0] = %#v; want csv2opal_rows_total with delta 3", c0)
	}
	if c0.labels["job"] != "jobX" || c0.labels["kind"] != "emitted" {
		t.Fatalf("counter[0] labels = %v; want job=jobX kind=emitted", c0.labels)
	}

	c1 := fb.callsCounters[1]
	if c1.delta != 5 || c1.labels["kind"] != "padded" {
		t.Fatalf("counter[1] = %#v; want delta 5 kind=padded", c1)
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	SetBackend(fb)

	if backend != Backend(fb) {
		t.Fatal("SetBackend did not replace global backend")
	}

	if err := Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if fb.flushCount != 1 {
		t.Fatalf("expected flushCount 1, got %d", fb.flushCount)
	}

	// nil keeps the existing backend installed.
	SetBackend(nil)
	if backend != Backend(fb) {
		t.Fatal("SetBackend(nil) replaced the backend")
	}
}

func TestDefaultBackendIsNop(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	backend = nopBackend{}

	// None of these should panic or error with the no-op backend.
	RecordRun("job", nil, time.Second)
	RecordRows("job", "emitted", 10)
	if err := Flush(); err != nil {
		t.Fatalf("nop Flush returned error: %v", err)
	}
}
