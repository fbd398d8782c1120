package worker

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestMapPreservesOrder(t *testing.T) {
	inputs := make([]string, 50)
	for i := range inputs {
		inputs[i] = strconv.Itoa(i)
	}
	results := Map(inputs, 8, func(in string) (string, error) {
		return "out:" + in, nil
	})
	if len(results) != len(inputs) {
		t.Fatalf("len = %d, want %d", len(results), len(inputs))
	}
	for i, r := range results {
		if r.Input != inputs[i] || r.Value != "out:"+inputs[i] {
			t.Errorf("result %d = %+v, out of order", i, r)
		}
	}
}

func TestMapPropagatesErrors(t *testing.T) {
	bad := errors.New("bad input")
	results := Map([]string{"ok", "fail", "ok"}, 2, func(in string) (int, error) {
		if in == "fail" {
			return 0, bad
		}
		return len(in), nil
	})
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("good inputs carried an error")
	}
	if !errors.Is(results[1].Err, bad) {
		t.Errorf("results[1].Err = %v, want the job's error", results[1].Err)
	}
}

func TestMapEmpty(t *testing.T) {
	results := Map(nil, 4, func(in string) (int, error) { return 0, nil })
	if len(results) != 0 {
		t.Errorf("len = %d, want 0", len(results))
	}
}

func TestPoolLifecycle(t *testing.T) {
	p := NewPool(func(in string) (string, error) {
		return strings.ToUpper(in), nil
	}, 4)

	for i, in := range []string{"a", "b", "c"} {
		if !p.Submit(Job{ID: i, Input: in}) {
			t.Fatalf("Submit(%q) rejected before close", in)
		}
	}
	batch := p.CloseAndWait()

	if batch.TotalJobs != 3 || batch.CompletedJobs != 3 {
		t.Errorf("batch counted %d/%d, want 3/3", batch.CompletedJobs, batch.TotalJobs)
	}
	got := map[int]string{}
	for _, r := range batch.Results {
		got[r.ID] = r.Value
	}
	for i, want := range []string{"A", "B", "C"} {
		if got[i] != want {
			t.Errorf("job %d = %q, want %q", i, got[i], want)
		}
	}

	if p.Submit(Job{ID: 9, Input: "late"}) {
		t.Error("Submit accepted after close")
	}
	if again := p.CloseAndWait(); again.Results != nil {
		t.Error("second CloseAndWait returned results")
	}
}

func TestPoolStats(t *testing.T) {
	p := NewPool(func(in string) (int, error) { return len(in), nil }, 2)
	p.Submit(Job{ID: 0, Input: "xy"})
	p.Submit(Job{ID: 1, Input: "z"})
	p.CloseAndWait()

	s := p.Stats()
	if s.Workers != 2 {
		t.Errorf("workers = %d, want 2", s.Workers)
	}
	if s.JobsSubmitted != 2 || s.JobsCompleted != 2 {
		t.Errorf("stats = %d submitted %d completed, want 2 and 2", s.JobsSubmitted, s.JobsCompleted)
	}
}
