package kernel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type collector struct {
	mu      sync.Mutex
	results []Result
	done    chan struct{}
}

func newCollector() *collector {
	return &collector{done: make(chan struct{})}
}

func (c *collector) add(r Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
	if r.Last {
		close(c.done)
	}
}

func (c *collector) wait(t *testing.T, n int) []Result {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not finish")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.results) != n {
		t.Fatalf("got %d results, want %d", len(c.results), n)
	}
	return append([]Result(nil), c.results...)
}

func upper() Func {
	return func(_ context.Context, src string) (string, error) {
		if src == "fail" {
			return "", errors.New("boom")
		}
		return strings.ToUpper(src), nil
	}
}

func mustSubmit(t *testing.T, r *Runner, reqs []Request, fn func(Result)) {
	t.Helper()
	if _, err := r.Submit(context.Background(), reqs, fn); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func TestRunnerBatch(t *testing.T) {
	r := NewRunner(upper())
	defer r.Close()

	reqs := []Request{NewRequest(0, "a"), NewRequest(2, "fail"), NewRequest(3, "c")}
	c := newCollector()
	batch, err := r.Submit(context.Background(), reqs, c.add)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	results := c.wait(t, 3)
	for i, res := range results {
		if res.ID != reqs[i].ID || res.Cell != reqs[i].Cell {
			t.Errorf("result %d is for cell %d, want %d", i, res.Cell, reqs[i].Cell)
		}
		if res.Batch != batch {
			t.Errorf("result %d Batch = %v, want %v", i, res.Batch, batch)
		}
		if res.Last != (i == 2) {
			t.Errorf("result %d Last = %v", i, res.Last)
		}
	}
	if results[0].Output != "A" || results[2].Output != "C" {
		t.Errorf("outputs = %q, %q", results[0].Output, results[2].Output)
	}
	if err := results[1].Err; err == nil || err.Error() != "boom" {
		t.Errorf("failed cell error = %v, want boom", err)
	}
	if r.Running() {
		t.Error("Running() = true after the batch")
	}
}

func TestRunnerBusy(t *testing.T) {
	release := make(chan struct{})
	r := NewRunner(Func(func(ctx context.Context, _ string) (string, error) {
		select {
		case <-release:
			return "ok", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}))
	defer r.Close()

	c := newCollector()
	mustSubmit(t, r, []Request{NewRequest(0, "x")}, c.add)
	if !r.Running() {
		t.Error("Running() = false during a batch")
	}

	if _, err := r.Submit(context.Background(), []Request{NewRequest(1, "y")}, nil); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit() error = %v, want ErrBusy", err)
	}

	close(release)
	if results := c.wait(t, 1); results[0].Output != "ok" {
		t.Errorf("Output = %q, want ok", results[0].Output)
	}
}

func TestRunnerInterrupt(t *testing.T) {
	started := make(chan struct{})
	r := NewRunner(Func(func(ctx context.Context, _ string) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	}))
	defer r.Close()

	if r.Interrupt() {
		t.Error("Interrupt() = true on an idle runner")
	}

	c := newCollector()
	mustSubmit(t, r, []Request{NewRequest(0, "loop"), NewRequest(1, "next")}, c.add)
	<-started
	if !r.Interrupt() {
		t.Error("Interrupt() = false during a batch")
	}

	// Remaining cells are skipped.
	for i, res := range c.wait(t, 2) {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i, res.Err)
		}
	}
}

func TestRunnerTimeout(t *testing.T) {
	r := NewRunner(Func(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), WithTimeout(10*time.Millisecond))
	defer r.Close()

	c := newCollector()
	mustSubmit(t, r, []Request{NewRequest(0, "x")}, c.add)
	if res := c.wait(t, 1)[0]; !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("Err = %v, want context.DeadlineExceeded", res.Err)
	}
}

func TestRunnerSubmitFromCallback(t *testing.T) {
	r := NewRunner(upper())
	defer r.Close()

	second := newCollector()
	errs := make(chan error, 1)
	first := func(res Result) {
		if res.Last {
			_, err := r.Submit(context.Background(), []Request{NewRequest(1, "b")}, second.add)
			errs <- err
		}
	}
	mustSubmit(t, r, []Request{NewRequest(0, "a")}, first)

	if err := <-errs; err != nil {
		t.Fatalf("Submit() from callback error = %v", err)
	}
	if res := second.wait(t, 1)[0]; res.Output != "B" {
		t.Errorf("Output = %q, want B", res.Output)
	}
}

func TestRunnerClosed(t *testing.T) {
	r := NewRunner(upper())
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if _, err := r.Submit(context.Background(), []Request{NewRequest(0, "a")}, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit() error = %v, want ErrClosed", err)
	}
}

func TestSubmitEmptyBatch(t *testing.T) {
	r := NewRunner(upper())
	defer r.Close()
	mustSubmit(t, r, nil, nil)
	if r.Running() {
		t.Error("Running() = true after an empty batch")
	}
}
