package lua

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/inkwell/internal/kernel"
)

func run(t *testing.T, e *Executor, src string) kernel.Result {
	t.Helper()
	return e.Execute(context.Background(), kernel.NewRequest(0, src))
}

// output runs src and fails the test on an execution error.
func output(t *testing.T, e *Executor, src string) string {
	t.Helper()
	res := run(t, e, src)
	if res.Err != nil {
		t.Fatalf("Execute(%q) error = %v", src, res.Err)
	}
	return res.Output
}

func TestExecutePrint(t *testing.T) {
	e := New()
	defer e.Close()

	if got := output(t, e, `print("a", 1) print(true)`); got != "a\t1\ntrue" {
		t.Errorf("Output = %q, want %q", got, "a\t1\ntrue")
	}
}

func TestExecuteExpression(t *testing.T) {
	e := New()
	defer e.Close()

	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2", "3"},
		{`string.upper("x"), 4`, "X\n4"},
	}
	for _, tt := range tests {
		if got := output(t, e, tt.src); got != tt.want {
			t.Errorf("Execute(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestExecuteKeepsGlobals(t *testing.T) {
	e := New()
	defer e.Close()

	output(t, e, "x = 20\nfunction double(n) return n * 2 end")
	if got := output(t, e, "double(x) + 2"); got != "42" {
		t.Errorf("Output = %q, want 42", got)
	}
}

func TestExecuteErrors(t *testing.T) {
	e := New()
	defer e.Close()

	res := run(t, e, `print("before") error("bad")`)
	if res.Err == nil || !strings.Contains(res.Err.Error(), "bad") {
		t.Errorf("Err = %v, want the raised error", res.Err)
	}
	// Output up to the error is kept.
	if res.Output != "before" {
		t.Errorf("Output = %q, want %q", res.Output, "before")
	}

	if res := run(t, e, "x = = 1"); res.Err == nil {
		t.Error("syntax error not reported")
	}
}

func TestSandbox(t *testing.T) {
	e := New()
	defer e.Close()

	for _, src := range []string{`os.exit(1)`, `io.write("x")`, `require("os")`, `dofile("/etc/passwd")`} {
		if res := run(t, e, src); res.Err == nil {
			t.Errorf("Execute(%q) succeeded, want an error", src)
		}
	}
}

func TestExecuteCancel(t *testing.T) {
	e := New()
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := e.Execute(ctx, kernel.NewRequest(3, "while true do end"))
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("Err = %v, want context.DeadlineExceeded", res.Err)
	}
	if res.Cell != 3 {
		t.Errorf("Cell = %d, want 3", res.Cell)
	}

	// The state stays usable after a cancelled run.
	if got := output(t, e, "1"); got != "1" {
		t.Errorf("Output = %q, want 1", got)
	}
}

func TestExecuteAfterClose(t *testing.T) {
	e := New()
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := run(t, e, "1").Err; !errors.Is(err, kernel.ErrClosed) {
		t.Errorf("Err = %v, want ErrClosed", err)
	}
}

func TestRunnerWithLua(t *testing.T) {
	r := kernel.NewRunner(New())
	defer r.Close()

	done := make(chan kernel.Result, 2)
	_, err := r.Submit(context.Background(), []kernel.Request{
		kernel.NewRequest(0, "n = 5"),
		kernel.NewRequest(1, "n * n"),
	}, func(res kernel.Result) { done <- res })
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	first, second := <-done, <-done
	if first.Err != nil {
		t.Fatalf("first cell error = %v", first.Err)
	}
	if second.Output != "25" || !second.Last {
		t.Errorf("second result = %+v, want last with output 25", second)
	}
	if r.Name() != Name {
		t.Errorf("Name() = %q, want %q", r.Name(), Name)
	}
}
