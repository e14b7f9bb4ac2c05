// Package kernel runs notebook cells on an executor off the event loop.
//
// An Executor evaluates one cell at a time. A Runner owns an executor and
// runs batches of cells on a goroutine, one batch at a time, reporting each
// Result through a callback. Interrupt cancels the running batch.
package kernel

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Request asks an executor to evaluate one cell.
type Request struct {
	ID uuid.UUID
	// Cell is the cell index in the document.
	Cell   int
	Source string
}

// NewRequest creates a request with a fresh ID.
func NewRequest(cell int, source string) Request {
	return Request{ID: uuid.New(), Cell: cell, Source: source}
}

// Result is the outcome of one Request.
type Result struct {
	ID uuid.UUID
	// Batch is the ID returned by Runner.Submit.
	Batch    uuid.UUID
	Cell     int
	Output   string
	Err      error
	Duration time.Duration
	// Last is set on the final result of a batch.
	Last bool
}

// Executor evaluates cells. Implementations keep state between calls, so
// later cells see what earlier ones defined. Execute must return promptly
// once ctx is cancelled.
type Executor interface {
	Name() string
	Execute(ctx context.Context, req Request) Result
	Close() error
}

// Func adapts a function to the Executor interface.
type Func func(ctx context.Context, source string) (string, error)

// Name returns "func".
func (f Func) Name() string { return "func" }

// Execute calls f and times it.
func (f Func) Execute(ctx context.Context, req Request) Result {
	start := time.Now()
	out, err := f(ctx, req.Source)
	return Result{ID: req.ID, Cell: req.Cell, Output: out, Err: err, Duration: time.Since(start)}
}

// Close does nothing.
func (f Func) Close() error { return nil }
