package kernel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single batch.
const DefaultTimeout = 30 * time.Second

// Runner serializes batches of cells onto its executor.
type Runner struct {
	exec    Executor
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
	batch   uuid.UUID
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each batch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner for exec.
func NewRunner(exec Executor, opts ...Option) *Runner {
	r := &Runner{
		exec:    exec,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("kernel").With(zap.String("executor", exec.Name()))
	return r
}

// Name returns the executor name.
func (r *Runner) Name() string { return r.exec.Name() }

// Submit runs reqs in order on a new goroutine and calls done with each
// result, the last one flagged. A cancelled batch reports the remaining
// requests with the context error. Submit returns ErrBusy while another
// batch runs and ErrClosed after Close.
func (r *Runner) Submit(parent context.Context, reqs []Request, done func(Result)) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return uuid.Nil, ErrClosed
	}
	if r.running {
		return uuid.Nil, ErrBusy
	}
	if len(reqs) == 0 {
		return uuid.Nil, nil
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, r.timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	id := uuid.New()
	r.running = true
	r.batch = id
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(ctx, cancel, id, reqs, done)
	return id, nil
}

func (r *Runner) run(ctx context.Context, cancel context.CancelFunc, id uuid.UUID, reqs []Request, done func(Result)) {
	defer r.wg.Done()
	defer cancel()

	r.logger.Debug("batch started", zap.Stringer("batch", id), zap.Int("cells", len(reqs)))
	report := func(res Result) {
		if res.Err != nil {
			r.logger.Debug("cell failed", zap.Int("cell", res.Cell), zap.Error(res.Err))
		}
		if done != nil {
			done(res)
		}
	}

	var last Result
	for i, req := range reqs {
		var res Result
		if err := ctx.Err(); err != nil {
			res = Result{Err: err}
		} else {
			res = r.exec.Execute(ctx, req)
			if res.Err != nil && ctx.Err() != nil && !errors.Is(res.Err, ctx.Err()) {
				res.Err = errors.Join(ctx.Err(), res.Err)
			}
		}
		res.ID, res.Cell, res.Batch = req.ID, req.Cell, id
		if i == len(reqs)-1 {
			res.Last = true
			last = res
			break
		}
		report(res)
	}

	// The batch is over before the final callback so a handler may submit
	// the next one.
	r.mu.Lock()
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	report(last)
	r.logger.Debug("batch finished", zap.Stringer("batch", id))
}

// Running reports whether a batch is in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Interrupt cancels the running batch. It reports false when idle.
func (r *Runner) Interrupt() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running || r.cancel == nil {
		return false
	}
	r.cancel()
	r.logger.Info("batch interrupted", zap.Stringer("batch", r.batch))
	return true
}

// Close interrupts any batch, waits for it and closes the executor.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
	return r.exec.Close()
}
