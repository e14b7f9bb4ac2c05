// Package clipboard defines the clipboard collaborator and an in-memory
// implementation.
//
// Reads are asynchronous: Requests starts a read on a goroutine and hands
// the Response to a callback. Only the latest request is pending; starting
// a new one cancels the previous read, and Accept drops responses that are
// no longer pending.
package clipboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a clipboard read.
const DefaultTimeout = 2 * time.Second

// Reader reads clipboard text.
type Reader interface {
	Read(ctx context.Context) (string, error)
}

// Writer replaces clipboard text.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// Clipboard reads and writes.
type Clipboard interface {
	Reader
	Writer
}

// Memory is a process-local clipboard.
type Memory struct {
	mu    sync.Mutex
	text  string
	delay time.Duration
}

// NewMemory creates an empty clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// SetDelay makes each read wait d, honoring cancellation.
func (m *Memory) SetDelay(d time.Duration) {
	m.mu.Lock()
	m.delay = d
	m.mu.Unlock()
}

func (m *Memory) Read(ctx context.Context) (string, error) {
	m.mu.Lock()
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}

// Response is the outcome of one read request.
type Response struct {
	ID   uuid.UUID
	Text string
	Err  error
}

// Requests issues asynchronous reads with at most one pending.
type Requests struct {
	r       Reader
	timeout time.Duration

	mu      sync.Mutex
	pending uuid.UUID
	cancel  context.CancelFunc
}

// NewRequests creates a request tracker for r. A zero timeout uses
// DefaultTimeout.
func NewRequests(r Reader, timeout time.Duration) *Requests {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Requests{r: r, timeout: timeout}
}

// Request starts a read, cancelling any pending one, and returns its ID.
// done runs on the reading goroutine.
func (q *Requests) Request(parent context.Context, done func(Response)) uuid.UUID {
	ctx, cancel := context.WithTimeout(parent, q.timeout)
	id := uuid.New()

	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.pending = id
	q.cancel = cancel
	q.mu.Unlock()

	go func() {
		defer cancel()
		text, err := q.r.Read(ctx)
		done(Response{ID: id, Text: text, Err: err})
	}()
	return id
}

// Pending returns the ID of the pending request, or uuid.Nil.
func (q *Requests) Pending() uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// Accept reports whether resp answers the pending request and, if so,
// clears it.
func (q *Requests) Accept(resp Response) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if resp.ID == uuid.Nil || resp.ID != q.pending {
		return false
	}
	q.pending = uuid.Nil
	q.cancel = nil
	return true
}

// Cancel abandons the pending request.
func (q *Requests) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil {
		q.cancel()
	}
	q.pending = uuid.Nil
	q.cancel = nil
}

// WriteAsync writes text on a goroutine and reports the error, if any, to
// done.
func WriteAsync(ctx context.Context, w Writer, text string, done func(error)) {
	go func() {
		ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
		if err := w.Write(ctx, text); done != nil {
			done(err)
		}
	}()
}
