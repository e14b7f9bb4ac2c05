package tracking

import (
	"sync"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// DefaultMaxChanges is the default maximum number of changes to track.
const DefaultMaxChanges = 10000

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxChanges sets the maximum number of changes to track.
func WithMaxChanges(maxChanges int) TrackerOption {
	return func(t *Tracker) {
		if maxChanges > 0 {
			t.maxChanges = maxChanges
		}
	}
}

// Tracker keeps a bounded log of committed changes so that background
// consumers (the tokenizer) can catch up from the revision they last saw.
// All operations are thread-safe.
type Tracker struct {
	mu sync.RWMutex

	// Recent changes in a ring buffer
	changes    []Change
	head       int // Index of oldest entry
	count      int // Number of entries
	maxChanges int
}

// NewTracker creates a new change tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{maxChanges: DefaultMaxChanges}
	for _, opt := range opts {
		opt(t)
	}
	t.changes = make([]Change, t.maxChanges)
	return t
}

// Record appends a change, dropping the oldest one when full.
func (t *Tracker) Record(c Change) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := (t.head + t.count) % t.maxChanges
	if t.count < t.maxChanges {
		t.count++
	} else {
		// Ring buffer is full, advance head
		t.head = (t.head + 1) % t.maxChanges
	}
	t.changes[idx] = c
}

// ChangesSince returns all changes after rev in chronological order.
// complete is false when older changes were already dropped, in which case
// the caller must treat the whole document as changed.
func (t *Tracker) ChangesSince(rev buffer.Revision) (changes []Change, complete bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := 0; i < t.count; i++ {
		c := t.changes[(t.head+i)%t.maxChanges]
		if c.Revision > rev {
			changes = append(changes, c)
		}
	}
	complete = t.count == 0 || t.changes[t.head].Revision <= rev+1 || hasReset(changes)
	return changes, complete
}

func hasReset(changes []Change) bool {
	for _, c := range changes {
		if c.Type == ChangeReset {
			return true
		}
	}
	return false
}

// ChangesBetween returns changes in (startRev, endRev].
func (t *Tracker) ChangesBetween(startRev, endRev buffer.Revision) []Change {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var result []Change
	for i := 0; i < t.count; i++ {
		c := t.changes[(t.head+i)%t.maxChanges]
		if c.Revision > startRev && c.Revision <= endRev {
			result = append(result, c)
		}
	}
	return result
}

// LatestChanges returns the most recent n changes in chronological order.
func (t *Tracker) LatestChanges(n int) []Change {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.count)
	result := make([]Change, n)
	for i := 0; i < n; i++ {
		idx := (t.head + t.count - n + i) % t.maxChanges
		result[i] = t.changes[idx]
	}
	return result
}

// ChangeCount returns the number of tracked changes.
func (t *Tracker) ChangeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// LastRevision returns the revision of the newest change, or 0.
func (t *Tracker) LastRevision() buffer.Revision {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.count == 0 {
		return 0
	}
	return t.changes[(t.head+t.count-1)%t.maxChanges].Revision
}

// Clear drops every tracked change.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.changes)
	t.head = 0
	t.count = 0
}

// ByteSpan returns the smallest byte range of the NEW text that covers
// every change in changes, mapping earlier ranges through later edits.
// ok is false when changes is empty.
func ByteSpan(changes []Change) (span buffer.ByteRange, ok bool) {
	for _, c := range changes {
		if !ok {
			span = c.NewByteRange()
			ok = true
			continue
		}
		span = mapSpan(span, c)
	}
	return span, ok
}

// mapSpan moves span, expressed in the text before c, into the text after
// c and widens it to include c.
func mapSpan(span buffer.ByteRange, c Change) buffer.ByteRange {
	shift := func(o int64) int64 {
		switch {
		case o >= c.ByteRange.End:
			return o + c.Delta()
		case o > c.ByteRange.Start:
			return c.ByteRange.Start
		default:
			return o
		}
	}
	out := buffer.ByteRange{Start: shift(span.Start), End: shift(span.End)}
	changed := c.NewByteRange()
	out.Start = min(out.Start, changed.Start)
	out.End = max(out.End, changed.End)
	return out
}
