package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the grouping state of a History.
type State uint8

const (
	// StateIdle means no group is open; the next record starts one.
	StateIdle State = iota
	// StateGrouping means the top undo group may still absorb edits.
	StateGrouping
	// StateReplaying means undo or redo is applying deltas.
	StateReplaying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGrouping:
		return "grouping"
	case StateReplaying:
		return "replaying"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// History manages the undo and redo stacks of a document.
//
// Consecutive edits of the same kind that arrive within the group window
// share one undo group. Replaces, explicit transactions, undo, redo and
// save points always close the open group.
type History struct {
	mu sync.Mutex

	undo []*Group
	redo []*Group

	state State
	tx    *Group
	depth int
	// txRedo is the redo stack as it was when the transaction began.
	txRedo []*Group

	seq   uint64
	saved uint64

	window    time.Duration
	maxGroups int
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a history manager.
func New(opts ...Option) *History {
	h := &History{
		window:    DefaultGroupWindow,
		maxGroups: DefaultMaxGroups,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record adds an applied delta. selBefore is the selection before the
// edit, selAfter the one after it. Record clears the redo stack; Cancel
// restores it for edits made inside a transaction.
// It fails with ErrReplaying while undo or redo is in progress.
func (h *History) Record(d Delta, kind EditKind, selBefore, selAfter Selection) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == StateReplaying {
		return ErrReplaying
	}
	if d.Time.IsZero() {
		d.Time = h.now()
	}
	h.redo = nil

	if h.tx != nil {
		if len(h.tx.Deltas) == 0 {
			h.tx.SelBefore = selBefore
			h.tx.Kind = kind
		}
		h.tx.Deltas = append(h.tx.Deltas, d)
		h.tx.SelAfter = selAfter
		return nil
	}

	if top := h.openGroup(); top != nil && kind != KindReplace && top.Kind == kind &&
		d.Time.Sub(top.last().Time) <= h.window {
		top.Deltas = append(top.Deltas, d)
		top.SelAfter = selAfter
		return nil
	}

	h.sealLocked()
	h.push(&Group{
		Kind:      kind,
		Deltas:    []Delta{d},
		SelBefore: selBefore,
		SelAfter:  selAfter,
	})
	h.state = StateGrouping
	return nil
}

// openGroup returns the top undo group if it can still absorb edits.
func (h *History) openGroup() *Group {
	if h.state != StateGrouping || len(h.undo) == 0 {
		return nil
	}
	top := h.undo[len(h.undo)-1]
	if top.Sealed {
		return nil
	}
	return top
}

// push appends g to the undo stack with a fresh sequence number and drops
// the oldest groups beyond the bound.
func (h *History) push(g *Group) {
	h.seq++
	g.Seq = h.seq
	h.undo = append(h.undo, g)
	if excess := len(h.undo) - h.maxGroups; excess > 0 {
		h.undo = append([]*Group(nil), h.undo[excess:]...)
		h.logger.Debug("dropped oldest undo groups", zap.Int("count", excess))
	}
}

// Seal closes the open group so the next edit starts a new one.
func (h *History) Seal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sealLocked()
}

func (h *History) sealLocked() {
	if g := h.openGroup(); g != nil {
		g.Sealed = true
	}
	if h.state == StateGrouping {
		h.state = StateIdle
	}
}

// Begin starts an explicit transaction. Every delta recorded until the
// matching Commit joins a single group regardless of kind or timing.
// Nested calls join the outer transaction.
func (h *History) Begin(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.depth++
	if h.tx != nil {
		return
	}
	h.sealLocked()
	h.tx = &Group{Name: name}
	h.txRedo = h.redo
}

// Commit ends the transaction started by Begin. An empty transaction
// leaves no group behind.
func (h *History) Commit() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tx == nil {
		return ErrNoTransaction
	}
	h.depth--
	if h.depth > 0 {
		return nil
	}
	g := h.tx
	h.tx = nil
	h.txRedo = nil
	if len(g.Deltas) == 0 {
		return nil
	}
	g.Sealed = true
	h.push(g)
	h.state = StateIdle
	h.logger.Debug("transaction committed",
		zap.String("name", g.Name), zap.Int("deltas", len(g.Deltas)))
	return nil
}

// Cancel abandons the transaction, reverting its deltas through t and
// restoring the redo stack it cleared. The whole transaction is cancelled
// even when nested.
func (h *History) Cancel(t Target) error {
	h.mu.Lock()
	g := h.tx
	if g == nil {
		h.mu.Unlock()
		return ErrNoTransaction
	}
	h.tx = nil
	h.depth = 0
	h.redo = h.txRedo
	h.txRedo = nil
	h.state = StateReplaying
	h.mu.Unlock()

	err := g.undo(t)

	h.mu.Lock()
	h.state = StateIdle
	h.mu.Unlock()
	if err != nil {
		return fmt.Errorf("cancel %q: %w", g.Name, err)
	}
	return nil
}

// InTransaction returns true between Begin and the matching Commit.
func (h *History) InTransaction() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tx != nil
}

// Undo reverts the most recent group through t and returns it so the
// caller can restore SelBefore. If applying an inverse fails, the group's
// deltas are rolled forward again and the group stays on the undo stack.
func (h *History) Undo(t Target) (*Group, error) {
	h.mu.Lock()
	if h.tx != nil {
		h.mu.Unlock()
		return nil, ErrTransactionOpen
	}
	h.sealLocked()
	if len(h.undo) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	g := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.state = StateReplaying
	h.mu.Unlock()

	// Apply without holding the lock; Record calls during replay fail
	// with ErrReplaying instead of deadlocking.
	err := g.undo(t)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateIdle
	if err != nil {
		h.undo = append(h.undo, g)
		h.logger.Warn("undo failed", zap.Uint64("seq", g.Seq), zap.Error(err))
		return nil, fmt.Errorf("undo: %w", err)
	}
	h.redo = append(h.redo, g)
	return g, nil
}

// Redo re-applies the most recently undone group through t and returns it
// so the caller can restore SelAfter.
func (h *History) Redo(t Target) (*Group, error) {
	h.mu.Lock()
	if h.tx != nil {
		h.mu.Unlock()
		return nil, ErrTransactionOpen
	}
	h.sealLocked()
	if len(h.redo) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	g := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.state = StateReplaying
	h.mu.Unlock()

	err := g.redo(t)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateIdle
	if err != nil {
		h.redo = append(h.redo, g)
		h.logger.Warn("redo failed", zap.Uint64("seq", g.Seq), zap.Error(err))
		return nil, fmt.Errorf("redo: %w", err)
	}
	h.undo = append(h.undo, g)
	return g, nil
}

// MarkSaved records the current undo position as the saved state and
// seals the open group.
func (h *History) MarkSaved() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sealLocked()
	h.saved = h.topSeq()
}

// Modified reports whether the document differs from the last save point.
func (h *History) Modified() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tx != nil && len(h.tx.Deltas) > 0 {
		return true
	}
	return h.topSeq() != h.saved
}

func (h *History) topSeq() uint64 {
	if len(h.undo) == 0 {
		return 0
	}
	return h.undo[len(h.undo)-1].Seq
}

// State returns the current grouping state.
func (h *History) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// SetGroupWindow changes the grouping window, as on config reload.
func (h *History) SetGroupWindow(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d >= 0 {
		h.window = d
	}
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoCount returns the number of undo groups available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoCount returns the number of redo groups available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// Clear drops all history, as when a new file is loaded. The empty state
// counts as saved.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
	h.tx = nil
	h.txRedo = nil
	h.depth = 0
	h.state = StateIdle
	h.saved = h.topSeq()
}

// rollback runs restore after a failed apply and reports both failures.
func rollback(err error, restore func() error) error {
	if rerr := restore(); rerr != nil {
		return errors.Join(err, fmt.Errorf("rollback: %w", rerr))
	}
	return err
}
