package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/normalize"
	"github.com/dshills/inkwell/internal/engine/tracking"
)

// Re-export commonly used types for convenience.
type (
	// Offset is a character position in the document.
	Offset = buffer.Offset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a character range in the document.
	Range = buffer.Range

	// Revision identifies a document state.
	Revision = buffer.Revision

	// Selection represents the primary selection.
	Selection = cursor.Selection

	// Change represents a committed change.
	Change = tracking.Change
)

// ChangeListener is called after every committed change, outside the
// engine lock. Listeners may read from the engine.
type ChangeListener func(Change)

// Engine binds the document, the primary selection, range markers, the
// undo history and the change log into one edit pipeline.
//
// Every mutation runs the same all-or-nothing sequence: normalize the
// inserted text, mutate the buffer, record the delta, re-anchor the
// selection and markers, then publish the change. If recording fails the
// buffer is restored and nothing else is touched.
type Engine struct {
	mu sync.RWMutex

	// Core components
	buf     *buffer.Buffer
	cur     *cursor.Cursor
	markers *cursor.MarkerSet
	history *history.History
	tracker *tracking.Tracker

	listeners  []ChangeListener
	pending    []Change
	findQuery  string
	autoIndent bool

	// Configuration
	maxUndoGroups int
	maxChanges    int
	groupWindow   time.Duration
	now           func() time.Time
	readOnly      bool
	logger        *zap.Logger

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoGroups: DefaultMaxUndoGroups,
		maxChanges:    DefaultMaxChanges,
		groupWindow:   DefaultGroupWindow,
		now:           time.Now,
		autoIndent:    true,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.now == nil {
		e.now = time.Now
	}

	e.buf = buffer.NewFromString(normalize.String(e.initContent))
	e.initContent = ""
	e.cur = cursor.New()
	e.markers = cursor.NewMarkerSet()
	e.history = history.New(
		history.WithMaxGroups(e.maxUndoGroups),
		history.WithGroupWindow(e.groupWindow),
		history.WithClock(e.now),
		history.WithLogger(e.logger),
	)
	e.tracker = tracking.NewTracker(tracking.WithMaxChanges(e.maxChanges))
	e.logger = e.logger.Named("engine")
	return e
}

// ============================================================================
// Read Operations
// ============================================================================

// Snapshot returns an immutable view of the document for background readers.
func (e *Engine) Snapshot() buffer.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// Text returns the full document.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.String()
}

// Bytes returns the full document for saving.
func (e *Engine) Bytes() []byte {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Bytes()
}

// Len returns the document length in characters.
func (e *Engine) Len() Offset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// LineText returns the text of a line without its newline.
func (e *Engine) LineText(line uint32) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineText(line)
}

// Slice returns the text in [start, end).
func (e *Engine) Slice(start, end Offset) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Slice(start, end)
}

// OffsetToPoint converts an offset to line/column.
func (e *Engine) OffsetToPoint(offset Offset) Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.OffsetToPoint(offset)
}

// PointToOffset converts line/column to an offset.
func (e *Engine) PointToOffset(p Point) Offset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.PointToOffset(p)
}

// Revision returns the current document revision.
func (e *Engine) Revision() Revision {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Revision()
}

// IsReadOnly returns true if edits are rejected.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// ============================================================================
// Change Notification
// ============================================================================

// Subscribe registers a change listener and returns a function that
// removes it.
func (e *Engine) Subscribe(l ChangeListener) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
	idx := len(e.listeners) - 1
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if idx < len(e.listeners) {
			e.listeners[idx] = nil
		}
	}
}

// ChangesSince returns the changes after rev and whether the log still
// holds all of them.
func (e *Engine) ChangesSince(rev Revision) ([]Change, bool) {
	return e.tracker.ChangesSince(rev)
}

// mutate runs fn under the write lock and then delivers the changes it
// committed to listeners with the lock released.
func (e *Engine) mutate(fn func() error) error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	err := fn()
	pending := e.pending
	e.pending = nil
	listeners := append([]ChangeListener(nil), e.listeners...)
	e.mu.Unlock()

	for _, c := range pending {
		for _, l := range listeners {
			if l != nil {
				l(c)
			}
		}
	}
	return err
}

// ============================================================================
// Edit Pipeline
// ============================================================================

// replaceLocked replaces [start, end) with text, which must already be
// normalized, and records it as one delta of the given kind.
func (e *Engine) replaceLocked(start, end Offset, text string, kind history.EditKind) error {
	if start == end && text == "" {
		return nil
	}
	before := e.buf.Snapshot()
	selBefore := e.cur.Selection()

	removed, err := e.buf.Replace(start, end, text)
	if err != nil {
		return err
	}

	delta := history.Delta{Offset: start, Removed: removed, Inserted: text, Time: e.now()}
	selAfter := remapSelection(selBefore, delta, e.buf.Len())
	if err := e.history.Record(delta, kind, selBefore, selAfter); err != nil {
		e.buf.Restore(before)
		return fmt.Errorf("record %s: %w", kind, err)
	}

	e.cur.Set(selAfter)
	e.remapMarkers(delta)
	e.publish(before, delta)
	return nil
}

// applyDelta is the replay path used by undo, redo and cancel: it mutates
// the buffer and re-anchors markers without recording history.
func (e *Engine) applyDelta(d history.Delta) error {
	end := d.Offset + d.RemovedLen()
	if end > e.buf.Len() {
		return fmt.Errorf("%w: [%d:%d) past length %d", ErrStaleDelta, d.Offset, end, e.buf.Len())
	}
	before := e.buf.Snapshot()
	current, err := e.buf.Slice(d.Offset, end)
	if err != nil {
		return err
	}
	if current != d.Removed {
		return fmt.Errorf("%w: at %d", ErrStaleDelta, d.Offset)
	}
	if _, err := e.buf.Replace(d.Offset, end, d.Inserted); err != nil {
		return err
	}
	e.cur.Set(remapSelection(e.cur.Selection(), d, e.buf.Len()))
	e.remapMarkers(d)
	e.publish(before, d)
	return nil
}

func (e *Engine) remapMarkers(d history.Delta) {
	if n := d.RemovedLen(); n > 0 {
		e.markers.RemapDelete(d.Offset, d.Offset+n)
	}
	if n := d.InsertedLen(); n > 0 {
		e.markers.RemapInsert(d.Offset, n)
	}
}

func (e *Engine) publish(before buffer.Snapshot, d history.Delta) {
	c := tracking.NewChange(before, e.buf.Snapshot(), d.Offset, d.Removed, d.Inserted)
	e.tracker.Record(c)
	e.pending = append(e.pending, c)
	e.logger.Debug("change committed",
		zap.Stringer("type", c.Type),
		zap.Int64("offset", d.Offset),
		zap.Uint64("revision", uint64(c.Revision)))
}

// remapSelection applies a delta's remap rules to sel and clamps it.
func remapSelection(sel Selection, d history.Delta, docLen Offset) Selection {
	if n := d.RemovedLen(); n > 0 {
		sel = sel.RemapDelete(d.Offset, d.Offset+n)
	}
	if n := d.InsertedLen(); n > 0 {
		sel = sel.RemapInsert(d.Offset, n)
	}
	return sel.Clamp(docLen)
}

// replayTarget adapts the engine to history.Target. The engine lock is
// already held by the caller.
type replayTarget struct {
	e *Engine
}

func (t replayTarget) Apply(d history.Delta) error {
	return t.e.applyDelta(d)
}

// transaction runs fn as one undo group. If fn fails the deltas it
// recorded are reverted.
func (e *Engine) transaction(name string, fn func() error) error {
	e.history.Begin(name)
	if err := fn(); err != nil {
		if cerr := e.history.Cancel(replayTarget{e}); cerr != nil {
			e.logger.Error("transaction rollback failed", zap.String("name", name), zap.Error(cerr))
		}
		return err
	}
	return e.history.Commit()
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the most recent undo group and restores the selection it
// started from.
func (e *Engine) Undo() error {
	return e.mutate(func() error {
		g, err := e.history.Undo(replayTarget{e})
		if err != nil {
			return err
		}
		e.cur.Set(g.SelBefore.Clamp(e.buf.Len()))
		return nil
	})
}

// Redo re-applies the most recently undone group and restores the
// selection it ended with.
func (e *Engine) Redo() error {
	return e.mutate(func() error {
		g, err := e.history.Redo(replayTarget{e})
		if err != nil {
			return err
		}
		e.cur.Set(g.SelAfter.Clamp(e.buf.Len()))
		return nil
	})
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// SealUndoGroup closes the open undo group.
func (e *Engine) SealUndoGroup() {
	e.history.Seal()
}

// SetGroupWindow changes the undo grouping window.
func (e *Engine) SetGroupWindow(d time.Duration) {
	e.history.SetGroupWindow(d)
}

// SetAutoIndent toggles auto-indent on newline.
func (e *Engine) SetAutoIndent(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoIndent = enabled
}

// MarkSaved records the current state as saved.
func (e *Engine) MarkSaved() {
	e.history.MarkSaved()
}

// Modified reports whether the document changed since the last save.
func (e *Engine) Modified() bool {
	return e.history.Modified()
}

// ============================================================================
// Content Replacement
// ============================================================================

// SetContent replaces the whole document, as when a file is loaded.
// History, markers and the selection are reset, and the new state counts
// as saved.
func (e *Engine) SetContent(content string) {
	e.mu.Lock()
	before := e.buf.Snapshot()
	e.buf.Reset(normalize.String(content))
	e.history.Clear()
	e.tracker.Clear()
	e.cur.MoveTo(0)
	e.markers = cursor.NewMarkerSet()
	e.findQuery = ""

	c := tracking.NewResetChange(before, e.buf.Snapshot())
	e.tracker.Record(c)
	listeners := append([]ChangeListener(nil), e.listeners...)
	e.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(c)
		}
	}
}
