package engine

import (
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/normalize"
)

// ============================================================================
// Text Editing
// ============================================================================

// InsertText inserts text at the cursor, replacing the selection if any.
// The text is normalized before insertion.
func (e *Engine) InsertText(text string) error {
	text = normalize.String(text)
	return e.mutate(func() error {
		return e.insertLocked(text)
	})
}

func (e *Engine) insertLocked(text string) error {
	sel := e.cur.Selection()
	if sel.IsEmpty() {
		return e.replaceLocked(sel.Head, sel.Head, text, history.KindInsert)
	}
	r := sel.Range()
	if text == "" {
		return e.replaceLocked(r.Start, r.End, "", history.KindDelete)
	}
	return e.replaceLocked(r.Start, r.End, text, history.KindReplace)
}

// InsertNewline breaks the line at the cursor. With auto-indent on, the new
// line starts with the leading whitespace of the current line. The newline
// and its indent form one undo group.
func (e *Engine) InsertNewline() error {
	return e.mutate(func() error {
		text := "\n"
		if e.autoIndent {
			sel := e.cur.Selection()
			start := sel.Start()
			p := e.buf.OffsetToPoint(start)
			line := []rune(e.buf.LineText(p.Line))
			prefix := string(line[:min(int(p.Column), len(line))])
			text += cursor.LeadingIndent(prefix)
		}
		return e.transaction("newline", func() error {
			return e.insertLocked(text)
		})
	})
}

// DeleteBackward deletes the selection, or the grapheme before the cursor.
func (e *Engine) DeleteBackward() error {
	return e.mutate(func() error {
		sel := e.cur.Selection()
		if !sel.IsEmpty() {
			r := sel.Range()
			return e.replaceLocked(r.Start, r.End, "", history.KindDelete)
		}
		if sel.Head == 0 {
			return nil
		}
		start := cursor.Target(e.buf, sel.Head, cursor.MotionLeft)
		return e.replaceLocked(start, sel.Head, "", history.KindDelete)
	})
}

// DeleteForward deletes the selection, or the grapheme after the cursor.
func (e *Engine) DeleteForward() error {
	return e.mutate(func() error {
		sel := e.cur.Selection()
		if !sel.IsEmpty() {
			r := sel.Range()
			return e.replaceLocked(r.Start, r.End, "", history.KindDelete)
		}
		if sel.Head >= e.buf.Len() {
			return nil
		}
		end := cursor.Target(e.buf, sel.Head, cursor.MotionRight)
		return e.replaceLocked(sel.Head, end, "", history.KindDelete)
	})
}

// DeleteRange deletes [start, end).
func (e *Engine) DeleteRange(start, end Offset) error {
	return e.mutate(func() error {
		return e.replaceLocked(start, end, "", history.KindDelete)
	})
}

// Replace replaces [start, end) with text as its own undo group.
func (e *Engine) Replace(start, end Offset, text string) error {
	text = normalize.String(text)
	return e.mutate(func() error {
		kind := history.KindReplace
		switch {
		case start == end:
			kind = history.KindInsert
		case text == "":
			kind = history.KindDelete
		}
		return e.replaceLocked(start, end, text, kind)
	})
}

// ============================================================================
// Selection and Movement
// ============================================================================

// Selection returns the primary selection.
func (e *Engine) Selection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.Selection()
}

// Cursor returns the head of the primary selection.
func (e *Engine) Cursor() Offset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.Head()
}

// CursorPoint returns the head as line/column.
func (e *Engine) CursorPoint() Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.OffsetToPoint(e.cur.Head())
}

// HasSelection returns true if the selection has extent.
func (e *Engine) HasSelection() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.HasSelection()
}

// SetSelection replaces the primary selection, clamped to the document.
func (e *Engine) SetSelection(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur.Set(sel.Clamp(e.buf.Len()))
}

// MoveCursor collapses the selection at offset.
func (e *Engine) MoveCursor(offset Offset) {
	e.SetSelection(cursor.Point(offset))
}

// Move applies a motion to the cursor. Navigation never changes undo
// grouping. pageLines is the viewport height for page motions.
func (e *Engine) Move(m cursor.Motion, extend bool, pageLines int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur.Move(e.buf, m, extend, pageLines)
}

// SelectWord selects the word at offset.
func (e *Engine) SelectWord(offset Offset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur.Set(cursor.FromRange(cursor.WordAt(e.buf, offset)))
}

// SelectLine selects the line at offset including its newline.
func (e *Engine) SelectLine(offset Offset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur.Set(cursor.FromRange(cursor.LineAt(e.buf, offset)))
}

// SelectAll selects the whole document.
func (e *Engine) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur.Set(cursor.NewSelection(0, e.buf.Len()))
}

// SelectedText returns the selected text, or "" with no selection.
func (e *Engine) SelectedText() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedLocked()
}

func (e *Engine) selectedLocked() string {
	r := e.cur.Selection().Range()
	if r.IsEmpty() {
		return ""
	}
	text, err := e.buf.Slice(r.Start, r.End)
	if err != nil {
		return ""
	}
	return text
}

// ============================================================================
// Clipboard
// ============================================================================

// Copy returns the selected text for the clipboard.
func (e *Engine) Copy() (string, error) {
	text := e.SelectedText()
	if text == "" {
		return "", ErrNoSelection
	}
	return text, nil
}

// Cut removes the selection as one undo group and returns its text.
func (e *Engine) Cut() (string, error) {
	var text string
	err := e.mutate(func() error {
		text = e.selectedLocked()
		if text == "" {
			return ErrNoSelection
		}
		return e.transaction("cut", func() error {
			return e.insertLocked("")
		})
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Paste inserts raw clipboard text at the cursor, replacing the selection,
// as one undo group.
func (e *Engine) Paste(text string) error {
	text = normalize.String(text)
	if text == "" {
		return nil
	}
	return e.mutate(func() error {
		return e.transaction("paste", func() error {
			return e.insertLocked(text)
		})
	})
}
