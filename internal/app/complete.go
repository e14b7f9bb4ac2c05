package app

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/renderer"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/core"
)

const (
	maxCompletions = 50
	popupRows      = 8
)

// completion is an open word completion list.
type completion struct {
	start    engine.Offset
	prefix   string
	items    []string
	selected int
	top      int // first visible item
}

func (c *completion) move(d int) {
	n := len(c.items)
	c.selected = ((c.selected+d)%n + n) % n
	if c.selected < c.top {
		c.top = c.selected
	}
	if c.selected >= c.top+popupRows {
		c.top = c.selected - popupRows + 1
	}
}

// complete opens the completion list for the word before the cursor. A
// single candidate is inserted directly.
func (s *Session) complete() error {
	start, prefix := s.eng.WordPrefix()
	if prefix == "" {
		s.info("No word to complete")
		return nil
	}
	items := s.eng.Completions(prefix, maxCompletions)
	switch len(items) {
	case 0:
		s.info(fmt.Sprintf("No completions for %q", prefix))
		return nil
	case 1:
		return s.eng.Complete(start, items[0])
	}
	s.completion = &completion{start: start, prefix: prefix, items: items}
	return nil
}

// handleCompletion routes a key to the open completion list and reports
// whether the list consumed it. Any other key closes the list and is then
// handled as usual.
func (s *Session) handleCompletion(ev backend.Event) bool {
	c := s.completion
	switch ev.Key {
	case backend.KeyUp:
		c.move(-1)
	case backend.KeyDown:
		c.move(1)
	case backend.KeyTab, backend.KeyEnter:
		s.completion = nil
		s.follow = true
		if err := s.eng.Complete(c.start, c.items[c.selected]); err != nil {
			s.fail(NewOperationError("complete", "", err))
		}
		s.eng.UpdateBrackets()
	case backend.KeyEscape:
		s.completion = nil
	default:
		s.completion = nil
		return false
	}
	return true
}

// drawCompletion overlays the list below the cursor, or above it when
// there is no room below.
func (s *Session) drawCompletion(f *renderer.Frame) {
	c := s.completion
	if c == nil || !f.CursorVisible {
		return
	}
	rows := min(len(c.items), popupRows)
	width := 0
	for _, it := range c.items {
		width = max(width, runewidth.StringWidth(it))
	}
	width = min(width+2, f.Width)

	x := max(min(f.CursorX-runewidth.StringWidth(c.prefix), f.Width-width), 0)
	y := f.CursorY + 1
	if y+rows > f.Height && f.CursorY >= rows {
		y = f.CursorY - rows
	}
	for i := range rows {
		idx := c.top + i
		style := s.theme.Popup
		if idx == c.selected {
			style = s.theme.PopupSelected
		}
		text := runewidth.Truncate(" "+c.items[idx], width, "…")
		f.Overlay(x, y+i, fitRow(core.CellsFromString(text, style), width, style))
	}
}
