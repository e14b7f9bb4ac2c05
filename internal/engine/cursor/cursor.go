package cursor

import (
	"unicode"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// noPreferred marks a cursor without a remembered visual column.
const noPreferred = -1

// Cursor is the document's primary selection plus the visual column that
// vertical movement tries to return to.
type Cursor struct {
	sel       Selection
	preferred int
}

// New creates a cursor at offset 0.
func New() *Cursor {
	return &Cursor{preferred: noPreferred}
}

// Selection returns the current selection.
func (c *Cursor) Selection() Selection {
	return c.sel
}

// Head returns the offset where typing occurs.
func (c *Cursor) Head() Offset {
	return c.sel.Head
}

// HasSelection returns true if the selection has extent.
func (c *Cursor) HasSelection() bool {
	return !c.sel.IsEmpty()
}

// Set replaces the selection and forgets the preferred column.
func (c *Cursor) Set(sel Selection) {
	c.sel = sel
	c.preferred = noPreferred
}

// MoveTo collapses the selection at offset.
func (c *Cursor) MoveTo(offset Offset) {
	c.Set(Point(offset))
}

// RemapInsert re-anchors the selection after an insertion and clamps it
// to the new document length.
func (c *Cursor) RemapInsert(at, length, docLen Offset) {
	c.sel = c.sel.RemapInsert(at, length).Clamp(docLen)
	c.preferred = noPreferred
}

// RemapDelete re-anchors the selection after a deletion and clamps it
// to the new document length.
func (c *Cursor) RemapDelete(start, end, docLen Offset) {
	c.sel = c.sel.RemapDelete(start, end).Clamp(docLen)
	c.preferred = noPreferred
}

// Clamp keeps the selection inside [0, docLen].
func (c *Cursor) Clamp(docLen Offset) {
	c.sel = c.sel.Clamp(docLen)
}

// Move applies a motion. With extend set only the head moves; otherwise
// the selection collapses at the target. pageLines is the viewport height
// used by page motions.
func (c *Cursor) Move(t Text, m Motion, extend bool, pageLines int) {
	from := c.sel.Head
	var target Offset

	switch m {
	case MotionUp, MotionDown, MotionPageUp, MotionPageDown:
		if c.preferred == noPreferred {
			p := t.OffsetToPoint(from)
			c.preferred = VisualColumn(t.LineText(p.Line), int(p.Column))
		}
		lines := 1
		if m == MotionPageUp || m == MotionPageDown {
			lines = max(pageLines, 1)
		}
		if m == MotionUp || m == MotionPageUp {
			lines = -lines
		}
		target = vertical(t, from, lines, c.preferred)
	default:
		c.preferred = noPreferred
		target = Target(t, from, m)
	}

	if extend {
		c.sel = c.sel.Extend(target)
	} else {
		c.sel = Point(target)
	}
}

// String returns a string representation of the cursor.
func (c *Cursor) String() string {
	return c.sel.String()
}

// vertical moves by delta lines, landing as close to visual column col
// as the target line allows. Moving past the first or last line goes to
// the document start or end.
func vertical(t Text, from Offset, delta, col int) Offset {
	p := t.OffsetToPoint(from)
	line := int64(p.Line) + int64(delta)
	switch {
	case line < 0:
		return 0
	case line >= int64(t.LineCount()):
		return t.Len()
	}
	text := t.LineText(uint32(line))
	return t.PointToOffset(buffer.Point{Line: uint32(line), Column: uint32(ColumnForVisual(text, col))})
}

// FirstNonBlank returns the column of the first non-space character of
// line, or the line length when the line is blank.
func FirstNonBlank(line string) int {
	col := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			return col
		}
		col++
	}
	return col
}

// LeadingIndent returns the leading whitespace of line.
func LeadingIndent(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}
