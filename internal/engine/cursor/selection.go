package cursor

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// Offset is an alias for buffer.Offset for convenience.
type Offset = buffer.Offset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is the current cursor position.
// When Anchor == Head, this represents a cursor with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor Offset // Where selection started
	Head   Offset // Current cursor position (where typing occurs)
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head Offset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Point creates a selection representing just a cursor (no extent).
func Point(offset Offset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// FromRange creates a forward selection covering r.
func FromRange(r Range) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// IsEmpty returns true if the selection has no extent (just a cursor).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the length of the selection in characters.
func (s Selection) Len() Offset {
	return s.End() - s.Start()
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Offset {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() Offset {
	return max(s.Anchor, s.Head)
}

// IsBackward returns true if the selection extends backward (head < anchor).
func (s Selection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Extend returns a new selection with the anchor fixed and head at offset.
func (s Selection) Extend(offset Offset) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// MoveTo returns a new collapsed selection (cursor) at the given offset.
func (s Selection) MoveTo(offset Offset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// Collapse collapses the selection to a cursor at the head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head}
}

// Contains returns true if the given offset is within [Start, End).
// For empty selections (cursors), this always returns false.
func (s Selection) Contains(offset Offset) bool {
	return offset >= s.Start() && offset < s.End()
}

// Clamp returns a selection clamped to the valid range [0, maxOffset].
func (s Selection) Clamp(maxOffset Offset) Selection {
	return Selection{
		Anchor: clampOffset(s.Anchor, maxOffset),
		Head:   clampOffset(s.Head, maxOffset),
	}
}

// RemapInsert re-anchors both ends after length characters were inserted
// at offset at.
func (s Selection) RemapInsert(at, length Offset) Selection {
	return Selection{
		Anchor: RemapInsert(s.Anchor, at, length),
		Head:   RemapInsert(s.Head, at, length),
	}
}

// RemapDelete re-anchors both ends after [start, end) was deleted.
// A selection that straddled the deleted range shrinks; it never
// collapses unless both ends fell inside the range.
func (s Selection) RemapDelete(start, end Offset) Selection {
	return Selection{
		Anchor: RemapDelete(s.Anchor, start, end),
		Head:   RemapDelete(s.Head, start, end),
	}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}

func clampOffset(o, maxOffset Offset) Offset {
	if o < 0 {
		return 0
	}
	if o > maxOffset {
		return maxOffset
	}
	return o
}
