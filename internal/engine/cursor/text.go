package cursor

import "github.com/dshills/inkwell/internal/engine/buffer"

// Text is the read-only document view movement works against.
// Both *buffer.Buffer and buffer.Snapshot satisfy it.
type Text interface {
	Len() Offset
	LineCount() uint32
	LineToOffset(line uint32) Offset
	LineEndOffset(line uint32) Offset
	LineText(line uint32) string
	OffsetToPoint(offset Offset) buffer.Point
	PointToOffset(p buffer.Point) Offset
	RuneAt(offset Offset) (rune, bool)
}

var (
	_ Text = (*buffer.Buffer)(nil)
	_ Text = buffer.Snapshot{}
)
