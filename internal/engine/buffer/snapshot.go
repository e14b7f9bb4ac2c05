package buffer

import (
	"io"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/rope"
)

// Snapshot is a read-only view of a buffer at one revision.
// It never changes, so it can be handed to background readers such as the
// tokenizer while the buffer keeps moving.
type Snapshot struct {
	rope     rope.Rope
	revision Revision
}

// Revision returns the revision this snapshot was taken at.
func (s Snapshot) Revision() Revision {
	return s.revision
}

// Rope returns the underlying rope.
func (s Snapshot) Rope() rope.Rope {
	return s.rope
}

// String returns the full text.
func (s Snapshot) String() string {
	return s.rope.String()
}

// WriteTo writes the full text to w.
func (s Snapshot) WriteTo(w io.Writer) (int64, error) {
	return s.rope.WriteTo(w)
}

// Len returns the document length in characters.
func (s Snapshot) Len() Offset {
	return Offset(s.rope.Chars())
}

// ByteLen returns the document length in bytes.
func (s Snapshot) ByteLen() int64 {
	return int64(s.rope.Len())
}

// LineCount returns the number of lines.
func (s Snapshot) LineCount() uint32 {
	return s.rope.LineCount()
}

// Slice returns the text in [start, end).
func (s Snapshot) Slice(start, end Offset) (string, error) {
	if err := s.checkRange(start, end); err != nil {
		return "", err
	}
	return s.rope.Slice(s.toByte(start), s.toByte(end)), nil
}

// LineToOffset returns the offset of the first character of line.
// Lines past the end map to Len().
func (s Snapshot) LineToOffset(line uint32) Offset {
	return Offset(s.rope.ByteToChar(s.rope.LineStartOffset(line)))
}

// LineEndOffset returns the offset just before the newline ending line.
func (s Snapshot) LineEndOffset(line uint32) Offset {
	return Offset(s.rope.ByteToChar(s.rope.LineEndOffset(line)))
}

// LineText returns the text of line without its newline.
func (s Snapshot) LineText(line uint32) string {
	return s.rope.LineText(line)
}

// LineLen returns the number of characters in line, excluding the newline.
func (s Snapshot) LineLen(line uint32) int {
	return int(s.LineEndOffset(line) - s.LineToOffset(line))
}

// OffsetToPoint converts an offset to a line/column position.
// Offsets are clamped to [0, Len()].
func (s Snapshot) OffsetToPoint(offset Offset) Point {
	offset = s.Clamp(offset)
	b := s.toByte(offset)
	line := s.rope.LineAt(b)
	start := Offset(s.rope.ByteToChar(s.rope.LineStartOffset(line)))
	return Point{Line: line, Column: uint32(offset - start)}
}

// PointToOffset converts a line/column position to an offset.
// Columns past the end of the line clamp to the line end.
func (s Snapshot) PointToOffset(p Point) Offset {
	if p.Line >= s.LineCount() {
		return s.Len()
	}
	start := s.LineToOffset(p.Line)
	end := s.LineEndOffset(p.Line)
	return min(start+Offset(p.Column), end)
}

// RuneAt returns the character at offset.
func (s Snapshot) RuneAt(offset Offset) (rune, bool) {
	if offset < 0 || offset >= s.Len() {
		return utf8.RuneError, false
	}
	r, size := s.rope.RuneAt(s.toByte(offset))
	return r, size > 0
}

// ByteOffset converts a character offset to a byte offset.
func (s Snapshot) ByteOffset(offset Offset) int64 {
	return int64(s.toByte(s.Clamp(offset)))
}

// CharOffset converts a byte offset to a character offset.
func (s Snapshot) CharOffset(b int64) Offset {
	if b <= 0 {
		return 0
	}
	return Offset(s.rope.ByteToChar(rope.ByteOffset(b)))
}

// ByteRange converts a character range to a byte range.
func (s Snapshot) ByteRange(r Range) ByteRange {
	return ByteRange{Start: s.ByteOffset(r.Start), End: s.ByteOffset(r.End)}
}

// Clamp restricts offset to [0, Len()].
func (s Snapshot) Clamp(offset Offset) Offset {
	return max(0, min(offset, s.Len()))
}

func (s Snapshot) toByte(offset Offset) rope.ByteOffset {
	return s.rope.CharToByte(rope.CharOffset(offset))
}

func (s Snapshot) checkOffset(offset Offset) error {
	if offset < 0 || offset > s.Len() {
		return outOfBounds(offset, offset, s.Len())
	}
	return nil
}

func (s Snapshot) checkRange(start, end Offset) error {
	if start < 0 || start > end || end > s.Len() {
		return outOfBounds(start, end, s.Len())
	}
	return nil
}
