package buffer

import (
	"errors"
	"fmt"
	"io"

	"github.com/dshills/inkwell/internal/engine/rope"
)

// ErrOutOfBounds indicates an offset or range outside the current document.
// It always signals a caller bug: positions kept in sync by the cursor
// package never trigger it.
var ErrOutOfBounds = errors.New("offset out of bounds")

func outOfBounds(start, end, length Offset) error {
	if start == end {
		return fmt.Errorf("%w: offset %d, length %d", ErrOutOfBounds, start, length)
	}
	return fmt.Errorf("%w: range [%d:%d), length %d", ErrOutOfBounds, start, end, length)
}

// Buffer is the document's text container. It addresses content by
// character offset and keeps a revision counter that advances on every
// successful mutation.
//
// Buffer is not safe for concurrent mutation; it is owned by the editor
// session. Readers on other goroutines work from a Snapshot.
type Buffer struct {
	snap Snapshot
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{snap: Snapshot{rope: rope.New()}}
}

// NewFromString creates a buffer holding text. The text is stored as is;
// callers normalize it first.
func NewFromString(text string) *Buffer {
	return &Buffer{snap: Snapshot{rope: rope.FromString(text)}}
}

// Snapshot returns an immutable view of the current content.
func (b *Buffer) Snapshot() Snapshot {
	return b.snap
}

// Revision returns the current revision.
func (b *Buffer) Revision() Revision {
	return b.snap.revision
}

// Insert inserts text at offset.
// Fails with ErrOutOfBounds if offset is outside [0, Len()].
func (b *Buffer) Insert(offset Offset, text string) error {
	if err := b.snap.checkOffset(offset); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	b.commit(b.snap.rope.Insert(b.snap.toByte(offset), text))
	return nil
}

// Delete removes [start, end) and returns the removed text.
// Fails with ErrOutOfBounds if start > end or the range exceeds Len().
func (b *Buffer) Delete(start, end Offset) (string, error) {
	if err := b.snap.checkRange(start, end); err != nil {
		return "", err
	}
	if start == end {
		return "", nil
	}
	bs, be := b.snap.toByte(start), b.snap.toByte(end)
	removed := b.snap.rope.Slice(bs, be)
	b.commit(b.snap.rope.Delete(bs, be))
	return removed, nil
}

// Replace replaces [start, end) with text as a single mutation and returns
// the removed text. The revision advances once.
func (b *Buffer) Replace(start, end Offset, text string) (string, error) {
	if err := b.snap.checkRange(start, end); err != nil {
		return "", err
	}
	if start == end && text == "" {
		return "", nil
	}
	bs, be := b.snap.toByte(start), b.snap.toByte(end)
	removed := b.snap.rope.Slice(bs, be)
	b.commit(b.snap.rope.Delete(bs, be).Insert(bs, text))
	return removed, nil
}

// Restore puts back a snapshot taken from this buffer, undoing every
// mutation made since. It is used to roll back a failed edit step.
func (b *Buffer) Restore(s Snapshot) {
	b.snap = s
}

// Reset replaces the whole content, as when a file is loaded.
func (b *Buffer) Reset(text string) {
	b.commit(rope.FromString(text))
}

func (b *Buffer) commit(r rope.Rope) {
	b.snap = Snapshot{rope: r, revision: b.snap.revision + 1}
}

// Slice returns the text in [start, end).
func (b *Buffer) Slice(start, end Offset) (string, error) {
	return b.snap.Slice(start, end)
}

// Len returns the document length in characters.
func (b *Buffer) Len() Offset {
	return b.snap.Len()
}

// IsEmpty returns true if the document holds no text.
func (b *Buffer) IsEmpty() bool {
	return b.snap.rope.IsEmpty()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	return b.snap.LineCount()
}

// LineToOffset returns the offset of the first character of line.
func (b *Buffer) LineToOffset(line uint32) Offset {
	return b.snap.LineToOffset(line)
}

// LineEndOffset returns the offset just before the newline ending line.
func (b *Buffer) LineEndOffset(line uint32) Offset {
	return b.snap.LineEndOffset(line)
}

// LineText returns the text of line without its newline.
func (b *Buffer) LineText(line uint32) string {
	return b.snap.LineText(line)
}

// LineLen returns the number of characters in line.
func (b *Buffer) LineLen(line uint32) int {
	return b.snap.LineLen(line)
}

// OffsetToPoint converts an offset to a line/column position.
func (b *Buffer) OffsetToPoint(offset Offset) Point {
	return b.snap.OffsetToPoint(offset)
}

// PointToOffset converts a line/column position to an offset.
func (b *Buffer) PointToOffset(p Point) Offset {
	return b.snap.PointToOffset(p)
}

// RuneAt returns the character at offset.
func (b *Buffer) RuneAt(offset Offset) (rune, bool) {
	return b.snap.RuneAt(offset)
}

// ByteOffset converts a character offset to a byte offset.
func (b *Buffer) ByteOffset(offset Offset) int64 {
	return b.snap.ByteOffset(offset)
}

// CharOffset converts a byte offset to a character offset.
func (b *Buffer) CharOffset(byteOffset int64) Offset {
	return b.snap.CharOffset(byteOffset)
}

// String returns the full text.
func (b *Buffer) String() string {
	return b.snap.String()
}

// Bytes returns the full text as a byte slice, for saving.
func (b *Buffer) Bytes() []byte {
	return []byte(b.snap.String())
}

// WriteTo writes the full text to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	return b.snap.WriteTo(w)
}
