package tracking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// ChangeType categorizes the type of a change.
type ChangeType uint8

const (
	// ChangeInsert indicates text was inserted (OldText is empty).
	ChangeInsert ChangeType = iota

	// ChangeDelete indicates text was deleted (NewText is empty).
	ChangeDelete

	// ChangeReplace indicates text was replaced (both OldText and NewText present).
	ChangeReplace

	// ChangeReset indicates the whole document was replaced, as on load.
	ChangeReset
)

// String returns a human-readable representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes one committed mutation in both character and byte
// coordinates, plus the lines it touched.
type Change struct {
	Type ChangeType

	// Range is the affected range in the OLD text, in characters.
	// For inserts, Start == End.
	Range buffer.Range

	// ByteRange is the affected range in the OLD text, in bytes.
	ByteRange buffer.ByteRange

	// NewByteEnd is where the inserted text ends in the NEW text, in bytes.
	NewByteEnd int64

	// StartLine is the line holding Range.Start.
	StartLine uint32
	// OldEndLine is the line that held Range.End before the change.
	OldEndLine uint32
	// NewEndLine is the line holding the end of the inserted text after
	// the change.
	NewEndLine uint32

	OldText string
	NewText string

	// Revision is the document revision after this change was applied.
	Revision buffer.Revision
}

// NewChange builds a change from the snapshots taken before and after
// replacing oldText at offset with newText.
func NewChange(before, after buffer.Snapshot, offset buffer.Offset, oldText, newText string) Change {
	oldEnd := offset + buffer.Offset(utf8.RuneCountInString(oldText))
	newEnd := offset + buffer.Offset(utf8.RuneCountInString(newText))

	c := Change{
		Range:      buffer.Range{Start: offset, End: oldEnd},
		ByteRange:  before.ByteRange(buffer.Range{Start: offset, End: oldEnd}),
		StartLine:  before.OffsetToPoint(offset).Line,
		OldEndLine: before.OffsetToPoint(oldEnd).Line,
		NewEndLine: after.OffsetToPoint(newEnd).Line,
		OldText:    oldText,
		NewText:    newText,
		Revision:   after.Revision(),
	}
	c.NewByteEnd = c.ByteRange.Start + int64(len(newText))

	switch {
	case oldText == "":
		c.Type = ChangeInsert
	case newText == "":
		c.Type = ChangeDelete
	default:
		c.Type = ChangeReplace
	}
	return c
}

// NewResetChange describes replacing the whole document.
func NewResetChange(before, after buffer.Snapshot) Change {
	return Change{
		Type:       ChangeReset,
		Range:      buffer.Range{Start: 0, End: before.Len()},
		ByteRange:  buffer.ByteRange{Start: 0, End: before.ByteLen()},
		NewByteEnd: after.ByteLen(),
		OldEndLine: before.LineCount() - 1,
		NewEndLine: after.LineCount() - 1,
		Revision:   after.Revision(),
	}
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	switch c.Type {
	case ChangeInsert:
		return fmt.Sprintf("Insert %q at %d", abbreviate(c.NewText, 20), c.Range.Start)
	case ChangeDelete:
		return fmt.Sprintf("Delete %q at %v", abbreviate(c.OldText, 20), c.Range)
	case ChangeReplace:
		return fmt.Sprintf("Replace %q with %q at %v", abbreviate(c.OldText, 10), abbreviate(c.NewText, 10), c.Range)
	case ChangeReset:
		return fmt.Sprintf("Reset to revision %d", c.Revision)
	default:
		return "Unknown change"
	}
}

// LinesDelta returns how many lines the change added (positive) or
// removed (negative).
func (c Change) LinesDelta() int {
	return int(c.NewEndLine) - int(c.OldEndLine)
}

// Delta returns the byte delta of this change.
// Positive means the buffer grew, negative means it shrank.
func (c Change) Delta() int64 {
	return c.NewByteEnd - c.ByteRange.End
}

// NewByteRange returns the range the change covers in the NEW text.
func (c Change) NewByteRange() buffer.ByteRange {
	return buffer.ByteRange{Start: c.ByteRange.Start, End: c.NewByteEnd}
}

func abbreviate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	var sb strings.Builder
	i := 0
	for _, r := range s {
		if i == n-3 {
			break
		}
		sb.WriteRune(r)
		i++
	}
	sb.WriteString("...")
	return sb.String()
}
