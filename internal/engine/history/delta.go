package history

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
)

// Offset is an alias for buffer.Offset for convenience.
type Offset = buffer.Offset

// Selection is an alias for cursor.Selection for convenience.
type Selection = cursor.Selection

// EditKind classifies a delta for grouping.
type EditKind uint8

const (
	// KindInsert is text added without removing any.
	KindInsert EditKind = iota
	// KindDelete is text removed without adding any.
	KindDelete
	// KindReplace removes and adds text in one step. Replaces never join
	// an existing group.
	KindReplace
)

// String returns the kind name.
func (k EditKind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindReplace:
		return "replace"
	default:
		return fmt.Sprintf("EditKind(%d)", k)
	}
}

// Delta is a single applied edit: at Offset, Removed was replaced by
// Inserted. Deltas are immutable values.
type Delta struct {
	Offset   Offset
	Removed  string
	Inserted string
	Time     time.Time
}

// Kind derives the edit kind from the delta's content.
func (d Delta) Kind() EditKind {
	switch {
	case d.Removed == "":
		return KindInsert
	case d.Inserted == "":
		return KindDelete
	default:
		return KindReplace
	}
}

// Inverse returns the delta that undoes d.
func (d Delta) Inverse() Delta {
	return Delta{Offset: d.Offset, Removed: d.Inserted, Inserted: d.Removed, Time: d.Time}
}

// RemovedLen returns the number of characters removed.
func (d Delta) RemovedLen() Offset {
	return Offset(utf8.RuneCountInString(d.Removed))
}

// InsertedLen returns the number of characters inserted.
func (d Delta) InsertedLen() Offset {
	return Offset(utf8.RuneCountInString(d.Inserted))
}

// String returns a compact description of the delta.
func (d Delta) String() string {
	return fmt.Sprintf("Delta(%d: -%q +%q)", d.Offset, d.Removed, d.Inserted)
}

// Target applies deltas to a document during undo and redo.
type Target interface {
	// Apply replaces d.Removed at d.Offset with d.Inserted.
	Apply(d Delta) error
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(d Delta) error

// Apply calls f(d).
func (f TargetFunc) Apply(d Delta) error {
	return f(d)
}
