package buffer

import "fmt"

// Range is a half-open character range [Start, End).
type Range struct {
	Start Offset
	End   Offset
}

// NewRange creates a Range, swapping the ends if needed so Start <= End.
func NewRange(a, b Offset) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the number of characters in the range.
func (r Range) Len() Offset {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if offset lies within [Start, End).
func (r Range) Contains(offset Offset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if the two ranges share at least one character,
// or if an empty range sits inside the other.
func (r Range) Overlaps(other Range) bool {
	if r.IsEmpty() {
		return other.Start <= r.Start && r.Start <= other.End
	}
	if other.IsEmpty() {
		return r.Start <= other.Start && other.Start <= r.End
	}
	return r.Start < other.End && other.Start < r.End
}

// ByteRange is a half-open byte range, used when talking to collaborators
// that index UTF-8 text directly.
type ByteRange struct {
	Start int64
	End   int64
}
