package buffer

import "fmt"

// Offset is a position in the document counted in Unicode scalar values.
// It is the fundamental position type shared by the cursor, history and
// renderer packages.
type Offset = int64

// Revision is a monotonically increasing counter bumped by every committed
// mutation of a Buffer.
type Revision uint64

// Point represents a line and column position.
// Both Line and Column are 0-indexed; Column counts characters.
type Point struct {
	Line   uint32
	Column uint32
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}
