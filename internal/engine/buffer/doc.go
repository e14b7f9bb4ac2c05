// Package buffer is the document's text container.
//
// A Buffer wraps an immutable rope and exposes it in character offsets:
// every position is a count of Unicode scalar values from the start of the
// document, never a byte index. The rope keeps a character metric per node,
// so offset, line and column conversions stay logarithmic.
//
// Basic usage:
//
//	buf := buffer.NewFromString("abc")
//	_ = buf.Insert(1, "X")          // "aXbc", revision 1
//	removed, _ := buf.Delete(1, 2)  // removed == "X", revision 2
//
// Mutations are all-or-nothing: a call that fails with ErrOutOfBounds leaves
// the content and the revision untouched. Snapshot returns a read-only view
// that background readers can keep while the buffer changes.
package buffer
