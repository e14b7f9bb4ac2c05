// Package rope provides an immutable rope data structure for document text.
//
// A rope is a balanced tree where leaf nodes hold bounded UTF-8 chunks and
// internal nodes store aggregated metrics: byte count, character (rune) count
// and newline count. Every positional query descends the tree once, so
// converting between character offsets, byte offsets and line starts costs
// O(log n) regardless of document size.
//
// Key features:
//   - O(log n) insertion, deletion and slicing
//   - Immutable operations return new ropes; originals are never modified
//   - Character and line indexing via aggregated metrics
//   - Copy-on-write snapshots for background readers
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")           // "hello, world"
//	r = r.Delete(0, 7)             // "world"
//	b := r.CharToByte(3)           // byte offset of the 4th character
//
// Offsets passed to Insert, Delete, Slice and Split are byte offsets and must
// fall on rune boundaries. Callers working in characters convert with
// CharToByte first.
package rope
