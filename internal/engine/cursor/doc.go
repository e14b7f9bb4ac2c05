// Package cursor tracks the primary selection and range markers as the
// document changes.
//
// The cursor package handles:
//
//   - Selections with an anchor/head model via Selection
//   - Re-anchoring positions after inserts and deletes
//   - Movement by character, word, line, paragraph, page and document
//   - Word and line selection on Unicode boundaries
//   - Range markers for find matches and bracket pairs
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection is just a cursor. All offsets are
// character offsets into the document.
//
// Remap Rules:
//
// After inserting L characters at offset at, a position o becomes o+L when
// o >= at. After deleting [s, e), positions inside the range collapse to s
// and positions past e shift left by e-s. Each end of a selection or marker
// is remapped on its own and then clamped to the document length.
//
// Basic usage:
//
//	c := cursor.New()
//	c.Move(buf, cursor.MotionWordRight, false, 0)
//	c.Move(buf, cursor.MotionEnd, true, 0) // select to end of line
//
//	sel := cursor.Point(10).RemapInsert(10, 3) // Cursor(13)
package cursor
