// Package engine provides the edit core of the Inkwell editor.
//
// The engine package is the facade that binds the document, the primary
// selection, range markers, the undo history and the change log into a
// single edit pipeline.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - rope: immutable B+ tree rope with byte, character and line metrics
//   - buffer: character-addressed document with revisions and snapshots
//   - normalize: the text pipeline every inserted string passes through
//   - cursor: selection, movement units, remap rules and range markers
//   - history: time and kind grouped undo/redo with explicit transactions
//   - tracking: bounded log of committed changes for the tokenizer
//
// # Edit Pipeline
//
// Every mutation is all-or-nothing and runs in a fixed order:
//
//  1. the inserted text is normalized;
//  2. the buffer is mutated;
//  3. the delta is recorded in the history;
//  4. the selection and markers are re-anchored;
//  5. the change is logged and delivered to listeners.
//
// If the history rejects the delta (an edit issued during undo or redo),
// the buffer is restored and steps 4 and 5 never run.
//
// # Thread Safety
//
// All Engine operations are thread-safe. Reads share a read lock and
// mutations serialize on the write lock. Change listeners run after the
// lock is released and may read from the engine.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("hello"))
//	e.MoveCursor(5)
//	_ = e.InsertText(" world")
//	_ = e.Undo() // "hello"
//
// Loading a file resets the history and marks the new content as saved:
//
//	e.SetContent(text)
//	e.Modified() // false
package engine
