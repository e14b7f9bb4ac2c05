package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrNoSelection indicates an operation that needs selected text ran
	// with an empty selection.
	ErrNoSelection = errors.New("no selection")

	// ErrStaleDelta indicates an undo or redo delta no longer matches the
	// document text it expects to replace.
	ErrStaleDelta = errors.New("delta does not match document")

	// ErrEmptyQuery indicates a find without a query or word at the cursor.
	ErrEmptyQuery = errors.New("empty search query")
)
