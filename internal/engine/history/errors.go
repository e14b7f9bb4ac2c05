package history

import "errors"

// Errors returned by history operations.
var (
	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrReplaying indicates a record attempt while undo or redo is applying
	// deltas.
	ErrReplaying = errors.New("history is replaying")

	// ErrNoTransaction indicates Commit or Cancel without a matching Begin.
	ErrNoTransaction = errors.New("no transaction in progress")

	// ErrTransactionOpen indicates undo or redo inside an open transaction.
	ErrTransactionOpen = errors.New("transaction in progress")
)
