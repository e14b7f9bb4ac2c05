// Package history provides undo/redo for a document.
//
// # Deltas
//
// A Delta is one applied edit: at Offset, Removed was replaced by Inserted.
// Its Inverse swaps the two texts, so undo and redo are both just "apply a
// delta" through the Target interface.
//
// # Grouping
//
// Edits are collected into groups, the unit of undo. A new edit joins the
// open group when its kind matches and it arrives within the group window
// (300ms by default) of the previous one; otherwise the open group is
// sealed and a new one starts. Replaces never join. Undo, redo, explicit
// transactions and save points seal the open group; cursor navigation does
// not.
//
//	h := history.New(history.WithClock(clock.Now))
//	h.Record(delta, history.KindInsert, selBefore, selAfter)
//
//	g, err := h.Undo(target) // restore g.SelBefore
//	g, err = h.Redo(target)  // restore g.SelAfter
//
// # Transactions
//
// Begin and Commit wrap several edits into one group regardless of kind or
// timing, as for auto-indented newlines or replace-all. Cancel reverts the
// transaction's deltas.
//
// # States
//
// History moves between Idle, Grouping and Replaying. While Replaying,
// Record fails with ErrReplaying so an undo can never record itself.
package history
