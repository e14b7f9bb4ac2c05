// Package tracking records committed document changes for consumers that
// work at their own pace.
//
// Every mutation the engine commits produces a [Change] carrying the
// affected range in characters and in bytes, the lines it touched and the
// revision it produced. The renderer uses the line numbers to invalidate
// and shift its cache; the tokenizer uses the byte ranges, which is the
// unit syntax highlighters speak.
//
// # Usage
//
//	tracker := tracking.NewTracker()
//	tracker.Record(tracking.NewChange(before, after, offset, removed, inserted))
//
//	// Catch up from the last revision a consumer saw.
//	changes, complete := tracker.ChangesSince(lastSeen)
//	if span, ok := tracking.ByteSpan(changes); ok && complete {
//	    // only span needs another look
//	}
//
// # Thread Safety
//
// All Tracker operations are thread-safe through internal locking.
// The change log is a ring buffer bounded by WithMaxChanges.
package tracking
