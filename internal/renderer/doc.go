// Package renderer turns document snapshots into terminal frames.
//
// Rendering is incremental at two levels:
//
//	┌──────────────────────────────────────────────┐
//	│ Renderer.Render: visible window → Frame       │
//	├──────────────────────────────────────────────┤
//	│ linecache: logical line → laid out rows       │
//	│ dirty: lines touched by committed changes     │
//	├──────────────────────────────────────────────┤
//	│ backend: draws only the rows that changed     │
//	└──────────────────────────────────────────────┘
//
// The line cache is keyed by logical line and validated by revision stamp
// or content hash. ApplyChange shifts cache keys when an edit adds or
// removes lines, so lines below an edit keep their layout and scrolling
// only lays out lines entering the window. Selection, find matches,
// bracket pairs and token colors are composited onto copies of cached
// cells every frame and never stored in the cache. Each Frame lists the
// screen rows whose content differs from the previous frame.
//
// Usage:
//
//	r := renderer.New(renderer.DefaultOptions())
//	unsubscribe := eng.Subscribe(r.ApplyChange)
//	frame := r.Render(view, renderer.State{Snapshot: eng.Snapshot(), Cursor: eng.Cursor()})
//	screen.Draw(frame)
package renderer
