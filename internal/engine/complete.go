package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
)

// ============================================================================
// Word Completion
// ============================================================================

// WordPrefix returns the part of the word before the cursor and where it
// starts. The prefix is empty with a selection or when no word character
// precedes the cursor.
func (e *Engine) WordPrefix() (Offset, string) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sel := e.cur.Selection()
	head := sel.Head
	if !sel.IsEmpty() {
		return head, ""
	}
	r := cursor.WordAt(e.buf, head)
	if r.Start >= head {
		return head, ""
	}
	prefix, err := e.buf.Slice(r.Start, head)
	if err != nil || !cursor.IsWord(prefix) {
		return head, ""
	}
	return r.Start, prefix
}

// Completions returns the distinct words of the document that start with
// prefix, sorted, excluding prefix itself. limit <= 0 means no limit.
func (e *Engine) Completions(prefix string, limit int) []string {
	if prefix == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, w := range cursor.Words(e.Text()) {
		if w == prefix || !strings.HasPrefix(w, prefix) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	slices.Sort(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Complete replaces [start, cursor) with word as one undo group and
// leaves the cursor after it.
func (e *Engine) Complete(start Offset, word string) error {
	return e.mutate(func() error {
		sel := e.cur.Selection()
		if !sel.IsEmpty() {
			return ErrNoSelection
		}
		head := sel.Head
		if start < 0 || start > head {
			return fmt.Errorf("complete at %d: %w", start, buffer.ErrOutOfBounds)
		}
		return e.transaction("complete", func() error {
			return e.replaceLocked(start, head, word, history.KindReplace)
		})
	})
}
