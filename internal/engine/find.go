package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/normalize"
)

// ============================================================================
// Find and Replace
// ============================================================================

// Find marks every occurrence of query and returns the match count.
// Matching is case-sensitive and non-overlapping. An empty query searches
// for the word at the cursor. The matches follow later edits.
func (e *Engine) Find(query string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	query = normalize.String(query)
	if query == "" {
		query = cursor.WordText(e.buf, e.cur.Head())
	}
	e.markers.Clear(cursor.MarkerFind)
	e.findQuery = query
	if query == "" {
		return 0, ErrEmptyQuery
	}

	matches := findAll(e.buf.String(), query)
	for _, r := range matches {
		e.markers.Add(cursor.MarkerFind, r)
	}
	return len(matches), nil
}

// FindNext selects the next find match after the selection, wrapping at
// the end of the document. It returns false when nothing is marked.
func (e *Engine) FindNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.markers.Next(cursor.MarkerFind, e.cur.Selection().End())
	if !ok {
		return false
	}
	e.cur.Set(cursor.FromRange(m.Range))
	return true
}

// FindQuery returns the query of the last Find.
func (e *Engine) FindQuery() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.findQuery
}

// FindMatches returns the current find matches in document order.
func (e *Engine) FindMatches() []Range {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.markers.Ranges(cursor.MarkerFind)
}

// ClearFind removes the find matches.
func (e *Engine) ClearFind() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markers.Clear(cursor.MarkerFind)
	e.findQuery = ""
}

// ReplaceAll replaces every occurrence of query with replacement as one
// undo group and returns the number of replacements.
func (e *Engine) ReplaceAll(query, replacement string) (int, error) {
	query = normalize.String(query)
	replacement = normalize.String(replacement)
	if query == "" {
		return 0, ErrEmptyQuery
	}

	var count int
	err := e.mutate(func() error {
		matches := findAll(e.buf.String(), query)
		if len(matches) == 0 {
			return nil
		}
		err := e.transaction("replace all", func() error {
			// Last to first keeps earlier offsets valid.
			for i := len(matches) - 1; i >= 0; i-- {
				r := matches[i]
				if err := e.replaceLocked(r.Start, r.End, replacement, history.KindReplace); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		count = len(matches)
		e.markers.Clear(cursor.MarkerFind)
		return nil
	})
	return count, err
}

// findAll returns the character ranges of non-overlapping occurrences of
// query in text.
func findAll(text, query string) []Range {
	var out []Range
	queryLen := Offset(utf8.RuneCountInString(query))
	var chars Offset
	pos := 0
	for {
		i := strings.Index(text[pos:], query)
		if i < 0 {
			return out
		}
		chars += Offset(utf8.RuneCountInString(text[pos : pos+i]))
		out = append(out, Range{Start: chars, End: chars + queryLen})
		chars += queryLen
		pos += i + len(query)
	}
}

// ============================================================================
// Bracket Matching
// ============================================================================

// UpdateBrackets refreshes the bracket pair adjacent to the cursor and
// returns it.
func (e *Engine) UpdateBrackets() (openAt, closeAt Offset, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.markers.Clear(cursor.MarkerBracket)
	openAt, closeAt, ok = cursor.MatchBracket(e.buf, e.cur.Head())
	if ok {
		e.markers.Add(cursor.MarkerBracket, Range{Start: openAt, End: openAt + 1})
		e.markers.Add(cursor.MarkerBracket, Range{Start: closeAt, End: closeAt + 1})
	}
	return openAt, closeAt, ok
}

// BracketPair returns the bracket pair last found by UpdateBrackets, as
// re-anchored by later edits.
func (e *Engine) BracketPair() (openAt, closeAt Offset, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rs := e.markers.Ranges(cursor.MarkerBracket)
	if len(rs) != 2 {
		return 0, 0, false
	}
	return rs[0].Start, rs[1].Start, true
}
