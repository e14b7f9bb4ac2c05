// Package linecache holds laid-out lines keyed by logical line index.
//
// The cache is a side-table owned by the renderer. Entries are stamped with
// the document revision they were validated against and with an FNV-1a hash
// of the source text, so an entry survives edits elsewhere in the document
// and vertical scrolling.
package linecache

import (
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/renderer/dirty"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

// Entry is one cached logical line.
type Entry struct {
	// Layout holds the wrapped rows of the line.
	Layout *layout.LineLayout

	// Hash is the FNV-1a hash of the line text.
	Hash uint64

	// WrapWidth is the wrap width the layout was computed for.
	WrapWidth int

	// Revision is the document revision the entry was last validated at.
	Revision buffer.Revision
}

// Cache maps logical lines to entries.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint32]*Entry
	dirty   *dirty.Tracker

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates an empty cache. Lines marked in tracker are never reused on
// the strength of their revision stamp alone.
func New(tracker *dirty.Tracker) *Cache {
	if tracker == nil {
		tracker = dirty.NewTracker()
	}
	return &Cache{
		entries: make(map[uint32]*Entry),
		dirty:   tracker,
	}
}

// Dirty returns the tracker consulted by Lookup.
func (c *Cache) Dirty() *dirty.Tracker {
	return c.dirty
}

// Lookup returns the entry for line if it is still valid at rev for the
// given wrap width. text is called only when the revision stamp cannot
// vouch for the entry.
func (c *Cache) Lookup(line uint32, rev buffer.Revision, wrapWidth int, text func() string) (*Entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[line]
	c.mu.RUnlock()

	if !ok || e.WrapWidth != wrapWidth {
		c.misses.Add(1)
		return nil, false
	}
	if e.Revision == rev && !c.dirty.IsLineDirty(line) {
		c.hits.Add(1)
		return e, true
	}
	if e.Hash != Hash(text()) {
		c.misses.Add(1)
		return nil, false
	}

	c.mu.Lock()
	e.Revision = rev
	c.mu.Unlock()
	c.hits.Add(1)
	return e, true
}

// Store records a layout computed for line at the given wrap width.
func (c *Cache) Store(line uint32, text string, l *layout.LineLayout, wrapWidth int, rev buffer.Revision) *Entry {
	e := &Entry{
		Layout:    l,
		Hash:      Hash(text),
		WrapWidth: wrapWidth,
		Revision:  rev,
	}
	c.mu.Lock()
	c.entries[line] = e
	c.mu.Unlock()
	return e
}

// Get returns the entry for line without validating it.
func (c *Cache) Get(line uint32) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[line]
	return e, ok
}

// Shift moves entries at or after fromLine by delta lines. With a negative
// delta, entries for the removed lines [fromLine+delta, fromLine) are
// dropped first.
func (c *Cache) Shift(fromLine uint32, delta int) {
	if delta == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	from := int64(fromLine)
	if delta < 0 {
		lo := from + int64(delta)
		for line := range c.entries {
			if l := int64(line); l >= lo && l < from {
				delete(c.entries, line)
			}
		}
	}

	moved := make(map[uint32]*Entry)
	for line, e := range c.entries {
		if line < fromLine {
			continue
		}
		delete(c.entries, line)
		if n := int64(line) + int64(delta); n >= 0 {
			moved[uint32(n)] = e
		}
	}
	for line, e := range moved {
		c.entries[line] = e
	}
}

// EvictOutside drops entries outside [top, bottom] and returns the evicted
// lines in ascending order.
func (c *Cache) EvictOutside(top, bottom uint32) []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var evicted []uint32
	for line := range c.entries {
		if line < top || line > bottom {
			delete(c.entries, line)
			evicted = append(evicted, line)
		}
	}
	sort.Slice(evicted, func(i, j int) bool { return evicted[i] < evicted[j] })
	c.evictions.Add(uint64(len(evicted)))
	return evicted
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint32]*Entry)
}

// Len returns the number of cached lines.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lines returns the cached line indices in ascending order.
func (c *Cache) Lines() []uint32 {
	c.mu.RLock()
	lines := make([]uint32, 0, len(c.entries))
	for line := range c.entries {
		lines = append(lines, line)
	}
	c.mu.RUnlock()
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return lines
}

// Stats holds cache counters.
type Stats struct {
	Size      int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Size:      c.Len(),
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}

// Hash returns the FNV-1a hash of s.
func Hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
