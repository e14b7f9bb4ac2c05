// Package dirty tracks which logical lines changed since the last frame.
package dirty

import (
	"sort"
	"sync"

	"github.com/dshills/inkwell/internal/engine/tracking"
)

// DefaultMaxRegions is the region count above which the tracker gives up
// and marks everything dirty.
const DefaultMaxRegions = 64

// Region is an inclusive range of logical lines.
type Region struct {
	StartLine uint32
	EndLine   uint32
}

// Contains returns true if line falls in the region.
func (r Region) Contains(line uint32) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// merge combines overlapping or adjacent regions.
func (r Region) merge(other Region) (Region, bool) {
	if other.StartLine > r.EndLine+1 || r.StartLine > other.EndLine+1 {
		return r, false
	}
	return Region{
		StartLine: min(r.StartLine, other.StartLine),
		EndLine:   max(r.EndLine, other.EndLine),
	}, true
}

// Tracker tracks dirty lines and coalesces them into regions.
// All operations are thread-safe.
type Tracker struct {
	mu sync.RWMutex

	// regions contains the current dirty regions, sorted and disjoint.
	regions []Region

	// fullRedraw indicates every line is dirty.
	fullRedraw bool

	// maxRegions is the maximum number of regions before forcing full redraw.
	maxRegions int
}

// NewTracker creates a new dirty line tracker.
func NewTracker() *Tracker {
	return &Tracker{
		regions:    make([]Region, 0, 16),
		maxRegions: DefaultMaxRegions,
	}
}

// MarkFullRedraw marks every line dirty.
func (t *Tracker) MarkFullRedraw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// MarkLine marks a single line as dirty.
func (t *Tracker) MarkLine(line uint32) {
	t.MarkLines(line, line)
}

// MarkLines marks the lines [startLine, endLine] as dirty.
func (t *Tracker) MarkLines(startLine, endLine uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if startLine > endLine {
		startLine, endLine = endLine, startLine
	}
	t.addRegion(Region{StartLine: startLine, EndLine: endLine})
}

// MarkChange records a committed document change. Lines below a change
// that added or removed lines are shifted first, then the edited lines
// are marked. A reset marks everything.
func (t *Tracker) MarkChange(c tracking.Change) {
	if c.Type == tracking.ChangeReset {
		t.MarkFullRedraw()
		return
	}
	if d := c.LinesDelta(); d != 0 {
		t.Shift(c.OldEndLine+1, d)
	}
	t.MarkLines(c.StartLine, c.NewEndLine)
}

// Shift moves dirty regions at or below fromLine by delta lines. With a
// negative delta the lines [fromLine+delta, fromLine) no longer exist.
func (t *Tracker) Shift(fromLine uint32, delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fullRedraw || delta == 0 {
		return
	}
	out := t.regions[:0]
	for _, r := range t.regions {
		switch {
		case r.EndLine < fromLine:
			out = append(out, r)
		case r.StartLine >= fromLine:
			out = append(out, Region{
				StartLine: shiftLine(r.StartLine, delta),
				EndLine:   shiftLine(r.EndLine, delta),
			})
		default:
			// Straddles the shift point: keep the part above, move the rest.
			out = append(out, Region{StartLine: r.StartLine, EndLine: fromLine - 1})
			out = append(out, Region{
				StartLine: shiftLine(fromLine, delta),
				EndLine:   shiftLine(r.EndLine, delta),
			})
		}
	}
	t.regions = out
	t.coalesce()
}

func shiftLine(line uint32, delta int) uint32 {
	n := int64(line) + int64(delta)
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// addRegion adds a region and coalesces with existing regions.
func (t *Tracker) addRegion(region Region) {
	if t.fullRedraw {
		return
	}
	t.regions = append(t.regions, region)
	t.coalesce()
	if len(t.regions) > t.maxRegions {
		t.fullRedraw = true
		t.regions = t.regions[:0]
	}
}

// coalesce sorts regions and merges overlapping or adjacent ones.
func (t *Tracker) coalesce() {
	if len(t.regions) <= 1 {
		return
	}
	sort.Slice(t.regions, func(i, j int) bool {
		return t.regions[i].StartLine < t.regions[j].StartLine
	})
	out := t.regions[:1]
	for _, r := range t.regions[1:] {
		last := &out[len(out)-1]
		if merged, ok := last.merge(r); ok {
			*last = merged
			continue
		}
		out = append(out, r)
	}
	t.regions = out
}

// IsDirty returns true if any line is marked dirty.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.fullRedraw || len(t.regions) > 0
}

// NeedsFullRedraw returns true if every line is dirty.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.fullRedraw
}

// IsLineDirty returns true if line is marked dirty.
func (t *Tracker) IsLineDirty(line uint32) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		return true
	}
	i := sort.Search(len(t.regions), func(i int) bool {
		return t.regions[i].EndLine >= line
	})
	return i < len(t.regions) && t.regions[i].Contains(line)
}

// DirtyRegions returns a copy of the current dirty regions.
func (t *Tracker) DirtyRegions() []Region {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return append([]Region(nil), t.regions...)
}

// Clear resets the dirty state after a frame.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fullRedraw = false
	t.regions = t.regions[:0]
}

// SetMaxRegions sets the maximum number of regions before forcing a full
// redraw.
func (t *Tracker) SetMaxRegions(maxRegs int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if maxRegs > 0 {
		t.maxRegions = maxRegs
	}
}
