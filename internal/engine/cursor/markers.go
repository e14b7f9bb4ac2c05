package cursor

import "sort"

// MarkerKind tags what a marker is used for.
type MarkerKind uint8

const (
	// MarkerFind marks a find match.
	MarkerFind MarkerKind = iota
	// MarkerBracket marks one half of a matched bracket pair.
	MarkerBracket
)

// Marker is a range that follows the text it covers as the document is
// edited.
type Marker struct {
	ID    int
	Kind  MarkerKind
	Range Range
}

// MarkerSet holds range markers kept sorted by start offset.
// Edits re-anchor both ends with the same rules as the selection; a marker
// whose range collapses to empty is dropped.
//
// MarkerSet is not thread-safe.
type MarkerSet struct {
	markers []Marker
	nextID  int
}

// NewMarkerSet creates an empty marker set.
func NewMarkerSet() *MarkerSet {
	return &MarkerSet{nextID: 1}
}

// Add inserts a marker and returns its ID. Empty ranges are ignored and
// return 0.
func (ms *MarkerSet) Add(kind MarkerKind, r Range) int {
	if r.IsEmpty() {
		return 0
	}
	id := ms.nextID
	ms.nextID++
	m := Marker{ID: id, Kind: kind, Range: r}
	i := sort.Search(len(ms.markers), func(i int) bool {
		return ms.markers[i].Range.Start > r.Start
	})
	ms.markers = append(ms.markers, Marker{})
	copy(ms.markers[i+1:], ms.markers[i:])
	ms.markers[i] = m
	return id
}

// Get returns the marker with the given ID.
func (ms *MarkerSet) Get(id int) (Marker, bool) {
	for _, m := range ms.markers {
		if m.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}

// Remove deletes the marker with the given ID.
func (ms *MarkerSet) Remove(id int) {
	ms.filter(func(m Marker) bool { return m.ID != id })
}

// Clear removes every marker of kind.
func (ms *MarkerSet) Clear(kind MarkerKind) {
	ms.filter(func(m Marker) bool { return m.Kind != kind })
}

// Len returns the number of markers.
func (ms *MarkerSet) Len() int {
	return len(ms.markers)
}

// Ranges returns the ranges of every marker of kind, in document order.
func (ms *MarkerSet) Ranges(kind MarkerKind) []Range {
	var out []Range
	for _, m := range ms.markers {
		if m.Kind == kind {
			out = append(out, m.Range)
		}
	}
	return out
}

// Next returns the first marker of kind starting at or after offset,
// wrapping around to the first one.
func (ms *MarkerSet) Next(kind MarkerKind, offset Offset) (Marker, bool) {
	var first *Marker
	for i := range ms.markers {
		m := &ms.markers[i]
		if m.Kind != kind {
			continue
		}
		if first == nil {
			first = m
		}
		if m.Range.Start >= offset {
			return *m, true
		}
	}
	if first == nil {
		return Marker{}, false
	}
	return *first, true
}

// RemapInsert re-anchors every marker after an insertion.
func (ms *MarkerSet) RemapInsert(at, length Offset) {
	for i := range ms.markers {
		ms.markers[i].Range = RemapRangeInsert(ms.markers[i].Range, at, length)
	}
}

// RemapDelete re-anchors every marker after a deletion and drops markers
// that collapsed.
func (ms *MarkerSet) RemapDelete(start, end Offset) {
	for i := range ms.markers {
		ms.markers[i].Range = RemapRangeDelete(ms.markers[i].Range, start, end)
	}
	ms.filter(func(m Marker) bool { return !m.Range.IsEmpty() })
}

func (ms *MarkerSet) filter(keep func(Marker) bool) {
	out := ms.markers[:0]
	for _, m := range ms.markers {
		if keep(m) {
			out = append(out, m)
		}
	}
	ms.markers = out
}
