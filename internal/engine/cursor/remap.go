package cursor

// RemapInsert returns where o lands after length characters are inserted
// at offset at. Positions at or after the insertion point shift right, so a
// cursor at the insertion point ends up after the new text.
func RemapInsert(o, at, length Offset) Offset {
	if o >= at {
		return o + length
	}
	return o
}

// RemapDelete returns where o lands after [start, end) is deleted.
// Positions inside the range collapse to start.
func RemapDelete(o, start, end Offset) Offset {
	switch {
	case o > end:
		return o - (end - start)
	case o >= start:
		return start
	default:
		return o
	}
}

// RemapRangeInsert applies RemapInsert to both ends of r.
func RemapRangeInsert(r Range, at, length Offset) Range {
	return Range{Start: RemapInsert(r.Start, at, length), End: RemapInsert(r.End, at, length)}
}

// RemapRangeDelete applies RemapDelete to both ends of r.
func RemapRangeDelete(r Range, start, end Offset) Range {
	return Range{Start: RemapDelete(r.Start, start, end), End: RemapDelete(r.End, start, end)}
}
