package renderer

import (
	"fmt"
	"strconv"
)

// GutterMode selects what the line number gutter shows.
type GutterMode int

const (
	GutterNone GutterMode = iota
	GutterAbsolute
	// GutterRelative numbers lines by their distance from the cursor line.
	// The cursor line keeps its absolute number.
	GutterRelative
)

func (m GutterMode) String() string {
	switch m {
	case GutterAbsolute:
		return "absolute"
	case GutterRelative:
		return "relative"
	default:
		return "none"
	}
}

// Next cycles none, absolute, relative.
func (m GutterMode) Next() GutterMode {
	return (m + 1) % 3
}

// ParseGutterMode parses a mode name. The empty string is GutterNone.
func ParseGutterMode(s string) (GutterMode, error) {
	switch s {
	case "", "none":
		return GutterNone, nil
	case "absolute":
		return GutterAbsolute, nil
	case "relative":
		return GutterRelative, nil
	}
	return GutterNone, fmt.Errorf("unknown gutter mode %q", s)
}

// label returns the gutter text for line with the cursor on cursorLine.
func (m GutterMode) label(line, cursorLine uint32) string {
	if m == GutterRelative && line != cursorLine {
		d := int64(line) - int64(cursorLine)
		return strconv.FormatInt(max(d, -d), 10)
	}
	return strconv.FormatUint(uint64(line)+1, 10)
}
