package cursor

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// Motion names a cursor movement.
type Motion uint8

const (
	MotionLeft Motion = iota
	MotionRight
	MotionUp
	MotionDown
	MotionWordLeft
	MotionWordRight
	MotionHome
	MotionEnd
	MotionParagraphUp
	MotionParagraphDown
	MotionPageUp
	MotionPageDown
	MotionDocStart
	MotionDocEnd
)

var motionNames = [...]string{
	MotionLeft:          "left",
	MotionRight:         "right",
	MotionUp:            "up",
	MotionDown:          "down",
	MotionWordLeft:      "word-left",
	MotionWordRight:     "word-right",
	MotionHome:          "home",
	MotionEnd:           "end",
	MotionParagraphUp:   "paragraph-up",
	MotionParagraphDown: "paragraph-down",
	MotionPageUp:        "page-up",
	MotionPageDown:      "page-down",
	MotionDocStart:      "doc-start",
	MotionDocEnd:        "doc-end",
}

// String returns the motion name.
func (m Motion) String() string {
	if int(m) < len(motionNames) {
		return motionNames[m]
	}
	return "unknown"
}

// Target returns the offset motion m reaches from offset from.
// Up and Down aim for the current visual column; Cursor.Move keeps a
// preferred column across repeated moves and handles page motions.
func Target(t Text, from Offset, m Motion) Offset {
	from = clampOffset(from, t.Len())
	p := t.OffsetToPoint(from)
	line := t.LineText(p.Line)
	col := int(p.Column)
	lineStart := t.LineToOffset(p.Line)

	switch m {
	case MotionLeft:
		if col == 0 {
			return max(from-1, 0)
		}
		return lineStart + Offset(prevGrapheme(line, col))
	case MotionRight:
		if from >= t.LineEndOffset(p.Line) {
			return min(from+1, t.Len())
		}
		return lineStart + Offset(nextGrapheme(line, col))
	case MotionUp:
		return vertical(t, from, -1, VisualColumn(line, col))
	case MotionDown:
		return vertical(t, from, 1, VisualColumn(line, col))
	case MotionWordLeft:
		return wordLeft(t, p, line)
	case MotionWordRight:
		return wordRight(t, p, line)
	case MotionHome:
		first := FirstNonBlank(line)
		if col == first {
			return lineStart
		}
		return lineStart + Offset(first)
	case MotionEnd:
		return t.LineEndOffset(p.Line)
	case MotionParagraphUp:
		return paragraphUp(t, p.Line)
	case MotionParagraphDown:
		return paragraphDown(t, p.Line)
	case MotionDocStart:
		return 0
	case MotionDocEnd:
		return t.Len()
	}
	return from
}

// nextGrapheme returns the column just past the grapheme cluster at col.
func nextGrapheme(line string, col int) int {
	rest := skipRunes(line, col)
	if rest == "" {
		return col
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
	return col + runeLen(cluster)
}

// prevGrapheme returns the column where the grapheme cluster ending at col
// starts.
func prevGrapheme(line string, col int) int {
	prev, pos := 0, 0
	state := -1
	rest := line
	for rest != "" && pos < col {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		prev = pos
		pos += runeLen(cluster)
	}
	return prev
}

// VisualColumn returns the display width of the first col characters
// of line.
func VisualColumn(line string, col int) int {
	return uniseg.StringWidth(prefixRunes(line, col))
}

// ColumnForVisual returns the character column whose visual position is
// the closest at or before width vcol. Wide clusters are never split.
func ColumnForVisual(line string, vcol int) int {
	col, width := 0, 0
	state := -1
	rest := line
	for rest != "" {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if width+w > vcol {
			break
		}
		width += w
		col += runeLen(cluster)
	}
	return col
}

func wordRight(t Text, p buffer.Point, line string) Offset {
	col := int(p.Column)
	for _, seg := range segments(line) {
		if seg.word && seg.start > col {
			return t.PointToOffset(buffer.Point{Line: p.Line, Column: uint32(seg.start)})
		}
	}
	end := t.LineEndOffset(p.Line)
	if cur := t.LineToOffset(p.Line) + Offset(col); cur < end {
		return end
	}
	if p.Line+1 < t.LineCount() {
		return t.LineToOffset(p.Line + 1)
	}
	return end
}

func wordLeft(t Text, p buffer.Point, line string) Offset {
	col := int(p.Column)
	target := -1
	for _, seg := range segments(line) {
		if seg.start >= col {
			break
		}
		if seg.word {
			target = seg.start
		}
	}
	switch {
	case target >= 0:
		return t.LineToOffset(p.Line) + Offset(target)
	case col > 0:
		return t.LineToOffset(p.Line)
	case p.Line > 0:
		return t.LineEndOffset(p.Line - 1)
	}
	return 0
}

// paragraphUp goes to the nearest line above that starts a paragraph:
// a non-blank line preceded by a blank one.
func paragraphUp(t Text, line uint32) Offset {
	for l := int64(line) - 1; l > 0; l-- {
		if !isBlank(t.LineText(uint32(l))) && isBlank(t.LineText(uint32(l-1))) {
			return t.LineToOffset(uint32(l))
		}
	}
	return 0
}

// paragraphDown goes to the next non-blank line that follows a blank one.
func paragraphDown(t Text, line uint32) Offset {
	sawBlank := false
	for l := line + 1; l < t.LineCount(); l++ {
		if isBlank(t.LineText(l)) {
			sawBlank = true
		} else if sawBlank {
			return t.LineToOffset(l)
		}
	}
	return t.Len()
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// skipRunes returns s without its first n runes.
func skipRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}

// prefixRunes returns the first n runes of s.
func prefixRunes(s string, n int) string {
	return s[:len(s)-len(skipRunes(s, n))]
}
