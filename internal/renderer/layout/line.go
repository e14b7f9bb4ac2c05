// Package layout turns logical lines into rows of terminal cells.
package layout

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/inkwell/internal/renderer/core"
)

// NoColumn marks cells that do not belong to a character of the line,
// such as continuation indent padding.
const NoColumn = -1

// Row is one visual row of a laid out line.
type Row struct {
	// Cells contains the row's cells, starting with Indent padding cells.
	Cells []core.Cell

	// Cols maps each cell to the character column of the cluster it
	// shows, or NoColumn for padding.
	Cols []int

	// Start and End are the character columns [Start, End) the row covers.
	// A space swallowed by a word break belongs to the row before it.
	Start, End int

	// Indent is the number of padding cells on a continuation row.
	Indent int
}

// Width returns the row width in cells.
func (r Row) Width() int {
	return len(r.Cells)
}

// LineLayout represents the visual layout of a single logical line.
type LineLayout struct {
	Rows []Row

	// Chars is the line length in characters.
	Chars int

	// Width is the unwrapped width in cells.
	Width int
}

// RowCount returns the number of visual rows.
func (l *LineLayout) RowCount() int {
	return len(l.Rows)
}

// Locate returns the visual row and cell index of character column col.
// Columns past the end of the line map to the end of the last row.
func (l *LineLayout) Locate(col int) (row, x int) {
	if len(l.Rows) == 0 {
		return 0, 0
	}
	row = len(l.Rows) - 1
	for i, r := range l.Rows {
		if col < r.End {
			row = i
			break
		}
	}
	r := l.Rows[row]
	prev := -1
	for k, c := range r.Cols {
		if c == NoColumn || (k > 0 && r.Cells[k].IsContinuation()) {
			continue
		}
		if c == col {
			return row, k
		}
		if c > col {
			if prev >= 0 {
				return row, prev
			}
			return row, k
		}
		prev = k
	}
	return row, len(r.Cells)
}

// ColumnAt returns the character column shown at cell x of row, for
// mapping a screen position back into the line.
func (l *LineLayout) ColumnAt(row, x int) int {
	if row < 0 || len(l.Rows) == 0 {
		return 0
	}
	if row >= len(l.Rows) {
		return l.Chars
	}
	r := l.Rows[row]
	if x < r.Indent {
		return r.Start
	}
	if x >= len(r.Cols) {
		if row == len(l.Rows)-1 {
			return l.Chars
		}
		return max(r.End-1, r.Start)
	}
	return r.Cols[x]
}

// Engine computes line layouts.
type Engine struct {
	wrapWidth int // 0 = no wrap
}

// NewEngine creates a layout engine. A wrap width of 0 disables wrapping.
func NewEngine(wrapWidth int) *Engine {
	e := &Engine{}
	e.SetWrapWidth(wrapWidth)
	return e
}

// WrapWidth returns the wrap width (0 if disabled).
func (e *Engine) WrapWidth() int {
	return e.wrapWidth
}

// SetWrapWidth configures wrapping. Width 0 disables it.
func (e *Engine) SetWrapWidth(width int) {
	e.wrapWidth = max(width, 0)
}

type cluster struct {
	text  string
	width int
	col   int // first character column
}

// clusters splits line into grapheme clusters with their cell widths.
// Control characters show as U+FFFD; other zero-width clusters join the
// cluster before them.
func clusters(line string) []cluster {
	out := make([]cluster, 0, len(line))
	col := 0
	state := -1
	rest := line
	for rest != "" {
		var c string
		c, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		n := utf8.RuneCountInString(c)
		w := runewidth.StringWidth(c)
		if w == 0 {
			r, _ := utf8.DecodeRuneInString(c)
			if r < 0x20 || r == 0x7f || len(out) == 0 {
				out = append(out, cluster{text: "�", width: 1, col: col})
			} else {
				out[len(out)-1].text += c
			}
			col += n
			continue
		}
		out = append(out, cluster{text: c, width: w, col: col})
		col += n
	}
	return out
}

// Layout computes the visual layout for a line of text without a newline.
//
// When wrapping, rows break at the last space that leaves more than a
// quarter of the row filled, else at the width. Continuation rows are
// indented to the line's indent plus its list marker.
func (e *Engine) Layout(line string) *LineLayout {
	cs := clusters(line)
	l := &LineLayout{Chars: utf8.RuneCountInString(line)}
	for _, c := range cs {
		l.Width += c.width
	}
	if len(cs) == 0 {
		l.Rows = []Row{{}}
		return l
	}
	if e.wrapWidth <= 0 {
		l.Rows = []Row{buildRow(cs, 0, 0, l.Chars)}
		return l
	}

	indent := ContinuationIndent(line)
	for i := 0; i < len(cs); {
		pad := 0
		if len(l.Rows) > 0 {
			pad = indent
		}
		avail := e.wrapWidth - pad
		if avail <= 0 {
			pad = 0
			avail = 1
		}

		j, w, lastSpace := i, 0, -1
		for j < len(cs) && w+cs[j].width <= avail {
			if cs[j].text == " " {
				lastSpace = j
			}
			w += cs[j].width
			j++
		}
		if j == i {
			j = i + 1
		}
		if j < len(cs) && lastSpace > i && lastSpace-i > avail/4 {
			j = lastSpace
		}

		next := j
		if next < len(cs) && cs[next].text == " " {
			next++
		}
		end := l.Chars
		if next < len(cs) {
			end = cs[next].col
		}
		l.Rows = append(l.Rows, buildRow(cs[i:j], pad, cs[i].col, end))
		i = next
	}
	return l
}

func buildRow(cs []cluster, indent, start, end int) Row {
	r := Row{Start: start, End: end, Indent: indent}
	r.Cells = make([]core.Cell, 0, indent+len(cs))
	r.Cols = make([]int, 0, indent+len(cs))
	for range indent {
		r.Cells = append(r.Cells, core.EmptyCell())
		r.Cols = append(r.Cols, NoColumn)
	}
	for _, c := range cs {
		r.Cells = append(r.Cells, core.NewCell(c.text, c.width))
		r.Cols = append(r.Cols, c.col)
		for range c.width - 1 {
			r.Cells = append(r.Cells, core.ContinuationCell())
			r.Cols = append(r.Cols, c.col)
		}
	}
	return r
}
