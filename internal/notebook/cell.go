// Package notebook splits a document into executable cells and converts
// between that text form and Jupyter .ipynb files.
//
// A cell starts at a line whose trimmed text begins with the delimiter
// ("# %%" by default) and runs to the next delimiter or the end of the
// document. A delimiter line that mentions "markdown" starts a markdown
// cell, which is never executed. A document without delimiters is a
// single code cell.
package notebook

import (
	"strings"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// DefaultDelimiter marks the start of a cell.
const DefaultDelimiter = "# %%"

// Kind is the cell type.
type Kind int

const (
	KindCode Kind = iota
	KindMarkdown
)

func (k Kind) String() string {
	if k == KindMarkdown {
		return "markdown"
	}
	return "code"
}

// Cell is a span of the document. Start and End are character offsets;
// Start is the delimiter line when there is one.
type Cell struct {
	Index int
	Kind  Kind
	Start buffer.Offset
	End   buffer.Offset

	// Line is the first line of the cell.
	Line uint32
	// Title is the delimiter line text after the delimiter.
	Title        string
	HasDelimiter bool
}

// Range returns the cell's character range.
func (c Cell) Range() buffer.Range {
	return buffer.Range{Start: c.Start, End: c.End}
}

// Text is the part of a document snapshot the parser reads.
type Text interface {
	Len() buffer.Offset
	LineCount() uint32
	LineText(line uint32) string
	LineToOffset(line uint32) buffer.Offset
	Slice(start, end buffer.Offset) (string, error)
}

// Parse splits text into cells. Text before the first delimiter becomes
// a code cell of its own unless it is blank.
func Parse(text Text, delimiter string) []Cell {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	var cells []Cell
	var preambleBlank = true
	n := text.LineCount()
	for line := uint32(0); line < n; line++ {
		lt := text.LineText(line)
		trimmed := strings.TrimLeft(lt, " \t")
		if !strings.HasPrefix(trimmed, delimiter) {
			if len(cells) == 0 && strings.TrimSpace(lt) != "" {
				preambleBlank = false
			}
			continue
		}

		start := text.LineToOffset(line)
		if len(cells) == 0 && !preambleBlank {
			cells = append(cells, Cell{Kind: KindCode, Start: 0, End: start})
		}
		if len(cells) > 0 {
			cells[len(cells)-1].End = start
		}
		kind := KindCode
		if strings.Contains(strings.ToLower(lt), "markdown") {
			kind = KindMarkdown
		}
		cells = append(cells, Cell{
			Kind:         kind,
			Start:        start,
			End:          text.Len(),
			Line:         line,
			Title:        strings.TrimSpace(strings.TrimPrefix(trimmed, delimiter)),
			HasDelimiter: true,
		})
	}

	if len(cells) == 0 {
		return []Cell{{Kind: KindCode, Start: 0, End: text.Len()}}
	}
	for i := range cells {
		cells[i].Index = i
	}
	return cells
}

// Source returns the cell text without its delimiter line.
func Source(text Text, c Cell) string {
	start := c.Start
	if c.HasDelimiter {
		start = text.LineToOffset(c.Line + 1)
		if start > c.End {
			return ""
		}
	}
	s, err := text.Slice(start, c.End)
	if err != nil {
		return ""
	}
	return s
}

// CellAt returns the cell containing offset. The end of the document
// belongs to the last cell.
func CellAt(cells []Cell, offset buffer.Offset) (Cell, bool) {
	for _, c := range cells {
		if offset >= c.Start && offset < c.End {
			return c, true
		}
	}
	if n := len(cells); n > 0 && offset == cells[n-1].End {
		return cells[n-1], true
	}
	return Cell{}, false
}

// Overlapping returns the cells that share at least one character with r.
// An empty cell inside r counts as overlapping.
func Overlapping(cells []Cell, r buffer.Range) []Cell {
	var out []Cell
	for _, c := range cells {
		if c.Range().Overlaps(r) {
			out = append(out, c)
		}
	}
	return out
}

// ToExecute picks the code cells to run: every cell overlapping a
// non-empty selection, otherwise the cell at the cursor.
func ToExecute(cells []Cell, sel buffer.Range, cursor buffer.Offset) []Cell {
	var picked []Cell
	if !sel.IsEmpty() {
		picked = Overlapping(cells, sel)
	} else if c, ok := CellAt(cells, cursor); ok {
		picked = []Cell{c}
	}

	out := picked[:0]
	for _, c := range picked {
		if c.Kind == KindCode {
			out = append(out, c)
		}
	}
	return out
}
