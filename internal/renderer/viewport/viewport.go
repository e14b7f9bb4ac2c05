// Package viewport tracks which part of the document is on screen.
package viewport

import "sync"

// DefaultScrolloff is the number of context lines kept around the cursor.
const DefaultScrolloff = 3

// Viewport represents the visible window of the document in logical lines
// and, with wrap off, display columns.
type Viewport struct {
	mu sync.RWMutex

	topLine    uint32
	leftColumn int

	width  int
	height int

	scrolloff int

	wrap      bool
	wrapWidth int // 0 = follow width

	lineCount uint32
}

// New creates a viewport with the given size. Width and height are
// clamped to a minimum of 1.
func New(width, height int) *Viewport {
	return &Viewport{
		width:     max(width, 1),
		height:    max(height, 1),
		scrolloff: DefaultScrolloff,
		lineCount: 1,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// Top returns the first visible logical line.
func (v *Viewport) Top() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// Left returns the first visible display column. It is always 0 with
// wrap on.
func (v *Viewport) Left() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

// Bottom returns the last logical line that fits when no line wraps.
func (v *Viewport) Bottom() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

func (v *Viewport) bottomLine() uint32 {
	bottom := v.topLine + uint32(v.height) - 1
	if v.lineCount > 0 && bottom > v.lineCount-1 {
		bottom = max(v.lineCount-1, v.topLine)
	}
	return bottom
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// SetLineCount records the document length used to clamp scrolling.
func (v *Viewport) SetLineCount(n uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = max(n, 1)
	if v.topLine >= v.lineCount {
		v.topLine = v.lineCount - 1
	}
}

// SetScrolloff sets the requested scrolloff. Negative values become 0.
func (v *Viewport) SetScrolloff(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolloff = max(n, 0)
}

// Scrolloff returns the effective scrolloff, clamped to (height-1)/2.
func (v *Viewport) Scrolloff() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.effectiveScrolloff()
}

func (v *Viewport) effectiveScrolloff() int {
	return min(v.scrolloff, (v.height-1)/2)
}

// SetWrap turns word wrap on or off. A wrap width of 0 or one wider than
// the viewport wraps at the viewport width.
func (v *Viewport) SetWrap(on bool, width int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wrap = on
	v.wrapWidth = max(width, 0)
	if on {
		v.leftColumn = 0
	}
}

// WrapWidth returns the width lines are wrapped at, or 0 with wrap off.
func (v *Viewport) WrapWidth() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.wrap {
		return 0
	}
	if v.wrapWidth == 0 || v.wrapWidth > v.width {
		return v.width
	}
	return v.wrapWidth
}

// EnsureVisible scrolls minimally so that line stays at least scrolloff
// lines from the top and bottom edges. With wrap off, visualX is kept at
// least scrolloff columns from the left and right edges. Returns true if
// the viewport moved.
func (v *Viewport) EnsureVisible(line uint32, visualX int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	top, left := v.topLine, v.leftColumn
	so := uint32(v.effectiveScrolloff())
	h := uint32(v.height)

	switch {
	case line < v.topLine+so:
		if line >= so {
			v.topLine = line - so
		} else {
			v.topLine = 0
		}
	case line+so >= v.topLine+h:
		target := line + so + 1 - h
		if line < v.lineCount {
			target = min(target, v.lineCount-min(v.lineCount, h))
		}
		v.topLine = target
	}

	if v.wrap {
		v.leftColumn = 0
	} else {
		hso := min(v.scrolloff, (v.width-1)/2)
		switch {
		case visualX < v.leftColumn+hso:
			v.leftColumn = max(visualX-hso, 0)
		case visualX >= v.leftColumn+v.width-hso:
			v.leftColumn = visualX + hso + 1 - v.width
		}
	}

	return top != v.topLine || left != v.leftColumn
}

// ScrollTo places line at the top, clamped to the document.
func (v *Viewport) ScrollTo(line uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = min(line, v.lineCount-1)
}

// ScrollBy scrolls by delta lines, clamped to the document.
func (v *Viewport) ScrollBy(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	top := int64(v.topLine) + int64(delta)
	top = max(top, 0)
	top = min(top, int64(v.lineCount)-1)
	v.topLine = uint32(top)
}

// ScrollHorizontalBy scrolls by delta columns. It has no effect with wrap on.
func (v *Viewport) ScrollHorizontalBy(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.wrap {
		return
	}
	v.leftColumn = max(v.leftColumn+delta, 0)
}

// CenterOn centers the viewport on line.
func (v *Viewport) CenterOn(line uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()

	half := uint32(v.height / 2)
	target := uint32(0)
	if line >= half {
		target = line - half
	}
	if v.lineCount > uint32(v.height) {
		target = min(target, v.lineCount-uint32(v.height))
	} else {
		target = 0
	}
	v.topLine = target
}

// PageSize returns the number of lines moved by PageUp and PageDown.
func (v *Viewport) PageSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return max(v.height-2, 1)
}

// IsLineVisible reports whether line falls in the unwrapped window.
func (v *Viewport) IsLineVisible(line uint32) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line <= v.bottomLine()
}
