// Package backend draws renderer frames on a display and turns display
// input into editor events.
package backend

import (
	"github.com/dshills/inkwell/internal/renderer"
	"github.com/dshills/inkwell/internal/renderer/core"
)

// CursorStyle defines how the cursor appears.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventWheel
	EventResize
	EventPaste
	EventFocus
	// EventClosed is returned once the backend has shut down.
	EventClosed
)

// Event is a decoded terminal event.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  ModMask

	// Lines is the scroll amount of a wheel event, negative for up.
	Lines int

	Width, Height int

	Focused bool

	// PasteText holds the whole bracketed paste.
	PasteText string
}

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // printable character, see Event.Rune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlA
	KeyCtrlC
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlK
	KeyCtrlL
	KeyCtrlN
	KeyCtrlO
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
	KeyCtrlSpace
	KeyF7
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Backend is a display surface. Implementations draw only the rows a
// frame marks dirty.
type Backend interface {
	// Init must be called before any other method.
	Init() error

	// Shutdown restores the terminal. A blocked PollEvent returns
	// EventClosed.
	Shutdown()

	Size() (width, height int)

	// Draw writes the dirty rows of f, or every row when f.Full is set,
	// and places the cursor. Nothing is visible until Show.
	Draw(f *renderer.Frame)

	// DrawRow writes a single row outside the document area, such as the
	// status line.
	DrawRow(y int, cells []core.Cell)

	Show()

	SetCursorStyle(style CursorStyle)

	// PollEvent blocks until the next event.
	PollEvent() Event

	// PostEvent queues a synthetic event. It reports false if the queue
	// is full.
	PostEvent(ev Event) bool

	HasTrueColor() bool
	Beep()
}

// rowsToDraw returns the screen rows Draw must write.
func rowsToDraw(f *renderer.Frame) []int {
	if !f.Full {
		return f.Dirty
	}
	rows := make([]int, len(f.Rows))
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// Null is an in-memory backend for tests. It records which rows each Draw
// wrote.
type Null struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	cursorStyle   CursorStyle
	drawn         []int
	shows         int
	events        chan Event
	closed        chan struct{}
}

// NewNull creates a null backend with the given dimensions.
func NewNull(width, height int) *Null {
	return &Null{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		closed: make(chan struct{}),
	}
}

func (b *Null) Init() error {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
	return nil
}

func (b *Null) Shutdown() {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
}

func (b *Null) Size() (int, int) {
	return b.width, b.height
}

func (b *Null) Draw(f *renderer.Frame) {
	b.drawn = b.drawn[:0]
	for _, y := range rowsToDraw(f) {
		if y < len(f.Rows) {
			b.DrawRow(y, f.Rows[y])
			b.drawn = append(b.drawn, y)
		}
	}
	b.cursorX, b.cursorY, b.cursorVisible = f.CursorX, f.CursorY, f.CursorVisible
}

func (b *Null) DrawRow(y int, cells []core.Cell) {
	if y < 0 || y >= b.height {
		return
	}
	for x := 0; x < b.width; x++ {
		if x < len(cells) {
			b.cells[y][x] = cells[x]
		} else {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

func (b *Null) Show() { b.shows++ }

func (b *Null) SetCursorStyle(style CursorStyle) {
	b.cursorStyle = style
}

func (b *Null) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.closed:
		return Event{Type: EventClosed}
	}
}

func (b *Null) PostEvent(ev Event) bool {
	select {
	case b.events <- ev:
		return true
	default:
		return false
	}
}

func (b *Null) HasTrueColor() bool { return true }
func (b *Null) Beep()              {}

// Row returns the text on screen row y.
func (b *Null) Row(y int) string {
	if y < 0 || y >= len(b.cells) {
		return ""
	}
	return core.StringFromCells(b.cells[y])
}

// Cell returns the cell at (x, y).
func (b *Null) Cell(x, y int) core.Cell {
	if y < 0 || y >= len(b.cells) || x < 0 || x >= len(b.cells[y]) {
		return core.EmptyCell()
	}
	return b.cells[y][x]
}

// Drawn returns the document rows written by the last Draw.
func (b *Null) Drawn() []int {
	return append([]int(nil), b.drawn...)
}

// Shows returns how many times Show was called.
func (b *Null) Shows() int { return b.shows }

// Cursor returns the last cursor position.
func (b *Null) Cursor() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Resize changes the size and queues a resize event.
func (b *Null) Resize(width, height int) {
	b.width, b.height = width, height
	_ = b.Init()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
