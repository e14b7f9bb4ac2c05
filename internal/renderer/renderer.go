package renderer

import (
	"slices"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/tracking"
	"github.com/dshills/inkwell/internal/renderer/core"
	"github.com/dshills/inkwell/internal/renderer/dirty"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/linecache"
	"github.com/dshills/inkwell/internal/renderer/viewport"
	"github.com/dshills/inkwell/internal/syntax"
)

// Options configures the renderer.
type Options struct {
	// Gutter selects the line number gutter left of the text.
	Gutter GutterMode

	// Theme styles tokens and overlays. Nil uses DefaultThemeName.
	Theme *Theme

	Logger *zap.Logger
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{Theme: NewTheme(DefaultThemeName)}
}

// State is the per-frame input besides the viewport.
type State struct {
	Snapshot  buffer.Snapshot
	Cursor    buffer.Offset
	Selection buffer.Range

	// Tokens are byte spans for Snapshot's revision, sorted by Start.
	Tokens []syntax.Span

	// Brackets are the offsets of a matched bracket pair.
	Brackets []buffer.Offset

	// Matches are find results, sorted by Start.
	Matches []buffer.Range

	// FollowCursor scrolls the viewport to keep the cursor visible.
	FollowCursor bool
}

// RowLine identifies what a screen row shows.
type RowLine struct {
	Line  uint32
	Row   int  // wrapped row within Line
	Valid bool // false past the end of the document
}

// Frame is one composed screen.
type Frame struct {
	Width, Height int

	// Rows holds every visible row, each exactly Width cells.
	Rows  [][]core.Cell
	Lines []RowLine

	// Dirty lists screen rows that differ from the previous frame.
	Dirty []int
	// Full is set when the previous frame cannot be diffed against.
	Full bool

	// Recomputed lists logical lines laid out for this frame.
	Recomputed []uint32
	// Evicted lists logical lines dropped from the cache.
	Evicted []uint32

	Top uint32

	CursorX, CursorY int
	CursorVisible    bool
}

// Overlay writes cells over row y from column x, clipped to the frame,
// and marks the row dirty. A wide cell that would cross the right edge
// is dropped.
func (f *Frame) Overlay(x, y int, cells []core.Cell) {
	if y < 0 || y >= len(f.Rows) || x >= f.Width {
		return
	}
	row := make([]core.Cell, len(f.Rows[y]))
	copy(row, f.Rows[y])
	for _, c := range cells {
		if x >= 0 && x+max(c.Width, 1) > len(row) {
			break
		}
		if x >= 0 {
			row[x] = c
		}
		x++
	}
	f.Rows[y] = row
	if !slices.Contains(f.Dirty, y) {
		f.Dirty = append(f.Dirty, y)
		slices.Sort(f.Dirty)
	}
}

// Renderer builds frames from document snapshots, reusing cached line
// layouts across frames.
type Renderer struct {
	mu sync.Mutex

	gutterMode GutterMode
	theme      *Theme
	logger     *zap.Logger

	layout *layout.Engine
	dirty  *dirty.Tracker
	cache  *linecache.Cache

	prev      [][]core.Cell
	prevWidth int
	frames    uint64
}

// New creates a renderer.
func New(opts Options) *Renderer {
	if opts.Theme == nil {
		opts.Theme = NewTheme(DefaultThemeName)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracker := dirty.NewTracker()
	return &Renderer{
		gutterMode: opts.Gutter,
		theme:      opts.Theme,
		logger:     logger.Named("renderer"),
		layout:     layout.NewEngine(0),
		dirty:      tracker,
		cache:      linecache.New(tracker),
	}
}

// Cache returns the line cache.
func (r *Renderer) Cache() *linecache.Cache {
	return r.cache
}

// Theme returns the active theme.
func (r *Renderer) Theme() *Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// SetTheme replaces the theme. The next frame is drawn in full.
func (r *Renderer) SetTheme(t *Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = t
	r.prev = nil
}

// ApplyChange updates the cache keys and dirty lines for a committed
// change. It must be called for every change, in order.
func (r *Renderer) ApplyChange(c tracking.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.Type == tracking.ChangeReset {
		r.cache.InvalidateAll()
		r.dirty.MarkFullRedraw()
		return
	}
	if d := c.LinesDelta(); d != 0 {
		r.cache.Shift(c.OldEndLine+1, d)
	}
	r.dirty.MarkChange(c)
}

// Invalidate forgets the previous frame so the next one is drawn in full.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prev = nil
}

// SetGutter sets the gutter mode.
func (r *Renderer) SetGutter(m GutterMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gutterMode = m
}

// Gutter returns the gutter mode.
func (r *Renderer) Gutter() GutterMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gutterMode
}

// GutterWidth returns the gutter width for a document of lineCount lines.
func (r *Renderer) GutterWidth(lineCount uint32) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gutterWidth(lineCount)
}

func (r *Renderer) gutterWidth(lineCount uint32) int {
	if r.gutterMode == GutterNone {
		return 0
	}
	digits := len(strconv.FormatUint(uint64(lineCount), 10))
	return max(digits, 3) + 1
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Render composes the frame for view. Visible lines reuse their cached
// layout when it is still valid; overlays are applied to copies of the
// cached cells.
func (r *Renderer) Render(view *viewport.Viewport, st State) Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := st.Snapshot
	rev := snap.Revision()
	lineCount := snap.LineCount()
	view.SetLineCount(lineCount)

	wrapW := view.WrapWidth()
	r.layout.SetWrapWidth(wrapW)

	var recomputed []uint32
	lineAt := func(line uint32) *layout.LineLayout {
		if e, ok := r.cache.Lookup(line, rev, wrapW, func() string { return snap.LineText(line) }); ok {
			return e.Layout
		}
		text := snap.LineText(line)
		l := r.layout.Layout(text)
		r.cache.Store(line, text, l, wrapW, rev)
		recomputed = append(recomputed, line)
		return l
	}

	cp := snap.OffsetToPoint(st.Cursor)
	if st.FollowCursor {
		_, x := lineAt(cp.Line).Locate(int(cp.Column))
		view.EnsureVisible(cp.Line, x)
		if wrapW > 0 {
			fitCursor(view, cp, lineAt)
		}
	}

	top, left := view.Top(), view.Left()
	width, height := view.Width(), view.Height()
	gw := r.gutterWidth(lineCount)

	f := Frame{
		Width:  gw + width,
		Height: height,
		Top:    top,
		Rows:   make([][]core.Cell, 0, height),
		Lines:  make([]RowLine, 0, height),
	}

	bottom := top
	for line := top; len(f.Rows) < height; line++ {
		if line >= lineCount {
			f.Rows = append(f.Rows, r.gutter(gw, "~", clip(nil, 0, width)))
			f.Lines = append(f.Lines, RowLine{})
			continue
		}
		bottom = line

		l := lineAt(line)
		styles := r.overlayStyles(snap, line, l.Chars, st)
		crow, cx := -1, 0
		if line == cp.Line {
			crow, cx = l.Locate(int(cp.Column))
		}

		for i, row := range l.Rows {
			if len(f.Rows) == height {
				break
			}
			hx := 0
			if wrapW == 0 {
				hx = left
			}
			cells := clip(compose(row, styles), hx, width)

			label := ""
			if i == 0 {
				label = r.gutterMode.label(line, cp.Line)
			}
			if i == crow {
				x := cx - hx
				if wrapW > 0 {
					x = min(x, width-1)
				}
				if x >= 0 && x < width {
					f.CursorX, f.CursorY, f.CursorVisible = gw+x, len(f.Rows), true
				}
			}
			f.Rows = append(f.Rows, r.gutter(gw, label, cells))
			f.Lines = append(f.Lines, RowLine{Line: line, Row: i, Valid: true})
		}
	}

	f.Evicted = r.cache.EvictOutside(top, bottom)
	f.Recomputed = recomputed

	f.Full = r.prev == nil || len(r.prev) != len(f.Rows) || r.prevWidth != f.Width
	for y, row := range f.Rows {
		if f.Full || !core.RowsEqual(row, r.prev[y]) {
			f.Dirty = append(f.Dirty, y)
		}
	}
	r.prev = f.Rows
	r.prevWidth = f.Width
	r.dirty.Clear()
	r.frames++

	r.logger.Debug("frame",
		zap.Uint64("revision", uint64(rev)),
		zap.Uint32("top", top),
		zap.Int("dirty_rows", len(f.Dirty)),
		zap.Int("recomputed", len(f.Recomputed)),
		zap.Int("evicted", len(f.Evicted)))
	return f
}

// fitCursor scrolls down until the cursor's wrapped row fits on screen.
func fitCursor(view *viewport.Viewport, cp buffer.Point, lineAt func(uint32) *layout.LineLayout) {
	height := view.Height()
	crow, _ := lineAt(cp.Line).Locate(int(cp.Column))
	for top := view.Top(); top < cp.Line; top = view.Top() {
		rows := 0
		for line := top; line < cp.Line && rows < height; line++ {
			rows += lineAt(line).RowCount()
		}
		if rows+crow < height {
			return
		}
		view.ScrollBy(1)
	}
}

// overlayStyles returns per-character styles for line, or nil when no
// overlay touches it. Later layers win: tokens, matches, brackets,
// selection.
func (r *Renderer) overlayStyles(snap buffer.Snapshot, line uint32, chars int, st State) []core.Style {
	start := snap.LineToOffset(line)
	end := start + buffer.Offset(chars)

	var styles []core.Style
	paint := func(from, to buffer.Offset, s core.Style) {
		from, to = max(from, start), min(to, end)
		if from >= to {
			return
		}
		if styles == nil {
			styles = make([]core.Style, chars)
			for i := range styles {
				styles[i] = core.DefaultStyle()
			}
		}
		for o := from; o < to; o++ {
			styles[o-start] = styles[o-start].Merge(s)
		}
	}

	if len(st.Tokens) > 0 && chars > 0 {
		bs, be := snap.ByteOffset(start), snap.ByteOffset(end)
		if spans := syntax.SpansIn(st.Tokens, bs, be); len(spans) > 0 {
			starts := runeStarts(snap.LineText(line))
			toChar := func(b int64) buffer.Offset {
				return start + buffer.Offset(sort.SearchInts(starts, int(b-bs)))
			}
			for _, s := range spans {
				paint(toChar(s.Start), toChar(s.End), r.theme.Token(s.Kind))
			}
		}
	}

	i := sort.Search(len(st.Matches), func(i int) bool { return st.Matches[i].End > start })
	for ; i < len(st.Matches) && st.Matches[i].Start < end; i++ {
		paint(st.Matches[i].Start, st.Matches[i].End, r.theme.Match)
	}

	for _, b := range st.Brackets {
		paint(b, b+1, r.theme.Bracket)
	}

	if !st.Selection.IsEmpty() {
		paint(st.Selection.Start, st.Selection.End, r.theme.Selection)
	}
	return styles
}

// runeStarts returns the byte offset of every character of s followed by
// len(s).
func runeStarts(s string) []int {
	starts := make([]int, 0, len(s)+1)
	for i := range s {
		starts = append(starts, i)
	}
	return append(starts, len(s))
}

// compose copies the row's cells with per-character styles applied.
func compose(row layout.Row, styles []core.Style) []core.Cell {
	cells := make([]core.Cell, len(row.Cells))
	copy(cells, row.Cells)
	if styles == nil {
		return cells
	}
	for k, col := range row.Cols {
		if col != layout.NoColumn && col < len(styles) {
			cells[k].Style = cells[k].Style.Merge(styles[col])
		}
	}
	return cells
}

// clip returns exactly width cells of cells starting at left. Wide
// clusters cut by either edge become blanks.
func clip(cells []core.Cell, left, width int) []core.Cell {
	out := make([]core.Cell, width)
	for x := range out {
		k := left + x
		if k >= len(cells) {
			out[x] = core.EmptyCell()
			continue
		}
		c := cells[k]
		switch {
		case c.IsContinuation() && x == 0:
			c = blank(c)
		case c.Width > 1 && x+c.Width > width:
			c = blank(c)
		}
		out[x] = c
	}
	return out
}

func blank(c core.Cell) core.Cell {
	b := core.EmptyCell()
	b.Style = c.Style
	return b
}

// gutter prefixes cells with a right-aligned label of width gw.
func (r *Renderer) gutter(gw int, label string, cells []core.Cell) []core.Cell {
	if gw == 0 {
		return cells
	}
	row := make([]core.Cell, 0, gw+len(cells))
	pad := gw - 1 - len(label)
	for range pad {
		row = append(row, blankWith(r.theme.Gutter))
	}
	for _, ch := range label {
		c := core.NewCell(string(ch), 1)
		c.Style = r.theme.Gutter
		row = append(row, c)
	}
	row = append(row, core.EmptyCell())
	return append(row, cells...)
}

func blankWith(s core.Style) core.Cell {
	c := core.EmptyCell()
	c.Style = s
	return c
}
