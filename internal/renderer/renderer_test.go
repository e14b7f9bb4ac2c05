package renderer

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/renderer/core"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/viewport"
	"github.com/dshills/inkwell/internal/syntax"
)

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return strings.Join(lines, "\n")
}

func setup(t *testing.T, content string, width, height int) (*engine.Engine, *Renderer, *viewport.Viewport) {
	t.Helper()
	eng := engine.New(engine.WithContent(content))
	r := New(DefaultOptions())
	unsubscribe := eng.Subscribe(r.ApplyChange)
	t.Cleanup(unsubscribe)
	return eng, r, viewport.New(width, height)
}

func rowText(row []core.Cell) string {
	return strings.TrimRight(core.StringFromCells(row), " ")
}

func lines(ls ...uint32) []uint32 {
	return ls
}

func TestRenderReusesCache(t *testing.T) {
	eng, r, view := setup(t, numberedLines(100), 20, 5)

	f := r.Render(view, State{Snapshot: eng.Snapshot()})
	if want := lines(0, 1, 2, 3, 4); !reflect.DeepEqual(f.Recomputed, want) {
		t.Errorf("first Recomputed = %v, want %v", f.Recomputed, want)
	}
	if !f.Full || len(f.Dirty) != 5 {
		t.Errorf("first frame Full = %v, Dirty = %v, want full redraw", f.Full, f.Dirty)
	}
	if got := rowText(f.Rows[3]); got != "line 3" {
		t.Errorf("row 3 = %q, want %q", got, "line 3")
	}

	f = r.Render(view, State{Snapshot: eng.Snapshot()})
	if len(f.Recomputed) != 0 {
		t.Errorf("second Recomputed = %v, want none", f.Recomputed)
	}
	if f.Full || len(f.Dirty) != 0 {
		t.Errorf("second frame Full = %v, Dirty = %v, want nothing", f.Full, f.Dirty)
	}
	if s := r.Cache().Stats(); s.Hits < 5 {
		t.Errorf("Stats().Hits = %d, want at least 5", s.Hits)
	}
}

func TestScrollLaysOutOnlyEnteringLines(t *testing.T) {
	eng, r, view := setup(t, numberedLines(100), 20, 5)
	view.SetLineCount(100)
	r.Render(view, State{Snapshot: eng.Snapshot()})

	view.ScrollBy(2)
	f := r.Render(view, State{Snapshot: eng.Snapshot()})
	if want := lines(5, 6); !reflect.DeepEqual(f.Recomputed, want) {
		t.Errorf("Recomputed = %v, want %v", f.Recomputed, want)
	}
	if want := lines(0, 1); !reflect.DeepEqual(f.Evicted, want) {
		t.Errorf("Evicted = %v, want %v", f.Evicted, want)
	}
	if f.Top != 2 || rowText(f.Rows[0]) != "line 2" {
		t.Errorf("Top = %d, row 0 = %q", f.Top, rowText(f.Rows[0]))
	}
	if len(f.Dirty) != 5 {
		t.Errorf("Dirty = %v, want every row", f.Dirty)
	}

	view.ScrollBy(-1)
	f = r.Render(view, State{Snapshot: eng.Snapshot()})
	if want := lines(1); !reflect.DeepEqual(f.Recomputed, want) {
		t.Errorf("scrolling back Recomputed = %v, want %v", f.Recomputed, want)
	}
}

func TestInsertedLineKeepsEntriesBelow(t *testing.T) {
	eng, r, view := setup(t, numberedLines(100), 20, 5)
	r.Render(view, State{Snapshot: eng.Snapshot()})

	at := eng.Snapshot().LineToOffset(1)
	if err := eng.Replace(at, at, "new\n"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	f := r.Render(view, State{Snapshot: eng.Snapshot()})
	if want := lines(1, 2); !reflect.DeepEqual(f.Recomputed, want) {
		t.Errorf("Recomputed = %v, want %v", f.Recomputed, want)
	}
	if want := lines(5); !reflect.DeepEqual(f.Evicted, want) {
		t.Errorf("Evicted = %v, want %v", f.Evicted, want)
	}
	want := []string{"line 0", "new", "line 1", "line 2", "line 3"}
	for y, w := range want {
		if got := rowText(f.Rows[y]); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
	if want := []int{1, 2, 3, 4}; !reflect.DeepEqual(f.Dirty, want) {
		t.Errorf("Dirty = %v, want %v", f.Dirty, want)
	}
}

func TestDeletedLinesKeepEntriesBelow(t *testing.T) {
	eng, r, view := setup(t, numberedLines(100), 20, 5)
	r.Render(view, State{Snapshot: eng.Snapshot()})

	snap := eng.Snapshot()
	if err := eng.DeleteRange(snap.LineToOffset(1), snap.LineToOffset(3)); err != nil {
		t.Fatalf("DeleteRange() error = %v", err)
	}

	// Line 1 now joins the text around the deletion; lines 3 and 4 enter
	// the window.
	f := r.Render(view, State{Snapshot: eng.Snapshot()})
	if want := lines(1, 3, 4); !reflect.DeepEqual(f.Recomputed, want) {
		t.Errorf("Recomputed = %v, want %v", f.Recomputed, want)
	}
	if got := rowText(f.Rows[1]); got != "line 3" {
		t.Errorf("row 1 = %q, want %q", got, "line 3")
	}
}

func TestOverlaysDoNotTouchCache(t *testing.T) {
	eng, r, view := setup(t, numberedLines(10), 20, 5)
	theme := r.Theme()

	f := r.Render(view, State{
		Snapshot:  eng.Snapshot(),
		Selection: buffer.Range{Start: 0, End: 4},
	})
	for x := 0; x < 4; x++ {
		if f.Rows[0][x].Style != theme.Selection {
			t.Errorf("cell %d style = %+v, want selection", x, f.Rows[0][x].Style)
		}
	}
	if f.Rows[0][4].Style != core.DefaultStyle() {
		t.Errorf("cell 4 style = %+v, want default", f.Rows[0][4].Style)
	}

	e, ok := r.Cache().Get(0)
	if !ok {
		t.Fatal("line 0 not cached")
	}
	if e.Layout.Rows[0].Cells[0].Style != core.DefaultStyle() {
		t.Error("selection style leaked into the cache")
	}

	start := eng.Snapshot().LineToOffset(1)
	f = r.Render(view, State{
		Snapshot:  eng.Snapshot(),
		Selection: buffer.Range{Start: start, End: start + 2},
	})
	if len(f.Recomputed) != 0 {
		t.Errorf("moving the selection recomputed %v", f.Recomputed)
	}
	if want := []int{0, 1}; !reflect.DeepEqual(f.Dirty, want) {
		t.Errorf("Dirty = %v, want %v", f.Dirty, want)
	}
}

func TestOverlayLayers(t *testing.T) {
	eng, r, view := setup(t, "é x (y)", 20, 3)
	theme := r.Theme()

	f := r.Render(view, State{
		Snapshot: eng.Snapshot(),
		// "x" starts at byte 3 but character 2.
		Tokens:   []syntax.Span{{Start: 3, End: 4, Kind: chroma.Keyword}},
		Matches:  []buffer.Range{{Start: 5, End: 6}},
		Brackets: []buffer.Offset{4, 6},
	})
	row := f.Rows[0]

	if row[0].Style != core.DefaultStyle() || row[1].Style != core.DefaultStyle() {
		t.Error("token style applied before its byte range")
	}
	if row[2].Style != theme.Token(chroma.Keyword) {
		t.Errorf("cell 2 style = %+v, want keyword", row[2].Style)
	}
	if row[4].Style != theme.Bracket {
		t.Errorf("cell 4 style = %+v, want bracket", row[4].Style)
	}
	if row[5].Style != theme.Match {
		t.Errorf("cell 5 style = %+v, want match", row[5].Style)
	}

	f = r.Render(view, State{
		Snapshot:  eng.Snapshot(),
		Matches:   []buffer.Range{{Start: 5, End: 6}},
		Selection: buffer.Range{Start: 5, End: 6},
	})
	if want := theme.Match.Merge(theme.Selection); f.Rows[0][5].Style != want {
		t.Errorf("selection over match = %+v, want %+v", f.Rows[0][5].Style, want)
	}
}

func TestCursorOnlyChangeHasNoDirtyRows(t *testing.T) {
	eng, r, view := setup(t, numberedLines(10), 20, 5)
	r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: 0})

	f := r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: 3})
	if len(f.Dirty) != 0 {
		t.Errorf("Dirty = %v, want none", f.Dirty)
	}
	if !f.CursorVisible || f.CursorX != 3 || f.CursorY != 0 {
		t.Errorf("cursor = (%d, %d) visible %v, want (3, 0)", f.CursorX, f.CursorY, f.CursorVisible)
	}
}

func TestFollowCursorKeepsScrolloff(t *testing.T) {
	eng, r, view := setup(t, numberedLines(100), 20, 10)

	cur := eng.Snapshot().LineToOffset(20) + 2
	f := r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: cur, FollowCursor: true})
	if f.Top != 14 {
		t.Errorf("Top = %d, want 14", f.Top)
	}
	if f.CursorY != 6 || f.CursorX != 2 {
		t.Errorf("cursor = (%d, %d), want (2, 6)", f.CursorX, f.CursorY)
	}

	f = r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: cur})
	if len(f.Recomputed) != 0 {
		t.Errorf("Recomputed = %v after following the cursor, want none", f.Recomputed)
	}
}

func TestFollowCursorHorizontal(t *testing.T) {
	eng, r, view := setup(t, strings.Repeat("x", 50)+"END", 20, 3)

	f := r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: 52, FollowCursor: true})
	if view.Left() != 52+3+1-20 {
		t.Errorf("Left() = %d, want %d", view.Left(), 52+3+1-20)
	}
	if f.CursorX != 52-view.Left() {
		t.Errorf("CursorX = %d, want %d", f.CursorX, 52-view.Left())
	}
	if got := rowText(f.Rows[0]); !strings.HasSuffix(got, "END") {
		t.Errorf("row 0 = %q, want it to end with END", got)
	}
}

func TestWrapRows(t *testing.T) {
	eng, r, view := setup(t, "the quick brown fox\nnext", 10, 4)
	view.SetWrap(true, 0)

	f := r.Render(view, State{Snapshot: eng.Snapshot()})
	want := []string{"the quick", "brown fox", "next", ""}
	for y, w := range want {
		if got := rowText(f.Rows[y]); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
		if len(f.Rows[y]) != 10 {
			t.Errorf("row %d has %d cells, want 10", y, len(f.Rows[y]))
		}
	}
	wantLines := []RowLine{
		{Line: 0, Row: 0, Valid: true},
		{Line: 0, Row: 1, Valid: true},
		{Line: 1, Row: 0, Valid: true},
		{},
	}
	if !reflect.DeepEqual(f.Lines, wantLines) {
		t.Errorf("Lines = %+v, want %+v", f.Lines, wantLines)
	}

	f = r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: 12})
	if f.CursorY != 1 || f.CursorX != 2 {
		t.Errorf("cursor = (%d, %d), want (2, 1)", f.CursorX, f.CursorY)
	}
}

func TestWrapFitsCursorBelowTallLine(t *testing.T) {
	eng, r, view := setup(t, "aaaa bbbb cccc dddd eeee\nx", 10, 3)
	view.SetWrap(true, 0)

	f := r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: 25, FollowCursor: true})
	if f.Top != 1 {
		t.Errorf("Top = %d, want 1", f.Top)
	}
	if !f.CursorVisible || f.CursorY != 0 {
		t.Errorf("cursor row = %d visible %v, want row 0", f.CursorY, f.CursorVisible)
	}
}

func TestWrapWidthChangeRelayouts(t *testing.T) {
	eng, r, view := setup(t, "one two three", 20, 3)
	view.SetWrap(true, 0)
	r.Render(view, State{Snapshot: eng.Snapshot()})

	view.Resize(8, 3)
	f := r.Render(view, State{Snapshot: eng.Snapshot()})
	if want := lines(0); !reflect.DeepEqual(f.Recomputed, want) {
		t.Errorf("Recomputed = %v, want %v", f.Recomputed, want)
	}
	if !f.Full {
		t.Error("resize did not force a full frame")
	}
}

func TestResetRelayoutsEverything(t *testing.T) {
	eng, r, view := setup(t, numberedLines(3), 20, 3)
	r.Render(view, State{Snapshot: eng.Snapshot()})

	eng.SetContent("fresh\nline 1\nline 2")
	f := r.Render(view, State{Snapshot: eng.Snapshot()})
	if want := lines(0, 1, 2); !reflect.DeepEqual(f.Recomputed, want) {
		t.Errorf("Recomputed = %v, want %v", f.Recomputed, want)
	}
	if want := []int{0}; !reflect.DeepEqual(f.Dirty, want) {
		t.Errorf("Dirty = %v, want %v", f.Dirty, want)
	}
}

func TestGutter(t *testing.T) {
	eng := engine.New(engine.WithContent("a\nb"))
	opts := DefaultOptions()
	opts.Gutter = GutterAbsolute
	r := New(opts)
	view := viewport.New(6, 3)

	f := r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: 1})
	if f.Width != 10 {
		t.Errorf("Width = %d, want 10", f.Width)
	}
	if got := core.StringFromCells(f.Rows[0][:4]); got != "  1 " {
		t.Errorf("gutter = %q, want %q", got, "  1 ")
	}
	if got := core.StringFromCells(f.Rows[2][:4]); got != "  ~ " {
		t.Errorf("gutter past end = %q, want %q", got, "  ~ ")
	}
	if f.CursorX != 5 {
		t.Errorf("CursorX = %d, want 5", f.CursorX)
	}
}

func TestGutterRelative(t *testing.T) {
	eng := engine.New(engine.WithContent(numberedLines(12)))
	r := New(DefaultOptions())
	r.SetGutter(GutterRelative)
	view := viewport.New(10, 12)

	cursor := eng.Snapshot().LineToOffset(9)
	f := r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: cursor})
	gutters := make([]string, 0, len(f.Rows))
	for _, row := range f.Rows {
		gutters = append(gutters, strings.TrimSpace(core.StringFromCells(row[:4])))
	}
	want := []string{"9", "8", "7", "6", "5", "4", "3", "2", "1", "10", "1", "2"}
	if !reflect.DeepEqual(gutters, want) {
		t.Errorf("gutter labels = %v, want %v", gutters, want)
	}

	// Moving the cursor renumbers every row.
	f = r.Render(view, State{Snapshot: eng.Snapshot(), Cursor: 0})
	if got := strings.TrimSpace(core.StringFromCells(f.Rows[0][:4])); got != "1" {
		t.Errorf("cursor line label = %q, want %q", got, "1")
	}
	if len(f.Dirty) != len(f.Rows) {
		t.Errorf("Dirty = %v, want every row", f.Dirty)
	}

	r.SetGutter(GutterNone)
	if gw := r.GutterWidth(12); gw != 0 {
		t.Errorf("GutterWidth() = %d with the gutter off", gw)
	}
}

func TestGutterMode(t *testing.T) {
	for _, m := range []GutterMode{GutterNone, GutterAbsolute, GutterRelative} {
		got, err := ParseGutterMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseGutterMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseGutterMode("roman"); err == nil {
		t.Error("ParseGutterMode(roman) succeeded")
	}
	if got := GutterNone.Next().Next().Next(); got != GutterNone {
		t.Errorf("three Next() calls = %v, want none", got)
	}
	if got := GutterAbsolute.Next(); got != GutterRelative {
		t.Errorf("GutterAbsolute.Next() = %v", got)
	}
}

func TestFrameOverlay(t *testing.T) {
	eng, r, view := setup(t, "abc\ndef\nghi", 6, 3)
	f := r.Render(view, State{Snapshot: eng.Snapshot()})
	f = r.Render(view, State{Snapshot: eng.Snapshot()})
	if len(f.Dirty) != 0 {
		t.Fatalf("Dirty = %v, want none", f.Dirty)
	}

	f.Overlay(4, 2, core.CellsFromString("xyz", core.DefaultStyle()))
	f.Overlay(0, 7, core.CellsFromString("ignored", core.DefaultStyle()))
	if got := core.StringFromCells(f.Rows[2]); got != "ghi xy" {
		t.Errorf("row 2 = %q, want %q", got, "ghi xy")
	}
	if want := []int{2}; !reflect.DeepEqual(f.Dirty, want) {
		t.Errorf("Dirty = %v, want %v", f.Dirty, want)
	}

	// The overlaid row is what the next frame diffs against.
	f = r.Render(view, State{Snapshot: eng.Snapshot()})
	if want := []int{2}; !reflect.DeepEqual(f.Dirty, want) {
		t.Errorf("Dirty after overlay = %v, want %v", f.Dirty, want)
	}
}

func TestThemeSetColors(t *testing.T) {
	theme := NewTheme(DefaultThemeName)
	before := theme.Match
	err := theme.SetColors(Colors{Selection: "#102030", Status: "#fff", Match: "nope"})
	if err == nil {
		t.Fatal("SetColors() accepted an invalid color")
	}
	if !strings.Contains(err.Error(), "match") {
		t.Errorf("error = %v, want it to name the field", err)
	}
	if theme.Match != before {
		t.Error("failed SetColors() changed the theme")
	}

	if err := theme.SetColors(Colors{Selection: "#102030", Status: "#fff"}); err != nil {
		t.Fatalf("SetColors() error = %v", err)
	}
	if want := core.ColorFromRGB(0x10, 0x20, 0x30); theme.Selection.Background != want {
		t.Errorf("Selection background = %v, want %v", theme.Selection.Background, want)
	}
	if theme.Status.Background != core.ColorWhite || theme.Status.Foreground != core.ColorBlack {
		t.Errorf("Status = %+v, want black on white", theme.Status)
	}
	if err := (Colors{Popup: "#12"}).Validate(); err == nil {
		t.Error("Validate() accepted #12")
	}
}

func TestSetThemeRedrawsFull(t *testing.T) {
	eng, r, view := setup(t, "abc", 6, 2)
	r.Render(view, State{Snapshot: eng.Snapshot()})
	r.SetTheme(NewTheme("github"))
	if r.Theme().Name() != "github" {
		t.Errorf("Theme().Name() = %q", r.Theme().Name())
	}
	if f := r.Render(view, State{Snapshot: eng.Snapshot()}); !f.Full {
		t.Error("frame after SetTheme is not full")
	}
	if n := r.FrameCount(); n != 2 {
		t.Errorf("FrameCount() = %d, want 2", n)
	}
}

func TestClipWideClusters(t *testing.T) {
	cells := layout.NewEngine(0).Layout("a世b").Rows[0].Cells

	tests := []struct {
		left, width int
		want        string
	}{
		{0, 4, "a世b"},
		{1, 1, " "},
		{2, 2, " b"},
		{1, 3, "世b"},
		{0, 2, "a "},
	}
	for _, tt := range tests {
		got := core.StringFromCells(clip(cells, tt.left, tt.width))
		if got != tt.want {
			t.Errorf("clip(%d, %d) = %q, want %q", tt.left, tt.width, got, tt.want)
		}
	}
}
