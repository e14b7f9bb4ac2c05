package cursor

import (
	"slices"
	"testing"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

func TestRemapInsert(t *testing.T) {
	tests := []struct {
		o, at, length, want Offset
	}{
		{0, 5, 3, 0},
		{4, 5, 3, 4},
		{5, 5, 3, 8},
		{9, 5, 3, 12},
	}
	for _, tt := range tests {
		if got := RemapInsert(tt.o, tt.at, tt.length); got != tt.want {
			t.Errorf("RemapInsert(%d, %d, %d) = %d, want %d", tt.o, tt.at, tt.length, got, tt.want)
		}
	}
}

func TestRemapDelete(t *testing.T) {
	tests := []struct {
		o, start, end, want Offset
	}{
		{2, 5, 8, 2},
		{5, 5, 8, 5},
		{6, 5, 8, 5},
		{8, 5, 8, 5},
		{9, 5, 8, 6},
	}
	for _, tt := range tests {
		if got := RemapDelete(tt.o, tt.start, tt.end); got != tt.want {
			t.Errorf("RemapDelete(%d, %d, %d) = %d, want %d", tt.o, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSelectionRemapDeleteShrinks(t *testing.T) {
	// Selection [5,10) with [3,7) deleted keeps a non-empty extent.
	sel := NewSelection(5, 10).RemapDelete(3, 7)
	if sel != NewSelection(3, 6) {
		t.Errorf("RemapDelete() = %v, want %v", sel, NewSelection(3, 6))
	}
	if sel.IsEmpty() {
		t.Error("selection collapsed implicitly")
	}
}

func TestCursorRemapClamps(t *testing.T) {
	c := New()
	c.Set(NewSelection(2, 12))
	c.RemapDelete(4, 20, 4)
	if got := c.Selection(); got != NewSelection(2, 4) {
		t.Errorf("Selection() = %v, want %v", got, NewSelection(2, 4))
	}
}

func TestSelectionBasics(t *testing.T) {
	sel := NewSelection(10, 4)
	if sel.Start() != 4 || sel.End() != 10 || sel.Len() != 6 {
		t.Errorf("Start/End/Len = %d/%d/%d, want 4/10/6", sel.Start(), sel.End(), sel.Len())
	}
	if !sel.IsBackward() {
		t.Error("selection should be backward")
	}
	if !sel.Contains(4) || sel.Contains(10) {
		t.Error("Contains() should be half-open")
	}
	if got := sel.Collapse(); got != Point(4) {
		t.Errorf("Collapse() = %v, want Cursor(4)", got)
	}
	if got := sel.Clamp(7); got != NewSelection(7, 4) {
		t.Errorf("Clamp(7) = %v, want %v", got, NewSelection(7, 4))
	}
}

func TestMoveCharacters(t *testing.T) {
	buf := buffer.NewFromString("ae\u0301b\ncd")
	c := New()

	steps := []struct {
		m    Motion
		want Offset
	}{
		{MotionRight, 1},
		{MotionRight, 3}, // e + combining acute is one grapheme
		{MotionRight, 4},
		{MotionRight, 5}, // across the newline
		{MotionLeft, 4},
		{MotionLeft, 3},
		{MotionLeft, 1},
	}
	for i, s := range steps {
		c.Move(buf, s.m, false, 0)
		if c.Head() != s.want {
			t.Fatalf("step %d: Move(%v) head = %d, want %d", i, s.m, c.Head(), s.want)
		}
	}
}

func TestMoveExtendKeepsAnchor(t *testing.T) {
	buf := buffer.NewFromString("hello world")
	c := New()
	c.MoveTo(2)
	c.Move(buf, MotionEnd, true, 0)
	if got := c.Selection(); got != NewSelection(2, 11) {
		t.Errorf("Selection() = %v, want %v", got, NewSelection(2, 11))
	}
	c.Move(buf, MotionLeft, false, 0)
	if c.HasSelection() {
		t.Error("plain navigation should collapse the selection")
	}
}

func TestSmartHome(t *testing.T) {
	buf := buffer.NewFromString("    indented")
	c := New()
	c.MoveTo(10)

	c.Move(buf, MotionHome, false, 0)
	if c.Head() != 4 {
		t.Errorf("first Home = %d, want 4", c.Head())
	}
	c.Move(buf, MotionHome, false, 0)
	if c.Head() != 0 {
		t.Errorf("second Home = %d, want 0", c.Head())
	}
	c.Move(buf, MotionHome, false, 0)
	if c.Head() != 4 {
		t.Errorf("third Home = %d, want 4", c.Head())
	}
}

func TestVerticalPreferredColumn(t *testing.T) {
	buf := buffer.NewFromString("long line here\nab\nanother long line")
	c := New()
	c.MoveTo(10)

	c.Move(buf, MotionDown, false, 0)
	if got := buf.OffsetToPoint(c.Head()); got != (buffer.Point{Line: 1, Column: 2}) {
		t.Errorf("after Down = %v, want 1:2", got)
	}
	c.Move(buf, MotionDown, false, 0)
	if got := buf.OffsetToPoint(c.Head()); got != (buffer.Point{Line: 2, Column: 10}) {
		t.Errorf("after second Down = %v, want 2:10", got)
	}
	c.Move(buf, MotionDown, false, 0)
	if c.Head() != buf.Len() {
		t.Errorf("Down on last line = %d, want %d", c.Head(), buf.Len())
	}
}

func TestVerticalWideCharacters(t *testing.T) {
	buf := buffer.NewFromString("abcd\n世界x")
	c := New()
	c.MoveTo(2)
	c.Move(buf, MotionDown, false, 0)
	if got := buf.OffsetToPoint(c.Head()); got != (buffer.Point{Line: 1, Column: 1}) {
		t.Errorf("after Down = %v, want 1:1", got)
	}
}

func TestPageMoves(t *testing.T) {
	buf := buffer.NewFromString("0\n1\n2\n3\n4\n5\n6\n7\n8\n9")
	c := New()
	c.Move(buf, MotionPageDown, false, 4)
	if got := buf.OffsetToPoint(c.Head()).Line; got != 4 {
		t.Errorf("PageDown line = %d, want 4", got)
	}
	c.Move(buf, MotionPageUp, false, 10)
	if c.Head() != 0 {
		t.Errorf("PageUp past top = %d, want 0", c.Head())
	}
}

func TestWordMotions(t *testing.T) {
	buf := buffer.NewFromString("foo_bar, baz qux\nnext")
	tests := []struct {
		from Offset
		m    Motion
		want Offset
	}{
		{0, MotionWordRight, 9},
		{9, MotionWordRight, 13},
		{13, MotionWordRight, 16},
		{16, MotionWordRight, 17},
		{13, MotionWordLeft, 9},
		{9, MotionWordLeft, 0},
		{17, MotionWordLeft, 16},
		{3, MotionWordLeft, 0},
	}
	for _, tt := range tests {
		if got := Target(buf, tt.from, tt.m); got != tt.want {
			t.Errorf("Target(%d, %v) = %d, want %d", tt.from, tt.m, got, tt.want)
		}
	}
}

func TestParagraphMotions(t *testing.T) {
	buf := buffer.NewFromString("a\nb\n\nc\nd\n\n\ne")
	tests := []struct {
		from Offset
		m    Motion
		want Offset
	}{
		{0, MotionParagraphDown, 5},
		{5, MotionParagraphDown, 11},
		{11, MotionParagraphDown, buf.Len()},
		{11, MotionParagraphUp, 5},
		{7, MotionParagraphUp, 5},
		{5, MotionParagraphUp, 0},
	}
	for _, tt := range tests {
		if got := Target(buf, tt.from, tt.m); got != tt.want {
			t.Errorf("Target(%d, %v) = %d, want %d", tt.from, tt.m, got, tt.want)
		}
	}
}

func TestWordAt(t *testing.T) {
	buf := buffer.NewFromString("héllo wörld, ok\n\nend")
	tests := []struct {
		offset Offset
		want   Range
	}{
		{0, Range{Start: 0, End: 5}},
		{3, Range{Start: 0, End: 5}},
		{5, Range{Start: 0, End: 5}},
		{8, Range{Start: 6, End: 11}},
		{11, Range{Start: 6, End: 11}},
		{16, Range{Start: 16, End: 16}},
		{20, Range{Start: 17, End: 20}},
	}
	for _, tt := range tests {
		if got := WordAt(buf, tt.offset); got != tt.want {
			t.Errorf("WordAt(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
	if got := WordText(buf, 7); got != "wörld" {
		t.Errorf("WordText(7) = %q, want %q", got, "wörld")
	}
	if got := WordText(buf, 12); got != "" {
		t.Errorf("WordText(12) = %q, want empty", got)
	}
}

func TestWords(t *testing.T) {
	got := Words("héllo, wörld_2\n\tfoo(héllo) 42 - !")
	want := []string{"héllo", "wörld_2", "foo", "héllo", "42"}
	if !slices.Equal(got, want) {
		t.Errorf("Words() = %q, want %q", got, want)
	}
	if Words("  ,. ") != nil {
		t.Error("Words() found words in punctuation")
	}
	for s, want := range map[string]bool{"_x": true, "9": true, "é": true, "-a": false, "": false} {
		if got := IsWord(s); got != want {
			t.Errorf("IsWord(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestLineAt(t *testing.T) {
	buf := buffer.NewFromString("one\ntwo\nthree")
	if got := LineAt(buf, 5); got != (Range{Start: 4, End: 8}) {
		t.Errorf("LineAt(5) = %v, want [4:8)", got)
	}
	if got := LineAt(buf, 10); got != (Range{Start: 8, End: 13}) {
		t.Errorf("LineAt(10) = %v, want [8:13)", got)
	}
}

func TestMatchBracket(t *testing.T) {
	buf := buffer.NewFromString("f(a[0], {\n  b(c)\n})")
	tests := []struct {
		name      string
		offset    Offset
		open, end Offset
		ok        bool
	}{
		{"on open paren", 1, 1, 18, true},
		{"after close paren", 19, 1, 18, true},
		{"on bracket", 3, 3, 5, true},
		{"multi line brace", 8, 8, 17, true},
		{"nested close", 15, 13, 15, true},
		{"no bracket", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, end, ok := MatchBracket(buf, tt.offset)
			if ok != tt.ok || open != tt.open || end != tt.end {
				t.Errorf("MatchBracket(%d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.offset, open, end, ok, tt.open, tt.end, tt.ok)
			}
		})
	}

	if _, _, ok := MatchBracket(buffer.NewFromString("(("), 0); ok {
		t.Error("unbalanced bracket should not match")
	}
}

func TestMarkerSet(t *testing.T) {
	ms := NewMarkerSet()
	a := ms.Add(MarkerFind, Range{Start: 10, End: 13})
	b := ms.Add(MarkerFind, Range{Start: 2, End: 5})
	ms.Add(MarkerBracket, Range{Start: 20, End: 21})
	if ms.Add(MarkerFind, Range{Start: 4, End: 4}) != 0 {
		t.Error("empty range should not be added")
	}

	got := ms.Ranges(MarkerFind)
	if len(got) != 2 || got[0].Start != 2 || got[1].Start != 10 {
		t.Fatalf("Ranges() = %v, want sorted find markers", got)
	}

	ms.RemapInsert(0, 2)
	if m, _ := ms.Get(a); m.Range != (Range{Start: 12, End: 15}) {
		t.Errorf("after insert marker a = %v, want [12:15)", m.Range)
	}

	ms.RemapDelete(3, 8)
	if _, ok := ms.Get(b); ok {
		t.Error("collapsed marker should be dropped")
	}
	if m, _ := ms.Get(a); m.Range != (Range{Start: 7, End: 10}) {
		t.Errorf("after delete marker a = %v, want [7:10)", m.Range)
	}

	if m, ok := ms.Next(MarkerFind, 11); !ok || m.ID != a {
		t.Errorf("Next() wrap = %v, %v, want marker %d", m, ok, a)
	}

	ms.Clear(MarkerBracket)
	if ms.Len() != 1 {
		t.Errorf("Len() after Clear = %d, want 1", ms.Len())
	}
}
