package viewport

import "testing"

func TestNew(t *testing.T) {
	v := New(0, -3)
	if v.Width() != 1 || v.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", v.Width(), v.Height())
	}
	if v.Top() != 0 || v.Left() != 0 {
		t.Errorf("origin = (%d, %d), want (0, 0)", v.Top(), v.Left())
	}
}

func TestScrolloffClamp(t *testing.T) {
	tests := []struct {
		height, requested, want int
	}{
		{24, 3, 3},
		{5, 3, 2},
		{4, 3, 1},
		{1, 3, 0},
		{24, -1, 0},
	}
	for _, tt := range tests {
		v := New(80, tt.height)
		v.SetScrolloff(tt.requested)
		if got := v.Scrolloff(); got != tt.want {
			t.Errorf("height %d scrolloff %d: Scrolloff() = %d, want %d",
				tt.height, tt.requested, got, tt.want)
		}
	}
}

func TestEnsureVisibleVertical(t *testing.T) {
	tests := []struct {
		name    string
		top     uint32
		line    uint32
		wantTop uint32
		moved   bool
	}{
		{"inside margins", 0, 5, 0, false},
		{"into bottom margin", 0, 7, 1, true},
		{"far below", 0, 50, 44, true},
		{"into top margin", 20, 21, 18, true},
		{"near start", 2, 1, 0, true},
		{"last line clamps", 0, 99, 90, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(80, 10)
			v.SetLineCount(100)
			v.ScrollTo(tt.top)
			moved := v.EnsureVisible(tt.line, 0)
			if v.Top() != tt.wantTop {
				t.Errorf("Top() = %d, want %d", v.Top(), tt.wantTop)
			}
			if moved != tt.moved {
				t.Errorf("EnsureVisible() = %v, want %v", moved, tt.moved)
			}
		})
	}
}

func TestEnsureVisibleKeepsScrolloff(t *testing.T) {
	v := New(80, 10)
	v.SetLineCount(1000)
	for line := uint32(0); line < 200; line++ {
		v.EnsureVisible(line, 0)
		row := int(line - v.Top())
		if line >= 3 && row < 3 {
			t.Fatalf("line %d at row %d, inside top margin", line, row)
		}
		if row > 10-1-3 {
			t.Fatalf("line %d at row %d, inside bottom margin", line, row)
		}
	}
	for line := uint32(199); line > 0; line-- {
		v.EnsureVisible(line, 0)
		row := int(line - v.Top())
		if line >= 3 && row < 3 {
			t.Fatalf("line %d at row %d moving up, inside top margin", line, row)
		}
	}
}

func TestEnsureVisibleHorizontal(t *testing.T) {
	v := New(20, 10)
	if !v.EnsureVisible(0, 25) {
		t.Fatal("EnsureVisible() did not scroll right")
	}
	if v.Left() != 25+3+1-20 {
		t.Errorf("Left() = %d, want %d", v.Left(), 25+3+1-20)
	}
	v.EnsureVisible(0, 2)
	if v.Left() != 0 {
		t.Errorf("Left() = %d after moving home, want 0", v.Left())
	}
}

func TestWrapDisablesHorizontalScroll(t *testing.T) {
	v := New(20, 10)
	v.EnsureVisible(0, 40)
	v.SetWrap(true, 0)
	if v.Left() != 0 {
		t.Errorf("Left() = %d with wrap on, want 0", v.Left())
	}
	v.EnsureVisible(0, 40)
	v.ScrollHorizontalBy(5)
	if v.Left() != 0 {
		t.Errorf("Left() = %d with wrap on, want 0", v.Left())
	}
}

func TestWrapWidth(t *testing.T) {
	v := New(40, 10)
	if v.WrapWidth() != 0 {
		t.Errorf("WrapWidth() = %d with wrap off, want 0", v.WrapWidth())
	}
	v.SetWrap(true, 0)
	if v.WrapWidth() != 40 {
		t.Errorf("WrapWidth() = %d, want 40", v.WrapWidth())
	}
	v.SetWrap(true, 30)
	if v.WrapWidth() != 30 {
		t.Errorf("WrapWidth() = %d, want 30", v.WrapWidth())
	}
	v.Resize(20, 10)
	if v.WrapWidth() != 20 {
		t.Errorf("WrapWidth() = %d after shrinking, want 20", v.WrapWidth())
	}
}

func TestScrollClamps(t *testing.T) {
	v := New(80, 10)
	v.SetLineCount(30)
	v.ScrollBy(-5)
	if v.Top() != 0 {
		t.Errorf("Top() = %d, want 0", v.Top())
	}
	v.ScrollBy(100)
	if v.Top() != 29 {
		t.Errorf("Top() = %d, want 29", v.Top())
	}
	v.SetLineCount(10)
	if v.Top() != 9 {
		t.Errorf("Top() = %d after shrinking, want 9", v.Top())
	}
	v.CenterOn(5)
	if v.Top() != 0 {
		t.Errorf("CenterOn() Top() = %d, want 0", v.Top())
	}
}

func TestBottom(t *testing.T) {
	v := New(80, 10)
	v.SetLineCount(100)
	v.ScrollTo(5)
	if v.Bottom() != 14 {
		t.Errorf("Bottom() = %d, want 14", v.Bottom())
	}
	v.SetLineCount(8)
	if v.Bottom() != 7 {
		t.Errorf("Bottom() = %d, want 7", v.Bottom())
	}
	if !v.IsLineVisible(7) || v.IsLineVisible(8) {
		t.Error("IsLineVisible() disagrees with Bottom()")
	}
}
