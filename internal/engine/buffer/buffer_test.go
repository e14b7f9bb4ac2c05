package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	b := New()
	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", b.LineCount())
	}
	if b.Revision() != 0 {
		t.Errorf("Revision() = %d, want 0", b.Revision())
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		offset  Offset
		text    string
		want    string
		wantErr bool
	}{
		{"middle", "abc", 1, "X", "aXbc", false},
		{"end", "abc", 3, "d", "abcd", false},
		{"start", "abc", 0, ">", ">abc", false},
		{"after multibyte", "é世界", 2, "!", "é世!界", false},
		{"past end", "abc", 4, "X", "abc", true},
		{"negative", "abc", -1, "X", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromString(tt.initial)
			err := b.Insert(tt.offset, tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfBounds) {
					t.Fatalf("Insert() error = %v, want ErrOutOfBounds", err)
				}
				if b.Revision() != 0 {
					t.Errorf("failed Insert() bumped revision to %d", b.Revision())
				}
			} else if err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if got := b.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name        string
		initial     string
		start, end  Offset
		wantRemoved string
		want        string
		wantErr     bool
	}{
		{"middle", "aXbc", 1, 2, "X", "abc", false},
		{"multibyte", "a世界b", 1, 3, "世界", "ab", false},
		{"empty range", "abc", 1, 1, "", "abc", false},
		{"whole", "abc", 0, 3, "abc", "", false},
		{"start after end", "abc", 2, 1, "", "abc", true},
		{"end past length", "abc", 1, 4, "", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromString(tt.initial)
			removed, err := b.Delete(tt.start, tt.end)
			if tt.wantErr != (err != nil) {
				t.Fatalf("Delete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("Delete() error = %v, want ErrOutOfBounds", err)
			}
			if removed != tt.wantRemoved {
				t.Errorf("Delete() removed = %q, want %q", removed, tt.wantRemoved)
			}
			if got := b.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRevisionAdvances(t *testing.T) {
	b := NewFromString("abc")
	_ = b.Insert(1, "X")
	if b.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", b.Revision())
	}
	_, _ = b.Delete(1, 2)
	if b.Revision() != 2 {
		t.Errorf("Revision() = %d, want 2", b.Revision())
	}
	_, _ = b.Delete(1, 1)
	if b.Revision() != 2 {
		t.Errorf("empty Delete() changed revision to %d", b.Revision())
	}
}

func TestSlice(t *testing.T) {
	b := NewFromString("héllo wörld")
	got, err := b.Slice(1, 5)
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}
	if got != "éllo" {
		t.Errorf("Slice(1, 5) = %q, want %q", got, "éllo")
	}
	if _, err := b.Slice(3, 99); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Slice(3, 99) error = %v, want ErrOutOfBounds", err)
	}
}

func TestLineConversions(t *testing.T) {
	b := NewFromString("first\n世界 line\n\nlast")

	tests := []struct {
		offset Offset
		point  Point
	}{
		{0, Point{0, 0}},
		{5, Point{0, 5}},
		{6, Point{1, 0}},
		{8, Point{1, 2}},
		{14, Point{2, 0}},
		{15, Point{3, 0}},
		{19, Point{3, 4}},
	}
	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.point {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.point)
		}
		if got := b.PointToOffset(tt.point); got != tt.offset {
			t.Errorf("PointToOffset(%v) = %d, want %d", tt.point, got, tt.offset)
		}
	}

	if got := b.LineToOffset(1); got != 6 {
		t.Errorf("LineToOffset(1) = %d, want 6", got)
	}
	if got := b.LineLen(1); got != 7 {
		t.Errorf("LineLen(1) = %d, want 7", got)
	}
	if got := b.PointToOffset(Point{Line: 0, Column: 50}); got != 5 {
		t.Errorf("PointToOffset past line end = %d, want 5", got)
	}
}

func TestByteConversions(t *testing.T) {
	b := NewFromString("a世b")
	if got := b.ByteOffset(2); got != 4 {
		t.Errorf("ByteOffset(2) = %d, want 4", got)
	}
	if got := b.CharOffset(4); got != 2 {
		t.Errorf("CharOffset(4) = %d, want 2", got)
	}
	br := b.Snapshot().ByteRange(Range{Start: 1, End: 3})
	if br != (ByteRange{Start: 1, End: 5}) {
		t.Errorf("ByteRange() = %+v, want {1 5}", br)
	}
}

func TestSnapshotIsStable(t *testing.T) {
	b := NewFromString("hello")
	snap := b.Snapshot()
	_ = b.Insert(5, " world")

	if snap.String() != "hello" {
		t.Errorf("snapshot changed to %q", snap.String())
	}
	if snap.Revision() != 0 || b.Revision() != 1 {
		t.Errorf("revisions = %d/%d, want 0/1", snap.Revision(), b.Revision())
	}
}

func TestConversionsAfterManyEdits(t *testing.T) {
	b := New()
	var model []rune
	for i := 0; i < 500; i++ {
		text := []rune("ab\n世")
		at := Offset(i*7) % (Offset(len(model)) + 1)
		if err := b.Insert(at, string(text)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		model = append(model[:at], append(text, model[at:]...)...)
		if i%3 == 0 {
			start := at / 2
			end := min(start+3, Offset(len(model)))
			if _, err := b.Delete(start, end); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			model = append(model[:start], model[end:]...)
		}
	}

	if b.String() != string(model) {
		t.Fatal("buffer diverged from model")
	}
	lines := strings.Split(string(model), "\n")
	if b.LineCount() != uint32(len(lines)) {
		t.Fatalf("LineCount() = %d, want %d", b.LineCount(), len(lines))
	}
	var offset Offset
	for i, line := range lines {
		if got := b.LineToOffset(uint32(i)); got != offset {
			t.Fatalf("LineToOffset(%d) = %d, want %d", i, got, offset)
		}
		offset += Offset(len([]rune(line))) + 1
	}
}

func TestReplace(t *testing.T) {
	b := NewFromString("héllo world")
	removed, err := b.Replace(1, 5, "ey")
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if removed != "éllo" || b.String() != "hey world" {
		t.Errorf("Replace() = %q, text %q", removed, b.String())
	}
	if b.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", b.Revision())
	}
	if _, err := b.Replace(4, 99, "x"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Replace() past end error = %v, want ErrOutOfBounds", err)
	}
}

func TestRestore(t *testing.T) {
	b := NewFromString("abc")
	snap := b.Snapshot()
	_ = b.Insert(3, "def")
	b.Restore(snap)
	if b.String() != "abc" || b.Revision() != 0 {
		t.Errorf("after Restore: %q rev %d, want %q rev 0", b.String(), b.Revision(), "abc")
	}
}
