package tracking

import (
	"testing"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// apply runs an edit on buf and returns the resulting change.
func apply(t *testing.T, buf *buffer.Buffer, offset buffer.Offset, removeLen buffer.Offset, text string) Change {
	t.Helper()
	before := buf.Snapshot()
	removed, err := buf.Delete(offset, offset+removeLen)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := buf.Insert(offset, text); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return NewChange(before, buf.Snapshot(), offset, removed, text)
}

func TestNewChange(t *testing.T) {
	buf := buffer.NewFromString("héllo\nworld")
	c := apply(t, buf, 2, 0, "ab\ncd")

	if c.Type != ChangeInsert {
		t.Errorf("Type = %v, want insert", c.Type)
	}
	if c.ByteRange != (buffer.ByteRange{Start: 3, End: 3}) {
		t.Errorf("ByteRange = %+v, want {3 3}", c.ByteRange)
	}
	if c.NewByteEnd != 8 {
		t.Errorf("NewByteEnd = %d, want 8", c.NewByteEnd)
	}
	if c.StartLine != 0 || c.OldEndLine != 0 || c.NewEndLine != 1 {
		t.Errorf("lines = %d/%d/%d, want 0/0/1", c.StartLine, c.OldEndLine, c.NewEndLine)
	}
	if c.LinesDelta() != 1 {
		t.Errorf("LinesDelta() = %d, want 1", c.LinesDelta())
	}
	if c.Revision != buf.Revision() {
		t.Errorf("Revision = %d, want %d", c.Revision, buf.Revision())
	}
}

func TestNewChangeDeleteAcrossLines(t *testing.T) {
	buf := buffer.NewFromString("a\nb\nc\nd")
	c := apply(t, buf, 1, 4, "")

	if c.Type != ChangeDelete || c.OldText != "\nb\nc" {
		t.Errorf("change = %v", c)
	}
	if c.StartLine != 0 || c.OldEndLine != 2 || c.NewEndLine != 0 {
		t.Errorf("lines = %d/%d/%d, want 0/2/0", c.StartLine, c.OldEndLine, c.NewEndLine)
	}
	if c.Delta() != -4 {
		t.Errorf("Delta() = %d, want -4", c.Delta())
	}
}

func TestTrackerRing(t *testing.T) {
	tr := NewTracker(WithMaxChanges(3))
	for rev := buffer.Revision(1); rev <= 5; rev++ {
		tr.Record(Change{Revision: rev})
	}

	if tr.ChangeCount() != 3 {
		t.Fatalf("ChangeCount() = %d, want 3", tr.ChangeCount())
	}
	if tr.LastRevision() != 5 {
		t.Errorf("LastRevision() = %d, want 5", tr.LastRevision())
	}

	changes, complete := tr.ChangesSince(3)
	if len(changes) != 2 || !complete {
		t.Errorf("ChangesSince(3) = %d changes, complete %v; want 2, true", len(changes), complete)
	}
	if _, complete := tr.ChangesSince(1); complete {
		t.Error("ChangesSince(1) should be incomplete after the ring dropped revision 2")
	}

	latest := tr.LatestChanges(2)
	if len(latest) != 2 || latest[0].Revision != 4 || latest[1].Revision != 5 {
		t.Errorf("LatestChanges(2) = %v", latest)
	}
	if got := tr.ChangesBetween(2, 4); len(got) != 2 {
		t.Errorf("ChangesBetween(2, 4) = %d changes, want 2", len(got))
	}

	tr.Clear()
	if tr.ChangeCount() != 0 || tr.LastRevision() != 0 {
		t.Error("Clear() left changes behind")
	}
}

func TestByteSpan(t *testing.T) {
	buf := buffer.NewFromString("0123456789")
	c1 := apply(t, buf, 2, 0, "ab")  // 01ab23456789
	c2 := apply(t, buf, 10, 1, "XY") // 01ab234567XY9
	c3 := apply(t, buf, 0, 1, "")    // 1ab234567XY9

	span, ok := ByteSpan([]Change{c1, c2, c3})
	if !ok {
		t.Fatal("ByteSpan() ok = false")
	}
	if span != (buffer.ByteRange{Start: 0, End: 11}) {
		t.Errorf("ByteSpan() = %+v, want {0 11}", span)
	}

	if _, ok := ByteSpan(nil); ok {
		t.Error("ByteSpan(nil) ok = true")
	}
}
