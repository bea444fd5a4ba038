package gesture

import (
	"testing"
)

func TestNoteResize_RightEdgeQuantizes(t *testing.T) {
	st := testStore()
	sess := testSession()
	sf := testSurface()
	r := NewNoteResize(st, sess)
	v0 := st.PartVersion("part-1")

	// Grab the right edge of the first note (ends at 1.0s, x=100).
	start := pointFor(sf, 1.0, 60)
	r.Down(start, sf, 0, EdgeRight)
	end := pointFor(sf, 1.55, 60)
	r.Move(end)
	n, ok := r.Preview()
	if !ok || n.DurationTicks != 720 {
		t.Fatalf("preview = %+v ok=%v, want duration 720", n, ok)
	}
	if res := r.Up(end); res != ResultCommitted {
		t.Fatalf("Up = %v, want committed", res)
	}
	got := st.PartNotes("part-1")[0]
	if got.StartTick != 0 || got.DurationTicks != 720 {
		t.Errorf("resized note = %+v, want start 0 duration 720", got)
	}
	if st.PartVersion("part-1") != v0+1 {
		t.Error("a resize must version the part exactly once")
	}
}

func TestNoteResize_NeverBelowOneTick(t *testing.T) {
	st := testStore()
	sess := testSession()
	sf := testSurface()
	r := NewNoteResize(st, sess)

	r.Down(pointFor(sf, 1.0, 60), sf, 0, EdgeRight)
	p := pointFor(sf, 0, 60)
	r.Move(p)
	r.Up(p)
	if got := st.PartNotes("part-1")[0].DurationTicks; got != 1 {
		t.Errorf("collapsed duration = %d, want 1", got)
	}
}

func TestNoteResize_LeftEdgeKeepsEnd(t *testing.T) {
	st := testStore()
	sess := testSession()
	sess.SetQuantizeEnabled(false)
	sf := testSurface()
	r := NewNoteResize(st, sess)

	// Second note spans ticks 480..720.
	r.Down(pointFor(sf, 1.0, 64), sf, 1, EdgeLeft)
	p := pointFor(sf, 1.25, 64)
	r.Move(p)
	r.Up(p)
	got := st.PartNotes("part-1")[1]
	if got.StartTick != 600 || got.DurationTicks != 120 {
		t.Errorf("resized note = %+v, want start 600 duration 120", got)
	}

	// Dragging past the end pins the start one tick before it.
	r.Down(pointFor(sf, 1.25, 64), sf, 1, EdgeLeft)
	p = pointFor(sf, 2.0, 64)
	r.Move(p)
	r.Up(p)
	got = st.PartNotes("part-1")[1]
	if got.StartTick != 719 || got.DurationTicks != 1 {
		t.Errorf("pinned note = %+v, want start 719 duration 1", got)
	}
}

func TestNoteResize_ClickLeavesNoteAlone(t *testing.T) {
	st := testStore()
	sess := testSession()
	sf := testSurface()
	r := NewNoteResize(st, sess)
	v0 := st.PartVersion("part-1")

	p := pointFor(sf, 1.0, 60)
	r.Down(p, sf, 0, EdgeRight)
	if res := r.Up(p); res != ResultClicked {
		t.Fatalf("Up = %v, want clicked", res)
	}
	if st.PartVersion("part-1") != v0 {
		t.Error("a click on an edge must not write")
	}
	if _, ok := r.Preview(); ok {
		t.Error("idle machine must not expose a preview")
	}
}
