package gesture

import (
	"testing"
)

func TestVelocity_DragPreviewsThenCommitsOnce(t *testing.T) {
	st := testStore()
	sess := testSession()
	v := NewVelocity(st, sess)
	v0 := st.PartVersion("part-1")

	// Height 127 maps a pointer y straight to 127-y.
	v.Down(Point{X: 10, Y: 27}, "part-1", 0, 127)
	v.Move(Point{X: 10, Y: 47})
	if got := st.PartNotes("part-1")[0].Velocity; got != 80 {
		t.Errorf("preview velocity = %d, want 80", got)
	}
	if st.PartVersion("part-1") != v0 {
		t.Error("preview writes must not version the part")
	}
	v.Move(Point{X: 10, Y: 107})
	if got := st.PartNotes("part-1")[0].Velocity; got != 20 {
		t.Errorf("second preview velocity = %d, want 20", got)
	}
	if res := v.Up(Point{X: 10, Y: 127}); res != ResultCommitted {
		t.Fatalf("Up = %v, want committed", res)
	}
	if got := st.PartNotes("part-1")[0].Velocity; got != 0 {
		t.Errorf("committed velocity = %d, want 0", got)
	}
	if st.PartVersion("part-1") != v0+1 {
		t.Error("the release must version the part exactly once")
	}
}

func TestVelocity_ClickSetsBarHeight(t *testing.T) {
	st := testStore()
	sess := testSession()
	v := NewVelocity(st, sess)
	v0 := st.PartVersion("part-1")

	v.Down(Point{Y: 96}, "part-1", 1, 127)
	if res := v.Up(Point{Y: 96}); res != ResultClicked {
		t.Fatalf("Up = %v, want clicked", res)
	}
	if got := st.PartNotes("part-1")[1].Velocity; got != 31 {
		t.Errorf("clicked velocity = %d, want 31", got)
	}
	if st.PartVersion("part-1") != v0+1 {
		t.Error("a velocity click commits one write")
	}
}

func TestVelocity_ClampsToMidiRange(t *testing.T) {
	st := testStore()
	sess := testSession()
	v := NewVelocity(st, sess)

	v.Down(Point{Y: 50}, "part-1", 0, 127)
	v.Move(Point{Y: -40}) // above the graph
	if got := st.PartNotes("part-1")[0].Velocity; got != 127 {
		t.Errorf("above-graph velocity = %d, want 127", got)
	}
	v.Move(Point{Y: 300}) // below the graph
	if got := st.PartNotes("part-1")[0].Velocity; got != 0 {
		t.Errorf("below-graph velocity = %d, want 0", got)
	}
	v.Up(Point{Y: 300})
}

func TestVelocity_CancelRestoresArmedValue(t *testing.T) {
	st := testStore()
	sess := testSession()
	v := NewVelocity(st, sess)
	v0 := st.PartVersion("part-1")

	v.Down(Point{Y: 27}, "part-1", 0, 127)
	v.Move(Point{Y: 107})
	if got := st.PartNotes("part-1")[0].Velocity; got != 20 {
		t.Fatalf("preview velocity = %d, want 20", got)
	}
	sess.SetDisabled(true)
	v.Move(Point{Y: 117})
	if v.Phase() != Idle {
		t.Error("disable must cancel the adjustment")
	}
	if got := st.PartNotes("part-1")[0].Velocity; got != 100 {
		t.Errorf("velocity after cancel = %d, want the armed 100", got)
	}
	if st.PartVersion("part-1") != v0 {
		t.Error("a cancelled adjustment must not version the part")
	}
}
