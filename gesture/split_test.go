package gesture

import (
	"testing"
)

func TestSplit_PreviewOnlyStrictlyInside(t *testing.T) {
	st := testStore()
	sess := testSession()
	sf := testSurface()
	sp := NewSplit(st, sess)

	// Mid-note hover snaps to the beat inside the note.
	sp.Hover(pointFor(sf, 0.45, 60), sf)
	index, tick, ok := sp.Preview()
	if !ok || index != 0 || tick != 240 {
		t.Fatalf("preview = (%d, %d, %v), want (0, 240, true)", index, tick, ok)
	}

	// Near the start the snap lands on the boundary: no cut there.
	sp.Hover(pointFor(sf, 0.1, 60), sf)
	if _, _, ok := sp.Preview(); ok {
		t.Error("a cut on the note start must not preview")
	}

	// Hovering an empty lane previews nothing.
	sp.Hover(pointFor(sf, 0.45, 62), sf)
	if _, _, ok := sp.Preview(); ok {
		t.Error("an empty lane must not preview")
	}

	// Unquantized, the cut follows the raw pointer tick.
	sess.SetQuantizeEnabled(false)
	sp.Hover(pointFor(sf, 0.45, 60), sf)
	if _, tick, ok := sp.Preview(); !ok || tick != 216 {
		t.Errorf("raw preview tick = %d ok=%v, want 216", tick, ok)
	}
}

func TestSplit_ClickDividesNote(t *testing.T) {
	st := testStore()
	sess := testSession()
	sf := testSurface()
	sp := NewSplit(st, sess)
	v0 := st.PartVersion("part-1")

	if !sp.Click(pointFor(sf, 0.45, 60), sf) {
		t.Fatal("Click on a valid cut failed")
	}
	notes := st.PartNotes("part-1")
	if len(notes) != 3 {
		t.Fatalf("note count after split = %d, want 3", len(notes))
	}
	if notes[0].StartTick != 0 || notes[0].DurationTicks != 240 {
		t.Errorf("left half = %+v, want ticks 0..240", notes[0])
	}
	if notes[1].StartTick != 240 || notes[1].DurationTicks != 240 {
		t.Errorf("right half = %+v, want ticks 240..480", notes[1])
	}
	if notes[2].Pitch != 64 {
		t.Errorf("unrelated note moved: %+v", notes[2])
	}
	if st.PartVersion("part-1") != v0+1 {
		t.Error("a split must version the part exactly once")
	}
	if _, _, ok := sp.Preview(); ok {
		t.Error("the preview must clear after a cut")
	}

	// Clicking the boundary of the fresh halves cuts nothing.
	if sp.Click(pointFor(sf, 0.5, 60), sf) {
		t.Error("a cut exactly between the halves must fail")
	}
}

func TestSplit_ModalLockBlocksCuts(t *testing.T) {
	st := testStore()
	sess := testSession()
	sf := testSurface()
	sp := NewSplit(st, sess)
	v0 := st.PartVersion("part-1")

	// Another part holds the modal edit lock: no preview, no cut.
	sess.SetEditingPartID("part-2")
	sp.Hover(pointFor(sf, 0.45, 60), sf)
	if _, _, ok := sp.Preview(); ok {
		t.Error("a locked-out part must not preview cuts")
	}
	if sp.Click(pointFor(sf, 0.45, 60), sf) {
		t.Error("a locked-out part must not cut")
	}
	if st.PartVersion("part-1") != v0 {
		t.Error("a blocked cut must not version the part")
	}

	// The lock holder itself still cuts.
	sess.SetEditingPartID(sf.PartID)
	if !sp.Click(pointFor(sf, 0.45, 60), sf) {
		t.Error("the lock holder must still cut")
	}
}

func TestSplit_DisabledNeverPreviews(t *testing.T) {
	st := testStore()
	sess := testSession()
	sf := testSurface()
	sp := NewSplit(st, sess)

	sess.SetDisabled(true)
	sp.Hover(pointFor(sf, 0.45, 60), sf)
	if _, _, ok := sp.Preview(); ok {
		t.Error("a disabled session must not preview cuts")
	}
	if sp.Click(pointFor(sf, 0.45, 60), sf) {
		t.Error("a disabled session must not cut")
	}
}
