package gesture

import (
	"testing"

	"noteroll/view"
)

func TestRuler_ClickMovesPlayheadQuantized(t *testing.T) {
	st := testStore()
	sess := testSession()
	r := NewRuler(st, sess)
	mp := view.Mapper{PixelsPerSecond: 100}

	r.Down(Point{X: 123, Y: 4}, Modifiers{}, mp)
	if r.Phase() != Armed {
		t.Fatalf("phase after down = %v, want armed", r.Phase())
	}
	if res := r.Up(Point{X: 123, Y: 4}); res != ResultClicked {
		t.Fatalf("Up = %v, want clicked", res)
	}
	// 1.23s snaps to the half-second beat grid.
	if got := sess.PlaybackTime(); got != 1.0 {
		t.Errorf("playback time = %v, want 1.0", got)
	}
	if r.Phase() != Idle {
		t.Errorf("phase after up = %v, want idle", r.Phase())
	}
}

func TestRuler_ScrubTracksPointer(t *testing.T) {
	st := testStore()
	sess := testSession()
	sess.SetQuantizeEnabled(false)
	r := NewRuler(st, sess)
	mp := view.Mapper{PixelsPerSecond: 100}

	r.Down(Point{X: 100}, Modifiers{}, mp)
	r.Move(Point{X: 250})
	if got := sess.PlaybackTime(); got != 2.5 {
		t.Errorf("playback time mid-scrub = %v, want 2.5", got)
	}
	r.Move(Point{X: 30})
	if got := sess.PlaybackTime(); got != 0.3 {
		t.Errorf("playback time after reverse = %v, want 0.3", got)
	}
	if res := r.Up(Point{X: 30}); res != ResultCommitted {
		t.Errorf("Up = %v, want committed", res)
	}
	// Scrubbing is session state only.
	if _, ok := st.ExportRangeMeasure(); ok {
		t.Error("a playhead scrub must not touch the export range")
	}
}

func TestRuler_RangeDragOutNormalizesDirection(t *testing.T) {
	st := testStore()
	sess := testSession()
	sess.SetQuantizeEnabled(false)
	r := NewRuler(st, sess)
	mp := view.Mapper{PixelsPerSecond: 100}

	// Right-to-left drag from 10s to 4s with no range set yet.
	r.Down(Point{X: 1000}, Modifiers{Ctrl: true, Alt: true}, mp)
	r.Move(Point{X: 400})
	if res := r.Up(Point{X: 400}); res != ResultCommitted {
		t.Fatalf("Up = %v, want committed", res)
	}
	start, end := sess.ExportRange()
	if start == nil || end == nil {
		t.Fatal("range endpoints missing after drag")
	}
	if *start != 4 || *end != 10 {
		t.Errorf("range = (%v, %v), want (4, 10)", *start, *end)
	}
	// Measure form reaches the project: 2s per measure at 120 BPM 4/4.
	er, ok := st.ExportRangeMeasure()
	if !ok {
		t.Fatal("no export range written to the project")
	}
	if er.StartMeasure != 2 || er.EndMeasure != 5 {
		t.Errorf("measure range = %+v, want start 2 end 5", er)
	}
}

func TestRuler_LocatorClicksCommitOnceComplete(t *testing.T) {
	st := testStore()
	sess := testSession()
	sess.SetQuantizeEnabled(false)
	r := NewRuler(st, sess)
	mp := view.Mapper{PixelsPerSecond: 100}

	// Ctrl-click places the left locator only.
	r.Down(Point{X: 400}, Modifiers{Ctrl: true}, mp)
	r.Up(Point{X: 400})
	start, end := sess.ExportRange()
	if start == nil || *start != 4 {
		t.Fatalf("left locator = %v, want 4", start)
	}
	if end != nil {
		t.Fatalf("right locator = %v, want unset", *end)
	}
	if _, ok := st.ExportRangeMeasure(); ok {
		t.Fatal("half a range must not reach the project")
	}

	// Alt-click completes it and the measure range lands.
	r.Down(Point{X: 1000}, Modifiers{Alt: true}, mp)
	r.Up(Point{X: 1000})
	er, ok := st.ExportRangeMeasure()
	if !ok {
		t.Fatal("completed range missing from the project")
	}
	if er.StartMeasure != 2 || er.EndMeasure != 5 {
		t.Errorf("measure range = %+v, want start 2 end 5", er)
	}
}

func TestRuler_RangeSlideKeepsLength(t *testing.T) {
	st := testStore()
	sess := testSession()
	sess.SetQuantizeEnabled(false)
	s4, s10 := 4.0, 10.0
	sess.SetExportRange(&s4, &s10)
	r := NewRuler(st, sess)
	mp := view.Mapper{PixelsPerSecond: 100}

	r.Down(Point{X: 500}, Modifiers{Ctrl: true, Alt: true}, mp)
	r.Move(Point{X: 700})
	r.Up(Point{X: 700})

	start, end := sess.ExportRange()
	if *start != 6 || *end != 12 {
		t.Errorf("slid range = (%v, %v), want (6, 12)", *start, *end)
	}
	er, ok := st.ExportRangeMeasure()
	if !ok || er.StartMeasure != 3 || er.EndMeasure != 6 {
		t.Errorf("measure range = %+v ok=%v, want start 3 end 6", er, ok)
	}
}

func TestRuler_InterruptionRestoresSessionRange(t *testing.T) {
	st := testStore()
	sess := testSession()
	sess.SetQuantizeEnabled(false)
	s4, s10 := 4.0, 10.0
	sess.SetExportRange(&s4, &s10)
	r := NewRuler(st, sess)
	mp := view.Mapper{PixelsPerSecond: 100}

	r.Down(Point{X: 400}, Modifiers{Ctrl: true}, mp)
	r.Move(Point{X: 800})
	if start, _ := sess.ExportRange(); *start != 8 {
		t.Fatalf("mid-drag left locator = %v, want 8", *start)
	}
	sess.SetDisabled(true)
	r.Move(Point{X: 900})
	if r.Phase() != Idle {
		t.Fatal("disable mid-drag must cancel the gesture")
	}
	start, end := sess.ExportRange()
	if *start != 4 || *end != 10 {
		t.Errorf("range after cancel = (%v, %v), want the armed (4, 10)", *start, *end)
	}
	if _, ok := st.ExportRangeMeasure(); ok {
		t.Error("cancelled drag must not write the project")
	}

	// A modal editor opening mid-gesture cancels the same way.
	sess.SetDisabled(false)
	r.Down(Point{X: 400}, Modifiers{Alt: true}, mp)
	r.Move(Point{X: 800})
	sess.SetEditingPartID("part-1")
	if res := r.Up(Point{X: 800}); res != ResultCancelled {
		t.Errorf("Up after modal open = %v, want cancelled", res)
	}
	start, end = sess.ExportRange()
	if *start != 4 || *end != 10 {
		t.Errorf("range after modal cancel = (%v, %v), want (4, 10)", *start, *end)
	}
}
