package gesture

import (
	"testing"

	"noteroll/project"
	"noteroll/view"
)

func TestHitNote_LaterNotesWinOnOverlap(t *testing.T) {
	st := testStore()
	// A third note overlapping the first on the same lane.
	st.AddNote("part-1", project.Note{Pitch: 60, Velocity: 80, StartTick: 240, DurationTicks: 480})
	notes := st.PartNotes("part-1")
	timings := st.NoteTimings("part-1")

	if got := HitNote(notes, timings, 0.75, 60); got != 2 {
		t.Errorf("overlap hit = %d, want the later note 2", got)
	}
	if got := HitNote(notes, timings, 0.25, 60); got != 0 {
		t.Errorf("solo hit = %d, want 0", got)
	}
	if got := HitNote(notes, timings, 1.2, 64); got != 1 {
		t.Errorf("other-lane hit = %d, want 1", got)
	}
	if got := HitNote(notes, timings, 1.6, 60); got != -1 {
		t.Errorf("empty lane spot = %d, want -1", got)
	}
	// The end boundary is exclusive.
	if got := HitNote(notes, timings, 1.5, 64); got != -1 {
		t.Errorf("note end = %d, want -1", got)
	}
	if got := HitNote(notes, timings[:1], 0.25, 60); got != -1 {
		t.Errorf("mismatched timings = %d, want -1", got)
	}
}

func TestHitEdge(t *testing.T) {
	m := view.Mapper{PixelsPerSecond: 100}
	ti := project.NoteTiming{StartTime: 1.0, Duration: 0.5} // pixels 100..150

	cases := []struct {
		x    float64
		want Edge
	}{
		{103, EdgeLeft},
		{97, EdgeLeft},
		{148, EdgeRight},
		{152, EdgeRight},
		{125, EdgeNone},
		{90, EdgeNone},
	}
	for _, c := range cases {
		if got := HitEdge(ti, m, c.x); got != c.want {
			t.Errorf("HitEdge at x=%v = %v, want %v", c.x, got, c.want)
		}
	}

	// On a note narrower than the two grab zones the right edge wins.
	short := project.NoteTiming{StartTime: 1.0, Duration: 0.05} // pixels 100..105
	if got := HitEdge(short, m, 101); got != EdgeRight {
		t.Errorf("short-note edge = %v, want EdgeRight", got)
	}
}
