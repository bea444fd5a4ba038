package gesture

import (
	"testing"

	"noteroll/project"
	"noteroll/session"
	"noteroll/timeline"
	"noteroll/view"
)

func testStore() *project.Store {
	p := project.New("gestures")
	p.Parts = append(p.Parts, project.Part{
		ID:            "part-1",
		TrackID:       "track-1",
		Name:          "Keys",
		Instrument:    "piano",
		DurationTicks: 480 * 16,
		Notes: []project.Note{
			{Pitch: 60, Velocity: 100, StartTick: 0, DurationTicks: 480},
			{Pitch: 64, Velocity: 90, StartTick: 480, DurationTicks: 240},
		},
	})
	return project.NewStore(p)
}

func testSession() *session.Session {
	return session.New(10, 1000, 100)
}

func testSurface() Surface {
	return Surface{
		PartID: "part-1",
		Map:    view.Mapper{PixelsPerSecond: 100},
		Vert:   view.VertMap{ContentHeight: 1280},
		Lanes:  view.NewLaneTable(10, 6),
	}
}

// pointFor aims the pointer at the middle of the pitch lane at time t.
func pointFor(sf Surface, t float64, pitch uint8) Point {
	lane := sf.Lanes.LaneFor(pitch)
	return Point{X: sf.Map.PixelAt(t), Y: sf.Vert.YAt(lane.Top + lane.Height/2)}
}

func TestTargetFor_ModifierDispatch(t *testing.T) {
	cases := []struct {
		mods Modifiers
		want RulerTarget
	}{
		{Modifiers{}, TargetPlayhead},
		{Modifiers{Ctrl: true}, TargetLeftLocator},
		{Modifiers{Alt: true}, TargetRightLocator},
		{Modifiers{Ctrl: true, Alt: true}, TargetRange},
	}
	for _, c := range cases {
		if got := TargetFor(c.mods); got != c.want {
			t.Errorf("TargetFor(%+v) = %v, want %v", c.mods, got, c.want)
		}
	}
}

func TestNormalizedRect(t *testing.T) {
	r := NormalizedRect(Point{X: 10, Y: 20}, Point{X: 4, Y: 2})
	if r.X != 4 || r.Y != 2 || r.W != 6 || r.H != 18 {
		t.Errorf("rect = %+v, want {4 2 6 18}", r)
	}
	if !r.Intersects(Rect{X: 5, Y: 10, W: 1, H: 1}) {
		t.Error("contained rect should intersect")
	}
	if r.Intersects(Rect{X: 10, Y: 2, W: 5, H: 5}) {
		t.Error("edge-adjacent rect should not intersect")
	}
}

func TestSnapTick_QuantizeToggle(t *testing.T) {
	st := testStore()
	sess := testSession()

	sess.SetQuantizeEnabled(true)
	if got := SnapTick(st, sess, 250); got != 240 {
		t.Errorf("snapped tick = %d, want 240", got)
	}
	if got := SnapTick(st, sess, 360); got != 480 {
		t.Errorf("snapped tick = %d, want 480", got)
	}
	if got := SnapTick(st, sess, -30); got != 0 {
		t.Errorf("negative tick = %d, want 0", got)
	}

	sess.SetQuantizeEnabled(false)
	if got := SnapTick(st, sess, 250); got != 250 {
		t.Errorf("unquantized tick = %d, want 250", got)
	}
	if got := SnapTick(st, sess, -30); got != 0 {
		t.Errorf("negative tick without quantize = %d, want 0", got)
	}
}

func TestSet_CancelAllInterruptsEverything(t *testing.T) {
	st := testStore()
	sess := testSession()
	sf := testSurface()
	s := NewSet(st, sess, nil)

	s.Drag.Down(pointFor(sf, 0.5, 60), sf, []int{0}, 0)
	if !s.Busy() {
		t.Fatal("an armed drag should report busy")
	}
	s.CancelAll()
	if s.Busy() {
		t.Error("CancelAll must idle every machine")
	}
}

func TestSnapTime_WalksTempoMap(t *testing.T) {
	st := testStore()
	sess := testSession()
	sess.SetQuantizeEnabled(true)
	st.SetTempoMap(timeline.TempoMap{
		{Tick: 0, MicrosPerQuarter: 1000000},
		{Tick: 960, MicrosPerQuarter: 500000},
	})

	// Before the change a beat is 0.5s.
	if got := SnapTime(st, sess, 1.13); got != 1.0 {
		t.Errorf("SnapTime(1.13) = %v, want 1.0", got)
	}
	// After tick 960 (2.0s) the tempo doubles and a beat is 0.25s.
	if got := SnapTime(st, sess, 2.6); got != 2.5 {
		t.Errorf("SnapTime(2.6) = %v, want 2.5", got)
	}
	if got := SnapTime(st, sess, -1); got != 0 {
		t.Errorf("SnapTime(-1) = %v, want 0", got)
	}

	sess.SetQuantizeEnabled(false)
	if got := SnapTime(st, sess, 1.13); got != 1.13 {
		t.Errorf("unquantized time = %v, want 1.13", got)
	}
}
