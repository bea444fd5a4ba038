package project

import (
	"testing"

	"noteroll/timeline"
)

func testProject() Project {
	p := New("test")
	p.Parts = []Part{{
		ID:            "part-1",
		TrackID:       "track-1",
		Instrument:    "piano",
		DurationTicks: 480 * 16,
		Notes: []Note{
			{Pitch: 60, Velocity: 100, StartTick: 0, DurationTicks: 480},
			{Pitch: 64, Velocity: 90, StartTick: 480, DurationTicks: 240},
		},
	}}
	return p
}

func TestNoteTimings_EndToEnd(t *testing.T) {
	// One note at startTick 0 lasting 480 ticks, PPQN 480, 120 BPM:
	// starts at 0 and lasts exactly one second.
	p := New("test")
	p.Parts = []Part{{
		ID:    "p",
		Notes: []Note{{Pitch: 60, Velocity: 100, StartTick: 0, DurationTicks: 480}},
	}}
	timings := p.NoteTimings("p")
	if len(timings) != 1 {
		t.Fatalf("timing count = %d, want 1", len(timings))
	}
	if timings[0].StartTime != 0 {
		t.Errorf("startTime = %v, want 0", timings[0].StartTime)
	}
	if timings[0].Duration != 1.0 {
		t.Errorf("duration = %v, want exactly 1.0", timings[0].Duration)
	}
}

func TestNoteTimings_PartOffset(t *testing.T) {
	p := testProject()
	p.Parts[0].StartTick = 480
	timings := p.NoteTimings("part-1")
	if timings[0].StartTime != 1.0 {
		t.Errorf("part offset start = %v, want 1.0", timings[0].StartTime)
	}
	if timings[1].StartTime != 2.0 || timings[1].Duration != 0.5 {
		t.Errorf("second note = %+v, want start 2.0 duration 0.5", timings[1])
	}
}

func TestNoteTimings_UnknownPart(t *testing.T) {
	p := testProject()
	if got := p.NoteTimings("nope"); got != nil {
		t.Errorf("unknown part should yield nil, got %v", got)
	}
}

func TestConversionMap_Fallback(t *testing.T) {
	p := New("test")
	p.BPM = 60
	m := p.ConversionMap()
	if len(m) != 1 {
		t.Fatalf("fallback map length = %d, want 1", len(m))
	}
	// Nominal 60 BPM: a quarter note lasts two seconds.
	if m[0].MicrosPerQuarter != 2e6 {
		t.Errorf("micros per quarter = %v, want 2e6", m[0].MicrosPerQuarter)
	}
}

func TestConversionMap_NormalizesStored(t *testing.T) {
	p := New("test")
	p.TempoMap = timeline.TempoMap{{Tick: 480, MicrosPerQuarter: 500000}}
	m := p.ConversionMap()
	if len(m) != 2 || m[0].Tick != 0 {
		t.Errorf("stored map should be anchored at tick 0, got %v", m)
	}
}

func TestClone_Isolated(t *testing.T) {
	p := testProject()
	c := p.Clone()
	c.Parts[0].Notes[0].Pitch = 1
	c.Parts[0].ID = "other"
	if p.Parts[0].Notes[0].Pitch != 60 {
		t.Error("mutating a clone's notes leaked into the original")
	}
	if p.Parts[0].ID != "part-1" {
		t.Error("mutating a clone's part leaked into the original")
	}
}

func TestClamps(t *testing.T) {
	if ClampPitch(-3) != 0 || ClampPitch(130) != 127 || ClampPitch(61) != 61 {
		t.Error("ClampPitch out of bounds")
	}
	if ClampVelocity(-1) != 0 || ClampVelocity(128) != 127 || ClampVelocity(64) != 64 {
		t.Error("ClampVelocity out of bounds")
	}
}
