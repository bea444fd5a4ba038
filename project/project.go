package project

import (
	"noteroll/timeline"
)

// Note is a single MIDI note. Ticks are relative to the containing
// part; notes are addressed by index within their part for the duration
// of an edit session.
type Note struct {
	Pitch         uint8 `json:"pitch"`
	Velocity      uint8 `json:"velocity"`
	StartTick     int64 `json:"startTick"`
	DurationTicks int64 `json:"durationTicks"`
}

// End is the note's exclusive end tick.
func (n Note) End() int64 {
	return n.StartTick + n.DurationTicks
}

// ControlChange is a raw MIDI control change inside a part.
type ControlChange struct {
	Tick       int64 `json:"tick"`
	Controller uint8 `json:"controller"`
	Value      uint8 `json:"value"`
}

// Part is a time-bounded container of notes belonging to a track.
type Part struct {
	ID             string          `json:"id"`
	TrackID        string          `json:"trackId"`
	Name           string          `json:"name"`
	Instrument     string          `json:"instrument"`
	StartTick      int64           `json:"startTick"`
	DurationTicks  int64           `json:"durationTicks"`
	Notes          []Note          `json:"notes"`
	ControlChanges []ControlChange `json:"controlChanges,omitempty"`
}

// ExportRange is the durable, measure-based form of the locator pair.
// Measure positions survive time-signature changes; the seconds form is
// a derived cache owned by the session.
type ExportRange struct {
	StartMeasure float64 `json:"startMeasure"`
	EndMeasure   float64 `json:"endMeasure"`
}

// Project is the serializable document.
type Project struct {
	Name          string                 `json:"name"`
	BPM           float64                `json:"bpm"`
	PPQN          int                    `json:"ppqn"`
	TimeSignature timeline.TimeSignature `json:"timeSignature"`
	TempoMap      timeline.TempoMap      `json:"tempoMap,omitempty"`
	Parts         []Part                 `json:"parts"`
	ExportRange   *ExportRange           `json:"exportRange,omitempty"`
}

// New creates an empty project with default timing.
func New(name string) Project {
	return Project{
		Name:          name,
		BPM:           timeline.DefaultBPM,
		PPQN:          timeline.DefaultPPQN,
		TimeSignature: timeline.DefaultTimeSignature,
	}
}

// ConversionMap returns the map used for tick/seconds conversion: the
// normalized tempo map, or the implicit single-tempo map derived from
// the project BPM when none is set.
func (p *Project) ConversionMap() timeline.TempoMap {
	if len(p.TempoMap) == 0 {
		return timeline.FallbackMap(p.BPM)
	}
	return p.TempoMap.Normalize()
}

// FindPart returns the index of a part by id, or -1.
func (p *Project) FindPart(id string) int {
	for i := range p.Parts {
		if p.Parts[i].ID == id {
			return i
		}
	}
	return -1
}

// NoteTiming is a note's resolved position on the absolute timeline in
// seconds.
type NoteTiming struct {
	StartTime float64
	Duration  float64
}

// NoteTimings resolves every note of a part against the tempo map.
func (p *Project) NoteTimings(partID string) []NoteTiming {
	pi := p.FindPart(partID)
	if pi < 0 {
		return nil
	}
	part := &p.Parts[pi]
	m := p.ConversionMap()
	out := make([]NoteTiming, len(part.Notes))
	for i, n := range part.Notes {
		start, duration := timeline.TimesAt(part.StartTick+n.StartTick, n.DurationTicks, m, p.PPQN)
		out[i] = NoteTiming{StartTime: start, Duration: duration}
	}
	return out
}

// ClampPitch bounds a pitch delta result to the MIDI range.
func ClampPitch(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// ClampVelocity bounds a velocity computation to the MIDI range.
func ClampVelocity(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// Clone deep-copies the project so callers can hold a snapshot while
// the store keeps mutating its own copy.
func (p *Project) Clone() Project {
	out := *p
	out.TempoMap = append(timeline.TempoMap(nil), p.TempoMap...)
	out.Parts = make([]Part, len(p.Parts))
	for i := range p.Parts {
		out.Parts[i] = p.Parts[i]
		out.Parts[i].Notes = append([]Note(nil), p.Parts[i].Notes...)
		out.Parts[i].ControlChanges = append([]ControlChange(nil), p.Parts[i].ControlChanges...)
	}
	if p.ExportRange != nil {
		r := *p.ExportRange
		out.ExportRange = &r
	}
	return out
}
