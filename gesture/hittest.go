package gesture

import (
	"math"

	"noteroll/project"
	"noteroll/view"
)

// EdgePx is the grab tolerance around a note edge in pixels.
const EdgePx = 4.0

// Edge identifies which end of a note a resize grabs.
type Edge int

const (
	// EdgeNone means the pointer is not over an edge.
	EdgeNone Edge = iota
	// EdgeLeft is the note's start.
	EdgeLeft
	// EdgeRight is the note's end.
	EdgeRight
)

// HitNote returns the index of the note at time t on the given pitch
// lane, or -1. Later notes win, matching draw order on overlap.
func HitNote(notes []project.Note, timings []project.NoteTiming, t float64, pitch uint8) int {
	if len(timings) != len(notes) {
		return -1
	}
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].Pitch != pitch {
			continue
		}
		if t >= timings[i].StartTime && t < timings[i].StartTime+timings[i].Duration {
			return i
		}
	}
	return -1
}

// HitEdge reports which edge of a note the pointer grabs, within
// EdgePx at the mapper's zoom. The right edge wins when a short note
// makes the zones overlap.
func HitEdge(t project.NoteTiming, m view.Mapper, x float64) Edge {
	left := m.PixelAt(t.StartTime)
	right := m.PixelAt(t.StartTime + t.Duration)
	switch {
	case math.Abs(x-right) <= EdgePx:
		return EdgeRight
	case math.Abs(x-left) <= EdgePx:
		return EdgeLeft
	}
	return EdgeNone
}
