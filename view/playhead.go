package view

import "time"

// Animator rate limits.
const (
	// MinStep is the floor on per-frame advancement in seconds.
	MinStep = 0.01
	// SnapGap is the target distance beyond which the animator jumps
	// instead of chasing: that far apart it is a seek, not playback.
	SnapGap = 1.5
	// ConvergedWithin is the gap treated as caught up.
	ConvergedWithin = 0.001
)

// Animator smooths discrete transport-time updates into continuous
// visual motion. One loop at a time: TryBegin hands out the loop slot
// and Step returns it once converged.
type Animator struct {
	target   float64
	rendered float64
	lastStep time.Time
	running  bool
}

// SetTarget updates the time the playhead should be showing.
func (a *Animator) SetTarget(t float64) {
	a.target = t
}

// Target returns the transport time being chased.
func (a *Animator) Target() float64 {
	return a.target
}

// Rendered returns the smoothed time to draw the playhead at.
func (a *Animator) Rendered() float64 {
	return a.rendered
}

// SyncRendered force-aligns the rendered time, e.g. after a project
// load.
func (a *Animator) SyncRendered(t float64) {
	a.target = t
	a.rendered = t
}

// Converged reports whether the rendered time has caught up with the
// target.
func (a *Animator) Converged() bool {
	gap := a.target - a.rendered
	if gap < 0 {
		gap = -gap
	}
	return gap <= ConvergedWithin
}

// TryBegin claims the animation loop. It returns false when the
// animator is already converged or a loop is in flight, so callers can
// never schedule duplicate concurrent loops.
func (a *Animator) TryBegin() bool {
	if a.running || a.Converged() {
		return false
	}
	a.running = true
	a.lastStep = time.Time{}
	return true
}

// Running reports whether a loop currently holds the slot.
func (a *Animator) Running() bool {
	return a.running
}

// Stop releases the loop slot without converging, e.g. on teardown.
func (a *Animator) Stop() {
	a.running = false
}

// Step advances the rendered time toward the target by at most
// max(MinStep, elapsed*2) seconds, snapping outright when the gap
// exceeds SnapGap. It returns true when converged, releasing the loop
// slot.
func (a *Animator) Step(now time.Time) bool {
	advance := MinStep
	if !a.lastStep.IsZero() {
		if el := now.Sub(a.lastStep).Seconds() * 2; el > advance {
			advance = el
		}
	}
	a.lastStep = now

	gap := a.target - a.rendered
	abs := gap
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > SnapGap:
		a.rendered = a.target
	case abs <= advance:
		a.rendered = a.target
	case gap > 0:
		a.rendered += advance
	default:
		a.rendered -= advance
	}

	if a.Converged() {
		a.running = false
		return true
	}
	return false
}
