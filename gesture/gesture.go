package gesture

import (
	"math"

	"noteroll/project"
	"noteroll/session"
	"noteroll/timeline"
	"noteroll/view"
)

// DragThreshold is how far the pointer must travel from its down
// position before an armed gesture becomes a drag instead of a click.
const DragThreshold = 3.0

// Phase tracks a pointer interaction through its lifecycle. Commit and
// cancel are reported through Result values and return the machine to
// Idle in the same event.
type Phase int

const (
	// Idle means no pointer is held.
	Idle Phase = iota
	// Armed means the pointer is down but within the click threshold.
	Armed
	// Active means the pointer travelled past the threshold.
	Active
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Active:
		return "active"
	}
	return "unknown"
}

// Result reports how a pointer-up resolved a gesture.
type Result int

const (
	// ResultNone means no gesture was in progress.
	ResultNone Result = iota
	// ResultClicked means the pointer stayed within the click threshold.
	ResultClicked
	// ResultCommitted means the drag wrote its final value.
	ResultCommitted
	// ResultCancelled means the gesture was interrupted before commit.
	ResultCancelled
)

// Point is a pointer position in pixels on one surface.
type Point struct {
	X float64
	Y float64
}

// Dist is the straight-line distance between two pointer positions.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Rect is a pixel rectangle with non-negative size.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// NormalizedRect spans two corner points in either drag direction.
func NormalizedRect(a, b Point) Rect {
	r := Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Modifiers records which modifier keys were held at pointer-down.
type Modifiers struct {
	Ctrl bool
	Alt  bool
}

// RulerTarget is the ruler element a pointer-down grabs.
type RulerTarget int

const (
	// TargetPlayhead scrubs the playhead.
	TargetPlayhead RulerTarget = iota
	// TargetLeftLocator moves the export range start.
	TargetLeftLocator
	// TargetRightLocator moves the export range end.
	TargetRightLocator
	// TargetRange drags the export range as a whole.
	TargetRange
)

// TargetFor picks the ruler element from the modifiers held at
// pointer-down: plain grabs the playhead, Ctrl the left locator, Alt
// the right locator, Ctrl+Alt the whole range.
func TargetFor(m Modifiers) RulerTarget {
	switch {
	case m.Ctrl && m.Alt:
		return TargetRange
	case m.Ctrl:
		return TargetLeftLocator
	case m.Alt:
		return TargetRightLocator
	}
	return TargetPlayhead
}

// Auditioner plays pitch previews while a drag moves notes across
// lanes. preview.Player satisfies it.
type Auditioner interface {
	PreviewNote(pitch, velocity uint8, instrument string)
	StopPreview(pitch uint8)
}

// Surface bundles the geometry needed to resolve pointer positions on
// the note lanes of one part. Machines capture it at pointer-down so a
// whole drag is measured against the same frame.
type Surface struct {
	PartID    string
	PartStart int64 // part offset in absolute ticks
	Map       view.Mapper
	Vert      view.VertMap
	Lanes     *view.LaneTable
}

// TimeAt converts a pointer x to absolute seconds.
func (s Surface) TimeAt(p Point) float64 {
	return s.Map.TimeAt(p.X)
}

// PitchAt resolves a pointer y to a lane pitch.
func (s Surface) PitchAt(p Point) (uint8, bool) {
	if s.Lanes == nil {
		return 0, false
	}
	pct := s.Vert.PctAt(p.Y)
	if pct < 0 {
		return 0, false
	}
	return s.Lanes.PitchAt(pct)
}

// TickAt converts a pointer x to a tick relative to the part start.
func (s Surface) TickAt(st *project.Store, p Point) int64 {
	return st.ConversionMap().TickAtTime(s.TimeAt(p), st.PPQN()) - s.PartStart
}

// SnapTick rounds a part-relative tick to the beat grid when the
// session has quantization on. Negative ticks clamp to zero either way.
func SnapTick(st *project.Store, sess *session.Session, tick int64) int64 {
	if tick < 0 {
		tick = 0
	}
	if !sess.QuantizeEnabled() {
		return tick
	}
	sig := st.TimeSignature()
	return timeline.BeatTicks(st.PPQN(), sig.BeatUnit).Snap(tick)
}

// SnapTime rounds absolute seconds to the beat grid, walking the tempo
// map so the grid stays aligned across tempo changes.
func SnapTime(st *project.Store, sess *session.Session, t float64) float64 {
	if t < 0 {
		t = 0
	}
	if !sess.QuantizeEnabled() {
		return t
	}
	sig := st.TimeSignature()
	ppqn := st.PPQN()
	if ppqn > 0 {
		m := st.ConversionMap()
		tick := timeline.BeatTicks(ppqn, sig.BeatUnit).Snap(m.TickAtTime(t, ppqn))
		return m.TimeAtTick(tick, ppqn)
	}
	return timeline.BeatQuantizer(st.BPM(), sig.BeatUnit).Snap(t)
}
