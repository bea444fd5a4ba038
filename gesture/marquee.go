package gesture

import (
	"noteroll/project"
	"noteroll/session"
)

// Marquee drags out a selection rectangle over the note lanes. It
// never writes to the project: its product is the set of note indices
// whose rectangles intersect the marquee, live while dragging and
// final after release.
type Marquee struct {
	store *project.Store
	sess  *session.Session

	phase   Phase
	surface Surface
	origin  Point
	corner  Point

	// captured at arm
	notes   []project.Note
	timings []project.NoteTiming

	selected []int
}

// NewMarquee builds an idle marquee machine.
func NewMarquee(store *project.Store, sess *session.Session) *Marquee {
	return &Marquee{store: store, sess: sess}
}

// Phase reports where the machine is in its lifecycle.
func (m *Marquee) Phase() Phase { return m.phase }

// Down arms a marquee and captures the notes it can select.
func (m *Marquee) Down(p Point, sf Surface) {
	if m.phase != Idle || m.sess.Disabled() {
		return
	}
	m.phase = Armed
	m.surface = sf
	m.origin = p
	m.corner = p
	m.notes = m.store.PartNotes(sf.PartID)
	m.timings = m.store.NoteTimings(sf.PartID)
	m.selected = m.selected[:0]
}

// Move grows the rectangle and recomputes the covered notes.
func (m *Marquee) Move(p Point) {
	if m.phase == Idle {
		return
	}
	if m.interrupted() {
		m.Cancel()
		return
	}
	if m.phase == Armed {
		if Dist(p, m.origin) < DragThreshold {
			return
		}
		m.phase = Active
	}
	m.corner = p
	m.selected = m.selected[:0]
	if m.surface.Lanes == nil || len(m.timings) != len(m.notes) {
		return
	}
	r := NormalizedRect(m.origin, m.corner)
	for i := range m.notes {
		lane := m.surface.Lanes.LaneFor(m.notes[i].Pitch)
		top := m.surface.Vert.YAt(lane.Top)
		bottom := m.surface.Vert.YAt(lane.Top + lane.Height)
		left := m.surface.Map.PixelAt(m.timings[i].StartTime)
		right := m.surface.Map.PixelAt(m.timings[i].StartTime + m.timings[i].Duration)
		nr := Rect{X: left, Y: top, W: right - left, H: bottom - top}
		if r.Intersects(nr) {
			m.selected = append(m.selected, i)
		}
	}
}

// Up finishes the marquee. A click reports ResultClicked so the caller
// can replace the selection with whatever sits under the pointer; a
// drag leaves the covered indices in Selected.
func (m *Marquee) Up(p Point) Result {
	if m.phase == Idle {
		return ResultNone
	}
	if m.interrupted() {
		m.Cancel()
		return ResultCancelled
	}
	if m.phase == Armed {
		m.reset()
		return ResultClicked
	}
	m.Move(p)
	m.reset()
	return ResultCommitted
}

// Selected is the covered note indices: live while dragging, final
// after a committed release, empty after a cancel.
func (m *Marquee) Selected() []int { return m.selected }

// Rect is the current marquee rectangle for rendering.
func (m *Marquee) Rect() (Rect, bool) {
	if m.phase != Active {
		return Rect{}, false
	}
	return NormalizedRect(m.origin, m.corner), true
}

// Cancel abandons the marquee and clears its selection.
func (m *Marquee) Cancel() {
	if m.phase == Idle {
		return
	}
	m.selected = m.selected[:0]
	m.reset()
}

func (m *Marquee) interrupted() bool {
	lock := m.sess.EditingPartID()
	return m.sess.Disabled() || (lock != "" && lock != m.surface.PartID)
}

func (m *Marquee) reset() {
	m.phase = Idle
	m.notes = nil
	m.timings = nil
}
