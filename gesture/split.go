package gesture

import (
	"noteroll/project"
	"noteroll/session"
)

// Split shows a cut line over the note under the pointer and divides
// it on click. The line sits at the quantized pointer tick and only
// shows while that tick falls strictly inside the note, so a cut can
// never produce an empty half.
type Split struct {
	store *project.Store
	sess  *session.Session

	index int
	tick  int64
	ok    bool
}

// NewSplit builds a split machine with no pending cut.
func NewSplit(store *project.Store, sess *session.Session) *Split {
	return &Split{store: store, sess: sess, index: -1}
}

// Hover recomputes the cut preview for the pointer position.
func (s *Split) Hover(p Point, sf Surface) {
	s.Clear()
	if s.sess.Disabled() {
		return
	}
	if lock := s.sess.EditingPartID(); lock != "" && lock != sf.PartID {
		return
	}
	pitch, ok := sf.PitchAt(p)
	if !ok {
		return
	}
	notes := s.store.PartNotes(sf.PartID)
	timings := s.store.NoteTimings(sf.PartID)
	i := HitNote(notes, timings, sf.TimeAt(p), pitch)
	if i < 0 {
		return
	}
	tick := SnapTick(s.store, s.sess, sf.TickAt(s.store, p))
	if tick <= notes[i].StartTick || tick >= notes[i].End() {
		return
	}
	s.index = i
	s.tick = tick
	s.ok = true
}

// Preview returns the note index and part-relative tick of the
// pending cut.
func (s *Split) Preview() (index int, tick int64, ok bool) {
	return s.index, s.tick, s.ok
}

// Click commits the cut under the pointer, if any.
func (s *Split) Click(p Point, sf Surface) bool {
	s.Hover(p, sf)
	if !s.ok {
		return false
	}
	done := s.store.SplitNote(sf.PartID, s.index, s.tick)
	s.Clear()
	return done
}

// Clear drops the preview, for when the pointer leaves the lanes.
func (s *Split) Clear() {
	s.index = -1
	s.tick = 0
	s.ok = false
}
