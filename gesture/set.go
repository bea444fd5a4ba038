package gesture

import (
	"noteroll/project"
	"noteroll/session"
)

// Set bundles every machine for one part editor so the host can route
// pointer events and interrupt everything at once.
type Set struct {
	Ruler    *Ruler
	Drag     *NoteDrag
	Resize   *NoteResize
	Marquee  *Marquee
	Velocity *Velocity
	Split    *Split
}

// NewSet wires a full machine set over shared collaborators.
func NewSet(store *project.Store, sess *session.Session, audition Auditioner) *Set {
	return &Set{
		Ruler:    NewRuler(store, sess),
		Drag:     NewNoteDrag(store, sess, audition),
		Resize:   NewNoteResize(store, sess),
		Marquee:  NewMarquee(store, sess),
		Velocity: NewVelocity(store, sess),
		Split:    NewSplit(store, sess),
	}
}

// CancelAll interrupts whatever is in progress without writing.
func (s *Set) CancelAll() {
	s.Ruler.Cancel()
	s.Drag.Cancel()
	s.Resize.Cancel()
	s.Marquee.Cancel()
	s.Velocity.Cancel()
	s.Split.Clear()
}

// Busy reports whether any drag machine holds the pointer.
func (s *Set) Busy() bool {
	return s.Ruler.Phase() != Idle ||
		s.Drag.Phase() != Idle ||
		s.Resize.Phase() != Idle ||
		s.Marquee.Phase() != Idle ||
		s.Velocity.Phase() != Idle
}
