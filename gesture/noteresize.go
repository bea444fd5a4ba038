package gesture

import (
	"noteroll/project"
	"noteroll/session"
)

// NoteResize drags one edge of a note. The opposite edge stays put and
// the note never collapses below one tick.
type NoteResize struct {
	store *project.Store
	sess  *session.Session

	phase   Phase
	surface Surface
	origin  Point
	edge    Edge
	index   int

	note    project.Note // captured at arm
	preview project.Note
}

// NewNoteResize builds an idle resize machine.
func NewNoteResize(store *project.Store, sess *session.Session) *NoteResize {
	return &NoteResize{store: store, sess: sess, index: -1}
}

// Phase reports where the machine is in its lifecycle.
func (r *NoteResize) Phase() Phase { return r.phase }

// Index is the note being resized, -1 when idle.
func (r *NoteResize) Index() int { return r.index }

// Down arms a resize of one note from the given edge.
func (r *NoteResize) Down(p Point, sf Surface, index int, edge Edge) {
	if r.phase != Idle || r.sess.Disabled() || edge == EdgeNone {
		return
	}
	notes := r.store.PartNotes(sf.PartID)
	if index < 0 || index >= len(notes) {
		return
	}
	r.phase = Armed
	r.surface = sf
	r.origin = p
	r.edge = edge
	r.index = index
	r.note = notes[index]
	r.preview = notes[index]
}

// Move tracks the grabbed edge, quantized when enabled.
func (r *NoteResize) Move(p Point) {
	if r.phase == Idle {
		return
	}
	if r.interrupted() {
		r.Cancel()
		return
	}
	if r.phase == Armed {
		if Dist(p, r.origin) < DragThreshold {
			return
		}
		r.phase = Active
	}
	tick := SnapTick(r.store, r.sess, r.surface.TickAt(r.store, p))
	n := r.note
	switch r.edge {
	case EdgeLeft:
		end := n.End()
		if tick > end-1 {
			tick = end - 1
		}
		if tick < 0 {
			tick = 0
		}
		n.StartTick = tick
		n.DurationTicks = end - tick
		if n.DurationTicks < 1 {
			n.DurationTicks = 1
		}
	case EdgeRight:
		dur := tick - n.StartTick
		if dur < 1 {
			dur = 1
		}
		n.DurationTicks = dur
	}
	r.preview = n
}

// Up commits the resized note in a single write, or reports a click if
// the pointer never travelled.
func (r *NoteResize) Up(p Point) Result {
	if r.phase == Idle {
		return ResultNone
	}
	if r.interrupted() {
		r.Cancel()
		return ResultCancelled
	}
	if r.phase == Armed {
		r.reset()
		return ResultClicked
	}
	r.Move(p)
	start := r.preview.StartTick
	dur := r.preview.DurationTicks
	r.store.UpdateNote(r.surface.PartID, r.index, project.NotePatch{
		StartTick:     &start,
		DurationTicks: &dur,
	}, false)
	r.reset()
	return ResultCommitted
}

// Preview is the note's live shape while the resize is active.
func (r *NoteResize) Preview() (project.Note, bool) {
	if r.phase != Active {
		return project.Note{}, false
	}
	return r.preview, true
}

// Cancel abandons the resize without writing.
func (r *NoteResize) Cancel() {
	if r.phase == Idle {
		return
	}
	r.reset()
}

func (r *NoteResize) interrupted() bool {
	lock := r.sess.EditingPartID()
	return r.sess.Disabled() || (lock != "" && lock != r.surface.PartID)
}

func (r *NoteResize) reset() {
	r.phase = Idle
	r.index = -1
	r.note = project.Note{}
	r.preview = project.Note{}
}
