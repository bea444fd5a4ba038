package gesture

import (
	"math"

	"noteroll/project"
	"noteroll/session"
)

// fallbackGraphHeight stands in when the velocity graph has not been
// measured yet.
const fallbackGraphHeight = 100.0

// Velocity drags a note's velocity bar. The bar tracks the pointer
// height through preview writes that repaint without versioning the
// part; only the release commits. A bare click sets the bar straight
// to the click height.
type Velocity struct {
	store *project.Store
	sess  *session.Session

	phase  Phase
	partID string
	index  int
	origin Point

	// captured at arm
	height float64
	start  uint8

	value uint8 // latest previewed velocity
}

// NewVelocity builds an idle velocity machine.
func NewVelocity(store *project.Store, sess *session.Session) *Velocity {
	return &Velocity{store: store, sess: sess, index: -1}
}

// Phase reports where the machine is in its lifecycle.
func (v *Velocity) Phase() Phase { return v.phase }

// Index is the note being adjusted, -1 when idle.
func (v *Velocity) Index() int { return v.index }

// Down arms a velocity adjustment on one note. The graph height is
// captured so the whole drag resolves against the same scale.
func (v *Velocity) Down(p Point, partID string, index int, graphHeight float64) {
	if v.phase != Idle || v.sess.Disabled() {
		return
	}
	notes := v.store.PartNotes(partID)
	if index < 0 || index >= len(notes) {
		return
	}
	if graphHeight <= 0 {
		graphHeight = fallbackGraphHeight
	}
	v.phase = Armed
	v.partID = partID
	v.index = index
	v.origin = p
	v.height = graphHeight
	v.start = notes[index].Velocity
	v.value = notes[index].Velocity
}

// Move previews the velocity under the pointer.
func (v *Velocity) Move(p Point) {
	if v.phase == Idle {
		return
	}
	if v.interrupted() {
		v.Cancel()
		return
	}
	if v.phase == Armed {
		if Dist(p, v.origin) < DragThreshold {
			return
		}
		v.phase = Active
	}
	val := v.velAt(p.Y)
	if val == v.value {
		return
	}
	v.value = val
	vel := val
	v.store.UpdateNote(v.partID, v.index, project.NotePatch{Velocity: &vel}, true)
}

// Up commits the velocity under the release position in one write.
func (v *Velocity) Up(p Point) Result {
	if v.phase == Idle {
		return ResultNone
	}
	if v.interrupted() {
		v.Cancel()
		return ResultCancelled
	}
	armed := v.phase == Armed
	vel := v.velAt(p.Y)
	v.store.UpdateNote(v.partID, v.index, project.NotePatch{Velocity: &vel}, false)
	v.reset()
	if armed {
		return ResultClicked
	}
	return ResultCommitted
}

// Cancel restores the armed velocity with a preview write and abandons
// the gesture. The part version never moves.
func (v *Velocity) Cancel() {
	if v.phase == Idle {
		return
	}
	if v.phase == Active && v.value != v.start {
		vel := v.start
		v.store.UpdateNote(v.partID, v.index, project.NotePatch{Velocity: &vel}, true)
	}
	v.reset()
}

// velAt maps a pointer height to a velocity: the graph floor is 0, the
// top is 127.
func (v *Velocity) velAt(y float64) uint8 {
	val := math.Round((1 - y/v.height) * 127)
	if val < 0 {
		val = 0
	}
	if val > 127 {
		val = 127
	}
	return uint8(val)
}

func (v *Velocity) interrupted() bool {
	lock := v.sess.EditingPartID()
	return v.sess.Disabled() || (lock != "" && lock != v.partID)
}

func (v *Velocity) reset() {
	v.phase = Idle
	v.index = -1
	v.height = 0
	v.start = 0
	v.value = 0
}
