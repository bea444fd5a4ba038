package gesture

import (
	"noteroll/project"
	"noteroll/session"
)

// NoteDrag moves a selection of notes through time and across lanes.
// Every move recomputes the preview against the snapshot captured at
// arm time, so repeated moves to one position and a single move there
// commit identically. The grabbed note auditions its pitch as it
// crosses lanes. Release writes all moved notes in one batch.
type NoteDrag struct {
	store    *project.Store
	sess     *session.Session
	audition Auditioner

	phase   Phase
	surface Surface
	origin  Point

	// captured at arm
	grabbed    int
	grabAt     int // position of grabbed within indices
	indices    []int
	snapshot   []project.Note
	grabTick   int64 // pointer tick offset into the grabbed note
	grabPitch  uint8
	instrument string

	// runtime only
	preview   []project.Note
	lastPitch int
	sounding  int
}

// NewNoteDrag builds an idle drag machine. audition may be nil.
func NewNoteDrag(store *project.Store, sess *session.Session, audition Auditioner) *NoteDrag {
	return &NoteDrag{store: store, sess: sess, audition: audition, lastPitch: -1, sounding: -1}
}

// Phase reports where the machine is in its lifecycle.
func (d *NoteDrag) Phase() Phase { return d.phase }

// Grabbed is the note index under the pointer at arm time.
func (d *NoteDrag) Grabbed() int { return d.grabbed }

// Down arms a drag of the selected notes, grabbed at the note under
// the pointer. The surface geometry and the note positions are
// captured here; every later move is measured against them.
func (d *NoteDrag) Down(p Point, sf Surface, indices []int, grabbed int) {
	if d.phase != Idle || d.sess.Disabled() {
		return
	}
	notes := d.store.PartNotes(sf.PartID)
	if grabbed < 0 || grabbed >= len(notes) {
		return
	}
	part, ok := d.store.FindPart(sf.PartID)
	if !ok {
		return
	}
	d.phase = Armed
	d.surface = sf
	d.origin = p
	d.grabbed = grabbed
	d.grabAt = -1
	d.indices = d.indices[:0]
	d.snapshot = d.snapshot[:0]
	for _, i := range indices {
		if i < 0 || i >= len(notes) {
			continue
		}
		if i == grabbed {
			d.grabAt = len(d.indices)
		}
		d.indices = append(d.indices, i)
		d.snapshot = append(d.snapshot, notes[i])
	}
	if d.grabAt < 0 {
		d.grabAt = len(d.indices)
		d.indices = append(d.indices, grabbed)
		d.snapshot = append(d.snapshot, notes[grabbed])
	}
	d.grabTick = sf.TickAt(d.store, p) - notes[grabbed].StartTick
	d.grabPitch = notes[grabbed].Pitch
	d.instrument = part.Instrument
	d.lastPitch = int(d.grabPitch)
	d.sounding = -1
}

// Move recomputes the preview. The grabbed note's start is quantized
// first and the rest of the selection follows by the same delta, so
// the selection never deforms.
func (d *NoteDrag) Move(p Point) {
	if d.phase == Idle {
		return
	}
	if d.interrupted() {
		d.Cancel()
		return
	}
	if d.phase == Armed {
		if Dist(p, d.origin) < DragThreshold {
			return
		}
		d.phase = Active
	}

	grab := d.snapshot[d.grabAt]
	target := SnapTick(d.store, d.sess, d.surface.TickAt(d.store, p)-d.grabTick)
	deltaTick := target - grab.StartTick

	deltaPitch := 0
	if pitch, ok := d.surface.PitchAt(p); ok {
		deltaPitch = int(pitch) - int(d.grabPitch)
	}

	// Clamp both deltas so no note in the selection leaves the part
	// start or the pitch range.
	for _, n := range d.snapshot {
		if n.StartTick+deltaTick < 0 {
			deltaTick = -n.StartTick
		}
		if int(n.Pitch)+deltaPitch < 0 {
			deltaPitch = -int(n.Pitch)
		}
		if int(n.Pitch)+deltaPitch > 127 {
			deltaPitch = 127 - int(n.Pitch)
		}
	}

	d.preview = d.preview[:0]
	for _, n := range d.snapshot {
		n.StartTick += deltaTick
		n.Pitch = uint8(int(n.Pitch) + deltaPitch)
		d.preview = append(d.preview, n)
	}
	d.auditionPitch(d.preview[d.grabAt].Pitch)
}

// auditionPitch restarts the preview tone whenever the grabbed note
// lands on a different lane than last time.
func (d *NoteDrag) auditionPitch(pitch uint8) {
	if d.audition == nil || int(pitch) == d.lastPitch {
		return
	}
	if d.sounding >= 0 {
		d.audition.StopPreview(uint8(d.sounding))
	}
	d.audition.PreviewNote(pitch, d.snapshot[d.grabAt].Velocity, d.instrument)
	d.lastPitch = int(pitch)
	d.sounding = int(pitch)
}

// Up resolves the drag. A click keeps every note in place and reports
// ResultClicked so the caller can treat it as a selection. A drag
// commits all moved notes in one write.
func (d *NoteDrag) Up(p Point) Result {
	if d.phase == Idle {
		return ResultNone
	}
	if d.interrupted() {
		d.Cancel()
		return ResultCancelled
	}
	if d.phase == Armed {
		d.reset()
		return ResultClicked
	}
	// The release position is the final value.
	d.Move(p)
	patches := make([]project.IndexedPatch, 0, len(d.indices))
	for i, idx := range d.indices {
		start := d.preview[i].StartTick
		pitch := d.preview[i].Pitch
		patches = append(patches, project.IndexedPatch{
			Index: idx,
			Patch: project.NotePatch{Pitch: &pitch, StartTick: &start},
		})
	}
	d.store.UpdateNotes(d.surface.PartID, patches, false)
	d.reset()
	return ResultCommitted
}

// Preview returns the moved copies of the selection while the drag is
// active, nil otherwise.
func (d *NoteDrag) Preview() []project.Note {
	if d.phase != Active {
		return nil
	}
	return d.preview
}

// Indices returns the store indices of the notes being dragged.
func (d *NoteDrag) Indices() []int {
	if d.phase == Idle {
		return nil
	}
	return d.indices
}

// Cancel abandons the drag without writing and silences any preview.
func (d *NoteDrag) Cancel() {
	if d.phase == Idle {
		return
	}
	d.reset()
}

func (d *NoteDrag) interrupted() bool {
	lock := d.sess.EditingPartID()
	return d.sess.Disabled() || (lock != "" && lock != d.surface.PartID)
}

func (d *NoteDrag) reset() {
	if d.audition != nil && d.sounding >= 0 {
		d.audition.StopPreview(uint8(d.sounding))
	}
	d.phase = Idle
	d.indices = d.indices[:0]
	d.snapshot = d.snapshot[:0]
	d.preview = d.preview[:0]
	d.lastPitch = -1
	d.sounding = -1
}
