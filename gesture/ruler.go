package gesture

import (
	"noteroll/project"
	"noteroll/session"
	"noteroll/timeline"
	"noteroll/view"
)

// Ruler turns pointer events on the measure ruler into playhead and
// export-range edits. Plain drags scrub the playhead, Ctrl drags the
// left locator, Alt the right, Ctrl+Alt slides or drags out the whole
// range. Locator moves live in the session; the project only sees one
// measure-range write per committed gesture, once both ends exist.
type Ruler struct {
	store *project.Store
	sess  *session.Session

	phase   Phase
	target  RulerTarget
	origin  Point
	mapper  view.Mapper
	modalAt string

	// export range captured at arm, nil endpoints when unset
	armStart *float64
	armEnd   *float64
}

// NewRuler builds an idle ruler machine over the given collaborators.
func NewRuler(store *project.Store, sess *session.Session) *Ruler {
	return &Ruler{store: store, sess: sess}
}

// Phase reports where the machine is in its lifecycle.
func (r *Ruler) Phase() Phase { return r.phase }

// Target is the ruler element grabbed at pointer-down.
func (r *Ruler) Target() RulerTarget { return r.target }

// Down arms a ruler gesture. The mapper is captured here and reused
// for every later move so a mid-drag zoom cannot shift the grab.
func (r *Ruler) Down(p Point, mods Modifiers, mp view.Mapper) {
	if r.phase != Idle || r.sess.Disabled() {
		return
	}
	r.phase = Armed
	r.target = TargetFor(mods)
	r.origin = p
	r.mapper = mp
	r.modalAt = r.sess.EditingPartID()
	r.armStart, r.armEnd = r.sess.ExportRange()
}

// Move advances the gesture. Below the drag threshold the machine
// stays armed; past it the grabbed target tracks the pointer.
func (r *Ruler) Move(p Point) {
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
	t := SnapTime(r.store, r.sess, r.mapper.TimeAt(p.X))
	switch r.target {
	case TargetPlayhead:
		r.sess.SetPlaybackTime(t)
	case TargetLeftLocator:
		r.sess.SetExportRange(&t, r.armEnd)
	case TargetRightLocator:
		r.sess.SetExportRange(r.armStart, &t)
	case TargetRange:
		r.dragRange(p, t)
	}
}

// dragRange slides an existing range by the pointer delta, or drags a
// new one out from the grab point when none exists yet.
func (r *Ruler) dragRange(p Point, t float64) {
	if r.armStart != nil && r.armEnd != nil {
		dt := r.mapper.TimeAt(p.X) - r.mapper.TimeAt(r.origin.X)
		start := SnapTime(r.store, r.sess, *r.armStart+dt)
		end := *r.armEnd + (start - *r.armStart)
		r.sess.SetExportRange(&start, &end)
		return
	}
	// SetExportRange puts the smaller endpoint first whichever way the
	// drag went.
	anchor := SnapTime(r.store, r.sess, r.mapper.TimeAt(r.origin.X))
	r.sess.SetExportRange(&anchor, &t)
}

// Up resolves the gesture. A click jumps the grabbed target to the
// click position; a drag commits wherever the last move left it.
func (r *Ruler) Up(p Point) Result {
	if r.phase == Idle {
		return ResultNone
	}
	if r.interrupted() {
		r.Cancel()
		return ResultCancelled
	}
	defer r.reset()
	if r.phase == Armed {
		t := SnapTime(r.store, r.sess, r.mapper.TimeAt(p.X))
		switch r.target {
		case TargetPlayhead:
			r.sess.SetPlaybackTime(t)
		case TargetLeftLocator:
			r.sess.SetExportRange(&t, r.armEnd)
			r.commitRange()
		case TargetRightLocator:
			r.sess.SetExportRange(r.armStart, &t)
			r.commitRange()
		case TargetRange:
			// Nothing to slide from a bare click.
		}
		return ResultClicked
	}
	r.Move(p)
	if r.target != TargetPlayhead {
		r.commitRange()
	}
	return ResultCommitted
}

// Cancel abandons the gesture and restores the export range captured
// at arm time. The project is never written.
func (r *Ruler) Cancel() {
	if r.phase == Idle {
		return
	}
	if r.target != TargetPlayhead {
		r.sess.SetExportRange(r.armStart, r.armEnd)
	}
	r.reset()
}

// commitRange writes the range to the project once both locators
// exist. This is the gesture's single document write.
func (r *Ruler) commitRange() {
	start, end := r.sess.ExportRange()
	if start == nil || end == nil {
		return
	}
	sig := r.store.TimeSignature()
	bpm := r.store.BPM()
	r.store.SetExportRangeMeasure(
		timeline.MeasureAt(*start, sig, bpm),
		timeline.MeasureAt(*end, sig, bpm),
	)
}

func (r *Ruler) interrupted() bool {
	return r.sess.Disabled() || r.sess.EditingPartID() != r.modalAt
}

func (r *Ruler) reset() {
	r.phase = Idle
	r.armStart = nil
	r.armEnd = nil
	r.mapper = view.Mapper{}
}
