package project

import (
	"sort"
	"sync"

	"noteroll/timeline"
)

// Tempo bounds for SetBPM.
const (
	MinBPM = 20
	MaxBPM = 400
)

// ChangeType tags a change notification.
type ChangeType string

const (
	ChangeProject       ChangeType = "project"
	ChangeTempo         ChangeType = "tempo"
	ChangeTimeSignature ChangeType = "timeSignature"
	ChangeMidiPart      ChangeType = "midiPart"
	ChangeExportRange   ChangeType = "exportRange"
)

// Change is a typed change notification delivered to subscribers.
// Preview marks a transient write that previews an in-flight gesture;
// subscribers should redraw but not persist.
type Change struct {
	Type    ChangeType
	PartID  string
	Preview bool
}

// NotePatch is a partial note update; nil fields keep current values.
type NotePatch struct {
	Pitch         *uint8
	Velocity      *uint8
	StartTick     *int64
	DurationTicks *int64
}

// Store owns the project document. Reads hand out snapshots, writes are
// named atomic operations, and every write notifies subscribers with a
// typed change. Non-preview writes bump the touched part's version so
// views can tell a stale projection from a current one.
type Store struct {
	mu       sync.RWMutex
	project  Project
	versions map[string]uint64

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// NewStore wraps a project document in a store.
func NewStore(p Project) *Store {
	p.TempoMap = p.TempoMap.Normalize()
	return &Store{
		project:  p,
		versions: make(map[string]uint64),
		subs:     make(map[int]func(Change)),
	}
}

// Subscribe registers a change listener and returns its unsubscribe
// function. Listeners run synchronously after the write completes, off
// the store lock.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// Snapshot returns a deep copy of the document.
func (s *Store) Snapshot() Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.Clone()
}

// Replace swaps in a whole new document, e.g. after a load.
func (s *Store) Replace(p Project) {
	s.mu.Lock()
	p.TempoMap = p.TempoMap.Normalize()
	s.project = p
	s.versions = make(map[string]uint64)
	s.mu.Unlock()
	s.notify(Change{Type: ChangeProject})
}

// Name returns the project name.
func (s *Store) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.Name
}

// BPM returns the nominal project tempo.
func (s *Store) BPM() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.BPM
}

// SetBPM sets the nominal tempo, clamped to [MinBPM, MaxBPM].
func (s *Store) SetBPM(bpm float64) {
	if bpm < MinBPM {
		bpm = MinBPM
	}
	if bpm > MaxBPM {
		bpm = MaxBPM
	}
	s.mu.Lock()
	s.project.BPM = bpm
	s.mu.Unlock()
	s.notify(Change{Type: ChangeTempo})
}

// PPQN returns the project tick resolution.
func (s *Store) PPQN() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project.PPQN <= 0 {
		return timeline.DefaultPPQN
	}
	return s.project.PPQN
}

// TimeSignature returns the active signature.
func (s *Store) TimeSignature() timeline.TimeSignature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.TimeSignature.OrDefault()
}

// SetTimeSignature changes the active signature. Locator seconds are
// derived state; subscribers recompute them from the measure form.
func (s *Store) SetTimeSignature(sig timeline.TimeSignature) {
	s.mu.Lock()
	s.project.TimeSignature = sig.OrDefault()
	s.mu.Unlock()
	s.notify(Change{Type: ChangeTimeSignature})
}

// ConversionMap returns the tempo map used for tick/seconds conversion.
func (s *Store) ConversionMap() timeline.TempoMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.ConversionMap()
}

// SetTempoMap replaces the tempo map.
func (s *Store) SetTempoMap(m timeline.TempoMap) {
	s.mu.Lock()
	s.project.TempoMap = m.Normalize()
	s.mu.Unlock()
	s.notify(Change{Type: ChangeTempo})
}

// Parts returns copies of all parts.
func (s *Store) Parts() []Part {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.Clone().Parts
}

// FindPart returns a copy of a part by id.
func (s *Store) FindPart(id string) (Part, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pi := s.project.FindPart(id)
	if pi < 0 {
		return Part{}, false
	}
	part := s.project.Parts[pi]
	part.Notes = append([]Note(nil), part.Notes...)
	part.ControlChanges = append([]ControlChange(nil), part.ControlChanges...)
	return part, true
}

// PartNotes returns a copy of a part's notes, nil when the part is
// unknown.
func (s *Store) PartNotes(id string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pi := s.project.FindPart(id)
	if pi < 0 {
		return nil
	}
	return append([]Note(nil), s.project.Parts[pi].Notes...)
}

// PartVersion reports how many non-preview writes have touched a part.
func (s *Store) PartVersion(id string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[id]
}

// NoteTimings resolves a part's notes to absolute seconds.
func (s *Store) NoteTimings(partID string) []NoteTiming {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.NoteTimings(partID)
}

// AddPart appends a part to the document.
func (s *Store) AddPart(part Part) {
	s.mu.Lock()
	s.project.Parts = append(s.project.Parts, part)
	s.versions[part.ID]++
	s.mu.Unlock()
	s.notify(Change{Type: ChangeMidiPart, PartID: part.ID})
}

// AddNote appends a note to a part and returns its index.
func (s *Store) AddNote(partID string, n Note) (int, bool) {
	if n.StartTick < 0 {
		n.StartTick = 0
	}
	if n.DurationTicks < 0 {
		n.DurationTicks = 0
	}
	s.mu.Lock()
	pi := s.project.FindPart(partID)
	if pi < 0 {
		s.mu.Unlock()
		return 0, false
	}
	part := &s.project.Parts[pi]
	part.Notes = append(part.Notes, n)
	idx := len(part.Notes) - 1
	s.versions[partID]++
	s.mu.Unlock()
	s.notify(Change{Type: ChangeMidiPart, PartID: partID})
	return idx, true
}

// UpdateNote applies a patch to one note. Preview updates redraw
// subscribers without bumping the part version.
func (s *Store) UpdateNote(partID string, index int, patch NotePatch, preview bool) bool {
	s.mu.Lock()
	pi := s.project.FindPart(partID)
	if pi < 0 {
		s.mu.Unlock()
		return false
	}
	part := &s.project.Parts[pi]
	if index < 0 || index >= len(part.Notes) {
		s.mu.Unlock()
		return false
	}
	n := &part.Notes[index]
	if patch.Pitch != nil {
		n.Pitch = *patch.Pitch
	}
	if patch.Velocity != nil {
		n.Velocity = *patch.Velocity
	}
	if patch.StartTick != nil {
		n.StartTick = *patch.StartTick
		if n.StartTick < 0 {
			n.StartTick = 0
		}
	}
	if patch.DurationTicks != nil {
		n.DurationTicks = *patch.DurationTicks
		if n.DurationTicks < 0 {
			n.DurationTicks = 0
		}
	}
	if !preview {
		s.versions[partID]++
	}
	s.mu.Unlock()
	s.notify(Change{Type: ChangeMidiPart, PartID: partID, Preview: preview})
	return true
}

// IndexedPatch pairs a note index with its patch for batch updates.
type IndexedPatch struct {
	Index int
	Patch NotePatch
}

// UpdateNotes applies several patches to one part as a single write
// with one notification, so a multi-note gesture commits atomically.
func (s *Store) UpdateNotes(partID string, patches []IndexedPatch, preview bool) bool {
	s.mu.Lock()
	pi := s.project.FindPart(partID)
	if pi < 0 {
		s.mu.Unlock()
		return false
	}
	part := &s.project.Parts[pi]
	applied := false
	for _, ip := range patches {
		if ip.Index < 0 || ip.Index >= len(part.Notes) {
			continue
		}
		n := &part.Notes[ip.Index]
		if ip.Patch.Pitch != nil {
			n.Pitch = *ip.Patch.Pitch
		}
		if ip.Patch.Velocity != nil {
			n.Velocity = *ip.Patch.Velocity
		}
		if ip.Patch.StartTick != nil {
			n.StartTick = *ip.Patch.StartTick
			if n.StartTick < 0 {
				n.StartTick = 0
			}
		}
		if ip.Patch.DurationTicks != nil {
			n.DurationTicks = *ip.Patch.DurationTicks
			if n.DurationTicks < 0 {
				n.DurationTicks = 0
			}
		}
		applied = true
	}
	if !applied {
		s.mu.Unlock()
		return false
	}
	if !preview {
		s.versions[partID]++
	}
	s.mu.Unlock()
	s.notify(Change{Type: ChangeMidiPart, PartID: partID, Preview: preview})
	return true
}

// RemoveNote deletes one note by index.
func (s *Store) RemoveNote(partID string, index int) bool {
	return s.RemoveNotes(partID, []int{index}) == 1
}

// RemoveNotes deletes a set of notes by index and reports how many were
// removed. Indices refer to the pre-removal slice.
func (s *Store) RemoveNotes(partID string, indices []int) int {
	s.mu.Lock()
	pi := s.project.FindPart(partID)
	if pi < 0 {
		s.mu.Unlock()
		return 0
	}
	part := &s.project.Parts[pi]
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(part.Notes) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		s.mu.Unlock()
		return 0
	}
	kept := part.Notes[:0]
	for i, n := range part.Notes {
		if !drop[i] {
			kept = append(kept, n)
		}
	}
	part.Notes = kept
	s.versions[partID]++
	s.mu.Unlock()
	s.notify(Change{Type: ChangeMidiPart, PartID: partID})
	return len(drop)
}

// SplitNote divides one note in two at a tick strictly inside it.
func (s *Store) SplitNote(partID string, index int, atTick int64) bool {
	s.mu.Lock()
	pi := s.project.FindPart(partID)
	if pi < 0 {
		s.mu.Unlock()
		return false
	}
	part := &s.project.Parts[pi]
	if index < 0 || index >= len(part.Notes) {
		s.mu.Unlock()
		return false
	}
	n := part.Notes[index]
	if atTick <= n.StartTick || atTick >= n.End() {
		s.mu.Unlock()
		return false
	}
	right := n
	right.StartTick = atTick
	right.DurationTicks = n.End() - atTick
	part.Notes[index].DurationTicks = atTick - n.StartTick
	part.Notes = append(part.Notes, Note{})
	copy(part.Notes[index+2:], part.Notes[index+1:])
	part.Notes[index+1] = right
	s.versions[partID]++
	s.mu.Unlock()
	s.notify(Change{Type: ChangeMidiPart, PartID: partID})
	return true
}

// MergeNotes combines selected notes that share a pitch into one note
// per pitch spanning from the earliest start to the latest end. Returns
// false when fewer than two of the indices resolve.
func (s *Store) MergeNotes(partID string, indices []int) bool {
	s.mu.Lock()
	pi := s.project.FindPart(partID)
	if pi < 0 {
		s.mu.Unlock()
		return false
	}
	part := &s.project.Parts[pi]
	byPitch := make(map[uint8][]int)
	for _, i := range indices {
		if i >= 0 && i < len(part.Notes) {
			byPitch[part.Notes[i].Pitch] = append(byPitch[part.Notes[i].Pitch], i)
		}
	}
	drop := make(map[int]bool)
	merged := false
	for _, group := range byPitch {
		if len(group) < 2 {
			continue
		}
		sort.Ints(group)
		first := group[0]
		n := part.Notes[first]
		start, end := n.StartTick, n.End()
		for _, i := range group[1:] {
			o := part.Notes[i]
			if o.StartTick < start {
				start = o.StartTick
				n.Velocity = o.Velocity
			}
			if o.End() > end {
				end = o.End()
			}
			drop[i] = true
		}
		part.Notes[first].StartTick = start
		part.Notes[first].DurationTicks = end - start
		part.Notes[first].Velocity = n.Velocity
		merged = true
	}
	if !merged {
		s.mu.Unlock()
		return false
	}
	kept := part.Notes[:0]
	for i, n := range part.Notes {
		if !drop[i] {
			kept = append(kept, n)
		}
	}
	part.Notes = kept
	s.versions[partID]++
	s.mu.Unlock()
	s.notify(Change{Type: ChangeMidiPart, PartID: partID})
	return true
}

// SetExportRangeMeasure stores the locator pair in its durable measure
// form. The smaller endpoint becomes the start.
func (s *Store) SetExportRangeMeasure(start, end float64) {
	if end < start {
		start, end = end, start
	}
	s.mu.Lock()
	s.project.ExportRange = &ExportRange{StartMeasure: start, EndMeasure: end}
	s.mu.Unlock()
	s.notify(Change{Type: ChangeExportRange})
}

// ExportRangeMeasure returns the stored locator pair.
func (s *Store) ExportRangeMeasure() (ExportRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project.ExportRange == nil {
		return ExportRange{}, false
	}
	return *s.project.ExportRange, true
}

// ClearExportRange removes the locator pair.
func (s *Store) ClearExportRange() {
	s.mu.Lock()
	s.project.ExportRange = nil
	s.mu.Unlock()
	s.notify(Change{Type: ChangeExportRange})
}
