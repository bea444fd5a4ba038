package project

import "sort"

// SustainController is the MIDI control-change number for the sustain
// pedal. Values of 64 and above mean pedal down.
const SustainController = 64

// SustainRange is a derived pedal-down interval in part-relative ticks.
// Ranges are a view over the raw control changes, not independently
// stored; edits write back as on/off pairs.
type SustainRange struct {
	StartTick int64 `json:"startTick"`
	EndTick   int64 `json:"endTick"`
}

// DeriveSustain pairs pedal-down and pedal-up control changes into
// intervals. A pedal still down at the end of the part closes at
// partDuration.
func DeriveSustain(ccs []ControlChange, partDuration int64) []SustainRange {
	events := make([]ControlChange, 0, len(ccs))
	for _, cc := range ccs {
		if cc.Controller == SustainController {
			events = append(events, cc)
		}
	}
	if len(events) == 0 {
		return nil
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Tick < events[j].Tick })

	var out []SustainRange
	openAt := int64(-1)
	for _, ev := range events {
		down := ev.Value >= 64
		switch {
		case down && openAt < 0:
			openAt = ev.Tick
		case !down && openAt >= 0:
			if ev.Tick > openAt {
				out = append(out, SustainRange{StartTick: openAt, EndTick: ev.Tick})
			}
			openAt = -1
		}
	}
	if openAt >= 0 && partDuration > openAt {
		out = append(out, SustainRange{StartTick: openAt, EndTick: partDuration})
	}
	return out
}

// SustainCCs rebuilds a part's control-change list from edited sustain
// ranges: pedal events are replaced by one on/off pair per range, other
// controllers pass through untouched.
func SustainCCs(ranges []SustainRange, existing []ControlChange) []ControlChange {
	out := make([]ControlChange, 0, len(existing)+2*len(ranges))
	for _, cc := range existing {
		if cc.Controller != SustainController {
			out = append(out, cc)
		}
	}
	for _, r := range ranges {
		if r.EndTick <= r.StartTick {
			continue
		}
		out = append(out,
			ControlChange{Tick: r.StartTick, Controller: SustainController, Value: 127},
			ControlChange{Tick: r.EndTick, Controller: SustainController, Value: 0},
		)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out
}

// SustainRanges derives the pedal intervals of a part.
func (s *Store) SustainRanges(partID string) []SustainRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pi := s.project.FindPart(partID)
	if pi < 0 {
		return nil
	}
	part := &s.project.Parts[pi]
	return DeriveSustain(part.ControlChanges, part.DurationTicks)
}

// SetSustainRanges writes edited pedal intervals back as control-change
// pairs.
func (s *Store) SetSustainRanges(partID string, ranges []SustainRange) bool {
	s.mu.Lock()
	pi := s.project.FindPart(partID)
	if pi < 0 {
		s.mu.Unlock()
		return false
	}
	part := &s.project.Parts[pi]
	part.ControlChanges = SustainCCs(ranges, part.ControlChanges)
	s.versions[partID]++
	s.mu.Unlock()
	s.notify(Change{Type: ChangeMidiPart, PartID: partID})
	return true
}
