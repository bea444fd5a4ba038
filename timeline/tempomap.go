package timeline

import (
	"math"
	"sort"
)

// Timing defaults used when a project carries no explicit values.
const (
	DefaultPPQN = 480
	DefaultBPM  = 120.0
)

// TempoChange is one entry in a tempo map: from Tick onward, one quarter
// note lasts MicrosPerQuarter microseconds.
type TempoChange struct {
	Tick             int64   `json:"tick"`
	MicrosPerQuarter float64 `json:"microsPerQuarter"`
}

// TempoMap is a piecewise tempo schedule. A normalized map has strictly
// increasing ticks and its first entry at tick 0.
type TempoMap []TempoChange

// TimeSignature is a beats-per-measure / beat-unit pair.
type TimeSignature struct {
	BeatsPerMeasure int `json:"beatsPerMeasure"`
	BeatUnit        int `json:"beatUnit"`
}

// DefaultTimeSignature is 4/4.
var DefaultTimeSignature = TimeSignature{BeatsPerMeasure: 4, BeatUnit: 4}

// OrDefault replaces a zero or invalid signature with 4/4.
func (ts TimeSignature) OrDefault() TimeSignature {
	if ts.BeatsPerMeasure <= 0 || ts.BeatUnit <= 0 {
		return DefaultTimeSignature
	}
	return ts
}

// QuarterMicros converts a nominal BPM to microseconds per quarter
// note. Nominal BPM counts the half-beat grid the editor displays, so a
// quarter note lasts 120/bpm seconds: at 120 BPM a 480-tick note with
// PPQN 480 plays for exactly one second.
func QuarterMicros(bpm float64) float64 {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return 120e6 / bpm
}

// FallbackMap builds the single-entry map implied by a plain BPM, for
// projects that have no tempo map of their own.
func FallbackMap(bpm float64) TempoMap {
	return TempoMap{{Tick: 0, MicrosPerQuarter: QuarterMicros(bpm)}}
}

// Normalize sorts the map, drops invalid or duplicate entries (last one
// at a tick wins) and anchors the first entry at tick 0.
func (m TempoMap) Normalize() TempoMap {
	out := make(TempoMap, 0, len(m))
	for _, tc := range m {
		if tc.Tick < 0 || tc.MicrosPerQuarter <= 0 {
			continue
		}
		out = append(out, tc)
	}
	if len(out) == 0 {
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	dedup := out[:0]
	for _, tc := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Tick == tc.Tick {
			dedup[n-1] = tc
			continue
		}
		dedup = append(dedup, tc)
	}
	if dedup[0].Tick != 0 {
		dedup = append(TempoMap{{Tick: 0, MicrosPerQuarter: dedup[0].MicrosPerQuarter}}, dedup...)
	}
	return dedup
}

// TimeAtTick walks the map's segments and returns the elapsed seconds at
// tick. An empty map behaves like FallbackMap(DefaultBPM).
func (m TempoMap) TimeAtTick(tick int64, ppqn int) float64 {
	if tick <= 0 {
		return 0
	}
	if ppqn <= 0 {
		ppqn = DefaultPPQN
	}
	if len(m) == 0 {
		m = FallbackMap(DefaultBPM)
	}
	var secs float64
	for i := range m {
		start := m[i].Tick
		if start >= tick {
			break
		}
		end := tick
		if i+1 < len(m) && m[i+1].Tick < end {
			end = m[i+1].Tick
		}
		secs += float64(end-start) / float64(ppqn) * m[i].MicrosPerQuarter / 1e6
	}
	return secs
}

// TickAtTime is the inverse walk: the tick reached after the given
// number of seconds, rounded to the nearest tick.
func (m TempoMap) TickAtTime(seconds float64, ppqn int) int64 {
	if seconds <= 0 {
		return 0
	}
	if ppqn <= 0 {
		ppqn = DefaultPPQN
	}
	if len(m) == 0 {
		m = FallbackMap(DefaultBPM)
	}
	var elapsed float64
	for i := range m {
		perTick := m[i].MicrosPerQuarter / 1e6 / float64(ppqn)
		if i+1 < len(m) {
			segment := float64(m[i+1].Tick-m[i].Tick) * perTick
			if elapsed+segment < seconds {
				elapsed += segment
				continue
			}
		}
		return m[i].Tick + int64(math.Round((seconds-elapsed)/perTick))
	}
	return m[len(m)-1].Tick
}

// BPMAt reports the nominal BPM in effect at tick, the inverse of
// QuarterMicros.
func (m TempoMap) BPMAt(tick int64) float64 {
	if len(m) == 0 {
		return DefaultBPM
	}
	cur := m[0]
	for _, tc := range m[1:] {
		if tc.Tick > tick {
			break
		}
		cur = tc
	}
	return 120e6 / cur.MicrosPerQuarter
}

// TicksAt converts a start/duration pair in seconds to ticks. Both
// endpoints are converted independently so durations stay correct across
// tempo changes.
func TicksAt(start, duration float64, m TempoMap, ppqn int) (startTick, durationTicks int64) {
	s := m.TickAtTime(start, ppqn)
	e := m.TickAtTime(start+duration, ppqn)
	return s, e - s
}

// TimesAt converts a start/duration pair in ticks back to seconds.
func TimesAt(startTick, durationTicks int64, m TempoMap, ppqn int) (start, duration float64) {
	s := m.TimeAtTick(startTick, ppqn)
	e := m.TimeAtTick(startTick+durationTicks, ppqn)
	return s, e - s
}

// SecondsPerBeat converts BPM plus the signature's beat unit to the
// length of one beat in seconds.
func SecondsPerBeat(bpm float64, beatUnit int) float64 {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	if beatUnit <= 0 {
		beatUnit = 4
	}
	return (60 / bpm) * (4 / float64(beatUnit))
}

// MeasureDuration is the length of one measure in seconds.
func MeasureDuration(sig TimeSignature, bpm float64) float64 {
	sig = sig.OrDefault()
	return SecondsPerBeat(bpm, sig.BeatUnit) * float64(sig.BeatsPerMeasure)
}

// MeasureAt converts seconds to a fractional measure position. Measure
// positions are zero based and survive time-signature changes, so they
// are the durable form for locators.
func MeasureAt(seconds float64, sig TimeSignature, bpm float64) float64 {
	return seconds / MeasureDuration(sig, bpm)
}

// TimeAtMeasure converts a fractional measure position back to seconds.
func TimeAtMeasure(measure float64, sig TimeSignature, bpm float64) float64 {
	return measure * MeasureDuration(sig, bpm)
}
