package timeline

import "sort"

// RulerMeasures is the fixed virtual window the ruler lays out. Keeping
// it independent of the active signature keeps zoom/scroll geometry
// stable when the signature changes.
const RulerMeasures = 300

// SecondMarkStep is the spacing of absolute-time marks in seconds.
const SecondMarkStep = 10.0

// MarkerOverscanPx widens the visible window when filtering second
// marks so marks slide in before their pixel enters view.
const MarkerOverscanPx = 100.0

// MarkerKind tags a beat marker's visual weight.
type MarkerKind int

const (
	MarkerStrong MarkerKind = iota // measure start
	MarkerMedium                   // every 4th beat inside a measure
	MarkerWeak                     // remaining beats
)

// Marker is a single beat tick mark on the ruler.
type Marker struct {
	Time    float64
	Measure int // zero based
	Beat    int // beat index within the measure
	Kind    MarkerKind
}

// MarkerLess orders markers by time, strong before medium before weak
// when times coincide.
func MarkerLess(a, b Marker) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.Kind < b.Kind
}

// Markers produces one marker per beat across the fixed virtual window.
// Beat 0 of each measure is strong; beats at multiples of 4 inside the
// measure are medium, so a 4/4 measure never produces a medium marker.
func Markers(sig TimeSignature, bpm float64) []Marker {
	sig = sig.OrDefault()
	perBeat := SecondsPerBeat(bpm, sig.BeatUnit)
	out := make([]Marker, 0, RulerMeasures*sig.BeatsPerMeasure)
	for m := 0; m < RulerMeasures; m++ {
		for b := 0; b < sig.BeatsPerMeasure; b++ {
			kind := MarkerWeak
			switch {
			case b == 0:
				kind = MarkerStrong
			case b%4 == 0:
				kind = MarkerMedium
			}
			out = append(out, Marker{
				Time:    (float64(m*sig.BeatsPerMeasure) + float64(b)) * perBeat,
				Measure: m,
				Beat:    b,
				Kind:    kind,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return MarkerLess(out[i], out[j]) })
	return out
}

// WindowDuration is the length in seconds of the virtual ruler window
// under the given signature.
func WindowDuration(sig TimeSignature, bpm float64) float64 {
	return RulerMeasures * MeasureDuration(sig, bpm)
}

// SecondMark is an absolute-time orientation mark.
type SecondMark struct {
	Time float64 // seconds, multiple of SecondMarkStep
}

// SecondMarks emits one mark every 10 seconds of the canonical 4/4 base
// timeline, filtered to the marks whose pixel position intersects
// [visStartPx, visEndPx] widened by the overscan margin.
func SecondMarks(bpm float64, visStartPx, visEndPx, pixelsPerSecond, startTime float64) []SecondMark {
	if pixelsPerSecond <= 0 {
		return nil
	}
	base := WindowDuration(DefaultTimeSignature, bpm)
	var out []SecondMark
	for t := 0.0; t <= base; t += SecondMarkStep {
		px := (t - startTime) * pixelsPerSecond
		if px < visStartPx-MarkerOverscanPx || px > visEndPx+MarkerOverscanPx {
			continue
		}
		out = append(out, SecondMark{Time: t})
	}
	return out
}
