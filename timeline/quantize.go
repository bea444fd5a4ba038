package timeline

import "math"

// Quantizer snaps seconds-domain values to a fixed grid. It is the
// fallback for contexts that have no project timing yet; tick snapping
// is exact and preferred whenever a tempo map and PPQN are known.
type Quantizer struct {
	Grid float64 // seconds per grid line
}

// BeatQuantizer builds a seconds-domain quantizer with a one-beat grid.
func BeatQuantizer(bpm float64, beatUnit int) Quantizer {
	return Quantizer{Grid: SecondsPerBeat(bpm, beatUnit)}
}

// Snap rounds t to the nearest grid line, clamped to zero.
func (q Quantizer) Snap(t float64) float64 {
	if q.Grid <= 0 {
		if t < 0 {
			return 0
		}
		return t
	}
	v := math.Round(t/q.Grid) * q.Grid
	if v < 0 {
		return 0
	}
	return v
}

// TickQuantizer snaps tick-domain values to a fixed tick grid. Tick
// snapping stays exact under non-4/4 signatures where seconds grids
// accumulate rounding drift.
type TickQuantizer struct {
	Ticks int64
}

// BeatTicks builds a tick quantizer whose grid is one displayed beat.
// A beat spans ppqn*2/beatUnit ticks, which lines note snapping up
// with the ruler's beat markers.
func BeatTicks(ppqn, beatUnit int) TickQuantizer {
	if ppqn <= 0 {
		ppqn = DefaultPPQN
	}
	if beatUnit <= 0 {
		beatUnit = DefaultTimeSignature.BeatUnit
	}
	ticks := int64(ppqn) * 2 / int64(beatUnit)
	if ticks < 1 {
		ticks = 1
	}
	return TickQuantizer{Ticks: ticks}
}

// Snap rounds t to the nearest grid line, clamped to zero.
func (q TickQuantizer) Snap(t int64) int64 {
	if q.Ticks <= 0 {
		if t < 0 {
			return 0
		}
		return t
	}
	if t <= 0 {
		return 0
	}
	v := (t + q.Ticks/2) / q.Ticks * q.Ticks
	return v
}
