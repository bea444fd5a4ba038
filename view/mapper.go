package view

import "sort"

// Mapper converts between viewport pixels and timeline seconds for one
// zoom/scroll state. The zero value is unusable; build one from the
// current pixels-per-second and the time at the viewport's left edge.
type Mapper struct {
	PixelsPerSecond float64
	StartTime       float64
}

// TimeAt converts a viewport x offset to seconds.
func (m Mapper) TimeAt(x float64) float64 {
	if m.PixelsPerSecond <= 0 {
		return m.StartTime
	}
	return x/m.PixelsPerSecond + m.StartTime
}

// PixelAt converts seconds to a viewport x offset.
func (m Mapper) PixelAt(t float64) float64 {
	return (t - m.StartTime) * m.PixelsPerSecond
}

// VertMap converts lane-area y offsets to keyboard height percentages
// for one vertical scroll state, pairing with Mapper on the other axis.
type VertMap struct {
	ScrollTop     float64
	ContentHeight float64
}

// PctAt converts a viewport y offset to a keyboard percentage. An
// unmeasured content height resolves to -1, outside every lane.
func (v VertMap) PctAt(y float64) float64 {
	if v.ContentHeight <= 0 {
		return -1
	}
	return (v.ScrollTop + y) / v.ContentHeight * 100
}

// YAt converts a keyboard percentage back to a viewport y offset.
func (v VertMap) YAt(pct float64) float64 {
	return pct/100*v.ContentHeight - v.ScrollTop
}

// blackKeys marks the chromatic steps with black keys.
var blackKeys = [12]bool{false, true, false, true, false, false, true, false, true, false, true, false}

// IsBlackKey reports whether a pitch is a black key.
func IsBlackKey(pitch uint8) bool {
	return blackKeys[pitch%12]
}

// Lane is one pitch row of the piano roll. Top and Height are percent
// of the full keyboard height; lanes run top-down from pitch 127.
type Lane struct {
	Pitch  uint8
	Top    float64
	Height float64
	Black  bool
}

// LaneTable resolves vertical offsets to pitches and back. Heights are
// non-uniform: black-key lanes are slimmer than white ones, and the top
// octave is partial (C9..G9), so the table is built per pitch and
// rebuilt whenever the vertical scale changes.
type LaneTable struct {
	lanes []Lane // index 0 is pitch 127
}

// NewLaneTable lays out all 128 lanes from the given unit heights and
// normalizes them to percentages.
func NewLaneTable(whiteHeight, blackHeight float64) *LaneTable {
	if whiteHeight <= 0 {
		whiteHeight = 1
	}
	if blackHeight <= 0 || blackHeight > whiteHeight {
		blackHeight = whiteHeight
	}
	lanes := make([]Lane, 128)
	var top float64
	for i := range lanes {
		pitch := uint8(127 - i)
		h := whiteHeight
		black := IsBlackKey(pitch)
		if black {
			h = blackHeight
		}
		lanes[i] = Lane{Pitch: pitch, Top: top, Height: h, Black: black}
		top += h
	}
	total := top
	for i := range lanes {
		lanes[i].Top = lanes[i].Top / total * 100
		lanes[i].Height = lanes[i].Height / total * 100
	}
	return &LaneTable{lanes: lanes}
}

// Len returns the lane count.
func (t *LaneTable) Len() int {
	return len(t.lanes)
}

// Lanes returns the table in display order, pitch 127 first.
func (t *LaneTable) Lanes() []Lane {
	return t.lanes
}

// PitchAt resolves a vertical offset in percent to the lane containing
// it. Offsets outside the keyboard resolve to nothing.
func (t *LaneTable) PitchAt(pct float64) (uint8, bool) {
	if pct < 0 || pct >= 100 {
		return 0, false
	}
	i := sort.Search(len(t.lanes), func(i int) bool {
		return t.lanes[i].Top+t.lanes[i].Height > pct
	})
	if i >= len(t.lanes) {
		// float dust at the very bottom edge
		i = len(t.lanes) - 1
	}
	return t.lanes[i].Pitch, true
}

// LaneFor returns the lane of a pitch.
func (t *LaneTable) LaneFor(pitch uint8) Lane {
	return t.lanes[127-int(pitch)]
}
