// Package render draws piano-roll snapshots to PNG. The same mapper and
// lane math that drives the interactive views positions every element,
// so a snapshot is a faithful picture of what the editor shows.
package render

import (
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"noteroll/project"
	"noteroll/timeline"
	"noteroll/view"
)

// Color is an RGB triple in 0..1.
type Color struct {
	R, G, B float64
}

func darkerShade(c Color) Color {
	const d = 0.8
	return Color{c.R * d, c.G * d, c.B * d}
}

func setColor(dc *gg.Context, c Color) {
	dc.SetRGB(c.R, c.G, c.B)
}

var (
	backgroundColor = Color{0.17, 0.17, 0.17}
	laneWhiteColor  = Color{0.21, 0.21, 0.21}
	laneBlackColor  = Color{0.19, 0.19, 0.19}
	stripColor      = Color{0.13, 0.13, 0.13}
	whiteKeyColor   = Color{0.92, 0.92, 0.9}
	blackKeyColor   = Color{0.13, 0.13, 0.13}
	noteColor       = Color{0.5, 0.85, 1}
	selectedColor   = Color{1, 0.5, 0}
	velocityColor   = Color{0.2, 1, 0.2}
	playheadColor   = Color{1, 0.3, 0.3}
	labelColor      = Color{0.75, 0.75, 0.75}
)

const noteBorderRadius = 2.0

// Layout fixes the pixel geometry of a snapshot: ruler strip on top,
// velocity graph on the bottom, keys column on the left, note lanes in
// the remaining rectangle.
type Layout struct {
	Width       int
	Height      int
	RulerHeight float64
	KeysWidth   float64
	GraphHeight float64
}

// DefaultLayout is a 720p frame.
func DefaultLayout() Layout {
	return Layout{
		Width:       1280,
		Height:      720,
		RulerHeight: 28,
		KeysWidth:   64,
		GraphHeight: 100,
	}
}

// LanesWidth is the width of the scrollable viewport right of the keys.
func (l Layout) LanesWidth() float64 {
	return float64(l.Width) - l.KeysWidth
}

// LanesHeight is the height of the note-lane viewport.
func (l Layout) LanesHeight() float64 {
	return float64(l.Height) - l.RulerHeight - l.GraphHeight
}

// Frame is one snapshot's worth of editor state. Mapper and Vert are
// the viewport's scroll/zoom state; Lanes is the pitch geometry.
type Frame struct {
	Notes    []project.Note
	Timings  []project.NoteTiming
	Selected map[int]bool

	Mapper view.Mapper
	Vert   view.VertMap
	Lanes  *view.LaneTable

	Sig timeline.TimeSignature
	BPM float64

	Playhead   float64
	RangeStart *float64
	RangeEnd   *float64
}

// Renderer rasterizes frames with a fixed layout and font.
type Renderer struct {
	layout Layout
	face   font.Face
}

// New parses the builtin font and prepares a renderer.
func New(layout Layout) (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("cannot parse builtin font"))
	}
	return &Renderer{
		layout: layout,
		face:   truetype.NewFace(f, &truetype.Options{Size: 11}),
	}, nil
}

// Render draws a full frame and returns the context for saving or
// pixel inspection.
func (r *Renderer) Render(f Frame) *gg.Context {
	dc := gg.NewContext(r.layout.Width, r.layout.Height)
	dc.SetFontFace(r.face)

	r.prepareScreen(dc)
	r.drawLanes(dc, f)
	r.drawBeatGrid(dc, f)
	r.drawRange(dc, f)
	r.drawNotes(dc, f)
	r.drawRuler(dc, f)
	r.drawVelocity(dc, f)
	r.drawKeys(dc, f)
	r.drawPlayhead(dc, f)
	return dc
}

// SavePNG renders a frame straight to a file.
func (r *Renderer) SavePNG(path string, f Frame) error {
	if err := r.Render(f).SavePNG(path); err != nil {
		return fault.Wrap(err, fmsg.With("cannot write snapshot"))
	}
	return nil
}

func (r *Renderer) prepareScreen(dc *gg.Context) {
	setColor(dc, backgroundColor)
	dc.DrawRectangle(0, 0, float64(r.layout.Width), float64(r.layout.Height))
	dc.Fill()
}

// laneRect returns a lane's on-canvas rectangle and whether any part of
// it falls inside the lane viewport.
func (r *Renderer) laneRect(f Frame, l view.Lane) (y, h float64, visible bool) {
	top := r.layout.RulerHeight
	y = top + f.Vert.YAt(l.Top)
	h = l.Height / 100 * f.Vert.ContentHeight
	if y+h < top || y > top+r.layout.LanesHeight() {
		return y, h, false
	}
	return y, h, true
}

func (r *Renderer) drawLanes(dc *gg.Context, f Frame) {
	if f.Lanes == nil {
		return
	}
	x := r.layout.KeysWidth
	w := r.layout.LanesWidth()
	for _, l := range f.Lanes.Lanes() {
		y, h, visible := r.laneRect(f, l)
		if !visible {
			continue
		}
		if l.Black {
			setColor(dc, laneBlackColor)
		} else {
			setColor(dc, laneWhiteColor)
		}
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
	}
}

func (r *Renderer) drawBeatGrid(dc *gg.Context, f Frame) {
	top := r.layout.RulerHeight
	bottom := top + r.layout.LanesHeight()
	w := r.layout.LanesWidth()
	for _, m := range timeline.Markers(f.Sig, f.BPM) {
		px := f.Mapper.PixelAt(m.Time)
		if px < 0 || px > w {
			continue
		}
		switch m.Kind {
		case timeline.MarkerStrong:
			dc.SetRGBA(1, 1, 1, 0.22)
		case timeline.MarkerMedium:
			dc.SetRGBA(1, 1, 1, 0.12)
		default:
			dc.SetRGBA(1, 1, 1, 0.06)
		}
		dc.SetLineWidth(0.5)
		dc.DrawLine(r.layout.KeysWidth+px, top, r.layout.KeysWidth+px, bottom)
		dc.Stroke()
	}
}

func (r *Renderer) drawRange(dc *gg.Context, f Frame) {
	if f.RangeStart == nil || f.RangeEnd == nil {
		return
	}
	x0 := r.layout.KeysWidth + f.Mapper.PixelAt(*f.RangeStart)
	x1 := r.layout.KeysWidth + f.Mapper.PixelAt(*f.RangeEnd)
	if x1 < r.layout.KeysWidth {
		return
	}
	if x0 < r.layout.KeysWidth {
		x0 = r.layout.KeysWidth
	}
	dc.SetRGBA(noteColor.R, noteColor.G, noteColor.B, 0.1)
	dc.DrawRectangle(x0, 0, x1-x0, r.layout.RulerHeight+r.layout.LanesHeight())
	dc.Fill()
}

func (r *Renderer) drawNotes(dc *gg.Context, f Frame) {
	if f.Lanes == nil {
		return
	}
	top := r.layout.RulerHeight
	dc.DrawRectangle(r.layout.KeysWidth, top, r.layout.LanesWidth(), r.layout.LanesHeight())
	dc.Clip()
	for i, n := range f.Notes {
		if i >= len(f.Timings) {
			break
		}
		t := f.Timings[i]
		x := r.layout.KeysWidth + f.Mapper.PixelAt(t.StartTime)
		w := t.Duration * f.Mapper.PixelsPerSecond
		if w < 2 {
			w = 2
		}
		lane := f.Lanes.LaneFor(n.Pitch)
		y, h, visible := r.laneRect(f, lane)
		if !visible || x+w < r.layout.KeysWidth || x > float64(r.layout.Width) {
			continue
		}

		c := noteColor
		if f.Selected[i] {
			c = selectedColor
		}
		if lane.Black {
			c = darkerShade(c)
		}
		dc.DrawRoundedRectangle(x, y+0.5, w, h-1, noteBorderRadius)
		setColor(dc, c)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 1)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
	dc.ResetClip()
}

func (r *Renderer) drawRuler(dc *gg.Context, f Frame) {
	h := r.layout.RulerHeight
	setColor(dc, stripColor)
	dc.DrawRectangle(0, 0, float64(r.layout.Width), h)
	dc.Fill()

	w := r.layout.LanesWidth()
	for _, m := range timeline.Markers(f.Sig, f.BPM) {
		px := f.Mapper.PixelAt(m.Time)
		if px < 0 || px > w {
			continue
		}
		x := r.layout.KeysWidth + px
		var tick float64
		switch m.Kind {
		case timeline.MarkerStrong:
			tick = h * 0.55
		case timeline.MarkerMedium:
			tick = h * 0.35
		default:
			tick = h * 0.2
		}
		setColor(dc, labelColor)
		dc.SetLineWidth(1)
		dc.DrawLine(x, h-tick, x, h)
		dc.Stroke()
		if m.Kind == timeline.MarkerStrong {
			dc.DrawString(fmt.Sprintf("%d", m.Measure+1), x+3, h-tick+3)
		}
	}

	// absolute-time orientation marks along the strip's top edge
	dc.SetRGBA(1, 1, 1, 0.5)
	for _, sm := range timeline.SecondMarks(f.BPM, 0, w, f.Mapper.PixelsPerSecond, f.Mapper.StartTime) {
		x := r.layout.KeysWidth + f.Mapper.PixelAt(sm.Time)
		dc.SetLineWidth(1)
		dc.DrawLine(x, 0, x, h*0.3)
		dc.Stroke()
	}
}

func (r *Renderer) drawVelocity(dc *gg.Context, f Frame) {
	top := float64(r.layout.Height) - r.layout.GraphHeight
	setColor(dc, stripColor)
	dc.DrawRectangle(0, top, float64(r.layout.Width), r.layout.GraphHeight)
	dc.Fill()

	dc.DrawRectangle(r.layout.KeysWidth, top, r.layout.LanesWidth(), r.layout.GraphHeight)
	dc.Clip()
	for i, n := range f.Notes {
		if i >= len(f.Timings) {
			break
		}
		x := r.layout.KeysWidth + f.Mapper.PixelAt(f.Timings[i].StartTime)
		barH := float64(n.Velocity) / 127 * (r.layout.GraphHeight - 8)
		c := velocityColor
		if f.Selected[i] {
			c = selectedColor
		}
		setColor(dc, c)
		dc.DrawRectangle(x-1.5, float64(r.layout.Height)-barH, 3, barH)
		dc.Fill()
	}
	dc.ResetClip()
}

func (r *Renderer) drawKeys(dc *gg.Context, f Frame) {
	if f.Lanes == nil {
		return
	}
	w := r.layout.KeysWidth
	top := r.layout.RulerHeight

	setColor(dc, backgroundColor)
	dc.DrawRectangle(0, top, w, r.layout.LanesHeight())
	dc.Fill()

	dc.DrawRectangle(0, top, w, r.layout.LanesHeight())
	dc.Clip()
	for _, l := range f.Lanes.Lanes() {
		y, h, visible := r.laneRect(f, l)
		if !visible {
			continue
		}
		if l.Black {
			// black keys sit on a white bed and reach partway across
			setColor(dc, whiteKeyColor)
			dc.DrawRectangle(0, y, w, h)
			dc.Fill()
			dc.DrawRectangle(0, y, w*0.62, h)
			setColor(dc, blackKeyColor)
			dc.FillPreserve()
			dc.SetRGBA(0, 0, 0, 1)
			dc.SetLineWidth(1)
			dc.Stroke()
			continue
		}
		dc.DrawRectangle(0, y, w, h)
		setColor(dc, whiteKeyColor)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 1)
		dc.SetLineWidth(1)
		dc.Stroke()
		if l.Pitch%12 == 0 && h >= 8 {
			dc.SetRGBA(0, 0, 0, 0.6)
			dc.DrawString(fmt.Sprintf("C%d", int(l.Pitch)/12-1), w*0.64, y+h-2)
		}
	}
	dc.ResetClip()
}

func (r *Renderer) drawPlayhead(dc *gg.Context, f Frame) {
	px := f.Mapper.PixelAt(f.Playhead)
	if px < 0 || px > r.layout.LanesWidth() {
		return
	}
	x := r.layout.KeysWidth + px
	setColor(dc, playheadColor)
	dc.SetLineWidth(1.5)
	dc.DrawLine(x, 0, x, float64(r.layout.Height))
	dc.Stroke()
}
