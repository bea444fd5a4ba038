package render

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"noteroll/project"
	"noteroll/timeline"
	"noteroll/view"
)

// rgb8 reads a pixel as 8-bit channels.
func rgb8(img image.Image, x, y int) (uint32, uint32, uint32) {
	r, g, b, _ := img.At(x, y).RGBA()
	return r >> 8, g >> 8, b >> 8
}

func near(got uint32, want uint32) bool {
	d := int(got) - int(want)
	return d >= -4 && d <= 4
}

// testFrame centers the pitch-60 lane 200px below the ruler and puts
// one note at 1.0s for 1.0s.
func testFrame() Frame {
	lanes := view.NewLaneTable(10, 6)
	const contentH = 2136.0
	lane := lanes.LaneFor(60)
	return Frame{
		Notes:   []project.Note{{Pitch: 60, Velocity: 100, StartTick: 480, DurationTicks: 480}},
		Timings: []project.NoteTiming{{StartTime: 1.0, Duration: 1.0}},
		Mapper:  view.Mapper{PixelsPerSecond: 100},
		Vert: view.VertMap{
			ScrollTop:     lane.Top/100*contentH - 200,
			ContentHeight: contentH,
		},
		Lanes:    lanes,
		Sig:      timeline.DefaultTimeSignature,
		BPM:      120,
		Playhead: 0.5,
	}
}

func TestRenderer_FrameGeometry(t *testing.T) {
	r, err := New(DefaultLayout())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dc := r.Render(testFrame())

	img := dc.Image()
	if got := img.Bounds().Dx(); got != 1280 {
		t.Errorf("width = %d, want 1280", got)
	}
	if got := img.Bounds().Dy(); got != 720 {
		t.Errorf("height = %d, want 720", got)
	}

	// ruler strip background, clear of any tick mark
	if red, green, blue := rgb8(img, 600, 2); !near(red, 33) || !near(green, 33) || !near(blue, 33) {
		t.Errorf("ruler strip pixel = (%d,%d,%d), want ~(33,33,33)", red, green, blue)
	}
}

func TestRenderer_NoteLandsOnItsLane(t *testing.T) {
	r, err := New(DefaultLayout())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := testFrame()
	img := r.Render(f).Image()

	// note occupies x 164..264 on the pitch-60 lane centered near y 238
	found := false
	for x := 170; x < 260; x++ {
		for y := 230; y < 246; y++ {
			red, green, blue := rgb8(img, x, y)
			if near(red, 127) && near(green, 216) && near(blue, 255) {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("no note-colored pixel inside the note rectangle")
	}

	// the same lane left of the note shows the plain lane stripe
	if red, green, blue := rgb8(img, 100, 238); !near(red, 53) || !near(green, 53) || !near(blue, 53) {
		t.Errorf("empty lane pixel = (%d,%d,%d), want ~(53,53,53)", red, green, blue)
	}
}

func TestRenderer_KeysAndPlayhead(t *testing.T) {
	r, err := New(DefaultLayout())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := testFrame()
	img := r.Render(f).Image()

	// the pitch-62 white key two lanes up, sampled past the black-key bed
	lane := f.Lanes.LaneFor(62)
	y := int(r.layout.RulerHeight + f.Vert.YAt(lane.Top) + 4)
	if red, _, _ := rgb8(img, 55, y); red < 200 {
		t.Errorf("white key pixel red = %d, want bright", red)
	}

	// playhead at 0.5s crosses x=114; scan the row for its line
	found := false
	for x := 112; x <= 117; x++ {
		red, green, _ := rgb8(img, x, 400)
		if red > 150 && green < 120 {
			found = true
		}
	}
	if !found {
		t.Errorf("no playhead-colored pixel near x=114")
	}
}

func TestRenderer_VelocityBar(t *testing.T) {
	r, err := New(DefaultLayout())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := r.Render(testFrame()).Image()

	// velocity 100 bar rises from the bottom at the note's x
	found := false
	for x := 160; x <= 168; x++ {
		_, green, _ := rgb8(img, x, 700)
		if green > 200 {
			found = true
		}
	}
	if !found {
		t.Errorf("no velocity bar near x=164")
	}
}

func TestRenderer_SavePNG(t *testing.T) {
	r, err := New(DefaultLayout())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snap.png")
	if err := r.SavePNG(path, testFrame()); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("snapshot file is empty")
	}
}
