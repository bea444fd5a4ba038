package main

import (
	"flag"
	"fmt"
	"os"

	"noteroll/project"
	"noteroll/render"
	"noteroll/timeline"
	"noteroll/view"
)

// snapshot renders a saved project to a PNG without starting the TUI.
func main() {
	var (
		name   = flag.String("project", "default", "project name under ~/.config/noteroll/projects")
		save   = flag.String("save", "", "save filename, newest when empty")
		out    = flag.String("out", "snapshot.png", "output PNG path")
		zoom   = flag.Float64("zoom", 100, "pixels per second")
		start  = flag.Float64("start", 0, "left edge of the window in seconds")
		width  = flag.Int("width", 1280, "image width")
		height = flag.Int("height", 720, "image height")
	)
	flag.Parse()

	p, err := loadProject(*name, *save)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
		os.Exit(1)
	}

	layout := render.DefaultLayout()
	layout.Width = *width
	layout.Height = *height

	r, err := render.New(layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
		os.Exit(1)
	}

	if err := r.SavePNG(*out, buildFrame(&p, layout, *zoom, *start)); err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

func loadProject(name, save string) (project.Project, error) {
	if save != "" {
		return project.Load(name, save)
	}
	saves, err := project.ListSaves(name)
	if err != nil {
		return project.Project{}, err
	}
	if len(saves) == 0 {
		return project.Project{}, fmt.Errorf("project %q has no saves", name)
	}
	return project.Load(name, saves[0].Filename)
}

// buildFrame projects the first part of the document into render
// geometry, scrolled vertically to center the part's notes.
func buildFrame(p *project.Project, layout render.Layout, zoom, start float64) render.Frame {
	f := render.Frame{
		Mapper: view.Mapper{PixelsPerSecond: zoom, StartTime: start},
		Lanes:  view.NewLaneTable(12, 7),
		Sig:    p.TimeSignature,
		BPM:    p.BPM,
	}

	const laneUnit = 10.0
	contentH := float64(f.Lanes.Len()) * laneUnit
	center := 60.0 // middle C when the part is empty
	if len(p.Parts) > 0 {
		part := &p.Parts[0]
		f.Notes = part.Notes
		f.Timings = p.NoteTimings(part.ID)
		if len(part.Notes) > 0 {
			var sum int
			for _, n := range part.Notes {
				sum += int(n.Pitch)
			}
			center = float64(sum) / float64(len(part.Notes))
		}
	}
	lane := f.Lanes.LaneFor(uint8(center))
	top := (lane.Top+lane.Height/2)/100*contentH - layout.LanesHeight()/2
	if top < 0 {
		top = 0
	}
	if max := contentH - layout.LanesHeight(); max > 0 && top > max {
		top = max
	}
	f.Vert = view.VertMap{ScrollTop: top, ContentHeight: contentH}

	if p.ExportRange != nil {
		s := timeline.TimeAtMeasure(p.ExportRange.StartMeasure, p.TimeSignature, p.BPM)
		e := timeline.TimeAtMeasure(p.ExportRange.EndMeasure, p.TimeSignature, p.BPM)
		f.RangeStart, f.RangeEnd = &s, &e
	}
	return f
}
