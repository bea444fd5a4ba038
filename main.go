package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"noteroll/config"
	"noteroll/debug"
	"noteroll/preview"
	"noteroll/project"
	"noteroll/session"
	"noteroll/theme"
	"noteroll/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	if os.Getenv("NOTEROLL_DEBUG") != "" {
		if err := debug.Enable(); err == nil {
			defer debug.Disable()
		}
	}

	// Load theme
	palette := theme.Default()
	if cfg.Theme.PalettePath != "" {
		p, err := theme.LoadGPL(cfg.Theme.PalettePath)
		if err != nil {
			debug.Log("theme", "palette load failed: %v", err)
		} else {
			palette = p
		}
	}
	th := theme.New(palette)

	name := "default"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}
	store := project.NewStore(loadOrSeedProject(name))

	sess := session.New(cfg.View.MinZoom, cfg.View.MaxZoom, cfg.View.DefaultZoom)
	sess.SetQuantizeEnabled(cfg.Edit.Quantize)

	player := newPlayer(cfg)
	defer player.Dispose()

	m := tui.NewModel(store, sess, cfg, th, player)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// newPlayer picks the preview backend the config asks for, degrading
// to silence when the audio device is unavailable.
func newPlayer(cfg *config.Config) preview.Player {
	if cfg.Preview.Synth {
		p, err := preview.NewSynthPlayer()
		if err != nil {
			debug.Log("preview", "synth init failed: %v", err)
			return preview.Null{}
		}
		return p
	}
	channel := cfg.Preview.Channel - 1
	if channel < 0 || channel > 15 {
		channel = 0
	}
	return preview.NewMIDIPlayer(cfg.Preview.PortName, uint8(channel))
}

// loadOrSeedProject opens the newest save of the named project, or
// starts a fresh one with an empty four-measure part to edit in.
func loadOrSeedProject(name string) project.Project {
	if saves, err := project.ListSaves(name); err == nil && len(saves) > 0 {
		if p, err := project.Load(name, saves[0].Filename); err == nil {
			return p
		} else {
			debug.Log("project", "load failed: %v", err)
		}
	}
	p := project.New(name)
	p.Parts = append(p.Parts, project.Part{
		ID:            "part-1",
		TrackID:       "track-1",
		Name:          "Piano",
		Instrument:    "piano",
		DurationTicks: int64(p.PPQN) * 4 * 4,
	})
	return p
}
