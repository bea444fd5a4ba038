package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Ruler row
	TickStrong   rune // ┃ measure start
	TickMedium   rune // ╎ every 4th beat
	TickWeak     rune // · remaining beats
	SecondMark   rune // ˈ absolute-time mark
	Playhead     rune // ▼ playhead position on the ruler
	LocatorStart rune // [ export range start
	LocatorEnd   rune // ] export range end

	// Note lanes
	NoteBody     rune // █ note cell
	NoteSelected rune // ▓ selected note cell
	SplitLine    rune // ┆ split preview
	PlayheadBar  rune // │ playhead through the lanes

	// Piano keys column
	KeyBlock rune // █ key cell, colored per key

	// Velocity graph, bottom-up eighth blocks
	VelLevels [8]rune
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			TickStrong:   '┃',
			TickMedium:   '╎',
			TickWeak:     '·',
			SecondMark:   'ˈ',
			Playhead:     '▼',
			LocatorStart: '[',
			LocatorEnd:   ']',

			NoteBody:     '█',
			NoteSelected: '▓',
			SplitLine:    '┆',
			PlayheadBar:  '│',

			KeyBlock: '█',

			VelLevels: [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'},
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // editor background
	RoleSurface = 0.1 // ruler and graph strips
	RoleMuted   = 0.2 // inactive lane stripes, weak ticks
	RoleFG      = 0.4 // readable text
	RoleAccent  = 0.5 // note bodies
	RoleCursor  = 0.6 // playhead, split preview
	RoleActive  = 0.7 // selected notes
	RoleWarning = 0.8 // locators, range tint
	RoleSuccess = 1.0 // velocity bars
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Surface() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSurface))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
