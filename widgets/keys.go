package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"noteroll/theme"
	"noteroll/view"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a pitch as its note name, middle C being C4.
func NoteName(pitch uint8) string {
	return fmt.Sprintf("%s%d", noteNames[pitch%12], int(pitch)/12-1)
}

// KeyRow renders one row of the piano-key column: a key block and, on C
// keys, the octave label. White keys render bright, black keys dim.
func KeyRow(th *theme.Theme, width int, pitch uint8) string {
	if width < 2 {
		width = 2
	}
	fg := th.FG()
	if view.IsBlackKey(pitch) {
		fg = th.Muted()
	}
	label := ""
	if pitch%12 == 0 {
		label = NoteName(pitch)
	}
	blocks := width - len(label) - 1
	if blocks < 1 {
		blocks = 1
	}
	key := lipgloss.NewStyle().Foreground(fg).Render(strings.Repeat(string(th.Symbols.KeyBlock), blocks))
	return fmt.Sprintf("%*s%s ", width-blocks-1, label, key)
}
