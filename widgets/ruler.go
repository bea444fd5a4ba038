package widgets

import (
	"noteroll/theme"
	"noteroll/timeline"
)

// RulerMark places one beat marker on the ruler row.
type RulerMark struct {
	Cell int
	Kind timeline.MarkerKind
}

// RulerLine renders one terminal row of the measure ruler. Beat marks
// land first, strong winning over medium over weak when several fall in
// one cell (callers pass marks in marker order, which already sorts
// ties that way). Second marks only fill cells no beat claimed.
// Locators and the playhead overwrite everything.
func RulerLine(th *theme.Theme, width int, marks []RulerMark, secondCells []int, playheadCell, startCell, endCell int) string {
	g := NewGrid(width, 1)
	sy := th.Symbols

	for _, m := range marks {
		if m.Cell < 0 || m.Cell >= width || g.Get(m.Cell, 0).R != ' ' {
			continue
		}
		switch m.Kind {
		case timeline.MarkerStrong:
			g.Set(m.Cell, 0, sy.TickStrong, th.FG())
		case timeline.MarkerMedium:
			g.Set(m.Cell, 0, sy.TickMedium, th.Muted())
		default:
			g.Set(m.Cell, 0, sy.TickWeak, th.Muted())
		}
	}
	for _, c := range secondCells {
		if c >= 0 && c < width && g.Get(c, 0).R == ' ' {
			g.Set(c, 0, sy.SecondMark, th.Surface())
		}
	}
	if startCell >= 0 {
		g.Set(startCell, 0, sy.LocatorStart, th.Warning())
	}
	if endCell >= 0 {
		g.Set(endCell, 0, sy.LocatorEnd, th.Warning())
	}
	if playheadCell >= 0 {
		g.Set(playheadCell, 0, sy.Playhead, th.Cursor())
	}
	return g.Row(0)
}
