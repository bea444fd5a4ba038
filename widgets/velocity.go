package widgets

import (
	"noteroll/theme"
)

// VelocityBar is one note's bar in the velocity graph.
type VelocityBar struct {
	Cell   int
	Value  uint8 // 0-127
	Active bool  // selected or mid-adjustment
}

// VelocityRows renders the velocity graph as rows of eighth blocks,
// top row first. Bars sharing a cell keep the taller one; an active
// bar wins over an inactive one of equal height.
func VelocityRows(th *theme.Theme, width, rows int, bars []VelocityBar) []string {
	type col struct {
		eighths int
		active  bool
	}
	cols := make([]col, width)
	for _, b := range bars {
		if b.Cell < 0 || b.Cell >= width {
			continue
		}
		e := int(float64(b.Value)/127*float64(rows*8) + 0.5)
		if e == 0 && b.Value > 0 {
			e = 1
		}
		c := &cols[b.Cell]
		if e > c.eighths || (e == c.eighths && b.Active) {
			c.eighths = e
			c.active = c.active || b.Active
		}
	}

	levels := th.Symbols.VelLevels
	out := make([]string, rows)
	for r := 0; r < rows; r++ {
		g := NewGrid(width, 1)
		// eighths already covered by the rows below this one
		floor := (rows - 1 - r) * 8
		for x, c := range cols {
			rem := c.eighths - floor
			if rem <= 0 {
				continue
			}
			var glyph rune
			if rem >= 8 {
				glyph = levels[7]
			} else {
				glyph = levels[rem-1]
			}
			fg := th.Success()
			if c.active {
				fg = th.Active()
			}
			g.Set(x, 0, glyph, fg)
		}
		out[r] = g.Row(0)
	}
	return out
}
