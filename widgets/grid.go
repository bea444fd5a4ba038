package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one terminal cell: a rune and its foreground color.
type Cell struct {
	R  rune
	FG lipgloss.Color
}

// Grid is a fixed-size cell buffer the note-lane view composes into.
// Rendering groups runs of same-colored cells into one styled span to
// keep the ANSI output small.
type Grid struct {
	w, h  int
	cells []Cell
}

// NewGrid allocates a blank grid.
func NewGrid(w, h int) *Grid {
	g := &Grid{w: w, h: h, cells: make([]Cell, w*h)}
	for i := range g.cells {
		g.cells[i].R = ' '
	}
	return g
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.w }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.h }

// Set places a rune at x,y. Out-of-bounds positions are dropped.
func (g *Grid) Set(x, y int, r rune, fg lipgloss.Color) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = Cell{R: r, FG: fg}
}

// Get returns the cell at x,y, or a blank cell out of bounds.
func (g *Grid) Get(x, y int) Cell {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return Cell{R: ' '}
	}
	return g.cells[y*g.w+x]
}

// HLine draws a horizontal run of one rune.
func (g *Grid) HLine(x0, x1, y int, r rune, fg lipgloss.Color) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		g.Set(x, y, r, fg)
	}
}

// VLine draws a vertical run of one rune.
func (g *Grid) VLine(x, y0, y1 int, r rune, fg lipgloss.Color) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		g.Set(x, y, r, fg)
	}
}

// Row renders one grid row as a styled string.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= g.h {
		return ""
	}
	var out strings.Builder
	row := g.cells[y*g.w : (y+1)*g.w]
	for i := 0; i < len(row); {
		j := i
		for j < len(row) && row[j].FG == row[i].FG {
			j++
		}
		run := make([]rune, 0, j-i)
		for _, c := range row[i:j] {
			run = append(run, c.R)
		}
		span := string(run)
		if row[i].FG != "" {
			span = lipgloss.NewStyle().Foreground(row[i].FG).Render(span)
		}
		out.WriteString(span)
		i = j
	}
	return out.String()
}

// String renders all rows joined by newlines.
func (g *Grid) String() string {
	rows := make([]string, g.h)
	for y := 0; y < g.h; y++ {
		rows[y] = g.Row(y)
	}
	return strings.Join(rows, "\n")
}
