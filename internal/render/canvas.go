// Package render draws the scene onto a character canvas: one terminal cell
// covers two vertical camera pixels.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// CellAspect is the pixel height of one terminal cell.
const CellAspect = 2

// Layer orders what may overwrite a cell. Higher layers win.
type Layer uint8

const (
	LayerEmpty Layer = iota
	LayerStar
	LayerPath
	LayerRing
	LayerBody
	LayerLabel
)

// Cell is one character of the canvas.
type Cell struct {
	Ch    rune
	Color colorful.Color
	Bold  bool
	Layer Layer
	depth float64
}

// Canvas is a fixed-size grid of cells.
type Canvas struct {
	W, H  int
	cells []Cell
}

// NewCanvas creates an empty canvas. Negative sizes are treated as zero.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{W: w, H: h, cells: make([]Cell, w*h)}
	for i := range c.cells {
		c.cells[i] = Cell{Ch: ' ', depth: math.Inf(1)}
	}
	return c
}

// In reports whether (x, y) is on the canvas.
func (c *Canvas) In(x, y int) bool {
	return x >= 0 && x < c.W && y >= 0 && y < c.H
}

// At returns the cell at (x, y), or a blank cell off the canvas.
func (c *Canvas) At(x, y int) Cell {
	if !c.In(x, y) {
		return Cell{Ch: ' '}
	}
	return c.cells[y*c.W+x]
}

// Set writes a cell when its layer is at least the current one.
func (c *Canvas) Set(x, y int, cell Cell) bool {
	if !c.In(x, y) {
		return false
	}
	cur := &c.cells[y*c.W+x]
	if cell.Layer < cur.Layer {
		return false
	}
	cell.depth = cur.depth
	*cur = cell
	return true
}

// SetDepth writes a body cell when it is nearer than what is there.
func (c *Canvas) SetDepth(x, y int, depth float64, cell Cell) bool {
	if !c.In(x, y) {
		return false
	}
	cur := &c.cells[y*c.W+x]
	if cur.Layer > cell.Layer || (cur.Layer == cell.Layer && depth >= cur.depth) {
		return false
	}
	cell.depth = depth
	*cur = cell
	return true
}

// Text writes s starting at (x, y) over anything below the label layer.
func (c *Canvas) Text(x, y int, s string, col colorful.Color, bold bool) {
	for _, r := range s {
		c.Set(x, y, Cell{Ch: r, Color: col, Bold: bold, Layer: LayerLabel})
		x++
	}
}

// Plain returns the canvas as unstyled text.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			b.WriteRune(c.cells[y*c.W+x].Ch)
		}
		if y < c.H-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String renders the canvas with colours, one style per run of equal cells.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.H; y++ {
		row := c.cells[y*c.W : (y+1)*c.W]
		for x := 0; x < len(row); {
			start := row[x]
			end := x + 1
			for end < len(row) && sameStyle(row[end], start) {
				end++
			}
			var run strings.Builder
			for _, cell := range row[x:end] {
				run.WriteRune(cell.Ch)
			}
			if start.Layer == LayerEmpty {
				b.WriteString(run.String())
			} else {
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(start.Color.Clamped().Hex())).Bold(start.Bold)
				b.WriteString(style.Render(run.String()))
			}
			x = end
		}
		if y < c.H-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sameStyle(a, b Cell) bool {
	if a.Layer == LayerEmpty || b.Layer == LayerEmpty {
		return a.Layer == b.Layer
	}
	return a.Bold == b.Bold && a.Color.Clamped().Hex() == b.Color.Clamped().Hex()
}
