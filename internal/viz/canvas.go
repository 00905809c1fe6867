package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravswarm/internal/physics"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// tint accumulates the colors plotted into one cell.
type tint struct {
	r, g, b, n uint32
}

// Canvas is a braille dot grid. A terminal cell shows one color, so each cell
// carries the average color of the dots plotted into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	tints         [][]tint
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid to w by h cells and clears it.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.tints = make([][]tint, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.tints[i] = make([]tint, w)
	}
	c.Clear()
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set turns on the dot at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Plot sets the dot at (x, y) and mixes col into its cell's color.
func (c *Canvas) Plot(x, y int, col physics.Color) {
	row, cl, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][cl] |= rune(pixelMap[y%4][x%2])
	t := &c.tints[row][cl]
	t.r += uint32(col.R)
	t.g += uint32(col.G)
	t.b += uint32(col.B)
	t.n++
}

// Tint returns the average color plotted into cell (col, row).
func (c *Canvas) Tint(col, row int) (physics.Color, bool) {
	if row < 0 || col < 0 || row >= c.Height || col >= c.Width {
		return physics.Color{}, false
	}
	t := c.tints[row][col]
	if t.n == 0 {
		return physics.Color{}, false
	}
	return physics.Color{R: uint8(t.r / t.n), G: uint8(t.g / t.n), B: uint8(t.b / t.n), A: 255}, true
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.tints[i][j] = tint{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the grid with cell colors. Cells with dots but no plotted
// color use fallback. Neighbouring cells of the same color share one style
// run; channels are quantized to keep runs long.
func (c *Canvas) Render(fallback lipgloss.Color) string {
	var b strings.Builder
	for row := range c.Grid {
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}

		for col, r := range c.Grid[row] {
			color := ""
			if r != blank {
				color = string(fallback)
				if t, ok := c.Tint(col, row); ok {
					color = quantize(t)
				}
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func quantize(c physics.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R&0xf8, c.G&0xf8, c.B&0xf8)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
