package viz

import (
	"math"
	"strings"
)

// Braille cells are 2x4 dots, numbered
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// and offset from U+2800.
const brailleBase = 0x2800

var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a monochrome dot grid rendered with braille characters. Width
// and Height count characters; dot coordinates run over (2*Width, 4*Height).
type Canvas struct {
	Width, Height int
	cells         []uint8
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, cells: make([]uint8, w*h)}
}

// DotsWide and DotsHigh are the canvas size in dots.
func (c *Canvas) DotsWide() int { return c.Width * 2 }
func (c *Canvas) DotsHigh() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (int, uint8, bool) {
	if x < 0 || y < 0 || x >= c.DotsWide() || y >= c.DotsHigh() {
		return 0, 0, false
	}
	return (y/4)*c.Width + x/2, dotBits[y%4][x%2], true
}

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.cell(x, y); ok {
		c.cells[i] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if i, bit, ok := c.cell(x, y); ok {
		c.cells[i] &^= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, bit, ok := c.cell(x, y)
	return ok && c.cells[i]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = 0
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDotted sets every nth dot along a horizontal or vertical run.
func (c *Canvas) DrawDotted(x0, y0, x1, y1, n int) {
	if n < 1 {
		n = 1
	}
	switch {
	case y0 == y1:
		lo, hi := minInt(x0, x1), maxInt(x0, x1)
		for x := lo; x <= hi; x += n {
			c.Set(x, y0)
		}
	case x0 == x1:
		lo, hi := minInt(y0, y1), maxInt(y0, y1)
		for y := lo; y <= hi; y += n {
			c.Set(x0, y)
		}
	default:
		c.DrawLine(x0, y0, x1, y1)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			b.WriteRune(rune(brailleBase + int(c.cells[row*c.Width+col])))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Projection maps a square region of the field, in inches, onto a canvas.
// Field y points up; canvas y points down.
type Projection struct {
	HalfSize float64
	canvas   *Canvas
}

func NewProjection(c *Canvas, halfSize float64) Projection {
	return Projection{HalfSize: halfSize, canvas: c}
}

func (p Projection) Dot(x, y float64) (int, int) {
	span := 2 * p.HalfSize
	px := (x + p.HalfSize) / span * float64(p.canvas.DotsWide()-1)
	py := (p.HalfSize - y) / span * float64(p.canvas.DotsHigh()-1)
	return int(math.Round(px)), int(math.Round(py))
}

func (p Projection) Line(x0, y0, x1, y1 float64) {
	ax, ay := p.Dot(x0, y0)
	bx, by := p.Dot(x1, y1)
	p.canvas.DrawLine(ax, ay, bx, by)
}

func (p Projection) Point(x, y float64) {
	p.canvas.Set(p.Dot(x, y))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
