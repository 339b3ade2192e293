package live

import (
	"math"
	"strings"
)

// Braille cells pack 2x4 dots per character, offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille plan view. World coordinates are metres; the view
// auto-scales to the trajectory extent with a small margin.
type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		grid:   make([][]rune, h),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	return c
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
}

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Point is one world-frame trajectory sample.
type Point struct {
	X, Y float64
}

// PlotTrajectory re-renders the path, marking the current position with a
// thicker dot. The aspect correction keeps circles round on terminal
// cells that are taller than wide.
func (c *Canvas) PlotTrajectory(path []Point) {
	c.Clear()
	if len(path) == 0 {
		return
	}

	minX, maxX := path[0].X, path[0].X
	minY, maxY := path[0].Y, path[0].Y
	for _, p := range path {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	span := math.Max(math.Max(spanX, spanY), 1.0)
	margin := span * 0.1

	pw, ph := c.Width*2, c.Height*4
	scale := math.Min(
		float64(pw)/(span+2*margin),
		float64(ph)/(span+2*margin),
	)

	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2

	toPixel := func(p Point) (int, int) {
		px := float64(pw)/2 + (p.X-cx)*scale
		py := float64(ph)/2 - (p.Y-cy)*scale
		return int(px), int(py)
	}

	prevX, prevY := toPixel(path[0])
	for _, p := range path[1:] {
		x, y := toPixel(p)
		c.line(prevX, prevY, x, y)
		prevX, prevY = x, y
	}

	// current position gets a 3x3 blob
	hx, hy := toPixel(path[len(path)-1])
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.set(hx+dx, hy+dy)
		}
	}
}

func (c *Canvas) line(x0, y0, x1, y1 int) {
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
		c.set(x0, y0)
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
	for _, row := range c.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
