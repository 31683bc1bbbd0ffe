package visualizer

import (
	"math"
	"strings"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// litAlpha is the coverage at which a dot is drawn.
const litAlpha = 0.15

// dot holds premultiplied colour and coverage.
type dot struct {
	r, g, b, a float64
}

func (d *dot) over(c Color) {
	if c.A <= 0 {
		return
	}
	d.r = c.RGB.R*c.A + d.r*(1-c.A)
	d.g = c.RGB.G*c.A + d.g*(1-c.A)
	d.b = c.RGB.B*c.A + d.b*(1-c.A)
	d.a = c.A + d.a*(1-c.A)
}

// Canvas is a braille raster: every terminal cell holds a 2x4 dot grid.
type Canvas struct {
	cols, rows int
	dots       []dot
	profile    colorProfile
}

// NewCanvas creates a canvas of cols×rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{profile: currentColorProfile()}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell dimensions and clears the canvas.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 1), max(rows, 1)
	c.dots = make([]dot, c.cols*2*c.rows*4)
}

// Size returns the dimensions in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// Surface returns the drawable area in dots.
func (c *Canvas) Surface() Surface {
	return Surface{Width: float64(c.cols * 2), Height: float64(c.rows * 4)}
}

// Clear erases every dot.
func (c *Canvas) Clear() {
	clear(c.dots)
}

// Lit reports whether the dot at (x, y) is drawn.
func (c *Canvas) Lit(x, y int) bool {
	d := c.at(x, y)
	return d != nil && d.a >= litAlpha
}

func (c *Canvas) at(x, y int) *dot {
	w := c.cols * 2
	if x < 0 || y < 0 || x >= w || y >= c.rows*4 {
		return nil
	}
	return &c.dots[y*w+x]
}

func (c *Canvas) plot(x, y int, p Paint) {
	if d := c.at(x, y); d != nil {
		d.over(p.At(float64(x)+0.5, float64(y)+0.5))
	}
}

// Draw clears the canvas and rasterises cmds in order.
func (c *Canvas) Draw(cmds []Command) {
	c.Clear()
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case Rect:
			c.fillRect(cmd)
		case Line:
			c.strokeLine(cmd.From, cmd.To, cmd.Stroke)
		case Polyline:
			for i := 1; i < len(cmd.Points); i++ {
				c.strokeLine(cmd.Points[i-1], cmd.Points[i], cmd.Stroke)
			}
		case Circle:
			c.fillCircle(cmd)
		}
	}
}

func (c *Canvas) fillRect(r Rect) {
	if r.Fill == nil {
		return
	}
	// Dots whose centres fall inside the rectangle.
	x0 := int(math.Ceil(r.X - 0.5))
	x1 := int(math.Ceil(r.X + r.W - 0.5))
	y0 := int(math.Ceil(r.Y - 0.5))
	y1 := int(math.Ceil(r.Y + r.H - 0.5))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.plot(x, y, r.Fill)
		}
	}
}

func (c *Canvas) fillCircle(ci Circle) {
	if ci.Fill == nil {
		return
	}
	if ci.Radius < 0.5 {
		c.plot(int(math.Floor(ci.Center.X)), int(math.Floor(ci.Center.Y)), ci.Fill)
		return
	}
	x0 := int(math.Floor(ci.Center.X - ci.Radius))
	x1 := int(math.Ceil(ci.Center.X + ci.Radius))
	y0 := int(math.Floor(ci.Center.Y - ci.Radius))
	y1 := int(math.Ceil(ci.Center.Y + ci.Radius))
	r2 := ci.Radius * ci.Radius
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - ci.Center.X
			dy := float64(y) + 0.5 - ci.Center.Y
			if dx*dx+dy*dy <= r2 {
				c.plot(x, y, ci.Fill)
			}
		}
	}
}

// strokeLine walks the segment with Bresenham's algorithm.
func (c *Canvas) strokeLine(from, to Point, p Paint) {
	if p == nil {
		return
	}
	x0, y0 := dotIndex(from.X), dotIndex(from.Y)
	x1, y1 := dotIndex(to.X), dotIndex(to.Y)

	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		c.plot(x0, y0, p)
		if x0 == x1 && y0 == y1 {
			break
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

func dotIndex(v float64) int {
	return int(math.Floor(v))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// View renders the canvas as rows of braille characters, each cell tinted
// with the mean colour of its lit dots.
func (c *Canvas) View() string {
	var out strings.Builder
	color := newANSIState(c.profile)
	for row := range c.rows {
		if row > 0 {
			out.WriteByte('\n')
		}
		for col := range c.cols {
			var pattern uint
			var r, g, b float64
			lit := 0
			for dx := range 2 {
				for dy := range 4 {
					d := c.at(col*2+dx, row*4+dy)
					if d.a < litAlpha {
						continue
					}
					pattern |= 1 << brailleBits[dx][dy]
					r, g, b = r+d.r, g+d.g, b+d.b
					lit++
				}
			}
			if lit > 0 {
				n := float64(lit)
				color.set(&out, rgb8(r/n, g/n, b/n))
			}
			out.WriteRune(rune(0x2800 + pattern))
		}
		color.reset(&out)
	}
	return out.String()
}
