package visualizer

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Point is a position in dots.
type Point struct {
	X, Y float64
}

// Color is an RGB colour with straight alpha.
type Color struct {
	RGB colorful.Color
	A   float64
}

// RGBA builds a colour from 8-bit channels.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{
		RGB: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		A:   clamp01(a),
	}
}

// HSLA builds a colour from hue in degrees and saturation/lightness in [0,1].
func HSLA(h, s, l, a float64) Color {
	return Color{RGB: colorful.Hsl(math.Mod(h, 360), s, l).Clamped(), A: clamp01(a)}
}

// Blend interpolates towards c2 in RGB and alpha.
func (c Color) Blend(c2 Color, t float64) Color {
	t = clamp01(t)
	return Color{RGB: c.RGB.BlendRgb(c2.RGB, t).Clamped(), A: c.A + (c2.A-c.A)*t}
}

// WithAlpha returns c with alpha a.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Paint colours the dots a command covers.
type Paint interface {
	At(x, y float64) Color
	// Faded scales every alpha by f.
	Faded(f float64) Paint
}

// Solid paints one colour.
type Solid struct {
	Color Color
}

func (p Solid) At(float64, float64) Color { return p.Color }

func (p Solid) Faded(f float64) Paint {
	return Solid{Color: p.Color.WithAlpha(p.Color.A * f)}
}

// Stop is a gradient colour stop at Offset in [0,1].
type Stop struct {
	Offset float64
	Color  Color
}

func stopsAt(stops []Stop, t float64) Color {
	if len(stops) == 0 {
		return Color{}
	}
	t = clamp01(t)
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	if last := stops[len(stops)-1]; t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return a.Color.Blend(b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

func fadeStops(stops []Stop, f float64) []Stop {
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = Stop{Offset: s.Offset, Color: s.Color.WithAlpha(s.Color.A * f)}
	}
	return out
}

// LinearGradient interpolates its stops along the line From → To.
type LinearGradient struct {
	From, To Point
	Stops    []Stop
}

func (p LinearGradient) At(x, y float64) Color {
	dx, dy := p.To.X-p.From.X, p.To.Y-p.From.Y
	den := dx*dx + dy*dy
	if den == 0 {
		return stopsAt(p.Stops, 0)
	}
	return stopsAt(p.Stops, ((x-p.From.X)*dx+(y-p.From.Y)*dy)/den)
}

func (p LinearGradient) Faded(f float64) Paint {
	return LinearGradient{From: p.From, To: p.To, Stops: fadeStops(p.Stops, f)}
}

// RadialGradient interpolates from Inner at Center to Outer at Radius.
type RadialGradient struct {
	Center Point
	Radius float64
	Inner  Color
	Outer  Color
}

func (p RadialGradient) At(x, y float64) Color {
	if p.Radius <= 0 {
		return p.Inner
	}
	d := math.Hypot(x-p.Center.X, y-p.Center.Y)
	return p.Inner.Blend(p.Outer, d/p.Radius)
}

func (p RadialGradient) Faded(f float64) Paint {
	p.Inner = p.Inner.WithAlpha(p.Inner.A * f)
	p.Outer = p.Outer.WithAlpha(p.Outer.A * f)
	return p
}

// Command is one draw operation: Rect, Line, Polyline or Circle.
type Command interface {
	isCommand()
}

// Rect fills [X, X+W) × [Y, Y+H).
type Rect struct {
	X, Y, W, H float64
	Fill       Paint
}

// Line strokes a segment.
type Line struct {
	From, To Point
	Stroke   Paint
}

// Polyline strokes connected segments through Points.
type Polyline struct {
	Points []Point
	Stroke Paint
}

// Circle fills a disc.
type Circle struct {
	Center Point
	Radius float64
	Fill   Paint
}

func (Rect) isCommand()     {}
func (Line) isCommand()     {}
func (Polyline) isCommand() {}
func (Circle) isCommand()   {}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
