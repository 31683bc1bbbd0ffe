package visualizer

import (
	"math"

	"github.com/olivier-w/waveplay/internal/spectrum"
)

const (
	radialBase  = 0.6
	radialScale = 0.4
)

type radialRenderer struct{}

func (r *radialRenderer) Mode() Mode           { return Radial }
func (r *radialRenderer) Input() spectrum.Kind { return spectrum.Frequency }

// Render draws one spoke per bin at angle 2π·i/N, starting on the base
// circle and extending outward by magnitude × scale. Hue follows the angle.
func (r *radialRenderer) Render(snap spectrum.Snapshot, s Surface, _ []Command) []Command {
	data := idle(snap, spectrum.Frequency)
	cx, cy := s.Width/2, s.Height/2
	reach := min(cx, cy)
	base := reach * radialBase
	scale := reach * radialScale

	cmds := make([]Command, 0, len(data))
	for i, v := range data {
		frac := float64(i) / float64(len(data))
		angle := frac * 2 * math.Pi
		amp := float64(v) / 255 * scale
		cos, sin := math.Cos(angle), math.Sin(angle)
		cmds = append(cmds, Line{
			From:   Point{X: cx + cos*base, Y: cy + sin*base},
			To:     Point{X: cx + cos*(base+amp), Y: cy + sin*(base+amp)},
			Stroke: Solid{Color: HSLA(frac*360, 0.7, 0.6, 0.8)},
		})
	}
	return cmds
}
