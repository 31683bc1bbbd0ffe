package visualizer

import "github.com/olivier-w/waveplay/internal/spectrum"

type waveformRenderer struct{}

func (r *waveformRenderer) Mode() Mode           { return Waveform }
func (r *waveformRenderer) Input() spectrum.Kind { return spectrum.TimeDomain }

// Render maps each sample to y = H/2 + (s/128 - 1)·H/2 and joins them into a
// single polyline spanning the full width, over a faint centre line.
func (r *waveformRenderer) Render(snap spectrum.Snapshot, s Surface, _ []Command) []Command {
	data := idle(snap, spectrum.TimeDomain)
	pal := PaletteFor(Waveform)
	mid := s.Height / 2

	points := make([]Point, len(data))
	step := 0.0
	if len(data) > 1 {
		step = s.Width / float64(len(data)-1)
	}
	for i, v := range data {
		points[i] = Point{
			X: float64(i) * step,
			Y: mid + (float64(v)/128-1)*mid,
		}
	}
	if len(points) == 1 {
		points = append(points, Point{X: s.Width, Y: points[0].Y})
	}

	return []Command{
		Line{From: Point{X: 0, Y: mid}, To: Point{X: s.Width, Y: mid}, Stroke: Solid{Color: pal.Accent.WithAlpha(0.2)}},
		Polyline{Points: points, Stroke: Solid{Color: pal.Primary}},
	}
}
