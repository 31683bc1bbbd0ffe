package visualizer

import "github.com/olivier-w/waveplay/internal/spectrum"

const (
	barGap   = 1.0
	barScale = 0.8

	// minBarHeight is one dot row; shorter bars are not drawn.
	minBarHeight = 1.0
)

type barRenderer struct {
	bars int
}

func newBarRenderer(n int) *barRenderer {
	if n == 0 {
		n = DefaultBars
	}
	return &barRenderer{bars: max(MinBars, min(n, MaxBars))}
}

func (r *barRenderer) Mode() Mode           { return Bars }
func (r *barRenderer) Input() spectrum.Kind { return spectrum.Frequency }

// Render draws one bar per band, bottom-aligned, each filled with the same
// three-stop gradient from its base to its top. Band levels are smoothed
// with their neighbours first.
func (r *barRenderer) Render(snap spectrum.Snapshot, s Surface, _ []Command) []Command {
	data := idle(snap, spectrum.Frequency)
	pal := PaletteFor(Bars)
	levels := spectrum.Smooth(bandMeans(data, r.bars), spectrum.DefaultSmoothFactor)

	slot := s.Width / float64(r.bars)
	width := max(slot-barGap, 1)
	cmds := make([]Command, 0, r.bars)
	for i, v := range levels {
		h := v * s.Height * barScale
		if h < minBarHeight {
			continue
		}
		top := s.Height - h
		cmds = append(cmds, Rect{
			X: float64(i) * slot, Y: top, W: width, H: h,
			Fill: LinearGradient{
				From: Point{X: 0, Y: s.Height},
				To:   Point{X: 0, Y: top},
				Stops: []Stop{
					{Offset: 0, Color: pal.Primary},
					{Offset: 0.5, Color: pal.Secondary},
					{Offset: 1, Color: pal.Accent},
				},
			},
		})
	}
	return cmds
}

// bandMeans averages n contiguous bands of data, normalised to [0,1].
func bandMeans(data []byte, n int) []float64 {
	out := make([]float64, n)
	if len(data) == 0 {
		return out
	}
	for i := range out {
		start := i * len(data) / n
		end := min(max((i+1)*len(data)/n, start+1), len(data))
		start = min(start, end-1)
		sum := 0
		for _, v := range data[start:end] {
			sum += int(v)
		}
		out[i] = float64(sum) / float64(end-start) / 255
	}
	return out
}
