package visualizer

import (
	"math"
	"math/rand"
	"time"

	"github.com/olivier-w/waveplay/internal/spectrum"
)

const (
	particleFloor    = 0.1
	particleSize     = 5.0
	particleReach    = 0.9
	trailFade        = 0.5
	trailAlphaCutoff = 0.05
)

type particleRenderer struct {
	rng *rand.Rand
}

func newParticleRenderer(rng *rand.Rand) *particleRenderer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &particleRenderer{rng: rng}
}

func (r *particleRenderer) Mode() Mode           { return Particles }
func (r *particleRenderer) Input() spectrum.Kind { return spectrum.Frequency }

// Render emits one particle per bin above the noise floor at a random angle
// and distance magnitude × maxDistance. Particles from prev are redrawn
// faded underneath as trails until they drop below the cutoff. A soft
// centre glow keeps the idle frame from being blank.
func (r *particleRenderer) Render(snap spectrum.Snapshot, s Surface, prev []Command) []Command {
	data := idle(snap, spectrum.Frequency)
	pal := PaletteFor(Particles)
	cx, cy := s.Width/2, s.Height/2
	maxDistance := min(cx, cy) * particleReach

	var cmds []Command
	for _, c := range prev {
		p, ok := c.(Circle)
		if !ok || p.Fill == nil {
			continue
		}
		p.Fill = p.Fill.Faded(trailFade)
		if p.Fill.At(p.Center.X, p.Center.Y).A < trailAlphaCutoff {
			continue
		}
		cmds = append(cmds, p)
	}

	glow := maxDistance * (0.1 + spectrum.AverageLevel(data)*0.3)
	cmds = append(cmds, Circle{
		Center: Point{X: cx, Y: cy},
		Radius: glow,
		Fill: RadialGradient{
			Center: Point{X: cx, Y: cy},
			Radius: glow,
			Inner:  pal.Secondary.WithAlpha(0.4),
			Outer:  pal.Accent.WithAlpha(0),
		},
	})

	for _, v := range data {
		amp := float64(v) / 255
		if amp <= particleFloor {
			continue
		}
		angle := r.rng.Float64() * 2 * math.Pi
		dist := amp * maxDistance
		center := Point{X: cx + math.Cos(angle)*dist, Y: cy + math.Sin(angle)*dist}
		size := amp * particleSize
		cmds = append(cmds, Circle{
			Center: center,
			Radius: size,
			Fill: RadialGradient{
				Center: center,
				Radius: size,
				Inner:  pal.Primary.WithAlpha(amp),
				Outer:  pal.Primary.WithAlpha(0),
			},
		})
	}
	return cmds
}
