package graph

import (
	"fmt"
	"math"

	"github.com/olivier-w/waveplay/internal/eq"
)

// Biquad is a stereo RBJ cookbook filter in transposed direct form II.
// Shelves use a slope of 1.
type Biquad struct {
	kind       eq.FilterType
	freq       float64
	q          float64
	gain       float64
	sampleRate float64

	b0, b1, b2, a1, a2 float64
	z                  [2][2]float64
}

// NewBiquad builds a filter for one EQ band.
func NewBiquad(band eq.Band, gainDB float64, sampleRate int) *Biquad {
	b := &Biquad{
		kind:       band.Type,
		freq:       band.Frequency,
		q:          band.Q,
		sampleRate: float64(sampleRate),
	}
	b.SetGain(gainDB)
	return b
}

func (b *Biquad) Name() string {
	return fmt.Sprintf("%s %s", b.kind, eq.Label(b.freq))
}

// Gain returns the filter gain in dB.
func (b *Biquad) Gain() float64 { return b.gain }

// SetGain recomputes the coefficients. Filter state is kept so a change
// mid-stream does not click.
func (b *Biquad) SetGain(db float64) {
	b.gain = db
	a := math.Pow(10, db/40)
	freq := math.Min(b.freq, b.sampleRate/2*0.99)
	w0 := 2 * math.Pi * freq / b.sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)

	var b0, b1, b2, a0, a1, a2 float64
	switch b.kind {
	case eq.LowShelf, eq.HighShelf:
		alpha := sinw / 2 * math.Sqrt2
		sq := 2 * math.Sqrt(a) * alpha
		if b.kind == eq.LowShelf {
			b0 = a * ((a + 1) - (a-1)*cosw + sq)
			b1 = 2 * a * ((a - 1) - (a+1)*cosw)
			b2 = a * ((a + 1) - (a-1)*cosw - sq)
			a0 = (a + 1) + (a-1)*cosw + sq
			a1 = -2 * ((a - 1) + (a+1)*cosw)
			a2 = (a + 1) + (a-1)*cosw - sq
		} else {
			b0 = a * ((a + 1) + (a-1)*cosw + sq)
			b1 = -2 * a * ((a - 1) + (a+1)*cosw)
			b2 = a * ((a + 1) + (a-1)*cosw - sq)
			a0 = (a + 1) - (a-1)*cosw + sq
			a1 = 2 * ((a - 1) - (a+1)*cosw)
			a2 = (a + 1) - (a-1)*cosw - sq
		}
	default:
		alpha := sinw / (2 * b.q)
		b0 = 1 + alpha*a
		b1 = -2 * cosw
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosw
		a2 = 1 - alpha/a
	}
	b.b0, b.b1, b.b2 = b0/a0, b1/a0, b2/a0
	b.a1, b.a2 = a1/a0, a2/a0
}

func (b *Biquad) Process(frames [][2]float64) {
	for i := range frames {
		for ch := 0; ch < 2; ch++ {
			x := frames[i][ch]
			z := &b.z[ch]
			y := b.b0*x + z[0]
			z[0] = b.b1*x - b.a1*y + z[1]
			z[1] = b.b2*x - b.a2*y
			frames[i][ch] = y
		}
	}
}
