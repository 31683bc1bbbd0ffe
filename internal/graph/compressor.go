package graph

import "math"

// Compressor settings, matching a browser DynamicsCompressorNode preset.
const (
	CompressorThreshold = -24.0 // dB
	CompressorKnee      = 30.0  // dB
	CompressorRatio     = 12.0
	CompressorAttack    = 0.003 // seconds
	CompressorRelease   = 0.25  // seconds
)

// Compressor is a stereo-linked soft-knee compressor.
type Compressor struct {
	threshold, knee, ratio float64
	attackCoef             float64
	releaseCoef            float64
	env                    float64 // current gain reduction in dB, <= 0
}

func NewCompressor(sampleRate int) *Compressor {
	sr := float64(sampleRate)
	return &Compressor{
		threshold:   CompressorThreshold,
		knee:        CompressorKnee,
		ratio:       CompressorRatio,
		attackCoef:  math.Exp(-1 / (CompressorAttack * sr)),
		releaseCoef: math.Exp(-1 / (CompressorRelease * sr)),
	}
}

func (c *Compressor) Name() string { return "compressor" }

// Reduction returns the current gain reduction in dB (zero or negative).
func (c *Compressor) Reduction() float64 { return c.env }

// curve maps an input level to the output level, both in dB.
func (c *Compressor) curve(x float64) float64 {
	over := x - c.threshold
	switch {
	case 2*over < -c.knee:
		return x
	case 2*math.Abs(over) <= c.knee:
		d := over + c.knee/2
		return x + (1/c.ratio-1)*d*d/(2*c.knee)
	default:
		return c.threshold + over/c.ratio
	}
}

func (c *Compressor) Process(frames [][2]float64) {
	for i := range frames {
		peak := math.Max(math.Abs(frames[i][0]), math.Abs(frames[i][1]))
		target := 0.0
		if peak > 1e-9 {
			level := 20 * math.Log10(peak)
			target = c.curve(level) - level
		}
		coef := c.releaseCoef
		if target < c.env {
			coef = c.attackCoef
		}
		c.env = coef*c.env + (1-coef)*target
		g := math.Pow(10, c.env/20)
		frames[i][0] *= g
		frames[i][1] *= g
	}
}

// Gain scales both channels by a linear factor.
type Gain struct {
	value float64
}

func NewGain(v float64) *Gain { return &Gain{value: v} }

func (g *Gain) Name() string   { return "gain" }
func (g *Gain) Value() float64 { return g.value }
func (g *Gain) Set(v float64)  { g.value = v }

func (g *Gain) Process(frames [][2]float64) {
	if g.value == 1 {
		return
	}
	for i := range frames {
		frames[i][0] *= g.value
		frames[i][1] *= g.value
	}
}
