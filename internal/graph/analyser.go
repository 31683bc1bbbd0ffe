package graph

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	MinFFTSize = 32
	MaxFFTSize = 32768

	DefaultFFTSize     = 256
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -90.0
	DefaultMaxDecibels = -10.0
)

// AnalyserConfig sizes and scales an Analyser.
type AnalyserConfig struct {
	FFTSize     int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

// DefaultAnalyserConfig returns the standard analyser settings.
func DefaultAnalyserConfig() AnalyserConfig {
	return AnalyserConfig{
		FFTSize:     DefaultFFTSize,
		Smoothing:   DefaultSmoothing,
		MinDecibels: DefaultMinDecibels,
		MaxDecibels: DefaultMaxDecibels,
	}
}

// Validate checks the configuration.
func (c AnalyserConfig) Validate() error {
	if c.FFTSize < MinFFTSize || c.FFTSize > MaxFFTSize || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("fft size %d must be a power of two in [%d, %d]", c.FFTSize, MinFFTSize, MaxFFTSize)
	}
	if c.Smoothing < 0 || c.Smoothing > 1 || math.IsNaN(c.Smoothing) {
		return fmt.Errorf("smoothing %v must be in [0, 1]", c.Smoothing)
	}
	if !(c.MinDecibels < c.MaxDecibels) {
		return fmt.Errorf("min decibels %v must be below max decibels %v", c.MinDecibels, c.MaxDecibels)
	}
	return nil
}

// Analyser is a pass-through stage that keeps the most recent FFTSize samples
// of the mono mix and derives byte spectra from them on demand.
type Analyser struct {
	mu         sync.Mutex
	cfg        AnalyserConfig
	sampleRate int
	ring       []float64
	w          int
	window     []float64
	smoothed   []float64
	scratch    []float64
}

// NewAnalyser validates cfg and builds an analyser.
func NewAnalyser(sampleRate int, cfg AnalyserConfig) (*Analyser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyser{sampleRate: sampleRate}
	a.configure(cfg)
	return a, nil
}

func (a *Analyser) configure(cfg AnalyserConfig) {
	a.cfg = cfg
	a.ring = make([]float64, cfg.FFTSize)
	a.w = 0
	a.window = window.Blackman(cfg.FFTSize)
	a.smoothed = make([]float64, cfg.FFTSize/2)
	a.scratch = make([]float64, cfg.FFTSize)
}

// Reconfigure applies a new configuration, discarding history when the size
// changes.
func (a *Analyser) Reconfigure(cfg AnalyserConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if cfg.FFTSize != a.cfg.FFTSize {
		a.configure(cfg)
		return nil
	}
	a.cfg = cfg
	return nil
}

func (a *Analyser) Name() string { return "analyser" }

func (a *Analyser) Process(frames [][2]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, f := range frames {
		a.ring[a.w] = (f[0] + f[1]) / 2
		a.w = (a.w + 1) % len(a.ring)
	}
}

// FFTSize returns the transform size.
func (a *Analyser) FFTSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.FFTSize
}

// FrequencyBinCount returns FFTSize/2.
func (a *Analyser) FrequencyBinCount() int {
	return a.FFTSize() / 2
}

func (a *Analyser) SampleRate() int { return a.sampleRate }

// ordered copies the ring into scratch, oldest sample first. Callers hold a.mu.
func (a *Analyser) ordered() []float64 {
	n := copy(a.scratch, a.ring[a.w:])
	copy(a.scratch[n:], a.ring[:a.w])
	return a.scratch
}

// ByteFrequencyData fills dst with smoothed magnitudes scaled from
// [MinDecibels, MaxDecibels] onto 0..255 and returns the number of bins
// written. Each call advances the smoothing by one step.
func (a *Analyser) ByteFrequencyData(dst []byte) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	samples := a.ordered()
	for i := range samples {
		samples[i] *= a.window[i]
	}
	spectrum := fft.FFTReal(samples)

	n := float64(len(samples))
	s := a.cfg.Smoothing
	span := a.cfg.MaxDecibels - a.cfg.MinDecibels
	count := min(len(dst), len(a.smoothed))
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / n
		a.smoothed[k] = s*a.smoothed[k] + (1-s)*mag
		if k >= count {
			continue
		}
		db := a.cfg.MinDecibels
		if a.smoothed[k] > 0 {
			db = 20 * math.Log10(a.smoothed[k])
		}
		v := 255 * (db - a.cfg.MinDecibels) / span
		dst[k] = byte(math.Max(0, math.Min(255, v)))
	}
	return count
}

// ByteTimeDomainData fills dst with the latest samples as bytes centred on
// 128 and returns the number written.
func (a *Analyser) ByteTimeDomainData(dst []byte) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	samples := a.ordered()
	count := min(len(dst), len(samples))
	offset := len(samples) - count
	for i := 0; i < count; i++ {
		v := 128 * (1 + samples[offset+i])
		dst[i] = byte(math.Max(0, math.Min(255, v)))
	}
	return count
}
