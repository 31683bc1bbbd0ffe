// Package visualizer turns spectrum snapshots into draw commands and
// rasterises them onto a braille canvas for the terminal.
package visualizer

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/olivier-w/waveplay/internal/spectrum"
)

// Mode selects a renderer.
type Mode int

const (
	Bars Mode = iota
	Waveform
	Radial
	Particles
)

var modeNames = [...]string{"bars", "waveform", "radial", "particles"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next cycles bars → waveform → radial → particles → bars.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// Modes returns every mode in cycling order.
func Modes() []Mode {
	return []Mode{Bars, Waveform, Radial, Particles}
}

// ParseMode accepts a mode name. "wave" and "circular" are accepted as
// aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bars", "":
		return Bars, nil
	case "waveform", "wave":
		return Waveform, nil
	case "radial", "circular":
		return Radial, nil
	case "particles":
		return Particles, nil
	}
	return Bars, fmt.Errorf("unknown visualizer mode %q", s)
}

// Surface is the drawable area in dots.
type Surface struct {
	Width  float64
	Height float64
}

// Renderer maps one snapshot onto draw commands. prev is the renderer's
// previous output, nil on the first frame.
type Renderer interface {
	Mode() Mode
	Input() spectrum.Kind
	Render(snap spectrum.Snapshot, s Surface, prev []Command) []Command
}

const (
	DefaultBars = 48
	MinBars     = 32
	MaxBars     = 64
)

// Options tune renderer construction.
type Options struct {
	Bars int        // bar count for Bars, clamped to [MinBars, MaxBars]
	Rand *rand.Rand // particle angles; nil uses a time-seeded source
}

// New returns the renderer for mode.
func New(mode Mode, opts Options) Renderer {
	switch mode {
	case Waveform:
		return &waveformRenderer{}
	case Radial:
		return &radialRenderer{}
	case Particles:
		return newParticleRenderer(opts.Rand)
	default:
		return newBarRenderer(opts.Bars)
	}
}

// idle substitutes the flat idle snapshot for missing data.
func idle(snap spectrum.Snapshot, kind spectrum.Kind) []byte {
	if len(snap.Data) > 0 {
		return snap.Data
	}
	if kind == spectrum.TimeDomain {
		return spectrum.Silence(spectrum.DefaultBins * 2)
	}
	return spectrum.Flat(spectrum.DefaultBins)
}
