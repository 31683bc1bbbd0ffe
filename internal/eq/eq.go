// Package eq describes the fixed 10-band graphic equalizer: band layout,
// gain limits, named presets and the mutable equalizer state.
package eq

import (
	"fmt"
	"math"
	"strings"
)

// NumBands is the fixed band count.
const NumBands = 10

const (
	MinGain  = -12.0
	MaxGain  = 12.0
	GainStep = 0.5
	PeakingQ = 1.0
)

// Frequencies are the band centre frequencies in Hz, low to high.
var Frequencies = [NumBands]float64{60, 170, 310, 600, 1000, 3000, 6000, 12000, 14000, 16000}

// FilterType selects the biquad response of a band.
type FilterType int

const (
	LowShelf FilterType = iota
	Peaking
	HighShelf
)

func (f FilterType) String() string {
	switch f {
	case LowShelf:
		return "lowshelf"
	case HighShelf:
		return "highshelf"
	default:
		return "peaking"
	}
}

// Band is one equalizer band.
type Band struct {
	Frequency float64
	Type      FilterType
	Q         float64
}

// Bands returns the band layout: low-shelf first, high-shelf last, peaking between.
func Bands() [NumBands]Band {
	var bands [NumBands]Band
	for i, f := range Frequencies {
		b := Band{Frequency: f, Type: Peaking, Q: PeakingQ}
		switch i {
		case 0:
			b.Type = LowShelf
		case NumBands - 1:
			b.Type = HighShelf
		}
		bands[i] = b
	}
	return bands
}

// Gains holds one gain in dB per band.
type Gains [NumBands]float64

// IsFlat reports whether every band is at 0 dB.
func (g Gains) IsFlat() bool {
	for _, v := range g {
		if v != 0 {
			return false
		}
	}
	return true
}

// ClampGain limits db to [MinGain, MaxGain] and snaps it to GainStep.
func ClampGain(db float64) float64 {
	if math.IsNaN(db) {
		return 0
	}
	db = max(min(db, MaxGain), MinGain)
	return math.Round(db/GainStep) * GainStep
}

// Label formats a centre frequency for display ("60", "1k", "12k").
func Label(freq float64) string {
	if freq >= 1000 {
		return fmt.Sprintf("%gk", freq/1000)
	}
	return fmt.Sprintf("%g", freq)
}

// Preset is a named gain vector.
type Preset struct {
	Name  string
	Gains Gains
}

var presets = []Preset{
	{Name: "flat"},
	{Name: "rock", Gains: Gains{5, 3, -2, -3, -1, 2, 5, 6, 6, 6}},
	{Name: "pop", Gains: Gains{-1, 2, 4, 4, 0, -1, -1, -1, 2, 3}},
	{Name: "jazz", Gains: Gains{4, 3, 1, 2, -1, -1, 0, 1, 3, 4}},
	{Name: "classical", Gains: Gains{4, 3, 2, 1, -1, -1, 0, 2, 3, 4}},
	{Name: "electronic", Gains: Gains{4, 3, 1, 0, -2, 1, 0, 1, 4, 5}},
}

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by case-insensitive name.
func LookupPreset(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
