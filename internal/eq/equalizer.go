package eq

import "fmt"

// Equalizer is the user-facing EQ state. Every mutation is applied as a
// whole gain vector to the listener, so a preset never lands half-way.
type Equalizer struct {
	gains    Gains
	enabled  bool
	preset   string
	listener func(Gains, bool)
}

// New returns an enabled, flat equalizer.
func New() *Equalizer {
	return &Equalizer{enabled: true, preset: "flat"}
}

// OnChange registers fn to receive the full gain vector after every change.
func (e *Equalizer) OnChange(fn func(g Gains, enabled bool)) {
	e.listener = fn
}

func (e *Equalizer) notify() {
	if e.listener != nil {
		e.listener(e.gains, e.enabled)
	}
}

// Gains returns a copy of the current gains.
func (e *Equalizer) Gains() Gains { return e.gains }

// Enabled reports whether the filters are in the signal path.
func (e *Equalizer) Enabled() bool { return e.enabled }

// Preset returns the name of the last applied preset, or "custom".
func (e *Equalizer) Preset() string { return e.preset }

// SetEnabled adds or removes the filter stages.
func (e *Equalizer) SetEnabled(on bool) {
	if e.enabled == on {
		return
	}
	e.enabled = on
	e.notify()
}

// SetBand sets one band's gain, clamped and snapped to the gain step.
func (e *Equalizer) SetBand(band int, db float64) error {
	if band < 0 || band >= NumBands {
		return fmt.Errorf("eq: band %d out of range", band)
	}
	e.gains[band] = ClampGain(db)
	e.preset = "custom"
	e.notify()
	return nil
}

// AdjustBand moves one band by delta dB.
func (e *Equalizer) AdjustBand(band int, delta float64) error {
	if band < 0 || band >= NumBands {
		return fmt.Errorf("eq: band %d out of range", band)
	}
	return e.SetBand(band, e.gains[band]+delta)
}

// ApplyPreset replaces all gains with the named preset.
func (e *Equalizer) ApplyPreset(name string) error {
	p, ok := LookupPreset(name)
	if !ok {
		return fmt.Errorf("eq: unknown preset %q", name)
	}
	for i, g := range p.Gains {
		e.gains[i] = ClampGain(g)
	}
	e.preset = p.Name
	e.notify()
	return nil
}

// Reset applies the flat preset.
func (e *Equalizer) Reset() {
	_ = e.ApplyPreset("flat")
}

// NextPreset applies the preset after the current one, wrapping around.
func (e *Equalizer) NextPreset() string {
	idx := 0
	for i, p := range presets {
		if p.Name == e.preset {
			idx = (i + 1) % len(presets)
			break
		}
	}
	_ = e.ApplyPreset(presets[idx].Name)
	return presets[idx].Name
}
