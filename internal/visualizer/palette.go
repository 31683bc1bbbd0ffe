package visualizer

// Palette is a mode's three-colour scheme.
type Palette struct {
	Primary   Color
	Secondary Color
	Accent    Color
}

var palettes = map[Mode]Palette{
	Bars: {
		Primary:   RGBA(139, 92, 246, 0.8),
		Secondary: RGBA(59, 130, 246, 0.6),
		Accent:    RGBA(16, 185, 129, 0.4),
	},
	Waveform: {
		Primary:   RGBA(139, 92, 246, 0.8),
		Secondary: RGBA(168, 85, 247, 0.6),
		Accent:    RGBA(217, 70, 239, 0.4),
	},
	Radial: {
		Primary:   RGBA(59, 130, 246, 0.8),
		Secondary: RGBA(16, 185, 129, 0.6),
		Accent:    RGBA(245, 158, 11, 0.4),
	},
	Particles: {
		Primary:   RGBA(139, 92, 246, 0.9),
		Secondary: RGBA(59, 130, 246, 0.7),
		Accent:    RGBA(16, 185, 129, 0.5),
	},
}

// PaletteFor returns the colour scheme of mode, falling back to Bars.
func PaletteFor(mode Mode) Palette {
	if p, ok := palettes[mode]; ok {
		return p
	}
	return palettes[Bars]
}
