package spectrum

// Source is an analyser the sampler reads. *graph.Analyser satisfies it.
type Source interface {
	ByteFrequencyData(dst []byte) int
	ByteTimeDomainData(dst []byte) int
	FrequencyBinCount() int
	FFTSize() int
	SampleRate() int
}

// Features are the scalar values derived from one frequency snapshot.
type Features struct {
	Average  float64
	Bass     float64
	Treble   float64
	Dominant float64 // Hz
	Beat     bool
}

// Sampler pulls snapshots from a Source into reusable buffers. Without a
// source it is degraded and returns the idle spectrum.
type Sampler struct {
	src  Source
	freq []byte
	wave []byte
}

// NewSampler creates a sampler over src, which may be nil.
func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// SetSource swaps the analyser; nil degrades the sampler.
func (s *Sampler) SetSource(src Source) {
	s.src = src
}

// Degraded reports whether no analyser is attached.
func (s *Sampler) Degraded() bool { return s.src == nil }

// SampleRate returns the analyser's rate, or DefaultSampleRate.
func (s *Sampler) SampleRate() int {
	if s.src == nil {
		return DefaultSampleRate
	}
	return s.src.SampleRate()
}

func resize(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// FrequencySnapshot refreshes and returns the frequency buffer
// (FrequencyBinCount bins).
func (s *Sampler) FrequencySnapshot() Snapshot {
	if s.src == nil {
		s.freq = resize(s.freq, DefaultBins)
		copy(s.freq, Flat(DefaultBins))
		return Snapshot{Kind: Frequency, Data: s.freq}
	}
	s.freq = resize(s.freq, s.src.FrequencyBinCount())
	n := s.src.ByteFrequencyData(s.freq)
	return Snapshot{Kind: Frequency, Data: s.freq[:n]}
}

// TimeDomainSnapshot refreshes and returns the waveform buffer (FFTSize samples).
func (s *Sampler) TimeDomainSnapshot() Snapshot {
	if s.src == nil {
		s.wave = resize(s.wave, DefaultBins*2)
		copy(s.wave, Silence(DefaultBins*2))
		return Snapshot{Kind: TimeDomain, Data: s.wave}
	}
	s.wave = resize(s.wave, s.src.FFTSize())
	n := s.src.ByteTimeDomainData(s.wave)
	return Snapshot{Kind: TimeDomain, Data: s.wave[:n]}
}

// Snapshot refreshes the buffer of the given kind.
func (s *Sampler) Snapshot(kind Kind) Snapshot {
	if kind == TimeDomain {
		return s.TimeDomainSnapshot()
	}
	return s.FrequencySnapshot()
}

// Features takes a fresh frequency snapshot and derives its features.
func (s *Sampler) Features() Features {
	buf := s.FrequencySnapshot().Data
	return FeaturesOf(buf, s.SampleRate())
}

// FeaturesOf derives features from an existing frequency buffer.
func FeaturesOf(buf []byte, sampleRate int) Features {
	return Features{
		Average:  AverageLevel(buf),
		Bass:     BassLevel(buf),
		Treble:   TrebleLevel(buf),
		Dominant: DominantFrequency(buf, sampleRate),
		Beat:     IsBeat(buf, DefaultBeatThreshold),
	}
}

// AverageLevel samples a fresh frequency snapshot and returns its mean level.
func (s *Sampler) AverageLevel() float64 { return AverageLevel(s.FrequencySnapshot().Data) }

// BassLevel samples and returns the bass level.
func (s *Sampler) BassLevel() float64 { return BassLevel(s.FrequencySnapshot().Data) }

// TrebleLevel samples and returns the treble level.
func (s *Sampler) TrebleLevel() float64 { return TrebleLevel(s.FrequencySnapshot().Data) }

// DominantFrequency samples and returns the loudest bin's frequency in Hz.
func (s *Sampler) DominantFrequency() float64 {
	return DominantFrequency(s.FrequencySnapshot().Data, s.SampleRate())
}

// IsBeat samples and reports whether the bass level exceeds threshold.
func (s *Sampler) IsBeat(threshold float64) bool {
	return IsBeat(s.FrequencySnapshot().Data, threshold)
}

// SpectrumPeaks samples and reduces the spectrum to n bands.
func (s *Sampler) SpectrumPeaks(n int) []float64 {
	return SpectrumPeaks(s.FrequencySnapshot().Data, n)
}
