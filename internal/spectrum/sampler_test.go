package spectrum

import "testing"

type fakeAnalyser struct {
	freq []byte
	wave []byte
	rate int
}

func (f *fakeAnalyser) ByteFrequencyData(dst []byte) int  { return copy(dst, f.freq) }
func (f *fakeAnalyser) ByteTimeDomainData(dst []byte) int { return copy(dst, f.wave) }
func (f *fakeAnalyser) FrequencyBinCount() int            { return len(f.freq) }
func (f *fakeAnalyser) FFTSize() int                      { return len(f.wave) }
func (f *fakeAnalyser) SampleRate() int                   { return f.rate }

func TestDegradedSamplerReturnsIdleSpectrum(t *testing.T) {
	s := NewSampler(nil)
	if !s.Degraded() {
		t.Fatal("sampler without source should be degraded")
	}
	snap := s.FrequencySnapshot()
	if snap.Kind != Frequency || len(snap.Data) != DefaultBins {
		t.Fatalf("snapshot = kind %v len %d", snap.Kind, len(snap.Data))
	}
	for _, v := range snap.Data {
		if v != IdleLevel {
			t.Fatalf("idle bin = %d, want %d", v, IdleLevel)
		}
	}
	wave := s.TimeDomainSnapshot()
	if wave.Kind != TimeDomain || wave.Data[0] != 128 {
		t.Fatalf("idle waveform = %+v", wave)
	}
	if f := s.Features(); f.Beat || f.Dominant != 0 {
		t.Fatalf("idle features = %+v", f)
	}
}

func TestSamplerReadsSource(t *testing.T) {
	a := &fakeAnalyser{freq: make([]byte, 64), wave: make([]byte, 128), rate: 48000}
	for i := 0; i < 6; i++ {
		a.freq[i] = 255
	}
	s := NewSampler(a)
	snap := s.FrequencySnapshot()
	if len(snap.Data) != 64 {
		t.Fatalf("len = %d, want 64", len(snap.Data))
	}
	f := s.Features()
	if !f.Beat || f.Bass != 1 {
		t.Fatalf("features = %+v, want beat with full bass", f)
	}
	if f.Dominant != 0 {
		t.Fatalf("dominant = %v, want 0 (first max)", f.Dominant)
	}
	if got := len(s.SpectrumPeaks(10)); got != 10 {
		t.Fatalf("peaks len = %d", got)
	}
	if got := len(s.TimeDomainSnapshot().Data); got != 128 {
		t.Fatalf("waveform len = %d, want 128", got)
	}
}

func TestSamplerReusesBuffer(t *testing.T) {
	a := &fakeAnalyser{freq: []byte{1, 2, 3, 4}, wave: []byte{128}, rate: 44100}
	s := NewSampler(a)
	first := s.FrequencySnapshot()
	a.freq[0] = 9
	second := s.FrequencySnapshot()
	if &first.Data[0] != &second.Data[0] {
		t.Fatal("sampler should refresh the same buffer")
	}
	if first.Data[0] != 9 {
		t.Fatal("previous snapshot should observe the refresh")
	}
}

func TestSetSourceLeavesDegradedMode(t *testing.T) {
	s := NewSampler(nil)
	s.SetSource(&fakeAnalyser{freq: make([]byte, 8), wave: make([]byte, 16), rate: 48000})
	if s.Degraded() {
		t.Fatal("still degraded after SetSource")
	}
	if s.SampleRate() != 48000 {
		t.Fatalf("SampleRate = %d", s.SampleRate())
	}
}
