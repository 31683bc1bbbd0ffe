// Package spectrum samples an analyser once per animation tick and derives
// scalar features from the byte spectra.
package spectrum

const (
	// IdleLevel is the bin value of the flat idle spectrum.
	IdleLevel = 20
	// DefaultBins is the idle spectrum length when no analyser is bound.
	DefaultBins = 128
	// DefaultBeatThreshold is the bass level above which a frame is a beat.
	DefaultBeatThreshold = 0.7
	// DefaultSampleRate is assumed when the analyser is unknown.
	DefaultSampleRate = 44100
)

// Kind tells renderers how to read a snapshot's bytes.
type Kind int

const (
	// Frequency bins are magnitudes in 0..255.
	Frequency Kind = iota
	// TimeDomain samples are centred on 128; the signed value is sample-128.
	TimeDomain
)

func (k Kind) String() string {
	if k == TimeDomain {
		return "time-domain"
	}
	return "frequency"
}

// Snapshot is one tick's analyser output. Data is refreshed in place on the
// next tick, so holders must copy it to keep history.
type Snapshot struct {
	Kind Kind
	Data []byte
}

// Empty reports whether the snapshot carries no data.
func (s Snapshot) Empty() bool { return len(s.Data) == 0 }

// Clone returns a snapshot with its own copy of Data.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{Kind: s.Kind, Data: append([]byte(nil), s.Data...)}
}

// Flat returns an idle frequency spectrum of n bins at IdleLevel.
func Flat(n int) []byte {
	buf := make([]byte, max(n, 0))
	for i := range buf {
		buf[i] = IdleLevel
	}
	return buf
}

// Silence returns an idle time-domain buffer of n samples at the centre line.
func Silence(n int) []byte {
	buf := make([]byte, max(n, 0))
	for i := range buf {
		buf[i] = 128
	}
	return buf
}

func mean(buf []byte) float64 {
	if len(buf) == 0 {
		return 0
	}
	sum := 0
	for _, v := range buf {
		sum += int(v)
	}
	return float64(sum) / float64(len(buf)) / 255
}

// AverageLevel returns mean(buf)/255.
func AverageLevel(buf []byte) float64 {
	return mean(buf)
}

// BassLevel returns the mean of the first 10% of bins, normalised.
func BassLevel(buf []byte) float64 {
	return mean(buf[:len(buf)/10])
}

// TrebleLevel returns the mean of the bins from 70% onward, normalised.
func TrebleLevel(buf []byte) float64 {
	return mean(buf[len(buf)*7/10:])
}

// DominantFrequency returns the centre frequency in Hz of the loudest bin.
// The first bin wins ties; an all-zero buffer reports 0 Hz.
func DominantFrequency(buf []byte, sampleRate int) float64 {
	if len(buf) == 0 {
		return 0
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	maxIdx := 0
	for i, v := range buf {
		if v > buf[maxIdx] {
			maxIdx = i
		}
	}
	return float64(maxIdx) / float64(len(buf)) * float64(sampleRate) / 2
}

// IsBeat reports whether the bass level exceeds threshold.
func IsBeat(buf []byte, threshold float64) bool {
	return BassLevel(buf) > threshold
}

// SpectrumPeaks reduces buf to exactly n values in [0,1], each the maximum
// of a contiguous band of bins. Bands past the end of a short buffer are 0.
func SpectrumPeaks(buf []byte, n int) []float64 {
	if n <= 0 {
		return nil
	}
	peaks := make([]float64, n)
	for i := range peaks {
		start := i * len(buf) / n
		end := max((i+1)*len(buf)/n, start+1)
		end = min(end, len(buf))
		top := byte(0)
		for _, v := range buf[min(start, end):end] {
			top = max(top, v)
		}
		peaks[i] = float64(top) / 255
	}
	return peaks
}

// DefaultSmoothFactor is the neighbour weight used for bar levels.
const DefaultSmoothFactor = 0.2

// Smooth runs one left-to-right pass blending each interior value with its
// neighbours. The pass works in place on a copy, so each value sees the
// already smoothed value to its left. Endpoints are kept.
func Smooth(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	for i := 1; i < len(out)-1; i++ {
		out[i] = out[i]*(1-factor) + (out[i-1]+out[i+1])*factor*0.5
	}
	return out
}
