package player

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
	"time"
)

const (
	// OutputSampleRate and OutputChannels describe the PCM every stream produces.
	OutputSampleRate = 48000
	OutputChannels   = 2
	outputFrameSize  = OutputChannels * 2
)

// stream presents a decoder as 48 kHz stereo s16le. Playback rate and
// resampling share one fractional step through the source frames, so pitch
// follows rate. Volume and mute scale samples on the way out.
type stream struct {
	mu sync.Mutex

	dec         audioDecoder
	srcRate     int
	channels    int
	totalFrames int64

	rate   float64
	volume float64
	muted  bool

	pos    float64 // source frame of the next output sample
	base   int64   // source frame index of frames[0]
	frames [][2]float64
	carry  []byte
	raw    []byte
	eof    bool
	ended  bool
}

func newStream(dec audioDecoder) *stream {
	channels := dec.ChannelCount()
	frameSize := int64(channels) * 2
	return &stream{
		dec:         dec,
		srcRate:     dec.SampleRate(),
		channels:    channels,
		totalFrames: dec.Length() / frameSize,
		rate:        1,
		volume:      1,
		raw:         make([]byte, chunkSize*int(frameSize)),
	}
}

func (s *stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return 0, io.EOF
	}

	step := s.rate * float64(s.srcRate) / OutputSampleRate
	gain := s.volume
	if s.muted {
		gain = 0
	}

	want := len(p) / outputFrameSize
	written := 0
	for written < want {
		idx := int(int64(s.pos) - s.base)
		for idx+1 >= len(s.frames) && !s.eof {
			s.fill()
		}
		if idx >= len(s.frames) {
			s.ended = true
			break
		}

		a := s.frames[idx]
		b := a
		if idx+1 < len(s.frames) {
			b = s.frames[idx+1]
		}
		frac := s.pos - math.Floor(s.pos)
		out := p[written*outputFrameSize:]
		for ch := 0; ch < OutputChannels; ch++ {
			v := (a[ch] + (b[ch]-a[ch])*frac) * gain
			binary.LittleEndian.PutUint16(out[ch*2:], uint16(int16(clampSample(v))))
		}
		written++
		s.pos += step
	}

	if drop := int(int64(s.pos) - s.base); drop > 0 {
		drop = min(drop, len(s.frames))
		s.frames = append(s.frames[:0], s.frames[drop:]...)
		s.base += int64(drop)
	}

	if written == 0 {
		return 0, io.EOF
	}
	return written * outputFrameSize, nil
}

// fill appends one chunk of decoded source frames.
func (s *stream) fill() {
	n, err := s.dec.Read(s.raw)
	data := s.raw[:n]
	if len(s.carry) > 0 {
		data = append(s.carry, data...)
		s.carry = nil
	}

	frameSize := s.channels * 2
	whole := len(data) / frameSize * frameSize
	for off := 0; off < whole; off += frameSize {
		var f [2]float64
		f[0] = float64(int16(binary.LittleEndian.Uint16(data[off:])))
		if s.channels > 1 {
			f[1] = float64(int16(binary.LittleEndian.Uint16(data[off+2:])))
		} else {
			f[1] = f[0]
		}
		s.frames = append(s.frames, f)
	}
	if whole < len(data) {
		s.carry = append([]byte(nil), data[whole:]...)
	}
	if err != nil || n == 0 {
		s.eof = true
	}
}

func clampSample(v float64) float64 {
	return math.Max(-32768, math.Min(32767, math.Round(v)))
}

// seek moves to d, clamped to the stream length.
func (s *stream) seek(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := int64(d.Seconds() * float64(s.srcRate))
	frame = max(0, min(frame, s.totalFrames))
	if _, err := s.dec.Seek(frame*int64(s.channels)*2, io.SeekStart); err != nil {
		return err
	}
	s.pos = float64(frame)
	s.base = frame
	s.frames = s.frames[:0]
	s.carry = nil
	s.eof = false
	s.ended = false
	return nil
}

func (s *stream) position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := min(s.pos, float64(s.totalFrames))
	return time.Duration(math.Round(pos * float64(time.Second) / float64(s.srcRate)))
}

func (s *stream) duration() time.Duration {
	return time.Duration(s.totalFrames) * time.Second / time.Duration(s.srcRate)
}

func (s *stream) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *stream) setRate(r float64) {
	s.mu.Lock()
	s.rate = r
	s.mu.Unlock()
}

func (s *stream) setGain(volume float64, muted bool) {
	s.mu.Lock()
	s.volume = volume
	s.muted = muted
	s.mu.Unlock()
}
