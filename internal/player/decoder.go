package player

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder is implemented by all format-specific decoders. Read yields
// interleaved s16le PCM at the decoder's native rate and channel count.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// chunkSize is the number of source frames a chunked decoder reads at once.
const chunkSize = 4096

// newDecoder picks a decoder by extension.
func newDecoder(r io.ReadSeeker, ext string) (audioDecoder, error) {
	switch ext {
	case ".mp3":
		return newMP3Decoder(r)
	case ".wav":
		return newWAVDecoder(r)
	case ".flac":
		return newFLACDecoder(r)
	case ".ogg":
		return newOGGDecoder(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// --- MP3 ---

// go-mp3 always produces 16-bit stereo.
type mp3Decoder struct {
	*mp3.Decoder
}

func newMP3Decoder(r io.ReadSeeker) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{Decoder: dec}, nil
}

func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- chunked decoders ---

// chunkSource produces PCM a block at a time and seeks by frame.
type chunkSource interface {
	next() ([]byte, error)
	seekFrame(frame int64) error
}

// chunkDecoder turns a chunkSource into an audioDecoder, carrying the part
// of each block the caller did not consume.
type chunkDecoder struct {
	src        chunkSource
	buf        []byte
	err        error
	pos        int64
	length     int64
	sampleRate int
	channels   int
}

func (d *chunkDecoder) Read(p []byte) (int, error) {
	for len(d.buf) == 0 {
		if d.err != nil {
			return 0, d.err
		}
		d.buf, d.err = d.src.next()
		if d.err == io.ErrUnexpectedEOF {
			d.err = io.EOF
		}
	}
	n := copy(p, d.buf)
	d.buf = d.buf[n:]
	d.pos += int64(n)
	return n, nil
}

func (d *chunkDecoder) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = d.pos + offset
	case io.SeekEnd:
		next = d.length + offset
	default:
		return d.pos, fmt.Errorf("invalid seek whence: %d", whence)
	}
	next = max(0, min(next, d.length))
	frameSize := int64(d.channels) * 2
	next -= next % frameSize

	if err := d.src.seekFrame(next / frameSize); err != nil {
		return d.pos, err
	}
	d.buf, d.err = nil, nil
	d.pos = next
	return next, nil
}

func (d *chunkDecoder) Length() int64     { return d.length }
func (d *chunkDecoder) SampleRate() int   { return d.sampleRate }
func (d *chunkDecoder) ChannelCount() int { return d.channels }

func putSample(dst []byte, v int) {
	binary.LittleEndian.PutUint16(dst, uint16(int16(max(-32768, min(32767, v)))))
}

// --- WAV ---

type wavSource struct {
	r         io.ReadSeeker
	pcmStart  int64
	bitDepth  int
	frameSize int
	raw       []byte
	out       []byte
}

func newWAVDecoder(r io.ReadSeeker) (*chunkDecoder, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth %d", bitDepth)
	}
	if channels < 1 {
		return nil, fmt.Errorf("invalid WAV channel count %d", channels)
	}

	pcmStart, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM data: %w", err)
	}

	frameSize := channels * bitDepth / 8
	frames := dec.PCMLen() / int64(frameSize)
	src := &wavSource{
		r:         r,
		pcmStart:  pcmStart,
		bitDepth:  bitDepth,
		frameSize: frameSize,
		raw:       make([]byte, chunkSize*frameSize),
	}
	return &chunkDecoder{
		src:        src,
		length:     frames * int64(channels) * 2,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
	}, nil
}

func (s *wavSource) next() ([]byte, error) {
	n, err := io.ReadFull(s.r, s.raw)
	width := s.bitDepth / 8
	samples := n / width
	s.out = s.out[:0]
	for i := 0; i < samples; i++ {
		b := s.raw[i*width:]
		var v int
		switch s.bitDepth {
		case 8:
			v = (int(b[0]) - 128) << 8
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(b)))
		case 24:
			v = int(int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 16)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(b)) >> 16)
		}
		s.out = append(s.out, 0, 0)
		putSample(s.out[len(s.out)-2:], v)
	}
	return s.out, err
}

func (s *wavSource) seekFrame(frame int64) error {
	_, err := s.r.Seek(s.pcmStart+frame*int64(s.frameSize), io.SeekStart)
	return err
}

// --- FLAC ---

type flacSource struct {
	stream *flac.Stream
	shift  int
	out    []byte
}

func newFLACDecoder(r io.ReadSeeker) (*chunkDecoder, error) {
	stream, err := flac.NewSeek(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &chunkDecoder{
		src:        &flacSource{stream: stream, shift: int(info.BitsPerSample) - 16},
		length:     int64(info.NSamples) * int64(channels) * 2,
		sampleRate: int(info.SampleRate),
		channels:   channels,
	}, nil
}

func (s *flacSource) next() ([]byte, error) {
	frame, err := s.stream.ParseNext()
	if err != nil {
		return nil, err
	}
	channels := len(frame.Subframes)
	samples := int(frame.Subframes[0].NSamples)
	s.out = s.out[:0]
	for i := 0; i < samples; i++ {
		for ch := 0; ch < channels; ch++ {
			v := int(frame.Subframes[ch].Samples[i])
			if s.shift > 0 {
				v >>= s.shift
			} else {
				v <<= -s.shift
			}
			s.out = append(s.out, 0, 0)
			putSample(s.out[len(s.out)-2:], v)
		}
	}
	return s.out, nil
}

func (s *flacSource) seekFrame(frame int64) error {
	_, err := s.stream.Seek(uint64(frame))
	return err
}

// --- OGG Vorbis ---

type oggSource struct {
	reader  *oggvorbis.Reader
	samples []float32
	out     []byte
}

func newOGGDecoder(r io.ReadSeeker) (*chunkDecoder, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	channels := reader.Channels()
	return &chunkDecoder{
		src:        &oggSource{reader: reader, samples: make([]float32, chunkSize*channels)},
		length:     reader.Length() * int64(channels) * 2,
		sampleRate: reader.SampleRate(),
		channels:   channels,
	}, nil
}

func (s *oggSource) next() ([]byte, error) {
	n, err := s.reader.Read(s.samples)
	s.out = s.out[:0]
	for _, f := range s.samples[:n] {
		s.out = append(s.out, 0, 0)
		putSample(s.out[len(s.out)-2:], int(f*32767))
	}
	return s.out, err
}

func (s *oggSource) seekFrame(frame int64) error {
	return s.reader.SetPosition(frame)
}
