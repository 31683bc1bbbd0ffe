// Package graph is the audio processing chain between the decode element and
// the output: equalizer filters, a compressor, a gain stage and an analyser
// tap, in that fixed order.
package graph

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/olivier-w/waveplay/internal/audio"
	"github.com/olivier-w/waveplay/internal/eq"
	"github.com/olivier-w/waveplay/internal/player"
)

// ErrUnsupportedPlatform is audio.ErrUnsupportedPlatform.
var ErrUnsupportedPlatform = audio.ErrUnsupportedPlatform

// ErrAlreadyBound is returned when the source already feeds a graph.
var ErrAlreadyBound = errors.New("graph: source already bound")

// Source is a decode element whose PCM can be captured and rerouted.
type Source interface {
	CaptureSource() (io.Reader, error)
	Route(r io.Reader)
}

// Node is one processing stage. Process works in place on stereo frames
// scaled to [-1, 1].
type Node interface {
	Name() string
	Process(frames [][2]float64)
}

// Options configure a graph.
type Options struct {
	Analyser  AnalyserConfig
	EQ        eq.Gains
	EQEnabled bool
	Logger    *zap.Logger
}

// DefaultOptions returns a flat, enabled EQ and the default analyser.
func DefaultOptions() Options {
	return Options{Analyser: DefaultAnalyserConfig(), EQEnabled: true}
}

// Graph processes a captured source and is read by the output sink.
type Graph struct {
	mu         sync.Mutex
	in         io.Reader
	sampleRate int
	log        *zap.Logger

	gains     eq.Gains
	eqEnabled bool
	filters   []*Biquad

	compressor *Compressor
	gain       *Gain
	analyser   *Analyser

	frames       [][2]float64
	disconnected bool
}

// Bind captures src and routes its output through a new graph.
func Bind(ctx audio.Context, src Source, opts Options) (*Graph, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: no audio context", ErrUnsupportedPlatform)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	analyser, err := NewAnalyser(ctx.SampleRate(), opts.Analyser)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPlatform, err)
	}

	in, err := src.CaptureSource()
	if err != nil {
		if errors.Is(err, player.ErrSourceCaptured) {
			return nil, ErrAlreadyBound
		}
		return nil, fmt.Errorf("capturing source: %w", err)
	}

	g := &Graph{
		in:         in,
		sampleRate: ctx.SampleRate(),
		log:        log,
		compressor: NewCompressor(ctx.SampleRate()),
		gain:       NewGain(1),
		analyser:   analyser,
	}
	g.setEqualizerLocked(opts.EQ, opts.EQEnabled)
	src.Route(g)

	log.Debug("graph bound", zap.Strings("stages", g.Stages()))
	return g, nil
}

// Stages lists stage names in processing order.
func (g *Graph) Stages() []string {
	g.mu.Lock()
	nodes := g.nodes()
	g.mu.Unlock()
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name()
	}
	return names
}

func (g *Graph) nodes() []Node {
	nodes := make([]Node, 0, len(g.filters)+3)
	for _, f := range g.filters {
		nodes = append(nodes, f)
	}
	return append(nodes, g.compressor, g.gain, g.analyser)
}

// Analyser returns the analyser tap.
func (g *Graph) Analyser() *Analyser { return g.analyser }

// SetEqualizer applies gains to the filter stages in place. Changing
// enablement rebuilds the stages: none when disabled.
func (g *Graph) SetEqualizer(gains eq.Gains, enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setEqualizerLocked(gains, enabled)
}

func (g *Graph) setEqualizerLocked(gains eq.Gains, enabled bool) {
	for i := range gains {
		gains[i] = eq.ClampGain(gains[i])
	}
	g.gains = gains

	if enabled != g.eqEnabled || (enabled && g.filters == nil) {
		g.eqEnabled = enabled
		g.filters = nil
		if enabled {
			for i, band := range eq.Bands() {
				g.filters = append(g.filters, NewBiquad(band, gains[i], g.sampleRate))
			}
		}
		return
	}
	for i, f := range g.filters {
		f.SetGain(gains[i])
	}
}

// Equalizer returns the current gains and enablement.
func (g *Graph) Equalizer() (eq.Gains, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gains, g.eqEnabled
}

// Reconfigure updates the EQ and analyser of a bound graph.
func (g *Graph) Reconfigure(opts Options) error {
	if err := g.analyser.Reconfigure(opts.Analyser); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedPlatform, err)
	}
	g.SetEqualizer(opts.EQ, opts.EQEnabled)
	return nil
}

// Disconnect detaches every stage; the graph outputs silence afterwards.
// It is safe to call more than once.
func (g *Graph) Disconnect() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disconnected {
		return
	}
	g.disconnected = true
	g.filters = nil
	g.log.Debug("graph disconnected")
}

// Connected reports whether Disconnect has not been called.
func (g *Graph) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.disconnected
}

// Read pulls s16le stereo PCM from the source and runs it through the stages.
func (g *Graph) Read(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disconnected {
		clear(p)
		return len(p), nil
	}

	const frameSize = 4
	want := len(p) / frameSize * frameSize
	if want == 0 {
		return 0, nil
	}
	n, err := g.in.Read(p[:want])
	if rem := n % frameSize; rem != 0 && err == nil {
		var k int
		k, err = io.ReadFull(g.in, p[n:n+frameSize-rem])
		n += k
	}
	n -= n % frameSize
	if n == 0 {
		return 0, err
	}

	count := n / frameSize
	if cap(g.frames) < count {
		g.frames = make([][2]float64, count)
	}
	frames := g.frames[:count]
	for i := range frames {
		frames[i][0] = float64(int16(binary.LittleEndian.Uint16(p[i*4:]))) / 32768
		frames[i][1] = float64(int16(binary.LittleEndian.Uint16(p[i*4+2:]))) / 32768
	}

	for _, node := range g.nodes() {
		node.Process(frames)
	}

	for i, f := range frames {
		for ch := 0; ch < 2; ch++ {
			v := math.Max(-32768, math.Min(32767, math.Round(f[ch]*32768)))
			binary.LittleEndian.PutUint16(p[i*4+ch*2:], uint16(int16(v)))
		}
	}
	return n, err
}
