// Package player is the decode handle behind playback: it opens a source,
// decodes it to PCM, feeds an audio sink and reports progress as events.
package player

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/olivier-w/waveplay/internal/audio"
	"github.com/olivier-w/waveplay/internal/blob"
)

// timeUpdateInterval is how often a playing element reports its position.
const timeUpdateInterval = 250 * time.Millisecond

// Options configure an Element.
type Options struct {
	// Blobs receives fetched remote sources. Remote sources fail without it.
	Blobs  *blob.Store
	Client *http.Client
	Logger *zap.Logger
}

// Element plays one source at a time through an audio context.
type Element struct {
	ctx    audio.Context
	fetch  fetcher
	log    *zap.Logger
	events *eventQueue

	mu          sync.Mutex
	gen         uint64
	src         Source
	loading     bool
	loadErr     error
	cancelLoad  context.CancelFunc
	file        io.Closer
	fetched     *blob.Ref
	stream      *stream
	sink        audio.Sink
	paused      bool
	pendingPlay bool
	volume      float64
	muted       bool
	rate        float64
	captured    bool
	closed      bool
	stopMon     chan struct{}

	// pmu guards what the audio thread reads from.
	pmu   sync.Mutex
	route io.Reader
	live  *stream
}

// New creates an idle element on ctx.
func New(ctx audio.Context, opts Options) *Element {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Element{
		ctx:    ctx,
		fetch:  fetcher{client: opts.Client, store: opts.Blobs},
		log:    log,
		events: newEventQueue(),
		paused: true,
		volume: 1,
		rate:   1,
	}
}

// Events returns the element's event stream. It closes after Close.
func (e *Element) Events() <-chan Event {
	return e.events.out
}

// Load replaces the current source and starts opening it in the background.
// It returns the new load generation.
func (e *Element) Load(src Source) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return e.gen
	}

	e.unloadLocked()
	e.gen++
	gen := e.gen
	e.src = src
	e.loadErr = nil
	e.paused = true
	e.pendingPlay = false
	e.loading = !src.IsZero()
	e.events.push(Event{Kind: LoadStart, Gen: gen})

	if e.loading {
		ctx, cancel := context.WithCancel(context.Background())
		e.cancelLoad = cancel
		go e.open(ctx, gen, src)
	}
	return gen
}

func (e *Element) open(ctx context.Context, gen uint64, src Source) {
	st, file, fetched, err := e.openSource(ctx, src)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.gen {
		if file != nil {
			file.Close()
		}
		if fetched != nil {
			_ = e.fetch.store.Release(fetched)
		}
		return
	}

	e.loading = false
	if err != nil {
		derr := &DecodeError{Src: src.String(), Err: err}
		e.log.Warn("load failed", zap.String("src", src.String()), zap.Error(err))
		e.loadErr = derr
		e.paused = true
		e.pendingPlay = false
		e.events.push(Event{Kind: Error, Gen: gen, Err: derr})
		return
	}

	st.setRate(e.rate)
	st.setGain(e.volume, e.muted)
	e.stream = st
	e.file = file
	e.fetched = fetched
	e.pmu.Lock()
	e.live = st
	e.pmu.Unlock()
	e.sink = e.ctx.NewSink(output{e})

	e.log.Debug("loaded", zap.String("src", src.String()), zap.Duration("duration", st.duration()))
	e.events.push(Event{Kind: Metadata, Gen: gen, Duration: st.duration()})

	e.stopMon = make(chan struct{})
	go e.monitor(gen, e.stopMon)

	if e.pendingPlay {
		e.pendingPlay = false
		e.sink.Play()
	}
}

func (e *Element) openSource(ctx context.Context, src Source) (*stream, io.Closer, *blob.Ref, error) {
	var fetched *blob.Ref
	path, ok := src.LocalPath()
	if !ok {
		if !src.Remote() {
			return nil, nil, nil, fmt.Errorf("unrecognised source %q", src.String())
		}
		ref, err := e.fetch.fetch(ctx, src.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		fetched = ref
		path = ref.Path
	}

	release := func() {
		if fetched != nil {
			_ = e.fetch.store.Release(fetched)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		release()
		return nil, nil, nil, err
	}
	dec, err := newDecoder(f, src.Ext())
	if err != nil {
		f.Close()
		release()
		return nil, nil, nil, err
	}
	if dec.SampleRate() <= 0 || dec.ChannelCount() < 1 {
		f.Close()
		release()
		return nil, nil, nil, fmt.Errorf("unsupported stream: %d Hz, %d channels", dec.SampleRate(), dec.ChannelCount())
	}
	return newStream(dec), f, fetched, nil
}

// unloadLocked tears down the current source. Callers hold e.mu.
func (e *Element) unloadLocked() {
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	if e.stopMon != nil {
		close(e.stopMon)
		e.stopMon = nil
	}
	if e.sink != nil {
		e.sink.Pause()
		e.sink = nil
	}
	e.pmu.Lock()
	e.live = nil
	e.pmu.Unlock()
	e.stream = nil
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	if e.fetched != nil {
		_ = e.fetch.store.Release(e.fetched)
		e.fetched = nil
	}
}

func (e *Element) monitor(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(timeUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		e.mu.Lock()
		if e.closed || gen != e.gen || e.stream == nil || e.paused {
			e.mu.Unlock()
			continue
		}
		st := e.stream
		pos := st.position()
		if st.isEnded() || pos >= st.duration() {
			e.paused = true
			e.sink.Pause()
			e.events.push(Event{Kind: TimeUpdate, Gen: gen, Position: st.duration()})
			e.events.push(Event{Kind: Ended, Gen: gen, Position: st.duration(), Duration: st.duration()})
		} else {
			e.events.push(Event{Kind: TimeUpdate, Gen: gen, Position: pos})
		}
		e.mu.Unlock()
	}
}

// Play starts or resumes playback. A suspended audio context is resumed
// first; if that fails the error wraps ErrPermissionBlocked. Playing while
// the source is still opening defers the start until it is ready.
func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.src.IsZero() {
		return ErrNoSource
	}
	if e.loadErr != nil {
		return e.loadErr
	}
	if e.ctx.State() != audio.Running {
		if err := e.ctx.Resume(); err != nil {
			return fmt.Errorf("%w: %v", ErrPermissionBlocked, err)
		}
	}
	if !e.paused {
		return nil
	}

	e.paused = false
	if e.stream == nil {
		e.pendingPlay = true
		e.events.push(Event{Kind: Play, Gen: e.gen})
		return nil
	}
	if e.stream.isEnded() {
		if err := e.stream.seek(0); err != nil {
			e.paused = true
			return err
		}
		e.resetSinkLocked()
		e.events.push(Event{Kind: TimeUpdate, Gen: e.gen, Position: 0})
	}
	e.sink.Play()
	e.events.push(Event{Kind: Play, Gen: e.gen, Position: e.stream.position()})
	return nil
}

// Pause stops output and keeps the position.
func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.paused {
		return
	}
	e.paused = true
	e.pendingPlay = false
	ev := Event{Kind: Pause, Gen: e.gen}
	if e.sink != nil {
		e.sink.Pause()
		ev.Position = e.stream.position()
	}
	e.events.push(ev)
}

// SeekTo moves playback to d, clamped to the source length.
func (e *Element) SeekTo(d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.stream == nil {
		return ErrNoSource
	}
	if err := e.stream.seek(d); err != nil {
		return fmt.Errorf("seeking: %w", err)
	}
	e.resetSinkLocked()
	if !e.paused {
		e.sink.Play()
	}
	e.events.push(Event{Kind: TimeUpdate, Gen: e.gen, Position: e.stream.position()})
	return nil
}

// resetSinkLocked replaces the sink so audio buffered before a seek is dropped.
func (e *Element) resetSinkLocked() {
	if e.sink != nil {
		e.sink.Pause()
	}
	e.sink = e.ctx.NewSink(output{e})
}

// SetVolume sets the output volume, clamped to [0, 1].
func (e *Element) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = max(0, min(1, v))
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = v
	if e.stream != nil {
		e.stream.setGain(e.volume, e.muted)
	}
}

// SetMuted silences output without touching the volume.
func (e *Element) SetMuted(m bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = m
	if e.stream != nil {
		e.stream.setGain(e.volume, e.muted)
	}
}

// SetPlaybackRate changes speed; pitch follows. Rates must be positive.
func (e *Element) SetPlaybackRate(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, r)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = r
	if e.stream != nil {
		e.stream.setRate(r)
	}
	return nil
}

func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Element) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *Element) PlaybackRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

// Paused reports whether the element is paused. A fresh element is paused.
func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Position returns the current playback position.
func (e *Element) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream == nil {
		return 0
	}
	return e.stream.position()
}

// Duration returns the loaded source's length, or 0 before metadata.
func (e *Element) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream == nil {
		return 0
	}
	return e.stream.duration()
}

// Generation returns the current load generation.
func (e *Element) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

// SampleRate is the rate of the PCM the element produces.
func (e *Element) SampleRate() int { return OutputSampleRate }

// CaptureSource hands out the element's decoded PCM for external
// processing. An element can be captured once.
func (e *Element) CaptureSource() (io.Reader, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.captured {
		return nil, ErrSourceCaptured
	}
	e.captured = true
	return source{e}, nil
}

// Route makes the sink pull from r instead of the decoded stream.
// Route(nil) restores the direct path.
func (e *Element) Route(r io.Reader) {
	e.pmu.Lock()
	e.route = r
	e.pmu.Unlock()
}

// Close stops playback and releases the source. The event channel closes
// once pending events are delivered.
func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.paused = true
	e.unloadLocked()
	e.events.close()
	return nil
}

// source reads the live decoded stream.
type source struct{ e *Element }

func (s source) Read(p []byte) (int, error) {
	s.e.pmu.Lock()
	st := s.e.live
	s.e.pmu.Unlock()
	if st == nil {
		return 0, io.EOF
	}
	return st.Read(p)
}

// output is what the sink pulls: the route when set, else the stream.
type output struct{ e *Element }

func (o output) Read(p []byte) (int, error) {
	o.e.pmu.Lock()
	r := o.e.route
	o.e.pmu.Unlock()
	if r != nil {
		return r.Read(p)
	}
	return source(o).Read(p)
}
