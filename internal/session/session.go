// Package session owns one player instance: the audio context, the decode
// element and its processing graph, the transport and the animation loop.
// Everything it creates is torn down by Close in reverse dependency order.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/olivier-w/waveplay/internal/anim"
	"github.com/olivier-w/waveplay/internal/audio"
	"github.com/olivier-w/waveplay/internal/blob"
	"github.com/olivier-w/waveplay/internal/config"
	"github.com/olivier-w/waveplay/internal/engine"
	"github.com/olivier-w/waveplay/internal/eq"
	"github.com/olivier-w/waveplay/internal/graph"
	"github.com/olivier-w/waveplay/internal/playback"
	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/playlist"
	"github.com/olivier-w/waveplay/internal/spectrum"
	"github.com/olivier-w/waveplay/internal/upload"
)

// ContextFactory opens an audio output.
type ContextFactory func(sampleRate, channels int) (audio.Context, error)

// Options configure a Session.
type Options struct {
	Config config.Config
	Tracks []playlist.Track
	Logger *zap.Logger
	Rand   *rand.Rand

	// NewContext defaults to audio.NewContext.
	NewContext ContextFactory
}

// Session is a running player. Apart from Close, its methods are called
// from the UI goroutine.
type Session struct {
	log    *zap.Logger
	blobs  *blob.Store
	actx   audio.Context
	silent bool

	el      *player.Element
	handle  *graph.Handle
	graph   *graph.Graph
	eng     *engine.Engine
	list    *playlist.Playlist
	machine *playback.Machine
	eq      *eq.Equalizer
	sampler *spectrum.Sampler
	loop    *anim.Loop

	importer    *upload.Importer
	watcher     *upload.Watcher
	stopWatcher context.CancelFunc

	onChange func(playback.State)
	closed   bool
}

// New builds a session. An output that cannot be opened falls back to a
// silent context; a graph that cannot be bound leaves the visualizer
// degraded. Neither stops playback.
func New(opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	newContext := opts.NewContext
	if newContext == nil {
		newContext = audio.NewContext
	}

	blobs, err := blob.NewStore()
	if err != nil {
		return nil, fmt.Errorf("creating blob store: %w", err)
	}

	s := &Session{log: log, blobs: blobs}

	s.actx, err = newContext(player.OutputSampleRate, player.OutputChannels)
	if err != nil {
		if !errors.Is(err, audio.ErrUnsupportedPlatform) {
			blobs.ReleaseAll()
			return nil, fmt.Errorf("opening audio output: %w", err)
		}
		log.Warn("audio output unavailable, playing silently", zap.Error(err))
		s.actx = audio.NewSilentContext(player.OutputSampleRate, player.OutputChannels)
		s.silent = true
	}

	s.el = player.New(s.actx, player.Options{Blobs: blobs, Logger: log.Named("player")})
	s.handle = graph.NewHandle(s.actx, s.el)

	s.eq = eq.New()
	if cfg.EQPreset != "" {
		if err := s.eq.ApplyPreset(cfg.EQPreset); err != nil {
			log.Warn("ignoring eq preset", zap.Error(err))
		}
	}
	s.eq.SetEnabled(cfg.EQEnabled)

	gopts := graph.DefaultOptions()
	if cfg.FFTSize > 0 {
		gopts.Analyser.FFTSize = cfg.FFTSize
	}
	gopts.EQ = s.eq.Gains()
	gopts.EQEnabled = s.eq.Enabled()
	gopts.Logger = log.Named("graph")

	s.sampler = spectrum.NewSampler(nil)
	if g, err := s.handle.Graph(gopts); err != nil {
		log.Warn("audio graph unavailable, visualizer degraded", zap.Error(err))
	} else {
		s.graph = g
		s.sampler.SetSource(g.Analyser())
		s.eq.OnChange(g.SetEqualizer)
	}

	s.loop = anim.New(cfg.FPS)
	s.eng = engine.New(s.el, log.Named("engine"))
	s.list = playlist.New(opts.Tracks)
	s.machine = playback.New(s.eng, s.list, playback.Options{Rand: opts.Rand, Logger: log.Named("playback")})
	s.machine.OnChange(s.stateChanged)
	s.machine.SetVolume(cfg.Volume)

	s.importer = upload.NewImporter(blobs, log.Named("upload"))

	if cfg.DropDir != "" {
		w, err := upload.NewWatcher(cfg.DropDir, s.importer, log.Named("watcher"))
		if err != nil {
			log.Warn("drop folder disabled", zap.String("dir", cfg.DropDir), zap.Error(err))
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			s.watcher, s.stopWatcher = w, cancel
			go w.Run(ctx)
		}
	}

	log.Info("session started",
		zap.Bool("silent", s.silent),
		zap.Bool("degraded", s.Degraded()),
		zap.Int("tracks", s.list.Len()))
	return s, nil
}

// stateChanged keeps the animation loop running only while playing.
func (s *Session) stateChanged(st playback.State) {
	if st.Status == playback.Playing {
		s.loop.Start()
	} else {
		s.loop.Stop()
	}
	if s.onChange != nil {
		s.onChange(st)
	}
}

// OnChange registers fn to run after every transport change.
func (s *Session) OnChange(fn func(playback.State)) { s.onChange = fn }

func (s *Session) Machine() *playback.Machine   { return s.machine }
func (s *Session) Playlist() *playlist.Playlist { return s.list }
func (s *Session) Equalizer() *eq.Equalizer     { return s.eq }
func (s *Session) Sampler() *spectrum.Sampler   { return s.sampler }
func (s *Session) Loop() *anim.Loop             { return s.loop }
func (s *Session) Graph() *graph.Graph          { return s.graph }

// Silent reports whether output fell back to the silent context.
func (s *Session) Silent() bool { return s.silent }

// Degraded reports whether the visualizer has no analyser.
func (s *Session) Degraded() bool { return s.sampler.Degraded() }

// Events returns the element's event stream. Each event must be passed to
// Dispatch on the UI goroutine. The channel closes after Close.
func (s *Session) Events() <-chan player.Event { return s.el.Events() }

// Dispatch applies one element event to the engine and transport.
func (s *Session) Dispatch(ev player.Event) { s.eng.Dispatch(ev) }

// DropResults delivers imports from the drop folder, or nil when no folder
// is watched.
func (s *Session) DropResults() <-chan upload.Result {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Results()
}

// DropDir returns the watched folder, or "".
func (s *Session) DropDir() string {
	if s.watcher == nil {
		return ""
	}
	return s.watcher.Dir()
}

// Import validates paths and appends the accepted files to the playlist.
func (s *Session) Import(paths []string) upload.Result {
	res := s.ImportFiles(paths)
	s.Add(res.Tracks)
	return res
}

// ImportFiles validates and stores paths without touching the playlist. It
// is safe to call from any goroutine.
func (s *Session) ImportFiles(paths []string) upload.Result {
	return s.importer.Import(paths)
}

// Add appends tracks to the playlist.
func (s *Session) Add(tracks []playlist.Track) {
	for _, t := range tracks {
		s.list.Add(t)
	}
	if len(tracks) > 0 && s.onChange != nil {
		s.onChange(s.machine.State())
	}
}

// SetFFTSize resizes the analyser.
func (s *Session) SetFFTSize(n int) error {
	if s.graph == nil {
		return fmt.Errorf("%w: no audio graph", audio.ErrUnsupportedPlatform)
	}
	gains, enabled := s.graph.Equalizer()
	opts := graph.DefaultOptions()
	opts.Analyser.FFTSize = n
	opts.EQ, opts.EQEnabled = gains, enabled
	_, err := s.handle.Graph(opts)
	return err
}

// Close tears the session down: animation, graph, element, audio context,
// then blobs. Later calls are no-ops.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.loop.Stop()
	if s.stopWatcher != nil {
		s.stopWatcher()
	}
	s.machine.Detach()

	var errs []error
	if err := s.handle.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing element: %w", err))
	}
	if err := s.actx.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing audio: %w", err))
	}
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing watcher: %w", err))
		}
	}
	s.list.CleanupAll()
	if err := s.blobs.ReleaseAll(); err != nil {
		errs = append(errs, fmt.Errorf("releasing blobs: %w", err))
	}
	err := errors.Join(errs...)
	if err != nil {
		s.log.Warn("session teardown", zap.Error(err))
	}
	s.log.Info("session closed")
	return err
}
