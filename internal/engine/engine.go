// Package engine adapts a decode handle into a small transport API and turns
// the handle's events into notifications for the rest of the player.
package engine

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/playlist"
)

// Handle is the decode element the engine drives. *player.Element satisfies it.
type Handle interface {
	Load(src player.Source) uint64
	Play() error
	Pause()
	SeekTo(d time.Duration) error
	SetVolume(v float64)
	SetMuted(m bool)
	SetPlaybackRate(r float64) error
	Position() time.Duration
	Duration() time.Duration
	Paused() bool
}

// NotificationKind identifies what changed.
type NotificationKind int

const (
	Loading NotificationKind = iota
	Duration
	Position
	Playing
	Paused
	Ended
	Failed
)

func (k NotificationKind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Duration:
		return "duration"
	case Position:
		return "position"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Notification reports an engine state change.
type Notification struct {
	Kind     NotificationKind
	Position time.Duration
	Duration time.Duration
	Err      error
}

// Engine wraps a Handle. All methods, Dispatch included, run on one goroutine.
type Engine struct {
	h   Handle
	log *zap.Logger

	gen      uint64
	position time.Duration
	duration time.Duration
	volume   float64
	muted    bool
	rate     float64
	playing  bool
	err      error

	subs   map[int]func(Notification)
	nextID int
}

// New creates an engine over h with full volume.
func New(h Handle, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{h: h, log: log, volume: 1, rate: 1, subs: make(map[int]func(Notification))}
	h.SetVolume(e.volume)
	return e
}

// Subscribe registers fn for notifications and returns a function that
// removes it.
func (e *Engine) Subscribe(fn func(Notification)) func() {
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	return func() { delete(e.subs, id) }
}

func (e *Engine) notify(n Notification) {
	for i := 0; i < e.nextID; i++ {
		if fn, ok := e.subs[i]; ok {
			fn(n)
		}
	}
}

// Load points the handle at t's source and resets position, duration and error.
func (e *Engine) Load(t *playlist.Track) {
	e.position = 0
	e.duration = 0
	e.err = nil
	e.playing = false
	var src player.Source
	if t != nil {
		src = t.Source
	}
	e.gen = e.h.Load(src)
	e.log.Debug("load", zap.String("src", src.String()), zap.Uint64("gen", e.gen))
	e.notify(Notification{Kind: Loading})
}

// Play asks the handle to play. Failures, ErrPermissionBlocked included,
// are recorded and returned but not retried.
func (e *Engine) Play() error {
	if err := e.h.Play(); err != nil {
		e.err = err
		e.playing = false
		e.log.Warn("play failed", zap.Error(err))
		e.notify(Notification{Kind: Failed, Err: err})
		return err
	}
	e.err = nil
	e.playing = true
	return nil
}

// Pause pauses the handle.
func (e *Engine) Pause() {
	e.h.Pause()
	e.playing = false
}

// Seek moves to d clamped to [0, duration].
func (e *Engine) Seek(d time.Duration) {
	d = max(0, min(d, e.duration))
	if err := e.h.SeekTo(d); err != nil {
		e.log.Debug("seek ignored", zap.Duration("to", d), zap.Error(err))
		return
	}
	e.position = d
	e.notify(Notification{Kind: Position, Position: d, Duration: e.duration})
}

// SetVolume sets the volume clamped to [0, 1]. NaN is ignored.
func (e *Engine) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	e.volume = max(0, min(1, v))
	e.h.SetVolume(e.volume)
}

// SetMuted mutes or unmutes without touching the volume.
func (e *Engine) SetMuted(m bool) {
	e.muted = m
	e.h.SetMuted(m)
}

// ToggleMute flips mute; the volume is restored exactly on unmute.
func (e *Engine) ToggleMute() {
	e.SetMuted(!e.muted)
}

// SetPlaybackRate passes r to the handle.
func (e *Engine) SetPlaybackRate(r float64) error {
	if err := e.h.SetPlaybackRate(r); err != nil {
		return err
	}
	e.rate = r
	return nil
}

func (e *Engine) Position() time.Duration { return e.position }
func (e *Engine) Duration() time.Duration { return e.duration }
func (e *Engine) Volume() float64         { return e.volume }
func (e *Engine) Muted() bool             { return e.muted }
func (e *Engine) PlaybackRate() float64   { return e.rate }
func (e *Engine) Playing() bool           { return e.playing }
func (e *Engine) Err() error              { return e.err }
func (e *Engine) Generation() uint64      { return e.gen }

// Dispatch applies one handle event. Events from earlier loads are ignored.
func (e *Engine) Dispatch(ev player.Event) {
	if ev.Gen != e.gen {
		return
	}
	switch ev.Kind {
	case player.Metadata:
		e.duration = ev.Duration
		e.notify(Notification{Kind: Duration, Position: e.position, Duration: e.duration})
	case player.TimeUpdate:
		e.position = ev.Position
		e.notify(Notification{Kind: Position, Position: e.position, Duration: e.duration})
	case player.Play:
		e.playing = true
		e.notify(Notification{Kind: Playing, Position: e.position, Duration: e.duration})
	case player.Pause:
		e.playing = false
		e.notify(Notification{Kind: Paused, Position: e.position, Duration: e.duration})
	case player.Ended:
		e.playing = false
		if ev.Duration > 0 {
			e.duration = ev.Duration
		}
		e.position = e.duration
		e.notify(Notification{Kind: Ended, Position: e.position, Duration: e.duration})
	case player.Error:
		e.playing = false
		e.err = ev.Err
		e.log.Warn("playback error", zap.Error(ev.Err))
		e.notify(Notification{Kind: Failed, Err: ev.Err, Position: e.position, Duration: e.duration})
	}
}
