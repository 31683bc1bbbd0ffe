// Package playback is the transport state machine: it selects tracks from
// the playlist, drives the engine and reacts to its notifications.
package playback

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/olivier-w/waveplay/internal/engine"
	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/playlist"
)

// RestartThreshold is how far into a track Previous restarts it instead of
// moving back.
const RestartThreshold = 3 * time.Second

// State is a read-only view of the transport.
type State struct {
	Track    *playlist.Track
	Index    int
	Status   Status
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Rate     float64
	Shuffle  bool
	Repeat   RepeatMode
	Err      error
}

// Options configure a Machine.
type Options struct {
	Rand   *rand.Rand
	Logger *zap.Logger
}

// Machine owns the transport state. It is driven from one goroutine.
type Machine struct {
	eng  *engine.Engine
	list *playlist.Playlist
	rng  *rand.Rand
	log  *zap.Logger

	status  Status
	shuffle bool
	repeat  RepeatMode

	unsubscribe func()
	onChange    func(State)
}

// New creates a stopped machine over eng and list and subscribes to the
// engine's notifications.
func New(eng *engine.Engine, list *playlist.Playlist, opts Options) *Machine {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	m := &Machine{eng: eng, list: list, rng: opts.Rand, log: opts.Logger}
	m.unsubscribe = eng.Subscribe(m.HandleNotification)
	return m
}

// OnChange registers fn to run after every state change.
func (m *Machine) OnChange(fn func(State)) { m.onChange = fn }

// Detach stops listening to the engine.
func (m *Machine) Detach() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Machine) changed() {
	if m.onChange != nil {
		m.onChange(m.State())
	}
}

// State returns a snapshot of the transport.
func (m *Machine) State() State {
	return State{
		Track:    m.list.Current(),
		Index:    m.list.CurrentIndex(),
		Status:   m.status,
		Position: m.eng.Position(),
		Duration: m.eng.Duration(),
		Volume:   m.eng.Volume(),
		Muted:    m.eng.Muted(),
		Rate:     m.eng.PlaybackRate(),
		Shuffle:  m.shuffle,
		Repeat:   m.repeat,
		Err:      m.eng.Err(),
	}
}

func (m *Machine) Status() Status               { return m.status }
func (m *Machine) Shuffle() bool                { return m.shuffle }
func (m *Machine) Repeat() RepeatMode           { return m.repeat }
func (m *Machine) Playlist() *playlist.Playlist { return m.list }

// load makes track i current and points the engine at it, playing it when
// play is set.
func (m *Machine) load(i int, play bool) error {
	if !m.list.SetCurrent(i) {
		return player.ErrNoSource
	}
	t := m.list.Current()
	m.log.Debug("select", zap.Int("index", i), zap.String("title", t.Title))
	m.eng.Load(t)
	if !play {
		if m.status == Playing {
			m.status = Paused
		}
		m.changed()
		return nil
	}
	return m.play()
}

func (m *Machine) play() error {
	err := m.eng.Play()
	if err == nil {
		m.status = Playing
	} else if m.status == Playing {
		m.status = Paused
	}
	m.changed()
	return err
}

// Select makes track i current and starts playing it.
func (m *Machine) Select(i int) error {
	return m.load(i, true)
}

// Play starts or resumes playback, loading the first track if none is
// selected. A blocked play is returned and not retried.
func (m *Machine) Play() error {
	if m.list.Current() == nil {
		if m.list.Len() == 0 {
			return player.ErrNoSource
		}
		return m.load(0, true)
	}
	return m.play()
}

// Pause pauses playback, keeping the position.
func (m *Machine) Pause() {
	if m.status != Playing {
		return
	}
	m.eng.Pause()
	m.status = Paused
	m.changed()
}

// TogglePlay flips between playing and paused.
func (m *Machine) TogglePlay() error {
	if m.status == Playing {
		m.Pause()
		return nil
	}
	return m.Play()
}

// Stop pauses and rewinds the current track.
func (m *Machine) Stop() {
	m.eng.Pause()
	m.eng.Seek(0)
	m.status = Stopped
	m.changed()
}

// Seek moves within the current track.
func (m *Machine) Seek(d time.Duration) {
	if m.list.Current() == nil {
		return
	}
	m.eng.Seek(d)
	m.changed()
}

// nextIndex picks the track after the current one. Shuffle draws uniformly
// from the whole list, the current track included.
func (m *Machine) nextIndex() int {
	n := m.list.Len()
	if m.shuffle {
		return m.rng.Intn(n)
	}
	return (m.list.CurrentIndex() + 1) % n
}

func (m *Machine) prevIndex() int {
	n := m.list.Len()
	if m.shuffle {
		return m.rng.Intn(n)
	}
	cur := m.list.CurrentIndex()
	if cur < 0 {
		return n - 1
	}
	return (cur - 1 + n) % n
}

// Next moves to the next track, continuing playback if it was playing.
func (m *Machine) Next() error {
	if m.list.Len() == 0 {
		return player.ErrNoSource
	}
	return m.load(m.nextIndex(), m.status == Playing)
}

// Previous restarts the current track when more than RestartThreshold has
// played, otherwise moves to the previous track.
func (m *Machine) Previous() error {
	if m.list.Len() == 0 {
		return player.ErrNoSource
	}
	if m.list.Current() != nil && m.eng.Position() > RestartThreshold {
		m.eng.Seek(0)
		m.changed()
		return nil
	}
	return m.load(m.prevIndex(), m.status == Playing)
}

// SetVolume sets the volume, clamped to [0, 1].
func (m *Machine) SetVolume(v float64) {
	m.eng.SetVolume(v)
	m.changed()
}

// AdjustVolume changes the volume by delta.
func (m *Machine) AdjustVolume(delta float64) {
	m.SetVolume(m.eng.Volume() + delta)
}

// ToggleMute mutes or restores the previous volume.
func (m *Machine) ToggleMute() {
	m.eng.ToggleMute()
	m.changed()
}

// ToggleShuffle flips shuffle and returns the new setting.
func (m *Machine) ToggleShuffle() bool {
	m.shuffle = !m.shuffle
	m.changed()
	return m.shuffle
}

// CycleRepeat advances the repeat mode and returns it.
func (m *Machine) CycleRepeat() RepeatMode {
	m.repeat = m.repeat.Next()
	m.changed()
	return m.repeat
}

// SetPlaybackRate changes the playback speed.
func (m *Machine) SetPlaybackRate(r float64) error {
	if err := m.eng.SetPlaybackRate(r); err != nil {
		return err
	}
	m.changed()
	return nil
}

// Remove deletes track i and releases its resources. Removing the current
// track stops playback and unloads it first.
func (m *Machine) Remove(i int) bool {
	if i < 0 || i >= m.list.Len() {
		return false
	}
	if i == m.list.CurrentIndex() {
		m.eng.Pause()
		m.eng.Load(nil)
		m.list.Deselect()
		m.status = Stopped
	}
	ok := m.list.Remove(i)
	m.changed()
	return ok
}

// HandleNotification applies one engine notification.
func (m *Machine) HandleNotification(n engine.Notification) {
	switch n.Kind {
	case engine.Duration:
		m.list.SetDuration(m.list.CurrentIndex(), n.Duration)
	case engine.Playing:
		m.status = Playing
	case engine.Paused:
		if m.status == Playing {
			m.status = Paused
		}
	case engine.Ended:
		m.ended()
		return
	case engine.Failed:
		var decErr *player.DecodeError
		switch {
		case errors.As(n.Err, &decErr):
			m.status = Stopped
		case m.status == Playing:
			m.status = Paused
		}
	}
	m.changed()
}

func (m *Machine) ended() {
	last := m.list.CurrentIndex() == m.list.Len()-1
	var err error
	switch {
	case m.repeat == RepeatOne:
		m.eng.Seek(0)
		err = m.play()
	case m.repeat == RepeatAll || !last:
		err = m.load(m.nextIndex(), true)
	default:
		m.status = Stopped
		m.changed()
	}
	if err != nil {
		m.log.Warn("continuing after track end", zap.Error(err))
	}
}
