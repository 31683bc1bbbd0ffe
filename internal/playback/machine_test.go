package playback

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/olivier-w/waveplay/internal/engine"
	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/playlist"
)

type fakeHandle struct {
	gen     uint64
	src     player.Source
	loads   []player.Source
	seeks   []time.Duration
	paused  bool
	playErr error
	volume  float64
	muted   bool
	rate    float64
}

func (h *fakeHandle) Load(src player.Source) uint64 {
	h.gen++
	h.src = src
	h.loads = append(h.loads, src)
	h.paused = true
	return h.gen
}

func (h *fakeHandle) Play() error {
	if h.playErr != nil {
		return h.playErr
	}
	h.paused = false
	return nil
}

func (h *fakeHandle) Pause() { h.paused = true }

func (h *fakeHandle) SeekTo(d time.Duration) error {
	h.seeks = append(h.seeks, d)
	return nil
}

func (h *fakeHandle) SetVolume(v float64) { h.volume = v }
func (h *fakeHandle) SetMuted(m bool)     { h.muted = m }

func (h *fakeHandle) SetPlaybackRate(r float64) error {
	h.rate = r
	return nil
}

func (h *fakeHandle) Position() time.Duration { return 0 }
func (h *fakeHandle) Duration() time.Duration { return 0 }
func (h *fakeHandle) Paused() bool            { return h.paused }

func newRig(n int, seed int64) (*Machine, *engine.Engine, *fakeHandle) {
	tracks := make([]playlist.Track, n)
	for i := range tracks {
		tracks[i] = playlist.Track{
			Title:  fmt.Sprintf("track %d", i),
			Source: player.Source{URL: fmt.Sprintf("file:///music/%d.wav", i)},
		}
	}
	h := &fakeHandle{}
	eng := engine.New(h, nil)
	m := New(eng, playlist.New(tracks), Options{Rand: rand.New(rand.NewSource(seed))})
	return m, eng, h
}

func send(e *engine.Engine, kind player.EventKind, pos, dur time.Duration) {
	e.Dispatch(player.Event{Kind: kind, Gen: e.Generation(), Position: pos, Duration: dur})
}

func TestPlayEmptyPlaylist(t *testing.T) {
	m, _, _ := newRig(0, 1)
	if err := m.Play(); !errors.Is(err, player.ErrNoSource) {
		t.Fatalf("Play on empty playlist = %v, want ErrNoSource", err)
	}
	if err := m.Next(); !errors.Is(err, player.ErrNoSource) {
		t.Fatalf("Next on empty playlist = %v, want ErrNoSource", err)
	}
}

func TestPlayLoadsFirstTrack(t *testing.T) {
	m, _, h := newRig(3, 1)
	if err := m.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	st := m.State()
	if st.Index != 0 || st.Status != Playing || h.paused {
		t.Fatalf("state = %+v, handle paused %v", st, h.paused)
	}
	if h.src.URL != "file:///music/0.wav" {
		t.Fatalf("loaded %q", h.src.URL)
	}
}

func TestNextAndPreviousCycle(t *testing.T) {
	for n := 1; n <= 5; n++ {
		m, _, _ := newRig(n, 1)
		if err := m.Select(0); err != nil {
			t.Fatalf("Select: %v", err)
		}
		for i := 1; i <= n; i++ {
			m.Next()
			if i < n && m.State().Index != i {
				t.Fatalf("len %d: after %d Next index = %d", n, i, m.State().Index)
			}
		}
		if idx := m.State().Index; idx != 0 {
			t.Fatalf("len %d: Next x%d ended at %d, want 0", n, n, idx)
		}
		for range n {
			m.Previous()
		}
		if idx := m.State().Index; idx != 0 {
			t.Fatalf("len %d: Previous x%d ended at %d, want 0", n, n, idx)
		}
	}
}

func TestPreviousWrapsToLast(t *testing.T) {
	m, _, _ := newRig(4, 1)
	m.Select(0)
	m.Previous()
	if idx := m.State().Index; idx != 3 {
		t.Fatalf("index = %d, want 3", idx)
	}
}

func TestShuffleCoversEveryIndex(t *testing.T) {
	m, _, _ := newRig(5, 42)
	m.Select(2)
	if !m.ToggleShuffle() {
		t.Fatal("shuffle should be on")
	}
	seen := make(map[int]bool)
	for range 500 {
		m.Next()
		idx := m.State().Index
		if idx < 0 || idx >= 5 {
			t.Fatalf("shuffle index %d out of range", idx)
		}
		seen[idx] = true
		m.Previous()
		idx = m.State().Index
		if idx < 0 || idx >= 5 {
			t.Fatalf("shuffle previous index %d out of range", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 5 {
		t.Fatalf("shuffle reached %d of 5 indices", len(seen))
	}
}

func TestPreviousRestartsAfterThreshold(t *testing.T) {
	m, e, h := newRig(3, 1)
	m.Select(1)
	send(e, player.Metadata, 0, 10*time.Second)
	send(e, player.TimeUpdate, 4*time.Second, 0)

	m.Previous()
	if idx := m.State().Index; idx != 1 {
		t.Fatalf("index = %d, want 1 after restart", idx)
	}
	if len(h.seeks) == 0 || h.seeks[len(h.seeks)-1] != 0 {
		t.Fatalf("seeks = %v, want a seek to 0", h.seeks)
	}
	if pos := m.State().Position; pos != 0 {
		t.Fatalf("position = %v, want 0", pos)
	}

	send(e, player.TimeUpdate, RestartThreshold, 0)
	m.Previous()
	if idx := m.State().Index; idx != 0 {
		t.Fatalf("index = %d, want 0 at exactly the threshold", idx)
	}
}

func TestRepeatCycle(t *testing.T) {
	m, _, _ := newRig(1, 1)
	want := []RepeatMode{RepeatAll, RepeatOne, RepeatOff}
	for _, w := range want {
		if got := m.CycleRepeat(); got != w {
			t.Fatalf("CycleRepeat = %v, want %v", got, w)
		}
	}
}

func TestEndedRepeatOneReplays(t *testing.T) {
	m, e, h := newRig(2, 1)
	m.Select(0)
	m.CycleRepeat()
	m.CycleRepeat()
	send(e, player.Metadata, 0, 5*time.Second)
	send(e, player.Pause, 0, 0)
	send(e, player.Ended, 5*time.Second, 5*time.Second)

	st := m.State()
	if st.Index != 0 || st.Status != Playing {
		t.Fatalf("state = %+v, want track 0 playing", st)
	}
	if h.seeks[len(h.seeks)-1] != 0 {
		t.Fatalf("seeks = %v, want rewind", h.seeks)
	}
	if len(h.loads) != 1 {
		t.Fatalf("repeat one reloaded the track: %d loads", len(h.loads))
	}
}

func TestEndedAdvancesAndWraps(t *testing.T) {
	m, e, _ := newRig(2, 1)
	m.Select(0)
	send(e, player.Ended, 0, time.Second)
	if st := m.State(); st.Index != 1 || st.Status != Playing {
		t.Fatalf("after first end: %+v", st)
	}

	m.CycleRepeat() // all
	send(e, player.Ended, 0, time.Second)
	if st := m.State(); st.Index != 0 || st.Status != Playing {
		t.Fatalf("repeat all did not wrap: %+v", st)
	}
}

func TestEndToEndStopsAtDuration(t *testing.T) {
	m, e, _ := newRig(1, 1)
	var changes int
	m.OnChange(func(State) { changes++ })

	if err := m.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if d := m.State().Duration; d != 0 {
		t.Fatalf("duration before metadata = %v", d)
	}
	send(e, player.Metadata, 0, 2*time.Second)
	if d := m.State().Duration; d != 2*time.Second {
		t.Fatalf("duration = %v, want 2s", d)
	}
	if d := m.Playlist().Track(0).Duration; d != 2*time.Second {
		t.Fatalf("track duration = %v, want 2s", d)
	}

	last := time.Duration(-1)
	for _, p := range []time.Duration{250 * time.Millisecond, 900 * time.Millisecond, 1500 * time.Millisecond, 1990 * time.Millisecond} {
		send(e, player.TimeUpdate, p, 0)
		pos := m.State().Position
		if pos <= last {
			t.Fatalf("position went from %v to %v", last, pos)
		}
		last = pos
	}

	send(e, player.Pause, 0, 0)
	send(e, player.TimeUpdate, 2*time.Second, 0)
	send(e, player.Ended, 2*time.Second, 2*time.Second)

	st := m.State()
	if st.Status != Stopped {
		t.Fatalf("status = %v, want stopped", st.Status)
	}
	if st.Position != st.Duration || st.Duration != 2*time.Second {
		t.Fatalf("position %v, duration %v; want both 2s", st.Position, st.Duration)
	}
	if st.Track == nil || st.Index != 0 {
		t.Fatalf("last track not held: %+v", st)
	}
	if changes == 0 {
		t.Fatal("OnChange never fired")
	}
}

func TestDecodeErrorStops(t *testing.T) {
	m, e, _ := newRig(2, 1)
	m.Select(0)
	e.Dispatch(player.Event{
		Kind: player.Error,
		Gen:  e.Generation(),
		Err:  &player.DecodeError{Src: "0.wav", Err: player.ErrUnsupportedFormat},
	})
	st := m.State()
	if st.Status != Stopped {
		t.Fatalf("status = %v, want stopped", st.Status)
	}
	var decErr *player.DecodeError
	if !errors.As(st.Err, &decErr) {
		t.Fatalf("state error = %v, want DecodeError", st.Err)
	}
	if st.Index != 0 {
		t.Fatalf("index moved to %d; decode errors must not auto-advance", st.Index)
	}
}

func TestBlockedPlayIsSurfaced(t *testing.T) {
	m, _, h := newRig(1, 1)
	h.playErr = fmt.Errorf("resume: %w", player.ErrPermissionBlocked)
	err := m.Play()
	if !errors.Is(err, player.ErrPermissionBlocked) {
		t.Fatalf("Play = %v, want ErrPermissionBlocked", err)
	}
	if m.Status() == Playing {
		t.Fatal("status playing after blocked play")
	}

	h.playErr = nil
	if err := m.Play(); err != nil || m.Status() != Playing {
		t.Fatalf("retry: err %v status %v", err, m.Status())
	}
}

func TestNextKeepsPausedState(t *testing.T) {
	m, _, h := newRig(3, 1)
	m.Select(0)
	m.Pause()
	m.Next()
	if m.Status() != Paused || !h.paused {
		t.Fatalf("status %v paused %v, want paused", m.Status(), h.paused)
	}
	if m.State().Index != 1 {
		t.Fatalf("index = %d", m.State().Index)
	}
}

func TestStopRewinds(t *testing.T) {
	m, e, h := newRig(1, 1)
	m.Play()
	send(e, player.Metadata, 0, 3*time.Second)
	send(e, player.TimeUpdate, time.Second, 0)
	m.Stop()
	if m.Status() != Stopped || !h.paused || m.State().Position != 0 {
		t.Fatalf("stop left %+v", m.State())
	}
}

func TestRemoveCurrentUnloads(t *testing.T) {
	m, _, h := newRig(3, 1)
	released := false
	m.Playlist().Track(1).Cleanup = func() { released = true }
	m.Select(1)
	if !m.Remove(1) {
		t.Fatal("Remove returned false")
	}
	if !released {
		t.Fatal("cleanup did not run")
	}
	if !h.src.IsZero() {
		t.Fatalf("handle still loaded with %v", h.src)
	}
	st := m.State()
	if st.Status != Stopped || st.Track != nil || m.Playlist().Len() != 2 {
		t.Fatalf("state after remove = %+v", st)
	}
}

func TestVolumeMuteAndRate(t *testing.T) {
	m, _, h := newRig(1, 1)
	m.SetVolume(0.4)
	m.ToggleMute()
	m.ToggleMute()
	if st := m.State(); st.Volume != 0.4 || st.Muted {
		t.Fatalf("state = %+v", st)
	}
	m.AdjustVolume(2)
	if v := m.State().Volume; v != 1 {
		t.Fatalf("volume = %v, want 1", v)
	}
	if err := m.SetPlaybackRate(1.5); err != nil || h.rate != 1.5 {
		t.Fatalf("rate err %v handle %v", err, h.rate)
	}
}
