package audio

import (
	"errors"
	"io"
	"sync"
	"time"
)

const silentTick = 20 * time.Millisecond

// silentContext consumes PCM at real-time pace and discards it, so playback
// clocks keep running when no output device is available.
type silentContext struct {
	sampleRate int
	channels   int

	mu    sync.Mutex
	state State

	// playing holds the sinks with a running drain goroutine.
	playing map[*silentSink]struct{}
}

// NewSilentContext returns a Context that plays nothing.
func NewSilentContext(sampleRate, channels int) Context {
	return &silentContext{
		sampleRate: sampleRate,
		channels:   channels,
		state:      Running,
		playing:    make(map[*silentSink]struct{}),
	}
}

func (c *silentContext) SampleRate() int   { return c.sampleRate }
func (c *silentContext) ChannelCount() int { return c.channels }

func (c *silentContext) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *silentContext) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return errors.New("audio: context closed")
	}
	c.state = Running
	return nil
}

func (c *silentContext) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		c.state = Suspended
	}
	return nil
}

func (c *silentContext) running() bool {
	return c.State() == Running
}

func (c *silentContext) NewSink(r io.Reader) Sink {
	return &silentSink{ctx: c, r: r}
}

func (c *silentContext) track(s *silentSink) {
	c.mu.Lock()
	c.playing[s] = struct{}{}
	c.mu.Unlock()
}

func (c *silentContext) forget(s *silentSink) {
	c.mu.Lock()
	delete(c.playing, s)
	c.mu.Unlock()
}

func (c *silentContext) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.playing)
}

func (c *silentContext) Close() error {
	c.mu.Lock()
	c.state = Closed
	sinks := make([]*silentSink, 0, len(c.playing))
	for s := range c.playing {
		sinks = append(sinks, s)
	}
	c.mu.Unlock()
	for _, s := range sinks {
		s.Pause()
	}
	return nil
}

type silentSink struct {
	ctx *silentContext
	r   io.Reader

	mu      sync.Mutex
	playing bool
	stop    chan struct{}
}

func (s *silentSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		return
	}
	s.playing = true
	s.stop = make(chan struct{})
	s.ctx.track(s)
	go s.drain(s.stop)
}

func (s *silentSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	s.playing = false
	close(s.stop)
	s.ctx.forget(s)
}

func (s *silentSink) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *silentSink) drain(stop chan struct{}) {
	frame := BytesPerFrame(s.ctx.channels)
	chunk := s.ctx.sampleRate * int(silentTick) / int(time.Second) * frame
	buf := make([]byte, chunk)

	ticker := time.NewTicker(silentTick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		if !s.ctx.running() {
			continue
		}
		if _, err := io.ReadFull(s.r, buf); err != nil {
			s.mu.Lock()
			if s.stop == stop && s.playing {
				s.playing = false
				s.ctx.forget(s)
			}
			s.mu.Unlock()
			return
		}
	}
}
