package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process.
var (
	otoOnce    sync.Once
	otoCtx     *oto.Context
	otoInitErr error
)

func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return otoCtx, otoInitErr
}

type otoContext struct {
	ctx        *oto.Context
	sampleRate int
	channels   int

	mu    sync.Mutex
	state State
}

// NewContext opens the system audio output. Errors wrap ErrUnsupportedPlatform.
func NewContext(sampleRate, channels int) (Context, error) {
	ctx, err := initOto(sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPlatform, err)
	}
	return &otoContext{ctx: ctx, sampleRate: sampleRate, channels: channels, state: Running}, nil
}

func (c *otoContext) SampleRate() int   { return c.sampleRate }
func (c *otoContext) ChannelCount() int { return c.channels }

func (c *otoContext) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *otoContext) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Closed:
		return errors.New("audio: context closed")
	case Running:
		return nil
	}
	if err := c.ctx.Resume(); err != nil {
		return err
	}
	c.state = Running
	return nil
}

func (c *otoContext) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return nil
	}
	if err := c.ctx.Suspend(); err != nil {
		return err
	}
	c.state = Suspended
	return nil
}

func (c *otoContext) NewSink(r io.Reader) Sink {
	return c.ctx.NewPlayer(r)
}

// Close suspends output. The underlying oto context lives for the process.
func (c *otoContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return nil
	}
	var err error
	if c.state == Running {
		err = c.ctx.Suspend()
	}
	c.state = Closed
	return err
}
