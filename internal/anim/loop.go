// Package anim schedules animation frames on a ticker goroutine that can be
// started and stopped repeatedly.
package anim

import (
	"context"
	"sync"
	"time"
)

// Frame is one animation tick.
type Frame struct {
	Gen uint64 // run the frame belongs to
	Seq uint64
	At  time.Time
}

// Loop emits frames at a fixed rate while running. Frames the consumer has
// not taken yet are dropped rather than queued, so a slow consumer never
// falls behind.
type Loop struct {
	interval time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	frames chan Frame
}

// New creates a stopped loop ticking fps times per second.
func New(fps int) *Loop {
	if fps <= 0 {
		fps = 30
	}
	return &Loop{interval: time.Second / time.Duration(fps)}
}

// Start begins a new run and returns its generation. Starting a running
// loop is a no-op that returns the current generation.
func (l *Loop) Start() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return l.gen
	}
	l.gen++
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	l.frames = make(chan Frame, 1)
	go l.run(ctx, l.gen, l.frames, l.done)
	return l.gen
}

func (l *Loop) run(ctx context.Context, gen uint64, frames chan<- Frame, done chan<- struct{}) {
	defer close(done)
	defer close(frames)
	tick := time.NewTicker(l.interval)
	defer tick.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			if ctx.Err() != nil {
				return
			}
			seq++
			select {
			case frames <- Frame{Gen: gen, Seq: seq, At: now}:
			default:
			}
		}
	}
}

// Stop cancels the current run and waits for its goroutine to exit. The
// run's frame channel is closed.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done, l.frames = nil, nil, nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a run is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Generation returns the generation of the latest run.
func (l *Loop) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Frames returns the channel of the current run, or nil when stopped. A
// receive from nil blocks forever, so callers take the channel once per
// request and check Running first.
func (l *Loop) Frames() <-chan Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Next waits for the next frame of the current run. ok is false when the
// loop is stopped or stops while waiting.
func (l *Loop) Next() (f Frame, ok bool) {
	ch := l.Frames()
	if ch == nil {
		return Frame{}, false
	}
	f, ok = <-ch
	return f, ok
}
