// Package audio is the platform audio layer: an output context that hands
// out sinks pulling signed 16-bit little-endian PCM from an io.Reader.
package audio

import (
	"errors"
	"io"
)

// ErrUnsupportedPlatform is returned when no audio output can be opened.
var ErrUnsupportedPlatform = errors.New("audio: output not supported on this platform")

// State is the lifecycle state of a Context.
type State int

const (
	Suspended State = iota
	Running
	Closed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Closed:
		return "closed"
	default:
		return "suspended"
	}
}

// Context is an open audio output.
type Context interface {
	SampleRate() int
	ChannelCount() int
	State() State
	Resume() error
	Suspend() error
	// NewSink creates a sink that pulls PCM frames from r once playing.
	NewSink(r io.Reader) Sink
	Close() error
}

// Sink plays PCM pulled from a reader.
type Sink interface {
	Play()
	Pause()
	IsPlaying() bool
}

// BytesPerFrame returns the size of one s16le frame for channels.
func BytesPerFrame(channels int) int { return channels * 2 }
