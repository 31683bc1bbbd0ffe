package player

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olivier-w/waveplay/internal/audio"
)

// writeWAV writes a 16-bit PCM WAV of the given length filled with a ramp.
func writeWAV(t *testing.T, dir string, rate, channels int, d time.Duration) string {
	t.Helper()
	frames := int(d.Seconds() * float64(rate))
	data := make([]byte, frames*channels*2)
	for i := 0; i < frames*channels; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(i%2000-1000)))
	}

	header := make([]byte, 44)
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(36+len(data)))
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1)
	binary.LittleEndian.PutUint16(header[22:], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:], uint32(rate))
	binary.LittleEndian.PutUint32(header[28:], uint32(rate*channels*2))
	binary.LittleEndian.PutUint16(header[32:], uint16(channels*2))
	binary.LittleEndian.PutUint16(header[34:], 16)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(len(data)))

	path := filepath.Join(dir, "tone.wav")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func waitFor(t *testing.T, e *Element, kind EventKind) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-e.Events():
			if !ok {
				t.Fatalf("event channel closed while waiting for %v", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %v", kind)
		}
	}
}

func TestElementPlaysWAVToEnd(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 8000, 1, 300*time.Millisecond)
	e := New(audio.NewSilentContext(OutputSampleRate, OutputChannels), Options{})
	defer e.Close()

	gen := e.Load(Source{URL: path})
	if err := e.Play(); err != nil {
		t.Fatalf("Play() before metadata error = %v", err)
	}

	meta := waitFor(t, e, Metadata)
	if meta.Gen != gen {
		t.Fatalf("metadata generation = %d, want %d", meta.Gen, gen)
	}
	if meta.Duration != 300*time.Millisecond {
		t.Fatalf("duration = %v, want 300ms", meta.Duration)
	}

	ended := waitFor(t, e, Ended)
	if ended.Position != meta.Duration {
		t.Fatalf("ended position = %v, want %v", ended.Position, meta.Duration)
	}
	if !e.Paused() {
		t.Fatal("expected element paused after end")
	}
}

func TestElementReplayAfterEndRewinds(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 8000, 1, 200*time.Millisecond)
	e := New(audio.NewSilentContext(OutputSampleRate, OutputChannels), Options{})
	defer e.Close()

	e.Load(Source{URL: path})
	if err := e.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	waitFor(t, e, Ended)

	if err := e.Play(); err != nil {
		t.Fatalf("Play() after end error = %v", err)
	}
	if ev := waitFor(t, e, TimeUpdate); ev.Position != 0 {
		t.Fatalf("first time update after replay = %v, want 0", ev.Position)
	}
	if e.Paused() {
		t.Fatal("expected element playing after replay")
	}
}

func TestElementReportsDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.m4a")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	e := New(audio.NewSilentContext(OutputSampleRate, OutputChannels), Options{})
	defer e.Close()

	e.Load(Source{URL: path})
	ev := waitFor(t, e, Error)

	var derr *DecodeError
	if !errors.As(ev.Err, &derr) {
		t.Fatalf("expected DecodeError, got %v", ev.Err)
	}
	if !errors.Is(ev.Err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format cause, got %v", ev.Err)
	}
	if err := e.Play(); !errors.As(err, &derr) {
		t.Fatalf("expected Play after failed load to return the decode error, got %v", err)
	}
}

func TestElementPlayWithoutSource(t *testing.T) {
	e := New(audio.NewSilentContext(OutputSampleRate, OutputChannels), Options{})
	defer e.Close()
	if err := e.Play(); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

type blockedContext struct {
	audio.Context
}

func (blockedContext) State() audio.State { return audio.Suspended }
func (blockedContext) Resume() error      { return errors.New("resume refused") }

func TestElementPlayReportsBlockedResume(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 8000, 2, 100*time.Millisecond)
	e := New(blockedContext{audio.NewSilentContext(OutputSampleRate, OutputChannels)}, Options{})
	defer e.Close()

	e.Load(Source{URL: path})
	waitFor(t, e, Metadata)
	if err := e.Play(); !errors.Is(err, ErrPermissionBlocked) {
		t.Fatalf("expected ErrPermissionBlocked, got %v", err)
	}
	if !e.Paused() {
		t.Fatal("expected element to stay paused")
	}
}

func TestElementCaptureSourceOnce(t *testing.T) {
	e := New(audio.NewSilentContext(OutputSampleRate, OutputChannels), Options{})
	defer e.Close()

	if _, err := e.CaptureSource(); err != nil {
		t.Fatalf("first CaptureSource() error = %v", err)
	}
	if _, err := e.CaptureSource(); !errors.Is(err, ErrSourceCaptured) {
		t.Fatalf("expected ErrSourceCaptured, got %v", err)
	}
}

func TestElementRejectsInvalidRate(t *testing.T) {
	e := New(audio.NewSilentContext(OutputSampleRate, OutputChannels), Options{})
	defer e.Close()

	for _, r := range []float64{0, -1} {
		if err := e.SetPlaybackRate(r); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("SetPlaybackRate(%v) error = %v, want ErrInvalidRate", r, err)
		}
	}
	if err := e.SetPlaybackRate(1.5); err != nil {
		t.Fatalf("SetPlaybackRate(1.5) error = %v", err)
	}
	if got := e.PlaybackRate(); got != 1.5 {
		t.Fatalf("PlaybackRate() = %v, want 1.5", got)
	}
}

func TestElementSeekClampsToDuration(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 8000, 2, 200*time.Millisecond)
	e := New(audio.NewSilentContext(OutputSampleRate, OutputChannels), Options{})
	defer e.Close()

	e.Load(Source{URL: path})
	waitFor(t, e, Metadata)
	if err := e.SeekTo(time.Minute); err != nil {
		t.Fatalf("SeekTo() error = %v", err)
	}
	if got := e.Position(); got != 200*time.Millisecond {
		t.Fatalf("Position() = %v, want 200ms", got)
	}
}

func TestElementCloseClosesEvents(t *testing.T) {
	e := New(audio.NewSilentContext(OutputSampleRate, OutputChannels), Options{})
	e.Load(Source{})
	_ = e.Close()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-e.Events():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("expected event channel to close")
		}
	}
}
