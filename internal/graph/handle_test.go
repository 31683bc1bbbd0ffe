package graph

import (
	"bytes"
	"errors"
	"testing"
)

func TestHandleBindsOnce(t *testing.T) {
	src := &fakeSource{r: bytes.NewReader(nil)}
	h := NewHandle(newContext(), src)

	if h.Current() != nil {
		t.Fatal("expected no graph before first use")
	}
	g1, err := h.Graph(DefaultOptions())
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}

	opts := DefaultOptions()
	opts.Analyser.FFTSize = 512
	g2, err := h.Graph(opts)
	if err != nil {
		t.Fatalf("second Graph() error = %v", err)
	}
	if g1 != g2 {
		t.Fatal("expected the same graph on later calls")
	}
	if g2.Analyser().FFTSize() != 512 {
		t.Fatalf("expected analyser reconfigured to 512, got %d", g2.Analyser().FFTSize())
	}
}

func TestHandleCloseDisconnectsThenCloses(t *testing.T) {
	src := &fakeSource{r: bytes.NewReader(nil)}
	h := NewHandle(newContext(), src)
	g, err := h.Graph(DefaultOptions())
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	_ = h.Close()
	if g.Connected() {
		t.Fatal("expected graph disconnected on close")
	}
	if src.closed != 1 {
		t.Fatalf("expected element closed once, got %d", src.closed)
	}
	if _, err := h.Graph(DefaultOptions()); err == nil {
		t.Fatal("expected Graph after Close to fail")
	}
}

func TestHandleOnCapturedElement(t *testing.T) {
	src := &fakeSource{r: bytes.NewReader(nil), captured: true}
	h := NewHandle(newContext(), src)
	if _, err := h.Graph(DefaultOptions()); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound, got %v", err)
	}
}
