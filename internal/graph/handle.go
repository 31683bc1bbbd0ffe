package graph

import (
	"errors"
	"sync"

	"github.com/olivier-w/waveplay/internal/audio"
)

// Element is a decode element a Handle owns.
type Element interface {
	Source
	Close() error
}

// Handle owns one element and at most one graph bound to it.
type Handle struct {
	ctx audio.Context
	el  Element

	mu     sync.Mutex
	graph  *Graph
	closed bool
}

// NewHandle wraps el. No graph is bound until Graph is called.
func NewHandle(ctx audio.Context, el Element) *Handle {
	return &Handle{ctx: ctx, el: el}
}

// Element returns the owned element.
func (h *Handle) Element() Element { return h.el }

// Graph binds a graph on first use. Later calls return the same graph and
// only reconfigure its stages.
func (h *Handle) Graph(opts Options) (*Graph, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, errors.New("graph: handle closed")
	}
	if h.graph != nil {
		if err := h.graph.Reconfigure(opts); err != nil {
			return nil, err
		}
		return h.graph, nil
	}
	g, err := Bind(h.ctx, h.el, opts)
	if err != nil {
		return nil, err
	}
	h.graph = g
	return g, nil
}

// Current returns the bound graph or nil.
func (h *Handle) Current() *Graph {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.graph
}

// Close disconnects the graph, then closes the element.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.graph != nil {
		h.graph.Disconnect()
	}
	return h.el.Close()
}
