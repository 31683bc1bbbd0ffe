package player

import (
	"sync"
	"time"
)

// EventKind identifies an element event.
type EventKind int

const (
	LoadStart EventKind = iota
	Metadata
	TimeUpdate
	Play
	Pause
	Ended
	Error
)

func (k EventKind) String() string {
	switch k {
	case LoadStart:
		return "loadstart"
	case Metadata:
		return "loadedmetadata"
	case TimeUpdate:
		return "timeupdate"
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Ended:
		return "ended"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Event is emitted by an Element. Gen is the load generation that produced
// it; consumers drop events whose Gen is older than the latest load.
type Event struct {
	Kind     EventKind
	Gen      uint64
	Position time.Duration
	Duration time.Duration
	Err      error
}

// eventQueue is an unbounded FIFO feeding a channel, so emitters never block
// on a slow consumer. Consecutive time updates are coalesced.
type eventQueue struct {
	mu      sync.Mutex
	pending []Event
	closed  bool
	wake    chan struct{}
	out     chan Event
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		wake: make(chan struct{}, 1),
		out:  make(chan Event, 16),
	}
	go q.pump()
	return q
}

func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if n := len(q.pending); n > 0 && ev.Kind == TimeUpdate && q.pending[n-1].Kind == TimeUpdate {
		q.pending[n-1] = ev
	} else {
		q.pending = append(q.pending, ev)
	}
	select {
	case q.wake <- struct{}{}:
	default:
	}
	q.mu.Unlock()
}

// close stops accepting events; queued ones are still delivered, then the
// output channel closes.
func (q *eventQueue) close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.wake)
	}
	q.mu.Unlock()
}

func (q *eventQueue) pump() {
	defer close(q.out)
	for range q.wake {
		for {
			q.mu.Lock()
			if len(q.pending) == 0 {
				q.mu.Unlock()
				break
			}
			ev := q.pending[0]
			q.pending = q.pending[1:]
			q.mu.Unlock()
			q.out <- ev
		}
	}
}
