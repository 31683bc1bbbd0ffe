// Package playlist holds the ordered track list the player works through.
package playlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/olivier-w/waveplay/internal/player"
)

// Track is one playable item. Only Duration and Favorite change after the
// track is added.
type Track struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	Source   player.Source
	Artwork  string
	Genre    string
	Year     int
	Bitrate  int // kbps
	Size     int64
	Favorite bool

	// Cleanup releases resources backing Source. It runs once, when the
	// track is removed or the playlist is torn down.
	Cleanup func()
}

// Playlist manages an ordered list of tracks and the current selection.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Playlist struct {
	tracks  []Track
	current int
}

// New creates a Playlist from the given tracks with nothing selected.
func New(tracks []Track) *Playlist {
	p := &Playlist{current: -1}
	for _, t := range tracks {
		p.Add(t)
	}
	return p
}

// Add appends a track, assigning an ID if it has none, and returns its index.
func (p *Playlist) Add(t Track) int {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	p.tracks = append(p.tracks, t)
	return len(p.tracks) - 1
}

// Len returns the total number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Track returns a pointer to the track at the given index, or nil if out of range.
func (p *Playlist) Track(i int) *Track {
	if i < 0 || i >= len(p.tracks) {
		return nil
	}
	return &p.tracks[i]
}

// Tracks returns a copy of the track list.
func (p *Playlist) Tracks() []Track {
	out := make([]Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// IndexOf returns the index of the track with id, or -1.
func (p *Playlist) IndexOf(id string) int {
	for i := range p.tracks {
		if p.tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// Current returns the selected track, or nil when nothing is selected.
func (p *Playlist) Current() *Track {
	return p.Track(p.current)
}

// CurrentIndex returns the selected index, or -1.
func (p *Playlist) CurrentIndex() int {
	return p.current
}

// SetCurrent selects the track at i. Out-of-range indices are ignored.
func (p *Playlist) SetCurrent(i int) bool {
	if i < 0 || i >= len(p.tracks) {
		return false
	}
	p.current = i
	return true
}

// Deselect clears the selection.
func (p *Playlist) Deselect() {
	p.current = -1
}

// Peek returns up to n tracks after the current one.
func (p *Playlist) Peek(n int) []Track {
	start := p.current + 1
	if start >= len(p.tracks) || n <= 0 {
		return nil
	}
	end := min(start+n, len(p.tracks))
	result := make([]Track, end-start)
	copy(result, p.tracks[start:end])
	return result
}

// Remove removes the track at i and runs its Cleanup. The current track
// cannot be removed. Returns false if i is invalid or current.
func (p *Playlist) Remove(i int) bool {
	if i < 0 || i >= len(p.tracks) || i == p.current {
		return false
	}
	if p.tracks[i].Cleanup != nil {
		p.tracks[i].Cleanup()
	}
	p.tracks = append(p.tracks[:i], p.tracks[i+1:]...)
	if i < p.current {
		p.current--
	}
	return true
}

// SetDuration records the decoded length of the track at i.
func (p *Playlist) SetDuration(i int, d time.Duration) {
	if t := p.Track(i); t != nil {
		t.Duration = d
	}
}

// ToggleFavorite flips the favorite flag of the track at i and returns it.
func (p *Playlist) ToggleFavorite(i int) bool {
	t := p.Track(i)
	if t == nil {
		return false
	}
	t.Favorite = !t.Favorite
	return t.Favorite
}

// CleanupAll calls the cleanup function on every track that has one.
func (p *Playlist) CleanupAll() {
	for i := range p.tracks {
		if p.tracks[i].Cleanup != nil {
			p.tracks[i].Cleanup()
			p.tracks[i].Cleanup = nil
		}
	}
}
