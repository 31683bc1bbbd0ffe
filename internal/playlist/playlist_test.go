package playlist

import (
	"testing"
	"time"

	"github.com/olivier-w/waveplay/internal/player"
)

func newTestPlaylist(n int) *Playlist {
	p := New(nil)
	for i := 0; i < n; i++ {
		p.Add(Track{Title: string(rune('A' + i)), Source: player.Source{URL: "/music/track.mp3"}})
	}
	return p
}

func TestAddAssignsIDs(t *testing.T) {
	p := newTestPlaylist(2)
	a, b := p.Track(0), p.Track(1)
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if got := p.IndexOf(b.ID); got != 1 {
		t.Fatalf("IndexOf() = %d, want 1", got)
	}
	if got := p.IndexOf("nope"); got != -1 {
		t.Fatalf("IndexOf(unknown) = %d, want -1", got)
	}
	if p.Current() != nil || p.CurrentIndex() != -1 {
		t.Fatal("expected no selection on a new playlist")
	}
}

func TestRemoveRunsCleanupAndShiftsCurrent(t *testing.T) {
	p := newTestPlaylist(3)
	cleaned := 0
	p.Track(0).Cleanup = func() { cleaned++ }
	p.SetCurrent(2)

	if !p.Remove(0) {
		t.Fatal("expected removal to succeed")
	}
	if cleaned != 1 {
		t.Fatalf("expected cleanup once, got %d", cleaned)
	}
	if p.CurrentIndex() != 1 || p.Current().Title != "C" {
		t.Fatalf("expected current to follow track C, got index %d", p.CurrentIndex())
	}
}

func TestRemoveRefusesCurrentAndInvalid(t *testing.T) {
	p := newTestPlaylist(2)
	p.SetCurrent(0)
	if p.Remove(0) {
		t.Fatal("expected current track removal to be refused")
	}
	if p.Remove(5) || p.Remove(-1) {
		t.Fatal("expected invalid index removal to be refused")
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 tracks, got %d", p.Len())
	}
}

func TestCleanupAllRunsOnce(t *testing.T) {
	p := newTestPlaylist(2)
	calls := 0
	p.Track(0).Cleanup = func() { calls++ }
	p.Track(1).Cleanup = func() { calls++ }

	p.CleanupAll()
	p.CleanupAll()
	if calls != 2 {
		t.Fatalf("expected 2 cleanup calls, got %d", calls)
	}
}

func TestDurationAndFavorite(t *testing.T) {
	p := newTestPlaylist(1)
	p.SetDuration(0, 3*time.Minute)
	if got := p.Track(0).Duration; got != 3*time.Minute {
		t.Fatalf("Duration = %v, want 3m", got)
	}
	if !p.ToggleFavorite(0) || p.ToggleFavorite(0) {
		t.Fatal("expected favorite to toggle on then off")
	}
	if p.ToggleFavorite(9) {
		t.Fatal("expected out-of-range toggle to report false")
	}
}

func TestPeekReturnsFollowingTracks(t *testing.T) {
	p := newTestPlaylist(4)
	p.SetCurrent(1)
	got := p.Peek(5)
	if len(got) != 2 || got[0].Title != "C" || got[1].Title != "D" {
		t.Fatalf("Peek() = %+v", got)
	}
	got[0].Title = "changed"
	if p.Track(2).Title != "C" {
		t.Fatal("expected Peek to return a copy")
	}
}
