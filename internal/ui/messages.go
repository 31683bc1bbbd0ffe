package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/waveplay/internal/anim"
	"github.com/olivier-w/waveplay/internal/catalog"
	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/playlist"
	"github.com/olivier-w/waveplay/internal/upload"
)

type tickMsg time.Time
type playerEventMsg player.Event
type eventsClosedMsg struct{}

// frameMsg carries one animation frame. ok is false once the run that
// produced the wait has stopped.
type frameMsg struct {
	frame anim.Frame
	ok    bool
}

type dropMsg upload.Result

// addedMsg is the outcome of an add-prompt entry.
type addedMsg struct {
	tracks   []playlist.Track
	rejected []upload.Rejection
	skipped  []catalog.Skipped
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitEvent blocks on the element's next event.
func waitEvent(events <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return playerEventMsg(ev)
	}
}

// waitFrame blocks on the loop's next frame.
func waitFrame(loop *anim.Loop) tea.Cmd {
	return func() tea.Msg {
		f, ok := loop.Next()
		return frameMsg{frame: f, ok: ok}
	}
}

// waitDrop blocks on the drop folder. A nil channel yields no command.
func waitDrop(results <-chan upload.Result) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return nil
		}
		return dropMsg(res)
	}
}
