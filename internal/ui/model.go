// Package ui is the bubbletea front end: transport controls, playlist,
// equalizer panel and the live visualizer.
package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/waveplay/internal/catalog"
	"github.com/olivier-w/waveplay/internal/eq"
	"github.com/olivier-w/waveplay/internal/media"
	"github.com/olivier-w/waveplay/internal/playback"
	"github.com/olivier-w/waveplay/internal/playlist"
	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/session"
	"github.com/olivier-w/waveplay/internal/spectrum"
	"github.com/olivier-w/waveplay/internal/upload"
	"github.com/olivier-w/waveplay/internal/util"
	"github.com/olivier-w/waveplay/internal/visualizer"
)

const (
	seekStep     = 5 * time.Second
	volumeStep   = 0.05
	statusTTL    = 5 * time.Second
	minVizRows   = 4
	playlistRows = 6
)

// rates are the playback speeds [ and ] step through.
var rates = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// Options configure the model.
type Options struct {
	Mode     visualizer.Mode
	Renderer visualizer.Options
	FPS      int
}

// Model is the Bubbletea model for the waveplay TUI.
type Model struct {
	sess    *session.Session
	machine *playback.Machine
	display *visualizer.Display

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	volume   progress.Model
	library  libraryModel
	showLib  bool
	showEQ   bool
	band     int
	cursor   int
	state    playback.State
	loading  bool
	features spectrum.Features

	width    int
	height   int
	quitting bool

	frameWaiting bool

	status     string
	statusErr  bool
	statusTime time.Time
}

// New creates a model over a running session.
func New(sess *session.Session, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	vol := progress.New(
		progress.WithScaledGradient("#8B5CF6", "#3B82F6"),
		progress.WithoutPercentage(),
		progress.WithWidth(12),
	)

	m := Model{
		sess:    sess,
		machine: sess.Machine(),
		display: visualizer.NewDisplay(opts.Mode, 48, minVizRows, opts.FPS, opts.Renderer),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
		volume:  vol,
		library: newLibrary(),
	}
	m.state = m.machine.State()
	if m.state.Index >= 0 {
		m.cursor = m.state.Index
	}
	m.display.Idle()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		waitEvent(m.sess.Events()),
		m.spinner.Tick,
		tea.SetWindowTitle(windowTitle(m.state)),
	}
	if cmd := waitDrop(m.sess.DropResults()); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.sess.Loop().Running() {
		cmds = append(cmds, waitFrame(m.sess.Loop()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showLib {
			var cmd tea.Cmd
			m.library, cmd = m.library.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case playerEventMsg:
		ev := player.Event(msg)
		m.sess.Dispatch(ev)
		switch ev.Kind {
		case player.LoadStart:
			m.loading = m.machine.Playlist().Current() != nil
		case player.Metadata, player.Error:
			m.loading = false
		}
		if ev.Kind == player.Error {
			m.setError(ev.Err)
		}
		prev := m.state.Status
		m.refresh()
		cmds := []tea.Cmd{waitEvent(m.sess.Events()), m.ensureFrames()}
		if prev != m.state.Status || ev.Kind == player.Metadata {
			cmds = append(cmds, tea.SetWindowTitle(windowTitle(m.state)))
		}
		return m, tea.Batch(cmds...)

	case eventsClosedMsg:
		return m, nil

	case frameMsg:
		m.frameWaiting = false
		loop := m.sess.Loop()
		if !msg.ok || msg.frame.Gen != loop.Generation() {
			if !loop.Running() {
				m.features = spectrum.Features{}
				m.display.Idle()
			}
			return m, m.ensureFrames()
		}
		m.renderFrame()
		m.state = m.machine.State()
		return m, m.ensureFrames()

	case tickMsg:
		m.refresh()
		if m.status != "" && time.Since(m.statusTime) > statusTTL {
			m.status = ""
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case libraryClosedMsg:
		m.showLib = false
		return m, nil

	case librarySelectedMsg:
		m.showLib = false
		m.addTracks(msg.tracks, nil, nil)
		m.setStatus(fmt.Sprintf("added %s", msg.label))
		return m, m.autoplay(len(msg.tracks))

	case libraryInputMsg:
		m.showLib = false
		m.setStatus("adding " + msg.input)
		return m, addCmd(m.sess, msg.input)

	case addedMsg:
		m.addTracks(msg.tracks, msg.rejected, msg.skipped)
		return m, m.autoplay(len(msg.tracks))

	case dropMsg:
		res := upload.Result(msg)
		m.addTracks(res.Tracks, res.Rejected, nil)
		return m, tea.Batch(waitDrop(m.sess.DropResults()), m.autoplay(len(res.Tracks)))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.library = m.library.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.sess.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, k.Play):
		m.check(m.machine.TogglePlay())
	case key.Matches(msg, k.Stop):
		m.machine.Stop()
	case key.Matches(msg, k.Next):
		m.check(m.machine.Next())
	case key.Matches(msg, k.Prev):
		m.check(m.machine.Previous())
	case key.Matches(msg, k.SeekBack):
		m.machine.Seek(max(0, m.state.Position-seekStep))
	case key.Matches(msg, k.SeekFwd):
		m.machine.Seek(min(m.state.Duration, m.state.Position+seekStep))
	case key.Matches(msg, k.VolUp):
		m.machine.AdjustVolume(volumeStep)
	case key.Matches(msg, k.VolDown):
		m.machine.AdjustVolume(-volumeStep)
	case key.Matches(msg, k.Mute):
		m.machine.ToggleMute()
	case key.Matches(msg, k.Shuffle):
		on := m.machine.ToggleShuffle()
		m.setStatus(fmt.Sprintf("shuffle %s", onOff(on)))
	case key.Matches(msg, k.Repeat):
		m.setStatus("repeat " + m.machine.CycleRepeat().String())
	case key.Matches(msg, k.Slower):
		m.check(m.machine.SetPlaybackRate(stepRate(m.state.Rate, -1)))
	case key.Matches(msg, k.Faster):
		m.check(m.machine.SetPlaybackRate(stepRate(m.state.Rate, 1)))
	case key.Matches(msg, k.Viz):
		mode := m.display.NextMode()
		if !m.sess.Loop().Running() {
			m.display.Idle()
		}
		m.setStatus("visualizer " + mode.String())

	case key.Matches(msg, k.EQ):
		m.showEQ = !m.showEQ
		m.layout()
	case key.Matches(msg, k.EQToggle):
		e := m.sess.Equalizer()
		e.SetEnabled(!e.Enabled())
		m.setStatus("equalizer " + onOff(e.Enabled()))
	case key.Matches(msg, k.EQPreset):
		m.setStatus("preset " + m.sess.Equalizer().NextPreset())
	case key.Matches(msg, k.EQReset):
		m.sess.Equalizer().Reset()
	case m.showEQ && key.Matches(msg, k.BandRight):
		m.band = (m.band + 1) % eq.NumBands
	case m.showEQ && key.Matches(msg, k.BandLeft):
		m.band = (m.band + eq.NumBands - 1) % eq.NumBands
	case m.showEQ && key.Matches(msg, k.Up):
		m.check(m.sess.Equalizer().AdjustBand(m.band, eq.GainStep))
	case m.showEQ && key.Matches(msg, k.Down):
		m.check(m.sess.Equalizer().AdjustBand(m.band, -eq.GainStep))

	case key.Matches(msg, k.Up):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, k.Down):
		m.cursor = min(m.machine.Playlist().Len()-1, m.cursor+1)
		m.cursor = max(0, m.cursor)
	case key.Matches(msg, k.Select):
		m.check(m.machine.Select(m.cursor))
	case key.Matches(msg, k.Remove):
		list := m.machine.Playlist()
		if t := list.Track(m.cursor); t != nil {
			title := t.Title
			if m.machine.Remove(m.cursor) {
				m.setStatus("removed " + title)
			}
			m.cursor = max(0, min(m.cursor, list.Len()-1))
		}
	case key.Matches(msg, k.Favorite):
		m.machine.Playlist().ToggleFavorite(m.cursor)

	case key.Matches(msg, k.Add):
		m.showLib = true
		var cmd tea.Cmd
		m.library, cmd = m.library.openInput()
		return m, cmd
	case key.Matches(msg, k.Library):
		m.showLib = true
		return m, nil
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	default:
		return m, nil
	}

	prev := m.state
	m.refresh()
	cmds := []tea.Cmd{m.ensureFrames()}
	if prev.Status != m.state.Status || prev.Index != m.state.Index {
		cmds = append(cmds, tea.SetWindowTitle(windowTitle(m.state)))
	}
	return m, tea.Batch(cmds...)
}

// refresh pulls the transport state and shows the idle frame whenever
// nothing is animating.
func (m *Model) refresh() {
	m.state = m.machine.State()
	if n := m.machine.Playlist().Len(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if !m.sess.Loop().Running() && m.features != (spectrum.Features{}) {
		m.features = spectrum.Features{}
		m.display.Idle()
	}
}

// ensureFrames keeps exactly one frame wait outstanding while the loop runs.
func (m *Model) ensureFrames() tea.Cmd {
	loop := m.sess.Loop()
	if m.frameWaiting || !loop.Running() {
		return nil
	}
	m.frameWaiting = true
	return waitFrame(loop)
}

// renderFrame samples the analyser and draws one visualizer frame.
func (m *Model) renderFrame() {
	sampler := m.sess.Sampler()
	snap := sampler.Snapshot(m.display.Input())
	if snap.Kind == spectrum.Frequency {
		m.features = spectrum.FeaturesOf(snap.Data, sampler.SampleRate())
	} else {
		m.features = sampler.Features()
	}
	m.display.Update(snap)
}

func (m *Model) layout() {
	cols := max(10, m.width-4)
	rows := max(minVizRows, m.height-m.chromeHeight())
	m.display.Resize(cols, rows)
	m.volume.Width = min(20, max(8, m.width/6))
	if !m.sess.Loop().Running() {
		m.display.Idle()
	}
}

// chromeHeight is the number of lines around the visualizer.
func (m Model) chromeHeight() int {
	h := 13 + playlistRows
	if m.showEQ {
		h += eqRows + 3
	}
	if m.help.ShowAll {
		h += 5
	}
	return h
}

func (m *Model) addTracks(tracks []playlist.Track, rejected []upload.Rejection, skipped []catalog.Skipped) {
	m.sess.Add(tracks)
	var reasons []string
	for _, r := range rejected {
		reasons = append(reasons, r.Err.Error())
	}
	for _, s := range skipped {
		reasons = append(reasons, s.Path+": "+s.Reason)
	}
	if len(reasons) > 0 {
		m.status = fmt.Sprintf("added %d, rejected: %s", len(tracks), strings.Join(reasons, "; "))
		m.statusErr = true
		m.statusTime = time.Now()
	} else if len(tracks) > 0 {
		m.setStatus(fmt.Sprintf("added %d track%s", len(tracks), plural(len(tracks))))
	}
	m.refresh()
}

// autoplay starts the first of n newly appended tracks when nothing is
// selected.
func (m *Model) autoplay(n int) tea.Cmd {
	list := m.machine.Playlist()
	if n == 0 || list.Current() != nil {
		return nil
	}
	m.check(m.machine.Select(list.Len() - n))
	m.refresh()
	return tea.Batch(m.ensureFrames(), tea.SetWindowTitle(windowTitle(m.state)))
}

// addCmd resolves a typed path or URL off the UI goroutine. Single files go
// through upload validation; folders and playlists are expanded in place.
func addCmd(sess *session.Session, input string) tea.Cmd {
	return func() tea.Msg {
		if media.IsRemote(input) {
			return addedMsg{tracks: []playlist.Track{catalog.TrackFromURL(input, "")}}
		}
		path := expandHome(input)
		info, err := os.Stat(path)
		if err != nil {
			return addedMsg{skipped: []catalog.Skipped{{Path: input, Reason: err.Error()}}}
		}
		if info.IsDir() || media.IsPlaylistExt(media.Ext(path)) {
			tracks, skipped := catalog.Load([]string{path})
			return addedMsg{tracks: tracks, skipped: skipped}
		}
		res := sess.ImportFiles([]string{path})
		return addedMsg{tracks: res.Tracks, rejected: res.Rejected}
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + p[1:]
		}
	}
	return p
}

func (m *Model) check(err error) {
	if err != nil {
		m.setError(err)
	}
}

func (m *Model) setError(err error) {
	msg := err.Error()
	var decErr *player.DecodeError
	switch {
	case errors.Is(err, player.ErrPermissionBlocked):
		msg = "audio output blocked, press space to retry"
	case errors.As(err, &decErr):
		msg = "cannot play " + decErr.Src
	case errors.Is(err, player.ErrNoSource):
		msg = "nothing to play"
	}
	m.status = msg
	m.statusErr = true
	m.statusTime = time.Now()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
	m.statusTime = time.Now()
}

func (m Model) volumeLevel() float64 {
	if m.state.Muted {
		return 0
	}
	return m.state.Volume
}

func stepRate(cur float64, dir int) float64 {
	idx := 0
	for i, r := range rates {
		if r <= cur+1e-9 {
			idx = i
		}
	}
	idx = max(0, min(len(rates)-1, idx+dir))
	return rates[idx]
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showLib {
		return m.library.View()
	}

	w := m.width
	if w < 30 {
		w = 60
	}
	st := m.state

	header := accentStyle(m.display.Mode(), m.features.Beat).Render("waveplay")
	header += "  " + helpStyle.Render(m.display.Mode().String())
	if m.sess.Degraded() {
		header += "  " + errorStyle.Render("visualizer unavailable")
	} else if m.sess.Silent() {
		header += "  " + helpStyle.Render("no audio device")
	}

	title := helpStyle.Render("no track selected")
	subtitle := ""
	if t := st.Track; t != nil {
		title = titleStyle.Render(t.Title)
		var parts []string
		for _, s := range []string{t.Artist, t.Album} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		if t.Year > 0 {
			parts = append(parts, fmt.Sprint(t.Year))
		}
		subtitle = artistStyle.Render(strings.Join(parts, " - "))
	}
	if m.loading {
		title = m.spinner.View() + " " + title
	}

	elapsed := util.FormatDuration(st.Position)
	total := util.FormatDuration(st.Duration)
	barWidth := max(10, w-len(elapsed)-len(total)-6)
	bar := renderProgressBar(st.Position.Seconds(), st.Duration.Seconds(), barWidth)
	progressLine := fmt.Sprintf("%s %s %s", timeStyle.Render(elapsed), bar, timeStyle.Render(total))

	leftText := fmt.Sprintf("%s  %s", st.Status.Icon(), st.Status)
	for _, s := range []string{st.Repeat.Icon(), shuffleIcon(st.Shuffle), renderRate(st.Rate)} {
		if s != "" {
			leftText += "  " + s
		}
	}
	volText := renderVolumePercent(st.Volume, st.Muted)
	right := m.volume.ViewAs(m.volumeLevel()) + " " + statusStyle.Render(volText)
	gap := max(2, w-lipgloss.Width(leftText)-lipgloss.Width(right)-4)
	statusLine := statusStyle.Render(leftText) + strings.Repeat(" ", gap) + right

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + header + "\n")
	b.WriteString("\n")
	b.WriteString("  " + title + "\n")
	if subtitle != "" {
		b.WriteString("  " + subtitle + "\n")
	}
	b.WriteString("\n")
	b.WriteString(indent(m.display.View(), "  "))
	b.WriteString("\n")
	b.WriteString("  " + progressLine + "\n")
	b.WriteString("  " + statusLine + "\n")
	if next := upNext(m.machine.Playlist(), st); next != "" {
		b.WriteString("  " + helpStyle.Render("up next: "+next) + "\n")
	}
	if m.status != "" {
		style := helpStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("  " + style.Render(m.status) + "\n")
	}
	if m.showEQ {
		b.WriteString("\n")
		e := m.sess.Equalizer()
		b.WriteString(renderEQ(e.Gains(), e.Enabled(), e.Preset(), m.band))
	}
	b.WriteString("\n")
	b.WriteString(renderPlaylist(m.machine.Playlist().Tracks(), st.Index, m.cursor, playlistRows, w))
	b.WriteString("\n")
	b.WriteString("  " + m.help.View(m.keys) + "\n")

	view := b.String()
	if pad := m.height - lipgloss.Height(view); pad > 0 {
		view += strings.Repeat("\n", pad)
	}
	return view
}

// upNext names the track that follows the current one in list order.
// Shuffle and repeat-one make the next pick unknowable, so it is empty.
func upNext(list *playlist.Playlist, st playback.State) string {
	if st.Track == nil || st.Shuffle || st.Repeat == playback.RepeatOne {
		return ""
	}
	next := list.Peek(1)
	if len(next) == 0 {
		return ""
	}
	return next[0].Title
}

func shuffleIcon(on bool) string {
	if on {
		return "[shuffle]"
	}
	return ""
}

func indent(s, prefix string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n") + "\n"
}

func windowTitle(st playback.State) string {
	if st.Track == nil {
		return "waveplay"
	}
	icon := "▶"
	if st.Status != playback.Playing {
		icon = "⏸"
	}
	return icon + " " + st.Track.Title + " · waveplay"
}
