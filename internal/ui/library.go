package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/waveplay/internal/catalog"
	"github.com/olivier-w/waveplay/internal/playlist"
	"github.com/olivier-w/waveplay/internal/util"
)

// librarySelectedMsg carries tracks picked from the library.
type librarySelectedMsg struct {
	tracks []playlist.Track
	label  string
}

// libraryInputMsg carries a path or URL typed into the library prompt.
type libraryInputMsg struct {
	input string
}

type libraryClosedMsg struct{}

type collectionItem struct {
	catalog.Collection
	count int
}

func (i collectionItem) Title() string { return i.Name }
func (i collectionItem) Description() string {
	return fmt.Sprintf("%s · %d tracks", i.Collection.Description, i.count)
}
func (i collectionItem) FilterValue() string { return i.Name }

type sampleItem struct {
	track playlist.Track
}

func (i sampleItem) Title() string { return i.track.Title }
func (i sampleItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.track.Artist, i.track.Genre, util.FormatDuration(i.track.Duration))
}
func (i sampleItem) FilterValue() string { return i.track.Title + " " + i.track.Artist + " " + i.track.Genre }

type pathItem struct{}

func (i pathItem) Title() string       { return "Add path or URL..." }
func (i pathItem) Description() string { return "a file, folder, playlist or http(s) URL" }
func (i pathItem) FilterValue() string { return "path url" }

// libraryModel picks sample collections, single samples or a typed path.
// It is embedded in Model and reports through messages.
type libraryModel struct {
	list      list.Model
	input     textinput.Model
	inputMode bool
}

func newLibrary() libraryModel {
	items := []list.Item{pathItem{}}
	for _, c := range catalog.Collections() {
		tracks, _ := catalog.CollectionTracks(c.Name)
		items = append(items, collectionItem{Collection: c, count: len(tracks)})
	}
	for _, t := range catalog.Samples() {
		items = append(items, sampleItem{track: t})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "waveplay library"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "~/Music, song.mp3 or https://..."
	ti.CharLimit = 2048
	ti.Width = 60

	return libraryModel{list: l, input: ti}
}

func (m libraryModel) SetSize(w, h int) libraryModel {
	m.list.SetWidth(w)
	m.list.SetHeight(h)
	return m
}

// openInput jumps straight to the path prompt.
func (m libraryModel) openInput() (libraryModel, tea.Cmd) {
	m.inputMode = true
	m.input.Reset()
	m.input.Focus()
	return m, textinput.Blink
}

func (m libraryModel) Update(msg tea.Msg) (libraryModel, tea.Cmd) {
	if m.inputMode {
		return m.updateInput(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case pathItem:
				return m.openInput()
			case collectionItem:
				tracks, _ := catalog.CollectionTracks(item.Name)
				return m, selectTracks(tracks, item.Name)
			case sampleItem:
				return m, selectTracks([]playlist.Track{item.track}, item.track.Title)
			}
		case "esc", "q":
			return m, func() tea.Msg { return libraryClosedMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func selectTracks(tracks []playlist.Track, label string) tea.Cmd {
	return func() tea.Msg { return librarySelectedMsg{tracks: tracks, label: label} }
}

func (m libraryModel) updateInput(msg tea.Msg) (libraryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			input := strings.TrimSpace(m.input.Value())
			if input == "" {
				return m, nil
			}
			m.inputMode = false
			m.input.Blur()
			return m, func() tea.Msg { return libraryInputMsg{input: input} }
		case "esc":
			m.inputMode = false
			m.input.Reset()
			m.input.Blur()
			return m, func() tea.Msg { return libraryClosedMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m libraryModel) View() string {
	if m.inputMode {
		s := "\n"
		s += "  " + headerStyle.Render("waveplay") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Add path or URL:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter add  esc back") + "\n"
		return s
	}
	return m.list.View()
}
