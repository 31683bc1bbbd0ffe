package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play      key.Binding
	Stop      key.Binding
	Next      key.Binding
	Prev      key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	VolUp     key.Binding
	VolDown   key.Binding
	Mute      key.Binding
	Shuffle   key.Binding
	Repeat    key.Binding
	Slower    key.Binding
	Faster    key.Binding
	Viz       key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Remove    key.Binding
	Favorite  key.Binding
	Add       key.Binding
	Library   key.Binding
	EQ        key.Binding
	EQToggle  key.Binding
	EQPreset  key.Binding
	EQReset   key.Binding
	Help      key.Binding
	Quit      key.Binding
	BandLeft  key.Binding
	BandRight key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Play:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "track")),
		Prev:      key.NewBinding(key.WithKeys("p")),
		SeekBack:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "seek")),
		SeekFwd:   key.NewBinding(key.WithKeys("right", "l")),
		VolUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "volume")),
		VolDown:   key.NewBinding(key.WithKeys("-", "_")),
		Mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Shuffle:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "shuffle")),
		Repeat:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		Slower:    key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "speed")),
		Faster:    key.NewBinding(key.WithKeys("]")),
		Viz:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visualizer")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
		Remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add file/url")),
		Library:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "samples")),
		EQ:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "equalizer")),
		EQToggle:  key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "eq on/off")),
		EQPreset:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "eq preset")),
		EQReset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "eq reset")),
		BandLeft:  key.NewBinding(key.WithKeys("shift+tab")),
		BandRight: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "eq band")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Next, k.SeekBack, k.VolUp, k.Viz, k.EQ, k.Add, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Stop, k.Next, k.SeekBack, k.Slower},
		{k.VolUp, k.Mute, k.Shuffle, k.Repeat, k.Viz},
		{k.Up, k.Select, k.Remove, k.Favorite, k.Add, k.Library},
		{k.EQ, k.EQToggle, k.EQPreset, k.EQReset, k.BandRight},
		{k.Help, k.Quit},
	}
}
