package playback

// Status is the transport state.
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Icon returns the transport glyph for the status line.
func (s Status) Icon() string {
	switch s {
	case Playing:
		return "▶"
	case Paused:
		return "⏸"
	default:
		return "■"
	}
}

// RepeatMode represents the current repeat setting.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// Next cycles off → all → one → off.
func (r RepeatMode) Next() RepeatMode {
	switch r {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// String returns the name of the repeat mode.
func (r RepeatMode) String() string {
	switch r {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// Icon returns a visual indicator for the repeat mode.
func (r RepeatMode) Icon() string {
	switch r {
	case RepeatAll:
		return "[repeat]"
	case RepeatOne:
		return "[repeat 1]"
	default:
		return ""
	}
}
