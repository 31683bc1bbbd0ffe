package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/olivier-w/waveplay/internal/eq"
	"github.com/olivier-w/waveplay/internal/playlist"
	"github.com/olivier-w/waveplay/internal/util"
)

func renderProgressBar(elapsed, total float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	ratio = max(0, min(1, ratio))

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

func renderVolumePercent(vol float64, muted bool) string {
	if muted {
		return "muted"
	}
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func renderRate(rate float64) string {
	if rate == 1 {
		return ""
	}
	return fmt.Sprintf("%gx", rate)
}

// eqRows is the height of the band columns.
const eqRows = 7

// renderEQ draws one column per band with the selected band marked.
func renderEQ(gains eq.Gains, enabled bool, preset string, selected int) string {
	var b strings.Builder
	state := "on"
	if !enabled {
		state = "off"
	}
	fmt.Fprintf(&b, "  %s\n", statusStyle.Render(fmt.Sprintf("equalizer %s  preset %s", state, preset)))

	half := eqRows / 2
	for row := 0; row < eqRows; row++ {
		b.WriteString("  ")
		offset := half - row
		for i, g := range gains {
			h := int(math.Round(g / eq.MaxGain * float64(half)))
			cell := "  ·  "
			switch {
			case offset == 0:
				cell = "──┼──"
			case offset > 0 && h >= offset, offset < 0 && h <= offset:
				cell = "  █  "
			}
			if i == selected {
				cell = selectedStyle.Render(cell)
			} else {
				cell = helpStyle.Render(cell)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	b.WriteString("  ")
	for i, band := range eq.Bands() {
		label := fmt.Sprintf("%5s", eq.Label(band.Frequency))
		if i == selected {
			label = selectedStyle.Render(label)
		} else {
			label = timeStyle.Render(label)
		}
		b.WriteString(label)
	}
	b.WriteString("\n  ")
	for i, g := range gains {
		v := fmt.Sprintf("%+5.1f", g)
		if i == selected {
			v = selectedStyle.Render(v)
		} else {
			v = timeStyle.Render(v)
		}
		b.WriteString(v)
	}
	b.WriteString("\n")
	return b.String()
}

// renderPlaylist draws up to rows entries around the cursor.
func renderPlaylist(tracks []playlist.Track, current, cursor, rows, width int) string {
	if len(tracks) == 0 {
		return "  " + helpStyle.Render("playlist empty  a add file/url  L samples") + "\n"
	}
	if rows < 1 {
		rows = 1
	}
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	end := min(start+rows, len(tracks))

	var b strings.Builder
	for i := start; i < end; i++ {
		t := tracks[i]
		marker := "  "
		if i == current {
			marker = "▶ "
		}
		fav := " "
		if t.Favorite {
			fav = favoriteStyle.Render("★")
		}
		line := fmt.Sprintf("%s%s %s", marker, fav, trackLabel(t, width-8))
		switch {
		case i == cursor:
			line = selectedStyle.Render("> ") + selectedStyle.Render(line)
		default:
			line = "  " + statusStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func trackLabel(t playlist.Track, width int) string {
	label := t.Title
	if t.Artist != "" {
		label += " - " + t.Artist
	}
	var meta []string
	if t.Duration > 0 {
		meta = append(meta, util.FormatDuration(t.Duration))
	}
	if t.Size > 0 {
		meta = append(meta, util.FormatSize(t.Size))
	}
	suffix := ""
	if len(meta) > 0 {
		suffix = "  " + strings.Join(meta, " · ")
	}
	if width > 0 {
		if r := []rune(label); len(r)+len([]rune(suffix)) > width && width > len([]rune(suffix))+1 {
			label = string(r[:width-len([]rune(suffix))-1]) + "…"
		}
	}
	return label + suffix
}
