package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/playlist"
)

type sample struct {
	title, artist, album, genre string
	seconds, year               int
	song                        int
}

const sampleURL = "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-"

var samples = []sample{
	{"Midnight Dreams", "Luna Echo", "Nocturnal Vibes", "Electronic", 243, 2024, 1},
	{"Ocean Waves", "Coastal Breeze", "Serenity", "Ambient", 198, 2023, 2},
	{"Urban Pulse", "City Lights", "Metropolitan", "Hip Hop", 267, 2024, 3},
	{"Forest Whispers", "Nature's Symphony", "Earth Sounds", "Nature", 312, 2023, 4},
	{"Neon Nights", "Synthwave Collective", "Retro Future", "Synthwave", 234, 2024, 5},
	{"Jazz Cafe", "Smooth Operators", "Late Night Sessions", "Jazz", 289, 2023, 6},
	{"Digital Horizon", "Cyber Dreams", "Virtual Reality", "Electronic", 256, 2024, 7},
	{"Mountain Echo", "Alpine Sounds", "Peak Experience", "Ambient", 201, 2023, 8},
	{"Cosmic Journey", "Stellar Voyage", "Beyond the Stars", "Space Ambient", 378, 2024, 9},
	{"Summer Breeze", "Tropical Vibes", "Island Life", "Tropical House", 223, 2024, 10},
}

// Collection is a named selection of sample tracks.
type Collection struct {
	Name        string
	Description string
	tracks      []int // 1-based sample numbers
}

var collections = []Collection{
	{Name: "Chill Vibes", Description: "Perfect for relaxing and unwinding", tracks: []int{2, 4, 8, 6}},
	{Name: "Electronic Beats", Description: "High energy electronic music", tracks: []int{1, 5, 7}},
	{Name: "Urban Mix", Description: "City sounds and urban beats", tracks: []int{3, 10}},
	{Name: "Space Odyssey", Description: "Journey through the cosmos", tracks: []int{9, 7, 1}},
}

func (s sample) track() playlist.Track {
	return playlist.Track{
		Title:    s.title,
		Artist:   s.artist,
		Album:    s.album,
		Genre:    s.genre,
		Year:     s.year,
		Duration: time.Duration(s.seconds) * time.Second,
		Source:   player.Source{URL: sampleURL + strconv.Itoa(s.song) + ".mp3"},
	}
}

// Samples returns the built-in sample catalogue. The tracks are remote and
// are fetched whole when played.
func Samples() []playlist.Track {
	out := make([]playlist.Track, len(samples))
	for i, s := range samples {
		out[i] = s.track()
	}
	return out
}

// Collections returns the named sample selections.
func Collections() []Collection {
	out := make([]Collection, len(collections))
	copy(out, collections)
	return out
}

// CollectionTracks returns the tracks of the collection with the given
// case-insensitive name.
func CollectionTracks(name string) ([]playlist.Track, bool) {
	for _, c := range collections {
		if !strings.EqualFold(c.Name, name) {
			continue
		}
		out := make([]playlist.Track, 0, len(c.tracks))
		for _, n := range c.tracks {
			if n >= 1 && n <= len(samples) {
				out = append(out, samples[n-1].track())
			}
		}
		return out, true
	}
	return nil, false
}

// Genre returns the sample tracks of one genre.
func Genre(genre string) []playlist.Track {
	var out []playlist.Track
	for _, s := range samples {
		if strings.EqualFold(s.genre, genre) {
			out = append(out, s.track())
		}
	}
	return out
}
