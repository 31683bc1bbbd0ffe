// Package catalog turns command-line arguments, directories, playlist files
// and the built-in samples into playlist tracks.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olivier-w/waveplay/internal/media"
	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/playlist"
)

// Skipped records an argument or entry that produced no track.
type Skipped struct {
	Path   string
	Reason string
}

// ScanDir returns the playable files directly inside dir, sorted
// case-insensitively by name.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if media.IsSupportedExt(filepath.Ext(e.Name())) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, nil
}

// TrackFromFile builds a track for a local file, reading its tags.
func TrackFromFile(path string) playlist.Track {
	tags := ReadTags(path)
	t := playlist.Track{
		Title:  tags.Title,
		Artist: tags.Artist,
		Album:  tags.Album,
		Genre:  tags.Genre,
		Year:   tags.Year,
		Source: player.Source{URL: path},
	}
	if info, err := os.Stat(path); err == nil {
		t.Size = info.Size()
	}
	return t
}

// TrackFromURL builds a track for a remote source.
func TrackFromURL(u, title string) playlist.Track {
	if title == "" {
		title = u
	}
	return playlist.Track{Title: title, Source: player.Source{URL: u}}
}

// Load expands args in order: URLs become remote tracks, directories are
// scanned, playlist files are parsed and audio files are read directly.
// Anything unusable is reported in skipped rather than failing the batch.
func Load(args []string) (tracks []playlist.Track, skipped []Skipped) {
	for _, arg := range args {
		if media.IsRemote(arg) {
			tracks = append(tracks, TrackFromURL(arg, ""))
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			skipped = append(skipped, Skipped{Path: arg, Reason: err.Error()})
			continue
		}
		ext := filepath.Ext(arg)
		switch {
		case info.IsDir():
			files, err := ScanDir(arg)
			if err != nil {
				skipped = append(skipped, Skipped{Path: arg, Reason: err.Error()})
				continue
			}
			if len(files) == 0 {
				skipped = append(skipped, Skipped{Path: arg, Reason: "no playable files"})
			}
			for _, f := range files {
				tracks = append(tracks, TrackFromFile(f))
			}
		case media.IsPlaylistExt(ext):
			pt, err := loadPlaylist(arg)
			if err != nil {
				skipped = append(skipped, Skipped{Path: arg, Reason: err.Error()})
				continue
			}
			tracks = append(tracks, pt...)
		case media.IsSupportedExt(ext):
			tracks = append(tracks, TrackFromFile(arg))
		default:
			skipped = append(skipped, Skipped{
				Path:   arg,
				Reason: fmt.Sprintf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList()),
			})
		}
	}
	return tracks, skipped
}

func loadPlaylist(path string) ([]playlist.Track, error) {
	entries, err := media.ParseLocalPlaylist(path)
	if err != nil {
		return nil, err
	}
	entries, _ = media.FilterPlayablePlaylistEntries(entries)
	if len(entries) == 0 {
		return nil, fmt.Errorf("playlist contains no playable entries")
	}
	tracks := make([]playlist.Track, 0, len(entries))
	for _, e := range entries {
		if e.URL != "" {
			tracks = append(tracks, TrackFromURL(e.URL, e.Title))
			continue
		}
		t := TrackFromFile(e.Path)
		if e.Title != "" && t.Title == TitleFromPath(e.Path) {
			t.Title = e.Title
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
