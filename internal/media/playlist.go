package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// PlaylistEntry is one item of a playlist file. Exactly one of Path or URL is set.
type PlaylistEntry struct {
	Path  string
	URL   string
	Title string
}

// ParseLocalPlaylist parses a local .m3u/.m3u8/.pls file.
// Relative entries are resolved against the playlist file directory.
func ParseLocalPlaylist(path string) ([]PlaylistEntry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	absPlaylistPath, err := filepath.Abs(path)
	if err != nil {
		absPlaylistPath = path
	}

	data, err := os.ReadFile(absPlaylistPath)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist is not valid UTF-8")
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	baseDir := filepath.Dir(absPlaylistPath)
	scanner := bufio.NewScanner(strings.NewReader(text))

	switch ext {
	case ".pls":
		return parsePLS(scanner, baseDir), nil
	default:
		return parseM3U(scanner, baseDir), nil
	}
}

// FilterPlayablePlaylistEntries keeps remote entries and existing local files
// in a decodable format. Local titles default to the file name. The second
// result is the number of dropped entries.
func FilterPlayablePlaylistEntries(entries []PlaylistEntry) ([]PlaylistEntry, int) {
	out := make([]PlaylistEntry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		if e.URL != "" {
			if e.Title == "" {
				e.Title = e.URL
			}
			out = append(out, e)
			continue
		}
		info, err := os.Stat(e.Path)
		if err != nil || info.IsDir() || !IsSupportedExt(filepath.Ext(e.Path)) {
			skipped++
			continue
		}
		if e.Title == "" {
			base := filepath.Base(e.Path)
			e.Title = strings.TrimSuffix(base, filepath.Ext(base))
		}
		out = append(out, e)
	}
	return out, skipped
}

func parseM3U(scanner *bufio.Scanner, baseDir string) []PlaylistEntry {
	entries := make([]PlaylistEntry, 0)
	title := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if rest, ok := strings.CutPrefix(line, "#EXTINF:"); ok {
				if i := strings.Index(rest, ","); i >= 0 {
					title = strings.TrimSpace(rest[i+1:])
				}
			}
			continue
		}
		entries = append(entries, newEntry(unquote(line), title, baseDir))
		title = ""
	}
	return entries
}

func parsePLS(scanner *bufio.Scanner, baseDir string) []PlaylistEntry {
	files := map[int]string{}
	titles := map[int]string{}
	order := make([]int, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		val := strings.TrimSpace(line[eq+1:])
		if val == "" {
			continue
		}

		if n, ok := plsIndex(key, "file"); ok {
			if _, seen := files[n]; !seen {
				order = append(order, n)
			}
			files[n] = unquote(val)
		} else if n, ok := plsIndex(key, "title"); ok {
			titles[n] = val
		}
	}

	entries := make([]PlaylistEntry, 0, len(order))
	for _, n := range order {
		entries = append(entries, newEntry(files[n], titles[n], baseDir))
	}
	return entries
}

func plsIndex(key, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || strings.ContainsAny(rest, "+-") {
		return 0, false
	}
	return n, true
}

func newEntry(raw, title, baseDir string) PlaylistEntry {
	if IsRemote(raw) {
		if title == "" {
			title = raw
		}
		return PlaylistEntry{URL: raw, Title: title}
	}
	return PlaylistEntry{Path: resolvePlaylistEntryPath(raw, baseDir), Title: title}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func resolvePlaylistEntryPath(raw, baseDir string) string {
	raw = strings.TrimPrefix(raw, "file://")
	p := filepath.Clean(raw)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}
