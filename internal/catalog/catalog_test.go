package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanDirSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.wav"), "x")
	touch(t, filepath.Join(dir, "A.mp3"), "x")
	touch(t, filepath.Join(dir, "c.txt"), "x")
	touch(t, filepath.Join(dir, "d.m4a"), "x")
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "A.mp3" || filepath.Base(files[1]) != "b.wav" {
		t.Fatalf("files = %v", files)
	}
}

func TestLoadMixedArguments(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.wav")
	touch(t, song, "x")
	touch(t, filepath.Join(dir, "notes.txt"), "x")
	list := filepath.Join(dir, "mix.m3u")
	touch(t, list, "#EXTM3U\n#EXTINF:12,Named Song\nsong.wav\nmissing.mp3\nhttp://example.com/live.mp3\n")

	tracks, skipped := Load([]string{
		song,
		list,
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "nope.mp3"),
		"https://example.com/a.mp3",
	})
	if len(tracks) != 4 {
		t.Fatalf("got %d tracks: %+v", len(tracks), tracks)
	}
	if tracks[0].Title != "song" || tracks[0].Size != 1 {
		t.Fatalf("file track = %+v", tracks[0])
	}
	if tracks[1].Title != "Named Song" {
		t.Fatalf("playlist title = %q", tracks[1].Title)
	}
	if tracks[2].Source.URL != "http://example.com/live.mp3" || !tracks[2].Source.Remote() {
		t.Fatalf("playlist url track = %+v", tracks[2])
	}
	if tracks[3].Title != "https://example.com/a.mp3" {
		t.Fatalf("url track title = %q", tracks[3].Title)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %+v", skipped)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "one.ogg"), "x")
	touch(t, filepath.Join(dir, "two.flac"), "x")
	tracks, skipped := Load([]string{dir})
	if len(tracks) != 2 || len(skipped) != 0 {
		t.Fatalf("tracks %d skipped %v", len(tracks), skipped)
	}

	empty := t.TempDir()
	if _, skipped := Load([]string{empty}); len(skipped) != 1 {
		t.Fatalf("empty dir skipped = %v", skipped)
	}
}

func TestReadTagsFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Some Track.mp3")
	touch(t, path, "not really an mp3")
	if got := ReadTags(path).Title; got != "Some Track" {
		t.Fatalf("title = %q", got)
	}
	if got := ReadTags(filepath.Join(dir, "x.wav")).Title; got != "x" {
		t.Fatalf("title = %q", got)
	}
}

func TestParseYear(t *testing.T) {
	cases := map[string]int{"2024": 2024, "2023-05-01": 2023, "": 0, "abcd": 0, " 1999 ": 1999}
	for in, want := range cases {
		if got := parseYear(in); got != want {
			t.Fatalf("parseYear(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSamples(t *testing.T) {
	s := Samples()
	if len(s) != 10 {
		t.Fatalf("got %d samples", len(s))
	}
	if s[0].Title != "Midnight Dreams" || s[0].Duration != 243*time.Second {
		t.Fatalf("first sample = %+v", s[0])
	}
	if s[9].Source.URL != "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-10.mp3" {
		t.Fatalf("url = %q", s[9].Source.URL)
	}

	chill, ok := CollectionTracks("chill vibes")
	if !ok || len(chill) != 4 || chill[0].Title != "Ocean Waves" {
		t.Fatalf("chill vibes = %+v", chill)
	}
	if _, ok := CollectionTracks("nope"); ok {
		t.Fatal("unknown collection found")
	}
	if got := len(Genre("ambient")); got != 2 {
		t.Fatalf("ambient tracks = %d, want 2", got)
	}
	if got := len(Collections()); got != 4 {
		t.Fatalf("collections = %d", got)
	}
}
