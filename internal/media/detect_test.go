package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExtCoversDecoders(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".flac", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	if IsSupportedExt(".m4a") {
		t.Fatal("expected .m4a to be import-only")
	}
}

func TestUploadTablesAcceptM4A(t *testing.T) {
	if !IsUploadExt(".m4a") {
		t.Fatal("expected .m4a to be importable")
	}
	if IsUploadExt(".flac") {
		t.Fatal("expected .flac to be rejected for import")
	}
	for _, mime := range []string{"audio/mpeg", "audio/mp3", "AUDIO/WAV", "audio/ogg; codecs=vorbis", "audio/m4a"} {
		if !IsUploadMIME(mime) {
			t.Fatalf("expected %q to be accepted", mime)
		}
	}
	if IsUploadMIME("text/plain") {
		t.Fatal("expected text/plain to be rejected")
	}
}

func TestExtIgnoresQuery(t *testing.T) {
	if got := Ext("https://example.com/a/Song.MP3?x=1"); got != ".mp3" {
		t.Fatalf("Ext() = %q, want .mp3", got)
	}
	if got := Ext("/music/track.flac"); got != ".flac" {
		t.Fatalf("Ext() = %q, want .flac", got)
	}
}

func TestExtListsAreSorted(t *testing.T) {
	if got := SupportedExtsList(); got != ".flac, .mp3, .ogg, .wav" {
		t.Fatalf("SupportedExtsList() = %q", got)
	}
	if !strings.Contains(UploadExtsList(), ".m4a") {
		t.Fatalf("UploadExtsList() = %q, want .m4a", UploadExtsList())
	}
}
