package upload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const mb = 1024 * 1024

func TestValidateSpecCases(t *testing.T) {
	err := Validate(File{Name: "big.mp3", MIME: "audio/mpeg", Size: 60 * mb})
	var verr *ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, ErrTooLarge) {
		t.Fatalf("60MB mp3: %v, want size error", err)
	}
	if !strings.Contains(verr.Reason, "50 MiB") {
		t.Fatalf("reason = %q", verr.Reason)
	}

	err = Validate(File{Name: "notes.txt", MIME: "text/plain", Size: 10 * mb})
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("10MB txt: %v, want format error", err)
	}

	if err := Validate(File{Name: "song.wav", MIME: "audio/wave", Size: 10 * mb}); err != nil {
		t.Fatalf("10MB wav rejected: %v", err)
	}
}

func TestValidateFormatBeforeSize(t *testing.T) {
	err := Validate(File{Name: "huge.txt", Size: 60 * mb})
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want format error first", err)
	}
}

func TestValidateAcceptsMIMEOrExtension(t *testing.T) {
	ok := []File{
		{Name: "blob", MIME: "audio/mpeg"},
		{Name: "blob", MIME: "audio/ogg; codecs=vorbis"},
		{Name: "Track.M4A", MIME: "application/octet-stream"},
		{Name: "x.ogg"},
		{Name: "edge.mp3", Size: MaxSize},
	}
	for _, f := range ok {
		if err := Validate(f); err != nil {
			t.Fatalf("Validate(%+v) = %v", f, err)
		}
	}
	if err := Validate(File{Name: "x.flac", MIME: "audio/flac"}); !errors.Is(err, ErrFormat) {
		t.Fatalf("flac upload = %v, want format error", err)
	}
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	if err := os.WriteFile(path, []byte("RIFF\x24\x00\x00\x00WAVEfmt "), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Describe(path)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if f.Name != "tone.wav" || f.Size != 16 || !strings.HasPrefix(f.MIME, "audio/") {
		t.Fatalf("file = %+v", f)
	}
	if _, err := Describe(dir); err == nil {
		t.Fatal("Describe on a directory should fail")
	}
}
