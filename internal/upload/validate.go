// Package upload validates audio files handed to the player, copies the
// accepted ones into the blob store and watches a drop folder for more.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/olivier-w/waveplay/internal/media"
	"github.com/olivier-w/waveplay/internal/util"
)

// MaxSize is the largest accepted file.
const MaxSize = 50 * 1024 * 1024

var (
	ErrFormat   = errors.New("unsupported audio format")
	ErrTooLarge = errors.New("file too large")
)

// File describes a candidate upload.
type File struct {
	Name string
	MIME string
	Size int64
}

// ValidationError rejects one file. Reason is meant for the user.
type ValidationError struct {
	Name   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate accepts files whose MIME type or extension is a supported audio
// format and whose size is at most MaxSize. The format is checked first.
func Validate(f File) error {
	if !media.IsUploadMIME(f.MIME) && !media.IsUploadExt(filepath.Ext(f.Name)) {
		return &ValidationError{
			Name:   f.Name,
			Reason: fmt.Sprintf("please upload a valid audio file (%s)", media.UploadExtsList()),
			Err:    ErrFormat,
		}
	}
	if f.Size > MaxSize {
		return &ValidationError{
			Name:   f.Name,
			Reason: fmt.Sprintf("file size must be at most %s (got %s)", util.FormatSize(MaxSize), util.FormatSize(f.Size)),
			Err:    ErrTooLarge,
		}
	}
	return nil
}

// Describe stats path and sniffs its content type.
func Describe(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()
	info, err := fh.Stat()
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(fh, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return File{}, err
	}
	return File{
		Name: filepath.Base(path),
		MIME: http.DetectContentType(head[:n]),
		Size: info.Size(),
	}, nil
}
