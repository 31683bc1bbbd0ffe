package player

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionBlocked is returned by Play when the output could not be resumed.
	ErrPermissionBlocked = errors.New("playback blocked: audio output could not be resumed")
	// ErrInvalidRate is returned for non-positive or NaN playback rates.
	ErrInvalidRate = errors.New("invalid playback rate")
	// ErrSourceCaptured is returned when the element's source was already captured.
	ErrSourceCaptured = errors.New("element source already captured")
	// ErrNoSource is returned by Play before anything was loaded.
	ErrNoSource = errors.New("no source loaded")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("element closed")
	// ErrUnsupportedFormat marks files no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrTooLarge marks remote sources above MaxFetchSize.
	ErrTooLarge = errors.New("source too large")
)

// DecodeError reports a source that could not be opened or decoded.
type DecodeError struct {
	Src string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Src, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
