package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/olivier-w/waveplay/internal/blob"
	"github.com/olivier-w/waveplay/internal/media"
)

// MaxFetchSize caps remote sources, which are fetched whole before decoding.
const MaxFetchSize = 50 * 1024 * 1024

// Source locates a track's audio: a local path, file:// or http(s) URL, or
// an imported blob.
type Source struct {
	URL  string
	Blob *blob.Ref
}

// IsZero reports whether the source points nowhere.
func (s Source) IsZero() bool {
	return s.URL == "" && s.Blob == nil
}

// Remote reports whether the source must be fetched over HTTP.
func (s Source) Remote() bool {
	return s.Blob == nil && media.IsRemote(s.URL)
}

// String returns the locator used in messages.
func (s Source) String() string {
	if s.Blob != nil {
		return s.Blob.Name
	}
	return s.URL
}

// Ext returns the lowercase format extension.
func (s Source) Ext() string {
	if s.Blob != nil {
		return media.Ext(s.Blob.Name)
	}
	return media.Ext(s.URL)
}

// LocalPath returns the filesystem path for blob, plain path and file:// sources.
func (s Source) LocalPath() (string, bool) {
	switch {
	case s.Blob != nil:
		return s.Blob.Path, true
	case s.URL == "" || s.Remote():
		return "", false
	case strings.HasPrefix(s.URL, "file://"):
		u, err := url.Parse(s.URL)
		if err != nil {
			return "", false
		}
		return filepath.FromSlash(u.Path), true
	default:
		return s.URL, true
	}
}

// fetcher downloads remote sources into the blob store.
type fetcher struct {
	client *http.Client
	store  *blob.Store
}

func (f *fetcher) fetch(ctx context.Context, rawURL string) (*blob.Ref, error) {
	if f.store == nil {
		return nil, fmt.Errorf("no blob store for remote source")
	}
	client := f.client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", rawURL, resp.Status)
	}
	if resp.ContentLength > MaxFetchSize {
		return nil, ErrTooLarge
	}

	name := "remote" + media.Ext(rawURL)
	if u, err := url.Parse(rawURL); err == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
		name = path.Base(u.Path)
	}

	ref, err := f.store.Create(name, io.LimitReader(resp.Body, MaxFetchSize+1))
	if err != nil {
		return nil, err
	}
	if ref.Size > MaxFetchSize {
		_ = f.store.Release(ref)
		return nil, ErrTooLarge
	}
	return ref, nil
}
