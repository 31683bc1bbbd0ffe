package player

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/olivier-w/waveplay/internal/blob"
)

func TestSourceLocalPath(t *testing.T) {
	cases := []struct {
		src    Source
		want   string
		wantOK bool
	}{
		{Source{URL: "/music/a.mp3"}, "/music/a.mp3", true},
		{Source{URL: "file:///music/b.wav"}, "/music/b.wav", true},
		{Source{URL: "https://example.com/c.ogg"}, "", false},
		{Source{Blob: &blob.Ref{Path: "/tmp/blob.mp3"}}, "/tmp/blob.mp3", true},
		{Source{}, "", false},
	}
	for _, tc := range cases {
		got, ok := tc.src.LocalPath()
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("LocalPath(%+v) = %q, %v; want %q, %v", tc.src, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestSourceExtPrefersBlobName(t *testing.T) {
	src := Source{URL: "ignored.wav", Blob: &blob.Ref{Name: "Song.MP3", Path: "/tmp/x.mp3"}}
	if got := src.Ext(); got != ".mp3" {
		t.Fatalf("Ext() = %q, want .mp3", got)
	}
	if src.Remote() {
		t.Fatal("blob sources are never remote")
	}
}

func newTestStore(t *testing.T) *blob.Store {
	t.Helper()
	store, err := blob.NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.ReleaseAll() })
	return store
}

func TestFetcherStoresRemoteBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("RIFFdata"))
	}))
	defer srv.Close()

	store := newTestStore(t)
	f := fetcher{store: store}
	ref, err := f.fetch(context.Background(), srv.URL+"/track.wav?sig=1")
	if err != nil {
		t.Fatalf("fetch() error = %v", err)
	}
	if ref.Name != "track.wav" {
		t.Fatalf("blob name = %q, want track.wav", ref.Name)
	}
	data, err := os.ReadFile(ref.Path)
	if err != nil || string(data) != "RIFFdata" {
		t.Fatalf("blob content = %q, %v", data, err)
	}
}

func TestFetcherRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "60000000")
		_, _ = w.Write([]byte(strings.Repeat("x", 16)))
	}))
	defer srv.Close()

	f := fetcher{store: newTestStore(t)}
	if _, err := f.fetch(context.Background(), srv.URL+"/big.mp3"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestFetcherReportsHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := fetcher{store: newTestStore(t)}
	if _, err := f.fetch(context.Background(), srv.URL+"/missing.mp3"); err == nil {
		t.Fatal("expected error for 404")
	}
}
