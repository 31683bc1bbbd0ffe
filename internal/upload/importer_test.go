package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olivier-w/waveplay/internal/blob"
)

func newStore(t *testing.T) *blob.Store {
	t.Helper()
	s, err := blob.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.ReleaseAll() })
	return s
}

func TestImportBatchKeepsGoodFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Good Song.wav")
	bad := filepath.Join(dir, "readme.txt")
	os.WriteFile(good, []byte("RIFF0000WAVE"), 0o644)
	os.WriteFile(bad, []byte("hello"), 0o644)

	store := newStore(t)
	res := NewImporter(store, nil).Import([]string{bad, good, filepath.Join(dir, "missing.mp3")})
	if len(res.Tracks) != 1 || len(res.Rejected) != 2 {
		t.Fatalf("tracks %d rejected %d", len(res.Tracks), len(res.Rejected))
	}
	tr := res.Tracks[0]
	if tr.Title != "Good Song" || tr.Source.Blob == nil || tr.Size != 12 {
		t.Fatalf("track = %+v", tr)
	}
	if !errors.Is(res.Rejected[0].Err, ErrFormat) {
		t.Fatalf("rejection = %v", res.Rejected[0].Err)
	}
	if store.Len() != 1 {
		t.Fatalf("store holds %d blobs", store.Len())
	}
	tr.Cleanup()
	if store.Len() != 0 {
		t.Fatal("cleanup did not release the blob")
	}
	if _, err := os.Stat(tr.Source.Blob.Path); !os.IsNotExist(err) {
		t.Fatalf("blob file still present: %v", err)
	}
}

func TestWatcherImportsDroppedFiles(t *testing.T) {
	drop := filepath.Join(t.TempDir(), "drop")
	w, err := NewWatcher(drop, NewImporter(newStore(t), nil), nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(filepath.Join(drop, "dropped.ogg"), []byte("OggS"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case res := <-w.Results():
		if len(res.Tracks) != 1 || res.Tracks[0].Title != "dropped" {
			t.Fatalf("result = %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no import from the drop folder")
	}

	cancel()
	select {
	case _, ok := <-w.Results():
		if ok {
			t.Fatal("unexpected extra result")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("results not closed after cancel")
	}
}
