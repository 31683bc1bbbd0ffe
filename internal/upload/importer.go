package upload

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/olivier-w/waveplay/internal/blob"
	"github.com/olivier-w/waveplay/internal/catalog"
	"github.com/olivier-w/waveplay/internal/player"
	"github.com/olivier-w/waveplay/internal/playlist"
)

// Rejection is one file that was not imported.
type Rejection struct {
	Path string
	Err  error
}

// Result is the outcome of one batch.
type Result struct {
	Tracks   []playlist.Track
	Rejected []Rejection
}

// Importer copies validated files into a blob store.
type Importer struct {
	store *blob.Store
	log   *zap.Logger
}

// NewImporter creates an importer writing into store.
func NewImporter(store *blob.Store, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: store, log: log}
}

// Import validates and copies each path. A rejected file never blocks the
// rest of the batch. Each track's Cleanup releases its blob.
func (im *Importer) Import(paths []string) Result {
	var res Result
	for _, path := range paths {
		t, err := im.importOne(path)
		if err != nil {
			im.log.Info("upload rejected", zap.String("path", path), zap.Error(err))
			res.Rejected = append(res.Rejected, Rejection{Path: path, Err: err})
			continue
		}
		im.log.Debug("upload imported", zap.String("path", path), zap.String("blob", t.Source.Blob.ID))
		res.Tracks = append(res.Tracks, t)
	}
	return res
}

func (im *Importer) importOne(path string) (playlist.Track, error) {
	f, err := Describe(path)
	if err != nil {
		return playlist.Track{}, err
	}
	if err := Validate(f); err != nil {
		return playlist.Track{}, err
	}
	tags := catalog.ReadTags(path)
	ref, err := im.store.Import(path)
	if err != nil {
		return playlist.Track{}, fmt.Errorf("importing %s: %w", f.Name, err)
	}
	store, log := im.store, im.log
	return playlist.Track{
		Title:  tags.Title,
		Artist: tags.Artist,
		Album:  tags.Album,
		Genre:  tags.Genre,
		Year:   tags.Year,
		Size:   ref.Size,
		Source: player.Source{Blob: ref},
		Cleanup: func() {
			if err := store.Release(ref); err != nil {
				log.Debug("release blob", zap.String("blob", ref.ID), zap.Error(err))
			}
		},
	}, nil
}
