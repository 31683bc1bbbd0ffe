package upload

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settle is how long a file must stay unchanged before it is imported.
const settle = 500 * time.Millisecond

// Watcher imports files dropped into a directory.
type Watcher struct {
	dir     string
	fs      *fsnotify.Watcher
	imp     *Importer
	log     *zap.Logger
	results chan Result
}

// NewWatcher watches dir, creating it if needed.
func NewWatcher(dir string, imp *Importer, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating drop folder: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{dir: dir, fs: fw, imp: imp, log: log, results: make(chan Result, 8)}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Results delivers one Result per settled file. It is closed when Run returns.
func (w *Watcher) Results() <-chan Result { return w.results }

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.results)
	pending := make(map[string]time.Time)
	tick := time.NewTicker(settle / 5)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				pending[ev.Name] = time.Now()
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				delete(pending, ev.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("drop folder watch error", zap.Error(err))
		case <-tick.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				if info, err := os.Stat(path); err != nil || info.IsDir() {
					continue
				}
				select {
				case w.results <- w.imp.Import([]string{path}):
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
