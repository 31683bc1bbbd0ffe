// Package blob stores ephemeral local copies of imported audio files.
// A Ref stays valid until it is released; releasing deletes the copy.
package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrReleased = errors.New("blob: reference released")

// Ref points at one stored blob.
type Ref struct {
	ID   string
	Name string // original file name
	Path string
	Size int64
}

// Store owns a temporary directory of blobs.
type Store struct {
	dir  string
	mu   sync.Mutex
	refs map[string]*Ref
}

// NewStore creates a store rooted in a fresh temporary directory.
func NewStore() (*Store, error) {
	dir, err := os.MkdirTemp("", "waveplay-blobs-")
	if err != nil {
		return nil, fmt.Errorf("creating blob dir: %w", err)
	}
	return &Store{dir: dir, refs: make(map[string]*Ref)}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Create copies r into a new blob. The file extension of name is kept so
// decoders can detect the format.
func (s *Store) Create(name string, r io.Reader) (*Ref, error) {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(name))
	path := filepath.Join(s.dir, id+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("creating blob: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing blob: %w", err)
	}

	ref := &Ref{ID: id, Name: filepath.Base(name), Path: path, Size: n}
	s.mu.Lock()
	s.refs[id] = ref
	s.mu.Unlock()
	return ref, nil
}

// Import copies the file at path into a new blob.
func (s *Store) Import(path string) (*Ref, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Create(filepath.Base(path), f)
}

// Lookup returns the live reference with the given id.
func (s *Store) Lookup(id string) (*Ref, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.refs[id]
	return ref, ok
}

// Len returns the number of live blobs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refs)
}

// Release deletes the blob behind ref. Releasing twice returns ErrReleased.
func (s *Store) Release(ref *Ref) error {
	if ref == nil {
		return nil
	}
	s.mu.Lock()
	_, ok := s.refs[ref.ID]
	delete(s.refs, ref.ID)
	s.mu.Unlock()
	if !ok {
		return ErrReleased
	}
	if err := os.Remove(ref.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing blob %s: %w", ref.ID, err)
	}
	return nil
}

// ReleaseAll deletes every blob and the store directory.
func (s *Store) ReleaseAll() error {
	s.mu.Lock()
	s.refs = make(map[string]*Ref)
	s.mu.Unlock()
	return os.RemoveAll(s.dir)
}
