// Package store persists blobs (hand histories, session snapshots) and,
// optionally, aggregate player statistics in Postgres.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/feltworks/feltpoker/domain/poker"
)

// Store is the persistence seam: opaque byte blobs under flat string keys.
// Everything above it (codecs, replay) is storage-agnostic.
type Store interface {
	Put(key string, data []byte) error
	Get(key string) ([]byte, error)
	List(prefix string) ([]string, error)
	Delete(key string) error
}

// FileStore keeps each blob as one file under a root directory. Writes go
// through a temp file and a rename, so a crash never leaves a half-written
// blob under a live key.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{root: root}, nil
}

// checkKey refuses keys that would escape the root.
func (s *FileStore) checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf("%w: store key %q", poker.ErrInvalidArgument, key)
	}
	return nil
}

func (s *FileStore) Put(key string, data []byte) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.root, key+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.root, key))
}

func (s *FileStore) Get(key string) ([]byte, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", poker.ErrNotFound, key)
	}
	return data, err
}

func (s *FileStore) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		keys = append(keys, e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Delete(key string) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, key))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", poker.ErrNotFound, key)
	}
	return err
}
