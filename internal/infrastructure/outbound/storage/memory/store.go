package memory

import (
	"context"
	"errors"
	"io"
	"path"
	"sync"
)

var ErrRemoveFailed = errors.New("remove failed")

// Store is an in-memory image store for tests and the memory driver.
type Store struct {
	mu         sync.RWMutex
	prefix     string
	files      map[string][]byte
	FailSave   bool
	FailRemove bool
}

func NewStore(prefix string) *Store {
	return &Store{prefix: prefix, files: make(map[string][]byte)}
}

func (s *Store) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	if s.FailSave {
		return "", errors.New("save failed")
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	p := path.Join(s.prefix, name)
	s.mu.Lock()
	s.files[p] = data
	s.mu.Unlock()
	return p, nil
}

func (s *Store) Exists(ctx context.Context, p string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[p]
	return ok, nil
}

func (s *Store) Remove(ctx context.Context, p string) error {
	if s.FailRemove {
		return ErrRemoveFailed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[p]; !ok {
		return errors.New("image not stored")
	}
	delete(s.files, p)
	return nil
}

// Paths lists every stored asset.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	return paths
}
