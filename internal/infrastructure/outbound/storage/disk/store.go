package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pinstack-feed-service/internal/custom_errors"
	ports "pinstack-feed-service/internal/domain/ports/output"
)

// Store keeps images as files under root. Storage paths handed to clients
// are prefix + "/" + name, which is also the URL the static route serves.
type Store struct {
	root   string
	prefix string
	log    ports.Logger
}

func NewStore(root, prefix string, log ports.Logger) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve images dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create images dir: %w", err)
	}
	return &Store{root: abs, prefix: strings.Trim(prefix, "/"), log: log}, nil
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	file, err := os.OpenFile(filepath.Join(s.root, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(file, content); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close image file: %w", err)
	}
	s.log.Debug("Saved image file", slog.String("file", file.Name()))
	return path.Join(s.prefix, name), nil
}

func (s *Store) Exists(ctx context.Context, storagePath string) (bool, error) {
	file, err := s.resolve(storagePath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (s *Store) Remove(ctx context.Context, storagePath string) error {
	file, err := s.resolve(storagePath)
	if err != nil {
		return err
	}
	if err := os.Remove(file); err != nil {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}

// resolve maps a storage path to a file inside root and rejects anything
// that would leave it.
func (s *Store) resolve(storagePath string) (string, error) {
	p := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(storagePath)), "/")
	if s.prefix != "" {
		if !strings.HasPrefix(p, s.prefix+"/") {
			return "", custom_errors.ErrImageNotFound
		}
		p = strings.TrimPrefix(p, s.prefix+"/")
	}
	if p == "" || strings.Contains(p, "/") {
		return "", custom_errors.ErrImageNotFound
	}
	return filepath.Join(s.root, p), nil
}
