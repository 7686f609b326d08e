package media_repository

import (
	"context"
	"io"
)

//go:generate mockery --name ImageStore --dir . --output ../../../../../mocks/media --outpkg mocks --filename ImageStore.go
type ImageStore interface {
	// Save stores content under name and returns the public storage path.
	Save(ctx context.Context, name string, content io.Reader) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
	Remove(ctx context.Context, path string) error
}
