package image_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	ports "pinstack-feed-service/internal/domain/ports/output"
	media_repository "pinstack-feed-service/internal/domain/ports/output/media"
)

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpeg",
	"image/webp": ".webp",
}

// Allowed reports whether mimeType is an accepted image type.
func Allowed(mimeType string) bool {
	_, ok := allowedTypes[strings.ToLower(strings.TrimSpace(mimeType))]
	return ok
}

type Handler struct {
	store   media_repository.ImageStore
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewHandler(store media_repository.ImageStore, log ports.Logger, metrics ports.MetricsProvider) *Handler {
	return &Handler{store: store, log: log, metrics: metrics}
}

// AcceptUpload stores an allowed image under a fresh name and returns its
// storage path. Disallowed types are dropped without error and accepted is false.
func (h *Handler) AcceptUpload(ctx context.Context, upload *model.ImageUpload) (path string, accepted bool, err error) {
	if upload == nil || upload.Content == nil {
		return "", false, nil
	}
	ext, ok := allowedTypes[strings.ToLower(strings.TrimSpace(upload.MimeType))]
	if !ok {
		h.log.Debug("Dropping upload with disallowed type",
			slog.String("mime_type", upload.MimeType),
			slog.String("original_name", upload.OriginalName))
		return "", false, nil
	}

	path, err = h.store.Save(ctx, uuid.NewString()+ext, upload.Content)
	if err != nil {
		h.metrics.IncrementImageOperations("store", false)
		h.log.Error("Failed to store image", slog.String("error", err.Error()))
		return "", false, fmt.Errorf("%w: %v", custom_errors.ErrImageStore, err)
	}

	h.metrics.IncrementImageOperations("store", true)
	h.log.Debug("Stored image", slog.String("path", path))
	return path, true, nil
}

// Discard removes a stored asset. Failures are logged and never returned.
func (h *Handler) Discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := h.store.Remove(ctx, path); err != nil {
		h.metrics.IncrementImageOperations("discard", false)
		h.log.Warn("Failed to discard image", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	h.metrics.IncrementImageOperations("discard", true)
	h.log.Debug("Discarded image", slog.String("path", path))
}

func (h *Handler) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := h.store.Exists(ctx, path)
	if err != nil {
		if errors.Is(err, custom_errors.ErrImageNotFound) {
			return false, nil
		}
		h.log.Error("Failed to check image", slog.String("path", path), slog.String("error", err.Error()))
		return false, fmt.Errorf("%w: %v", custom_errors.ErrImageStore, err)
	}
	return ok, nil
}
