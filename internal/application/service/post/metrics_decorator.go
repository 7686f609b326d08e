package post_service

import (
	"context"
	"log/slog"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	post_port "pinstack-feed-service/internal/domain/ports/input/post"
	output "pinstack-feed-service/internal/domain/ports/output"
)

// PostServiceMetricsDecorator counts every post operation by outcome.
// Only internal errors count as failures.
type PostServiceMetricsDecorator struct {
	service post_port.Service
	log     output.Logger
	metrics output.MetricsProvider
}

func NewPostServiceMetricsDecorator(service post_port.Service, log output.Logger, metrics output.MetricsProvider) post_port.Service {
	return &PostServiceMetricsDecorator{service: service, log: log, metrics: metrics}
}

func (d *PostServiceMetricsDecorator) record(operation string, err error) {
	ok := err == nil || custom_errors.KindOf(err) != custom_errors.KindInternal
	d.metrics.IncrementPostOperations(operation, ok)
	if !ok {
		d.log.Debug("Post operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
	}
}

func (d *PostServiceMetricsDecorator) ListPosts(ctx context.Context, page int) (*model.PostPage, error) {
	result, err := d.service.ListPosts(ctx, page)
	d.record("list", err)
	return result, err
}

func (d *PostServiceMetricsDecorator) CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error) {
	result, err := d.service.CreatePost(ctx, post)
	d.record("create", err)
	return result, err
}

func (d *PostServiceMetricsDecorator) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	result, err := d.service.GetPost(ctx, id)
	d.record("get", err)
	return result, err
}

func (d *PostServiceMetricsDecorator) UpdatePost(ctx context.Context, userID model.UserID, id model.PostID, post *model.UpdatePostDTO) (*model.Post, error) {
	result, err := d.service.UpdatePost(ctx, userID, id, post)
	d.record("update", err)
	return result, err
}

func (d *PostServiceMetricsDecorator) DeletePost(ctx context.Context, userID model.UserID, id model.PostID) error {
	err := d.service.DeletePost(ctx, userID, id)
	d.record("delete", err)
	return err
}

func (d *PostServiceMetricsDecorator) GetStatus(ctx context.Context, userID model.UserID) (string, error) {
	result, err := d.service.GetStatus(ctx, userID)
	d.record("get_status", err)
	return result, err
}

func (d *PostServiceMetricsDecorator) UpdateStatus(ctx context.Context, userID model.UserID, status string) (string, error) {
	result, err := d.service.UpdateStatus(ctx, userID, status)
	d.record("update_status", err)
	return result, err
}
