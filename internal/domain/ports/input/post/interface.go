package post_service

import (
	"context"

	model "pinstack-feed-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/post --outpkg mocks --filename Service.go
type Service interface {
	ListPosts(ctx context.Context, page int) (*model.PostPage, error)
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
	GetPost(ctx context.Context, id model.PostID) (*model.Post, error)
	UpdatePost(ctx context.Context, userID model.UserID, id model.PostID, post *model.UpdatePostDTO) (*model.Post, error)
	DeletePost(ctx context.Context, userID model.UserID, id model.PostID) error
	GetStatus(ctx context.Context, userID model.UserID) (string, error)
	UpdateStatus(ctx context.Context, userID model.UserID, status string) (string, error)
}
