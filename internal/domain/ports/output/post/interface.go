package post_repository

import (
	"context"

	model "pinstack-feed-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename Repository.go
type Repository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id model.PostID) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) (*model.Post, error)
	Delete(ctx context.Context, id model.PostID) error
	List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error)
}
