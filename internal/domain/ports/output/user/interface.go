package user_repository

import (
	"context"

	model "pinstack-feed-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/user --outpkg mocks --filename Repository.go
type Repository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id model.UserID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateStatus(ctx context.Context, id model.UserID, status string) (*model.User, error)
	AddPost(ctx context.Context, id model.UserID, postID model.PostID) error
	RemovePost(ctx context.Context, id model.UserID, postID model.PostID) error
}
