package auth_service

import (
	"context"

	model "pinstack-feed-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/auth --outpkg mocks --filename Service.go
type Service interface {
	Signup(ctx context.Context, req *model.SignupDTO) (model.UserID, error)
	Login(ctx context.Context, req *model.LoginDTO) (*model.AuthResult, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
}
