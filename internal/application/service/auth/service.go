package auth_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pinstack-feed-service/internal/application/validation"
	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	auth_port "pinstack-feed-service/internal/domain/ports/input/auth"
	ports "pinstack-feed-service/internal/domain/ports/output"
	"pinstack-feed-service/internal/domain/ports/output/security"
	user_repository "pinstack-feed-service/internal/domain/ports/output/user"
)

type AuthService struct {
	users    user_repository.Repository
	hasher   security.PasswordHasher
	tokens   security.TokenProvider
	validate *validation.Validator
	log      ports.Logger
	metrics  ports.MetricsProvider
}

func NewAuthService(
	users user_repository.Repository,
	hasher security.PasswordHasher,
	tokens security.TokenProvider,
	validate *validation.Validator,
	log ports.Logger,
	metrics ports.MetricsProvider,
) auth_port.Service {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		validate: validate,
		log:      log,
		metrics:  metrics,
	}
}

// bcrypt ignores everything past the first 72 bytes
const maxPasswordBytes = 72

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req *model.SignupDTO) (id model.UserID, err error) {
	defer func() { s.metrics.IncrementAuthOperations("signup", err == nil) }()

	input := &model.SignupDTO{
		Email:    normalizeEmail(req.Email),
		Name:     strings.TrimSpace(req.Name),
		Password: strings.TrimSpace(req.Password),
	}
	if err := s.validate.Struct(input); err != nil {
		s.log.Debug("Signup validation failed", slog.String("error", err.Error()))
		return "", err
	}

	// min length is checked on the trimmed password, the hash covers it verbatim
	if len(req.Password) > maxPasswordBytes {
		return "", custom_errors.Validation("validation failed, invalid input data", custom_errors.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at most %d bytes long", maxPasswordBytes),
		})
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", slog.String("error", err.Error()))
		return "", custom_errors.ErrPasswordHashing
	}

	user, err := s.users.Create(ctx, &model.User{
		Email:    input.Email,
		Name:     input.Name,
		Password: hash,
		Status:   model.DefaultStatus,
	})
	if err != nil {
		if errors.Is(err, custom_errors.ErrEmailAlreadyExists) {
			s.log.Debug("Signup with existing email")
			return "", err
		}
		s.log.Error("Failed to create user", slog.String("error", err.Error()))
		return "", custom_errors.ErrDatabaseQuery
	}

	s.log.Info("User signed up", slog.String("user_id", user.ID.String()))
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, req *model.LoginDTO) (result *model.AuthResult, err error) {
	defer func() { s.metrics.IncrementAuthOperations("login", err == nil) }()

	email := normalizeEmail(req.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrEmailNotFound):
			s.log.Debug("Login for unknown email")
			return nil, custom_errors.ErrEmailNotFound
		default:
			s.log.Error("Failed to get user by email", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	if err := s.hasher.Compare(user.Password, req.Password); err != nil {
		s.log.Debug("Login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, custom_errors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(model.TokenClaims{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.log.Error("Failed to issue token", slog.String("error", err.Error()))
		return nil, custom_errors.ErrTokenIssue
	}

	return &model.AuthResult{Token: token, UserID: user.ID, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			return nil, err
		}
		s.log.Error("Failed to get user", slog.String("user_id", id.String()), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return user, nil
}
