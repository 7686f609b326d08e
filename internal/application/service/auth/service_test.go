package auth_service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth_service "pinstack-feed-service/internal/application/service/auth"
	"pinstack-feed-service/internal/application/validation"
	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	"pinstack-feed-service/internal/infrastructure/logger"
	"pinstack-feed-service/internal/infrastructure/outbound/metrics/prometheus"
	"pinstack-feed-service/internal/infrastructure/outbound/repository/user/memory"
	"pinstack-feed-service/internal/infrastructure/outbound/security"
	user_repository_mock "pinstack-feed-service/mocks/user"
)

type fixture struct {
	users  *memory.UserRepository
	tokens *security.JWTProvider
}

func newService(t *testing.T) (*fixture, *auth_service.AuthService) {
	t.Helper()
	log := logger.New("test")
	tokens, err := security.NewJWTProvider([]string{"test-secret"}, time.Hour)
	require.NoError(t, err)
	f := &fixture{users: memory.NewUserRepository(log), tokens: tokens}
	svc := auth_service.NewAuthService(f.users, security.NewBcryptHasher(bcrypt.MinCost), tokens,
		validation.New(), log, prometheus.NewPrometheusMetricsProvider())
	return f, svc.(*auth_service.AuthService)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		req        *model.SignupDTO
		wantErr    error
		wantFields []string
	}{
		{"success", &model.SignupDTO{Email: "A@B.com ", Name: " Alice ", Password: "secret"}, nil, nil},
		{"invalid email", &model.SignupDTO{Email: "nope", Name: "A", Password: "secret"}, custom_errors.ErrValidation, []string{"email"}},
		{"blank name", &model.SignupDTO{Email: "a@b.com", Name: "   ", Password: "secret"}, custom_errors.ErrValidation, []string{"name"}},
		{"short password after trim", &model.SignupDTO{Email: "a@b.com", Name: "A", Password: " abc  "}, custom_errors.ErrValidation, []string{"password"}},
		{"password over 72 bytes", &model.SignupDTO{Email: "a@b.com", Name: "A", Password: strings.Repeat("é", 40)}, custom_errors.ErrValidation, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, svc := newService(t)
			id, err := svc.Signup(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, id)
				var fields []string
				for _, fe := range custom_errors.FieldsOf(err) {
					fields = append(fields, fe.Field)
				}
				assert.Equal(t, tt.wantFields, fields)
				return
			}
			require.NoError(t, err)

			user, err := f.users.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "a@b.com", user.Email)
			assert.Equal(t, "Alice", user.Name)
			assert.Equal(t, model.DefaultStatus, user.Status)
			assert.NotEqual(t, "secret", user.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")))
		})
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	_, err := svc.Signup(ctx, &model.SignupDTO{Email: "a@b.com", Name: "A", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, &model.SignupDTO{Email: "A@b.com", Name: "B", Password: "secret"})
	assert.ErrorIs(t, err, custom_errors.ErrEmailAlreadyExists)
	assert.Equal(t, custom_errors.KindConflict, custom_errors.KindOf(err))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f, svc := newService(t)

	id, err := svc.Signup(ctx, &model.SignupDTO{Email: "a@b.com", Name: "A", Password: "secret"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		result, err := svc.Login(ctx, &model.LoginDTO{Email: "A@B.COM", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, id, result.UserID)

		claims, err := f.tokens.Verify(result.Token)
		require.NoError(t, err)
		assert.Equal(t, id, claims.UserID)
		assert.Equal(t, "a@b.com", claims.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginDTO{Email: "x@b.com", Password: "secret"})
		assert.ErrorIs(t, err, custom_errors.ErrEmailNotFound)
		assert.Equal(t, custom_errors.KindNotFound, custom_errors.KindOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginDTO{Email: "a@b.com", Password: "wrong"})
		assert.ErrorIs(t, err, custom_errors.ErrInvalidCredentials)
		assert.Equal(t, custom_errors.KindAuth, custom_errors.KindOf(err))
	})
}

func TestAuthService_Login_PasswordIsNotTrimmed(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	_, err := svc.Signup(ctx, &model.SignupDTO{Email: "a@b.com", Name: "A", Password: " pw123456 "})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginDTO{Email: "a@b.com", Password: " pw123456 "})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginDTO{Email: "a@b.com", Password: "pw123456"})
	assert.ErrorIs(t, err, custom_errors.ErrInvalidCredentials)

	_, err = svc.Signup(ctx, &model.SignupDTO{Email: "c@b.com", Name: "C", Password: strings.Repeat("a", 70) + "    "})
	assert.ErrorIs(t, err, custom_errors.ErrValidation)
	assert.Equal(t, custom_errors.KindValidation, custom_errors.KindOf(err))
}

func TestAuthService_RepositoryFailures(t *testing.T) {
	ctx := context.Background()
	users := user_repository_mock.NewRepository(t)
	tokens, err := security.NewJWTProvider([]string{"s"}, time.Hour)
	require.NoError(t, err)
	svc := auth_service.NewAuthService(users, security.NewBcryptHasher(bcrypt.MinCost), tokens,
		validation.New(), logger.New("test"), prometheus.NewPrometheusMetricsProvider())

	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil, errors.New("db down")).Once()
	_, err = svc.Signup(ctx, &model.SignupDTO{Email: "a@b.com", Name: "A", Password: "secret"})
	assert.ErrorIs(t, err, custom_errors.ErrDatabaseQuery)

	users.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, errors.New("db down")).Once()
	_, err = svc.Login(ctx, &model.LoginDTO{Email: "a@b.com", Password: "secret"})
	assert.ErrorIs(t, err, custom_errors.ErrDatabaseQuery)

	users.On("GetByID", mock.Anything, model.UserID("u1")).Return(nil, custom_errors.ErrUserNotFound).Once()
	_, err = svc.GetUser(ctx, "u1")
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}
