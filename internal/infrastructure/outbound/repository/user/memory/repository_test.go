package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	"pinstack-feed-service/internal/infrastructure/logger"
	"pinstack-feed-service/internal/infrastructure/outbound/repository/user/memory"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(logger.New("test"))

	created, err := repo.Create(ctx, &model.User{Email: "a@b.com", Name: "A", Password: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.DefaultStatus, created.Status)
	assert.Empty(t, created.Posts)

	_, err = repo.Create(ctx, &model.User{Email: "a@b.com", Name: "B", Password: "hash"})
	assert.ErrorIs(t, err, custom_errors.ErrEmailAlreadyExists)

	byEmail, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "x@b.com")
	assert.ErrorIs(t, err, custom_errors.ErrEmailNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)

	require.NoError(t, repo.AddPost(ctx, created.ID, "p1"))
	require.NoError(t, repo.AddPost(ctx, created.ID, "p2"))
	require.NoError(t, repo.RemovePost(ctx, created.ID, "p1"))
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.PostID{"p2"}, got.Posts)

	updated, err := repo.UpdateStatus(ctx, created.ID, "busy")
	require.NoError(t, err)
	assert.Equal(t, "busy", updated.Status)

	assert.ErrorIs(t, repo.AddPost(ctx, "missing", "p1"), custom_errors.ErrUserNotFound)
	assert.ErrorIs(t, repo.RemovePost(ctx, "missing", "p1"), custom_errors.ErrUserNotFound)
	_, err = repo.UpdateStatus(ctx, "missing", "x")
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}
