package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	"pinstack-feed-service/internal/infrastructure/logger"
	"pinstack-feed-service/internal/infrastructure/outbound/repository/post/memory"
)

func intPtr(i int) *int { return &i }

func TestPostRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepository(logger.New("test"))

	created, err := repo.Create(ctx, &model.Post{Title: "T", Content: "C", ImageURL: "images/a.png", Creator: model.Creator{ID: "u1", Name: "ignored"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.UserID("u1"), created.Creator.ID)
	assert.Empty(t, created.Creator.Name)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Title = "changed locally"
	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", again.Title)

	updated, err := repo.Update(ctx, &model.Post{ID: created.ID, Title: "T2", Content: "C2", ImageURL: "images/b.png", Creator: model.Creator{ID: "someone-else"}})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "images/b.png", updated.ImageURL)
	assert.Equal(t, model.UserID("u1"), updated.Creator.ID)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), custom_errors.ErrPostNotFound)

	_, err = repo.Update(ctx, &model.Post{ID: "missing"})
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestPostRepository_List(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo := memory.NewPostRepository(logger.New("test")).WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	var ids []model.PostID
	for _, title := range []string{"P1", "P2", "P3"} {
		p, err := repo.Create(ctx, &model.Post{Title: title, Creator: model.Creator{ID: "u1"}})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	tests := []struct {
		name      string
		filters   model.PostFilters
		wantTitle []string
	}{
		{"first page", model.PostFilters{Limit: intPtr(2), Offset: intPtr(0)}, []string{"P3", "P2"}},
		{"second page", model.PostFilters{Limit: intPtr(2), Offset: intPtr(2)}, []string{"P1"}},
		{"past the end", model.PostFilters{Limit: intPtr(2), Offset: intPtr(4)}, []string{}},
		{"negative offset", model.PostFilters{Limit: intPtr(2), Offset: intPtr(-6)}, []string{}},
		{"no filters", model.PostFilters{}, []string{"P3", "P2", "P1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, total, err := repo.List(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, 3, total)
			titles := make([]string, 0, len(posts))
			for _, p := range posts {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.wantTitle, titles)
		})
	}
}
