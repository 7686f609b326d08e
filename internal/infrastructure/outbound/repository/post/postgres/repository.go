package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	ports "pinstack-feed-service/internal/domain/ports/output"
	"pinstack-feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

const postColumns = `id, title, content, image_url, creator_id, created_at, updated_at`

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.ImageURL,
		&post.Creator.ID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	if post.ID == "" {
		post.ID = model.NewPostID()
	}
	p.log.Debug("Creating new post", slog.String("id", post.ID.String()), slog.String("creator_id", post.Creator.ID.String()))

	now := time.Now().UTC()
	args := pgx.NamedArgs{
		"id":         post.ID,
		"title":      post.Title,
		"content":    post.Content,
		"image_url":  post.ImageURL,
		"creator_id": post.Creator.ID,
		"created_at": now,
		"updated_at": now,
	}
	query := `
		INSERT INTO posts (id, title, content, image_url, creator_id, created_at, updated_at)
		VALUES (@id, @title, @content, @image_url, @creator_id, @created_at, @updated_at)
		RETURNING ` + postColumns

	created, err := scanPost(p.db.QueryRow(ctx, query, args))
	if err != nil {
		p.observe("post_create", start, false)
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_create", start, true)
	p.log.Debug("Successfully created post", slog.String("id", created.ID.String()))
	return created, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id model.PostID) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Getting post by ID", slog.String("id", id.String()))

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = @id`
	post, err := scanPost(p.db.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		p.observe("post_get_by_id", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.String("id", id.String()))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.String("id", id.String()), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_get_by_id", start, true)
	return post, nil
}

// Update overwrites the mutable fields of post. The creator column is never written.
func (p *PostRepository) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Updating post", slog.String("id", post.ID.String()))

	args := pgx.NamedArgs{
		"id":         post.ID,
		"title":      post.Title,
		"content":    post.Content,
		"image_url":  post.ImageURL,
		"updated_at": time.Now().UTC(),
	}
	query := `
		UPDATE posts SET title = @title, content = @content, image_url = @image_url, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + postColumns

	updated, err := scanPost(p.db.QueryRow(ctx, query, args))
	if err != nil {
		p.observe("post_update", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id during Update", slog.String("id", post.ID.String()))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.String("id", post.ID.String()), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_update", start, true)
	p.log.Debug("Successfully updated post", slog.String("id", updated.ID.String()), slog.Time("updated_at", updated.UpdatedAt))
	return updated, nil
}

func (p *PostRepository) Delete(ctx context.Context, id model.PostID) error {
	start := time.Now()
	p.log.Debug("Deleting post", slog.String("id", id.String()))

	result, err := p.db.Exec(ctx, `DELETE FROM posts WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		p.observe("post_delete", start, false)
		p.log.Error("Error deleting post", slog.String("id", id.String()), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		p.observe("post_delete", start, false)
		p.log.Debug("Post not found during deletion", slog.String("id", id.String()))
		return custom_errors.ErrPostNotFound
	}

	p.observe("post_delete", start, true)
	p.log.Debug("Successfully deleted post", slog.String("id", id.String()))
	return nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	start := time.Now()
	p.log.Debug("Listing posts", slog.Any("limit", filters.Limit), slog.Any("offset", filters.Offset))

	args := pgx.NamedArgs{}
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`
	if filters.Limit != nil {
		query += " LIMIT @limit"
		args["limit"] = *filters.Limit
	}
	if filters.Offset != nil {
		query += " OFFSET @offset"
		args["offset"] = *filters.Offset
	}

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			p.observe("post_list", start, false)
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseQuery
		}
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	var total int
	if err = p.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_list", start, true)
	p.log.Debug("Listed posts", slog.Int("count", len(posts)), slog.Int("total", total))
	return posts, total, nil
}
