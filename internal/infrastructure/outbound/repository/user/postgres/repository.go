package user_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	ports "pinstack-feed-service/internal/domain/ports/output"
	"pinstack-feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

const (
	userColumns     = `id, email, name, password, status, posts, created_at, updated_at`
	uniqueViolation = "23505"
)

type UserRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewUserRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (r *UserRepository) observe(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user  model.User
		posts []string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Password,
		&user.Status,
		&posts,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Posts = make([]model.PostID, 0, len(posts))
	for _, id := range posts {
		user.Posts = append(user.Posts, model.PostID(id))
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()
	if user.ID == "" {
		user.ID = model.NewUserID()
	}
	if user.Status == "" {
		user.Status = model.DefaultStatus
	}
	r.log.Debug("Creating new user", slog.String("id", user.ID.String()))

	now := time.Now().UTC()
	args := pgx.NamedArgs{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"password":   user.Password,
		"status":     user.Status,
		"created_at": now,
		"updated_at": now,
	}
	query := `
		INSERT INTO users (id, email, name, password, status, posts, created_at, updated_at)
		VALUES (@id, @email, @name, @password, @status, '{}', @created_at, @updated_at)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe("user_create", start, false)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.log.Debug("User email already exists")
			return nil, custom_errors.ErrEmailAlreadyExists
		}
		r.log.Error("Error creating user", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe("user_create", start, true)
	r.log.Debug("Successfully created user", slog.String("id", created.ID.String()))
	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id model.UserID) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_id", `SELECT `+userColumns+` FROM users WHERE id = @id`,
		pgx.NamedArgs{"id": id}, custom_errors.ErrUserNotFound)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_email", `SELECT `+userColumns+` FROM users WHERE email = @email`,
		pgx.NamedArgs{"email": email}, custom_errors.ErrEmailNotFound)
}

func (r *UserRepository) getOne(ctx context.Context, queryType, query string, args pgx.NamedArgs, notFound error) (*model.User, error) {
	start := time.Now()
	user, err := scanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("User not found", slog.String("query", queryType))
			return nil, notFound
		}
		r.log.Error("Error getting user", slog.String("query", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	r.observe(queryType, start, true)
	return user, nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id model.UserID, status string) (*model.User, error) {
	start := time.Now()
	r.log.Debug("Updating user status", slog.String("id", id.String()))

	query := `UPDATE users SET status = @status, updated_at = @updated_at WHERE id = @id RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, query, pgx.NamedArgs{
		"id":         id,
		"status":     status,
		"updated_at": time.Now().UTC(),
	}))
	if err != nil {
		r.observe("user_update_status", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error updating user status", slog.String("id", id.String()), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	r.observe("user_update_status", start, true)
	return user, nil
}

func (r *UserRepository) AddPost(ctx context.Context, id model.UserID, postID model.PostID) error {
	return r.execPosts(ctx, "user_add_post",
		`UPDATE users SET posts = array_append(posts, @post_id), updated_at = @updated_at WHERE id = @id`, id, postID)
}

func (r *UserRepository) RemovePost(ctx context.Context, id model.UserID, postID model.PostID) error {
	return r.execPosts(ctx, "user_remove_post",
		`UPDATE users SET posts = array_remove(posts, @post_id), updated_at = @updated_at WHERE id = @id`, id, postID)
}

func (r *UserRepository) execPosts(ctx context.Context, queryType, query string, id model.UserID, postID model.PostID) error {
	start := time.Now()
	result, err := r.db.Exec(ctx, query, pgx.NamedArgs{
		"id":         id,
		"post_id":    string(postID),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		r.observe(queryType, start, false)
		r.log.Error("Error updating user posts", slog.String("id", id.String()), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		r.observe(queryType, start, false)
		return custom_errors.ErrUserNotFound
	}
	r.observe(queryType, start, true)
	r.log.Debug("Updated user posts", slog.String("id", id.String()), slog.String("post_id", postID.String()))
	return nil
}
