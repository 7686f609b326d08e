package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	ports "pinstack-feed-service/internal/domain/ports/output"
)

type UserRepository struct {
	log     ports.Logger
	mu      sync.RWMutex
	users   map[model.UserID]*model.User
	byEmail map[string]model.UserID
}

func NewUserRepository(log ports.Logger) *UserRepository {
	return &UserRepository{
		log:     log,
		users:   make(map[model.UserID]*model.User),
		byEmail: make(map[string]model.UserID),
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Posts = slices.Clone(u.Posts)
	return &c
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		r.log.Debug("User email already exists (memory impl)")
		return nil, custom_errors.ErrEmailAlreadyExists
	}

	now := time.Now().UTC()
	newUser := &model.User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Password:  user.Password,
		Status:    user.Status,
		Posts:     []model.PostID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if newUser.ID == "" {
		newUser.ID = model.NewUserID()
	}
	if newUser.Status == "" {
		newUser.Status = model.DefaultStatus
	}
	r.users[newUser.ID] = newUser
	r.byEmail[newUser.Email] = newUser.ID

	r.log.Debug("Successfully created user (memory impl)", slog.String("id", newUser.ID.String()))
	return copyUser(newUser), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id model.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, custom_errors.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, custom_errors.ErrEmailNotFound
	}
	return copyUser(r.users[id]), nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id model.UserID, status string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, custom_errors.ErrUserNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	return copyUser(user), nil
}

func (r *UserRepository) AddPost(ctx context.Context, id model.UserID, postID model.PostID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return custom_errors.ErrUserNotFound
	}
	user.Posts = append(user.Posts, postID)
	user.UpdatedAt = time.Now().UTC()
	return nil
}

// RemovePost drops every occurrence of postID, matching array_remove.
func (r *UserRepository) RemovePost(ctx context.Context, id model.UserID, postID model.PostID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return custom_errors.ErrUserNotFound
	}
	user.Posts = slices.DeleteFunc(user.Posts, func(p model.PostID) bool { return p == postID })
	user.UpdatedAt = time.Now().UTC()
	return nil
}
