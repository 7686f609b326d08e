package post_service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	image_service "pinstack-feed-service/internal/application/service/image"
	"pinstack-feed-service/internal/application/validation"
	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	post_port "pinstack-feed-service/internal/domain/ports/input/post"
	ports "pinstack-feed-service/internal/domain/ports/output"
	"pinstack-feed-service/internal/domain/ports/output/events"
	post_repository "pinstack-feed-service/internal/domain/ports/output/post"
	user_repository "pinstack-feed-service/internal/domain/ports/output/user"
)

const DefaultPageSize = 2

type PostService struct {
	posts       post_repository.Repository
	users       user_repository.Repository
	images      *image_service.Handler
	broadcaster events.Broadcaster
	validate    *validation.Validator
	log         ports.Logger
	metrics     ports.MetricsProvider
	pageSize    int
}

func NewPostService(
	posts post_repository.Repository,
	users user_repository.Repository,
	images *image_service.Handler,
	broadcaster events.Broadcaster,
	validate *validation.Validator,
	log ports.Logger,
	metrics ports.MetricsProvider,
	pageSize int,
) post_port.Service {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &PostService{
		posts:       posts,
		users:       users,
		images:      images,
		broadcaster: broadcaster,
		validate:    validate,
		log:         log,
		metrics:     metrics,
		pageSize:    pageSize,
	}
}

func (s *PostService) ListPosts(ctx context.Context, page int) (*model.PostPage, error) {
	if page < 1 {
		page = 1
	}
	limit := s.pageSize
	offset := math.MaxInt
	if page-1 <= math.MaxInt/s.pageSize {
		offset = (page - 1) * s.pageSize
	}

	posts, total, err := s.posts.List(ctx, model.PostFilters{Limit: &limit, Offset: &offset})
	if err != nil {
		s.log.Error("Failed to list posts", slog.Int("page", page), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	names := make(map[model.UserID]string)
	for _, post := range posts {
		name, ok := names[post.Creator.ID]
		if !ok {
			name = s.creatorName(ctx, post.Creator.ID)
			names[post.Creator.ID] = name
		}
		post.Creator.Name = name
	}

	return &model.PostPage{Posts: posts, TotalItems: total}, nil
}

func (s *PostService) CreatePost(ctx context.Context, dto *model.CreatePostDTO) (*model.Post, error) {
	input := &model.CreatePostDTO{
		CreatorID: dto.CreatorID,
		Title:     strings.TrimSpace(dto.Title),
		Content:   strings.TrimSpace(dto.Content),
		Image:     dto.Image,
	}
	if err := s.validate.Struct(input); err != nil {
		s.log.Debug("Create post validation failed", slog.String("error", err.Error()))
		return nil, err
	}
	if input.Image.IsEmpty() {
		return nil, custom_errors.ErrNoImageProvided
	}

	creator, err := s.users.GetByID(ctx, input.CreatorID)
	if err != nil {
		return nil, s.userError(err, input.CreatorID)
	}

	imagePath, uploaded, err := s.resolveImage(ctx, input.Image, "")
	if err != nil {
		return nil, err
	}

	created, err := s.posts.Create(ctx, &model.Post{
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: imagePath,
		Creator:  model.Creator{ID: creator.ID},
	})
	if err != nil {
		s.log.Error("Failed to create post", slog.String("creator_id", creator.ID.String()), slog.String("error", err.Error()))
		if uploaded {
			s.images.Discard(ctx, imagePath)
		}
		return nil, custom_errors.ErrDatabaseQuery
	}

	if err := s.users.AddPost(ctx, creator.ID, created.ID); err != nil {
		s.log.Error("Failed to add post to creator, rolling back",
			slog.String("post_id", created.ID.String()),
			slog.String("creator_id", creator.ID.String()),
			slog.String("error", err.Error()))
		if delErr := s.posts.Delete(ctx, created.ID); delErr != nil {
			s.log.Error("Failed to remove orphaned post", slog.String("post_id", created.ID.String()), slog.String("error", delErr.Error()))
		}
		if uploaded {
			s.images.Discard(ctx, imagePath)
		}
		return nil, custom_errors.ErrDatabaseQuery
	}

	created.Creator = creator.Summary()
	s.publish(ctx, model.PostEvent{Action: model.ActionCreate, Post: created, PostID: created.ID})

	s.log.Info("Post created", slog.String("post_id", created.ID.String()), slog.String("creator_id", creator.ID.String()))
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Creator.Name = s.creatorName(ctx, post.Creator.ID)
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, userID model.UserID, id model.PostID, dto *model.UpdatePostDTO) (*model.Post, error) {
	input := &model.UpdatePostDTO{
		Title:   strings.TrimSpace(dto.Title),
		Content: strings.TrimSpace(dto.Content),
		Image:   dto.Image,
	}
	if err := s.validate.Struct(input); err != nil {
		s.log.Debug("Update post validation failed", slog.String("post_id", id.String()), slog.String("error", err.Error()))
		return nil, err
	}
	if input.Image.IsEmpty() {
		return nil, custom_errors.ErrNoImageProvided
	}

	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(post, userID); err != nil {
		s.log.Debug("Update rejected for non creator", slog.String("post_id", id.String()), slog.String("user_id", userID.String()))
		return nil, err
	}

	imagePath, uploaded, err := s.resolveImage(ctx, input.Image, post.ImageURL)
	if err != nil {
		return nil, err
	}
	oldImage := post.ImageURL

	post.Title = input.Title
	post.Content = input.Content
	post.ImageURL = imagePath

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		if uploaded {
			s.images.Discard(ctx, imagePath)
		}
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			return nil, err
		}
		s.log.Error("Failed to update post", slog.String("post_id", id.String()), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if imagePath != oldImage {
		s.images.Discard(ctx, oldImage)
	}

	updated.Creator.Name = s.creatorName(ctx, updated.Creator.ID)
	s.publish(ctx, model.PostEvent{Action: model.ActionUpdate, Post: updated, PostID: updated.ID})

	s.log.Info("Post updated", slog.String("post_id", id.String()))
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID model.UserID, id model.PostID) error {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(post, userID); err != nil {
		s.log.Debug("Delete rejected for non creator", slog.String("post_id", id.String()), slog.String("user_id", userID.String()))
		return err
	}

	s.images.Discard(ctx, post.ImageURL)

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			return err
		}
		s.log.Error("Failed to delete post", slog.String("post_id", id.String()), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	if err := s.users.RemovePost(ctx, post.Creator.ID, id); err != nil {
		s.log.Error("Failed to remove post from creator",
			slog.String("post_id", id.String()),
			slog.String("creator_id", post.Creator.ID.String()),
			slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	s.publish(ctx, model.PostEvent{Action: model.ActionDelete, PostID: id})

	s.log.Info("Post deleted", slog.String("post_id", id.String()))
	return nil
}

// authorize is the single ownership check shared by update and delete.
func authorize(post *model.Post, userID model.UserID) error {
	if !post.OwnedBy(userID) {
		return custom_errors.ErrForbidden
	}
	return nil
}

func (s *PostService) getPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found", slog.String("post_id", id.String()))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post", slog.String("post_id", id.String()), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return post, nil
}

// resolveImage turns the request image into a storage path. uploaded reports
// whether a new asset was stored and must be discarded if the write fails.
func (s *PostService) resolveImage(ctx context.Context, in model.ImageInput, current string) (path string, uploaded bool, err error) {
	if in.Upload != nil {
		stored, accepted, uploadErr := s.images.AcceptUpload(ctx, in.Upload)
		if uploadErr != nil {
			return "", false, uploadErr
		}
		if accepted {
			return stored, true, nil
		}
	}

	existing := strings.TrimSpace(in.ExistingPath)
	if existing == "" {
		return "", false, custom_errors.ErrNoImageProvided
	}
	if existing == current {
		return existing, false, nil
	}
	ok, err := s.images.Exists(ctx, existing)
	if err != nil {
		return "", false, err
	}
	if !ok {
		s.log.Debug("Referenced image does not exist", slog.String("path", existing))
		return "", false, custom_errors.ErrImageNotFound
	}
	return existing, false, nil
}

func (s *PostService) creatorName(ctx context.Context, id model.UserID) string {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.log.Debug("Creator not available", slog.String("user_id", id.String()), slog.String("error", err.Error()))
		return ""
	}
	return user.Name
}

func (s *PostService) userError(err error, id model.UserID) error {
	if errors.Is(err, custom_errors.ErrUserNotFound) {
		s.log.Debug("User not found", slog.String("user_id", id.String()))
		return custom_errors.ErrUserNotFound
	}
	s.log.Error("Failed to get user", slog.String("user_id", id.String()), slog.String("error", err.Error()))
	return custom_errors.ErrDatabaseQuery
}

func (s *PostService) publish(ctx context.Context, event model.PostEvent) {
	err := s.broadcaster.Publish(ctx, model.PostsChannel, event)
	s.metrics.IncrementEventsPublished(string(event.Action), err == nil)
	if err != nil {
		s.log.Warn("Failed to publish post event",
			slog.String("action", string(event.Action)),
			slog.String("post_id", event.PostID.String()),
			slog.String("error", err.Error()))
	}
}
