package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	ports "pinstack-feed-service/internal/domain/ports/output"
)

type storedPost struct {
	post *model.Post
	seq  int64
}

type PostRepository struct {
	log     ports.Logger
	mu      sync.RWMutex
	posts   map[model.PostID]*storedPost
	nextSeq int64
	now     func() time.Time
}

func NewPostRepository(log ports.Logger) *PostRepository {
	return &PostRepository{
		log:   log,
		posts: make(map[model.PostID]*storedPost),
		now:   time.Now,
	}
}

// WithClock replaces the timestamp source, for tests.
func (p *PostRepository) WithClock(now func() time.Time) *PostRepository {
	p.now = now
	return p
}

func copyPost(post *model.Post) *model.Post {
	c := *post
	return &c
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.log.Debug("Creating new post (memory impl)", slog.String("creator_id", post.Creator.ID.String()), slog.String("title", post.Title))

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now().UTC()
	newPost := &model.Post{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Creator:   model.Creator{ID: post.Creator.ID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if newPost.ID == "" {
		newPost.ID = model.NewPostID()
	}
	p.nextSeq++
	p.posts[newPost.ID] = &storedPost{post: newPost, seq: p.nextSeq}

	p.log.Debug("Successfully created post (memory impl)", slog.String("id", newPost.ID.String()))
	return copyPost(newPost), nil
}

func (p *PostRepository) GetByID(ctx context.Context, id model.PostID) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stored, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.String("id", id.String()))
		return nil, custom_errors.ErrPostNotFound
	}
	return copyPost(stored.post), nil
}

func (p *PostRepository) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, exists := p.posts[post.ID]
	if !exists {
		return nil, custom_errors.ErrPostNotFound
	}

	stored.post.Title = post.Title
	stored.post.Content = post.Content
	stored.post.ImageURL = post.ImageURL
	stored.post.UpdatedAt = p.now().UTC()

	return copyPost(stored.post), nil
}

func (p *PostRepository) Delete(ctx context.Context, id model.PostID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.posts[id]; !exists {
		return custom_errors.ErrPostNotFound
	}
	delete(p.posts, id)
	return nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	p.log.Debug("Listing posts (memory impl)", slog.Any("limit", filters.Limit), slog.Any("offset", filters.Offset))

	p.mu.RLock()
	defer p.mu.RUnlock()

	all := make([]*storedPost, 0, len(p.posts))
	for _, stored := range p.posts {
		all = append(all, stored)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].post.CreatedAt.Equal(all[j].post.CreatedAt) {
			return all[i].post.CreatedAt.After(all[j].post.CreatedAt)
		}
		return all[i].seq > all[j].seq
	})

	total := len(all)
	if filters.Offset != nil {
		if *filters.Offset < 0 || *filters.Offset >= len(all) {
			return []*model.Post{}, total, nil
		}
		all = all[*filters.Offset:]
	}
	if filters.Limit != nil && *filters.Limit < len(all) {
		all = all[:*filters.Limit]
	}

	posts := make([]*model.Post, 0, len(all))
	for _, stored := range all {
		posts = append(posts, copyPost(stored.post))
	}
	return posts, total, nil
}
