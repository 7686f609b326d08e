package graphql_api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/graph-gophers/graphql-go"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	auth_port "pinstack-feed-service/internal/domain/ports/input/auth"
	post_port "pinstack-feed-service/internal/domain/ports/input/post"
	ports "pinstack-feed-service/internal/domain/ports/output"
	"pinstack-feed-service/internal/infrastructure/inbound/http/middleware"
)

// rootResolver serves both RootQuery and RootMutation.
type rootResolver struct {
	auth  auth_port.Service
	posts post_port.Service
	log   ports.Logger
}

type userInput struct {
	Email    string
	Name     string
	Password string
}

type postInput struct {
	Title    string
	Content  string
	ImageURL string
}

func (r *rootResolver) Login(ctx context.Context, args struct{ Email, Password string }) (*authDataResolver, error) {
	result, err := r.auth.Login(ctx, &model.LoginDTO{Email: args.Email, Password: args.Password})
	if err != nil {
		return nil, err
	}
	return &authDataResolver{result: result}, nil
}

func (r *rootResolver) Posts(ctx context.Context, args struct{ Page *int32 }) (*postDataResolver, error) {
	if _, err := middleware.UserID(ctx); err != nil {
		return nil, err
	}
	page := 1
	if args.Page != nil {
		page = int(*args.Page)
	}
	result, err := r.posts.ListPosts(ctx, page)
	if err != nil {
		return nil, err
	}
	list := make([]*postResolver, 0, len(result.Posts))
	for _, p := range result.Posts {
		list = append(list, r.post(p))
	}
	return &postDataResolver{posts: list, total: result.TotalItems}, nil
}

func (r *rootResolver) Post(ctx context.Context, args struct{ ID graphql.ID }) (*postResolver, error) {
	if _, err := middleware.UserID(ctx); err != nil {
		return nil, err
	}
	p, err := r.posts.GetPost(ctx, model.PostID(args.ID))
	if err != nil {
		return nil, err
	}
	return r.post(p), nil
}

func (r *rootResolver) User(ctx context.Context) (*userResolver, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return nil, err
	}
	return r.loadUser(ctx, userID)
}

func (r *rootResolver) Status(ctx context.Context) (string, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return "", err
	}
	return r.posts.GetStatus(ctx, userID)
}

func (r *rootResolver) CreateUser(ctx context.Context, args struct{ UserInput userInput }) (*userResolver, error) {
	userID, err := r.auth.Signup(ctx, &model.SignupDTO{
		Email:    args.UserInput.Email,
		Name:     args.UserInput.Name,
		Password: args.UserInput.Password,
	})
	if err != nil {
		return nil, err
	}
	return r.loadUser(ctx, userID)
}

func (r *rootResolver) CreatePost(ctx context.Context, args struct{ PostInput postInput }) (*postResolver, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.posts.CreatePost(ctx, &model.CreatePostDTO{
		CreatorID: userID,
		Title:     args.PostInput.Title,
		Content:   args.PostInput.Content,
		Image:     model.ImageInput{ExistingPath: args.PostInput.ImageURL},
	})
	if err != nil {
		return nil, err
	}
	return r.post(p), nil
}

func (r *rootResolver) UpdatePost(ctx context.Context, args struct {
	ID        graphql.ID
	PostInput postInput
}) (*postResolver, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.posts.UpdatePost(ctx, userID, model.PostID(args.ID), &model.UpdatePostDTO{
		Title:   args.PostInput.Title,
		Content: args.PostInput.Content,
		Image:   model.ImageInput{ExistingPath: args.PostInput.ImageURL},
	})
	if err != nil {
		return nil, err
	}
	return r.post(p), nil
}

func (r *rootResolver) DeletePost(ctx context.Context, args struct{ ID graphql.ID }) (*bool, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.posts.DeletePost(ctx, userID, model.PostID(args.ID)); err != nil {
		return nil, err
	}
	deleted := true
	return &deleted, nil
}

func (r *rootResolver) UpdateStatus(ctx context.Context, args struct{ Status string }) (*userResolver, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := r.posts.UpdateStatus(ctx, userID, args.Status); err != nil {
		return nil, err
	}
	return r.loadUser(ctx, userID)
}

func (r *rootResolver) loadUser(ctx context.Context, id model.UserID) (*userResolver, error) {
	u, err := r.auth.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &userResolver{root: r, user: u}, nil
}

func (r *rootResolver) post(p *model.Post) *postResolver {
	return &postResolver{root: r, post: p}
}

type authDataResolver struct {
	result *model.AuthResult
}

func (a *authDataResolver) Token() string  { return a.result.Token }
func (a *authDataResolver) UserID() string { return a.result.UserID.String() }

type postDataResolver struct {
	posts []*postResolver
	total int
}

func (p *postDataResolver) Posts() []*postResolver { return p.posts }
func (p *postDataResolver) TotalPosts() int32      { return int32(p.total) }

type postResolver struct {
	root *rootResolver
	post *model.Post
}

func (p *postResolver) ID() graphql.ID    { return graphql.ID(p.post.ID) }
func (p *postResolver) Title() string     { return p.post.Title }
func (p *postResolver) Content() string   { return p.post.Content }
func (p *postResolver) ImageURL() string  { return p.post.ImageURL }
func (p *postResolver) CreatedAt() string { return p.post.CreatedAt.Format(time.RFC3339Nano) }
func (p *postResolver) UpdatedAt() string { return p.post.UpdatedAt.Format(time.RFC3339Nano) }

// Creator is loaded only when the selection asks for it.
func (p *postResolver) Creator(ctx context.Context) (*userResolver, error) {
	return p.root.loadUser(ctx, p.post.Creator.ID)
}

type userResolver struct {
	root *rootResolver
	user *model.User
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.user.ID) }
func (u *userResolver) Name() string   { return u.user.Name }
func (u *userResolver) Email() string  { return u.user.Email }
func (u *userResolver) Status() string { return u.user.Status }

// Password never exposes the stored hash.
func (u *userResolver) Password() *string { return nil }

func (u *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	list := make([]*postResolver, 0, len(u.user.Posts))
	for _, id := range u.user.Posts {
		p, err := u.root.posts.GetPost(ctx, id)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			u.root.log.Warn("User references a missing post",
				slog.String("user_id", u.user.ID.String()),
				slog.String("post_id", id.String()))
			continue
		}
		if err != nil {
			return nil, err
		}
		list = append(list, u.root.post(p))
	}
	return list, nil
}
