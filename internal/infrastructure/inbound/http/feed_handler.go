package delivery_http

import (
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	image_service "pinstack-feed-service/internal/application/service/image"
	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	post_port "pinstack-feed-service/internal/domain/ports/input/post"
	ports "pinstack-feed-service/internal/domain/ports/output"
	"pinstack-feed-service/internal/infrastructure/inbound/http/middleware"
)

const maxUploadSize = 10 << 20

type FeedHandler struct {
	posts  post_port.Service
	images *image_service.Handler
	log    ports.Logger
}

func NewFeedHandler(posts post_port.Service, images *image_service.Handler, log ports.Logger) *FeedHandler {
	return &FeedHandler{posts: posts, images: images, log: log}
}

type postForm struct {
	Title   string
	Content string
	Image   model.ImageInput
	file    multipart.File
}

func (f *postForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

// parsePostForm accepts multipart forms with an optional "image" file as well
// as JSON bodies that reference an existing image path.
func parsePostForm(r *http.Request) (*postForm, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			Image    string `json:"image"`
			ImageURL string `json:"imageUrl"`
		}
		if err := decodeJSON(r, &body); err != nil {
			return nil, err
		}
		path := body.Image
		if path == "" {
			path = body.ImageURL
		}
		return &postForm{Title: body.Title, Content: body.Content, Image: model.ImageInput{ExistingPath: path}}, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, custom_errors.Validation("invalid multipart form",
			custom_errors.FieldError{Field: "body", Message: err.Error()})
	}
	form := &postForm{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Image:   model.ImageInput{ExistingPath: r.FormValue("image")},
	}
	file, header, err := r.FormFile("image")
	if err == nil {
		form.file = file
		form.Image.Upload = &model.ImageUpload{
			MimeType:     header.Header.Get("Content-Type"),
			OriginalName: header.Filename,
			Content:      file,
		}
	}
	return form, nil
}

func (h *FeedHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	result, err := h.posts.ListPosts(r.Context(), page)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Fetched posts successfully.",
		"posts":      result.Posts,
		"totalItems": result.TotalItems,
	})
}

func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	form, err := parsePostForm(r)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	defer form.close()

	post, err := h.posts.CreatePost(r.Context(), &model.CreatePostDTO{
		CreatorID: userID,
		Title:     form.Title,
		Content:   form.Content,
		Image:     form.Image,
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Post created successfully!",
		"post":    post,
		"creator": post.Creator,
	})
}

func (h *FeedHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetPost(r.Context(), model.PostID(mux.Vars(r)["postId"]))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Post fetched.", "post": post})
}

func (h *FeedHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	form, err := parsePostForm(r)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	defer form.close()

	post, err := h.posts.UpdatePost(r.Context(), userID, model.PostID(mux.Vars(r)["postId"]), &model.UpdatePostDTO{
		Title:   form.Title,
		Content: form.Content,
		Image:   form.Image,
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Post updated!", "post": post})
}

func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if err := h.posts.DeletePost(r.Context(), userID, model.PostID(mux.Vars(r)["postId"])); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted post."})
}

func (h *FeedHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	status, err := h.posts.GetStatus(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (h *FeedHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	var body model.StatusDTO
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	status, err := h.posts.UpdateStatus(r.Context(), userID, body.Status)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User updated.", "status": status})
}

// StoreImage accepts an upload ahead of a query endpoint mutation and returns
// the storage path to reference in it.
func (h *FeedHandler) StoreImage(w http.ResponseWriter, r *http.Request) {
	form, err := parsePostForm(r)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	defer form.close()

	if form.Image.Upload == nil {
		writeJSON(w, http.StatusOK, map[string]any{"message": "No file provided!"})
		return
	}
	path, accepted, err := h.images.AcceptUpload(r.Context(), form.Image.Upload)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if !accepted {
		writeJSON(w, http.StatusOK, map[string]any{"message": "No file provided!"})
		return
	}

	h.log.Debug("Stored image for later reference", slog.String("path", path))
	writeJSON(w, http.StatusCreated, map[string]any{"message": "File stored.", "filePath": path})
}
