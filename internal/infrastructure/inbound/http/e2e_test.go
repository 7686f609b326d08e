package delivery_http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"

	auth_service "pinstack-feed-service/internal/application/service/auth"
	image_service "pinstack-feed-service/internal/application/service/image"
	post_service "pinstack-feed-service/internal/application/service/post"
	"pinstack-feed-service/internal/application/validation"
	graphql_api "pinstack-feed-service/internal/infrastructure/inbound/graphql"
	delivery_http "pinstack-feed-service/internal/infrastructure/inbound/http"
	"pinstack-feed-service/internal/infrastructure/inbound/http/middleware"
	"pinstack-feed-service/internal/infrastructure/inbound/realtime"
	"pinstack-feed-service/internal/infrastructure/logger"
	"pinstack-feed-service/internal/infrastructure/outbound/metrics/prometheus"
	post_memory "pinstack-feed-service/internal/infrastructure/outbound/repository/post/memory"
	user_memory "pinstack-feed-service/internal/infrastructure/outbound/repository/user/memory"
	"pinstack-feed-service/internal/infrastructure/outbound/security"
	"pinstack-feed-service/internal/infrastructure/outbound/storage/disk"
)

type feedApp struct {
	server    *httptest.Server
	imagesDir string
}

func newFeedApp(t *testing.T) *feedApp {
	t.Helper()
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()
	validate := validation.New()

	imagesDir := filepath.Join(t.TempDir(), "images")
	store, err := disk.NewStore(imagesDir, "images", log)
	require.NoError(t, err)
	images := image_service.NewHandler(store, log, metrics)

	tokens, err := security.NewJWTProvider([]string{"e2e-secret"}, time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := realtime.NewHub(log, metrics, 8)
	go hub.Run(ctx)

	users := user_memory.NewUserRepository(log)
	auth := auth_service.NewAuthService(users, security.NewBcryptHasher(bcrypt.MinCost), tokens, validate, log, metrics)
	posts := post_service.NewPostServiceMetricsDecorator(
		post_service.NewPostService(post_memory.NewPostRepository(log), users, images, hub, validate, log, metrics, post_service.DefaultPageSize),
		log, metrics,
	)
	gql, err := graphql_api.NewHandler(auth, posts, log)
	require.NoError(t, err)

	router := delivery_http.NewRouter(delivery_http.Routes{
		Auth:         delivery_http.NewAuthHandler(auth, log),
		Feed:         delivery_http.NewFeedHandler(posts, images, log),
		Gate:         middleware.NewGate(tokens, log),
		GraphQL:      gql,
		Realtime:     hub,
		ImagesDir:    imagesDir,
		ImagesPrefix: "images",
	}, log, metrics)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &feedApp{server: srv, imagesDir: imagesDir}
}

func (a *feedApp) call(t *testing.T, method, path, token, contentType string, body io.Reader) (int, gjson.Result) {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(raw)
}

func (a *feedApp) signupAndLogin(t *testing.T, email, name string) (token, userID string) {
	t.Helper()
	code, res := a.call(t, http.MethodPut, "/auth/signup", "", "application/json",
		strings.NewReader(`{"email":"`+email+`","name":"`+name+`","password":"secret1"}`))
	require.Equal(t, http.StatusCreated, code, res.Raw)

	code, res = a.call(t, http.MethodPost, "/auth/login", "", "application/json",
		strings.NewReader(`{"email":"`+email+`","password":"secret1"}`))
	require.Equal(t, http.StatusOK, code, res.Raw)
	return res.Get("token").String(), res.Get("userId").String()
}

func TestFeedLifecycle(t *testing.T) {
	app := newFeedApp(t)
	aliceToken, aliceID := app.signupAndLogin(t, "alice@example.com", "Alice")
	bobToken, _ := app.signupAndLogin(t, "bob@example.com", "Bob")

	wsURL := "ws" + strings.TrimPrefix(app.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(prometheus.ActiveConnections) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	body, ct := multipartBody(t, map[string]string{"title": "First post", "content": "Hello feed"},
		&multipartFile{field: "image", filename: "cat.png", mimeType: "image/png", content: []byte("png-bytes")})
	code, res := app.call(t, http.MethodPost, "/feed/post", aliceToken, ct, body)
	require.Equal(t, http.StatusCreated, code, res.Raw)
	postID := res.Get("post._id").String()
	imageURL := res.Get("post.imageUrl").String()
	assert.Equal(t, aliceID, res.Get("creator._id").String())
	assert.Equal(t, "Alice", res.Get("creator.name").String())
	require.True(t, strings.HasPrefix(imageURL, "images/"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "posts", gjson.GetBytes(frame, "event").String())
	assert.Equal(t, "create", gjson.GetBytes(frame, "data.action").String())
	assert.Equal(t, postID, gjson.GetBytes(frame, "data.post._id").String())

	resp, err := app.server.Client().Get(app.server.URL + "/" + imageURL)
	require.NoError(t, err)
	served, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png-bytes", string(served))

	code, res = app.call(t, http.MethodGet, "/feed/post/"+postID, bobToken, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "First post", res.Get("post.title").String())
	assert.Equal(t, "Alice", res.Get("post.creator.name").String())

	code, res = app.call(t, http.MethodPut, "/feed/post/"+postID, bobToken, "application/json",
		strings.NewReader(`{"title":"Hijacked","content":"nope","image":"`+imageURL+`"}`))
	assert.Equal(t, http.StatusForbidden, code, res.Raw)

	code, res = app.call(t, http.MethodPost, "/graphql", aliceToken, "application/json",
		strings.NewReader(`{"query":"{ posts { totalPosts posts { title creator { name } } } }"}`))
	require.Equal(t, http.StatusOK, code, res.Raw)
	assert.Equal(t, int64(1), res.Get("data.posts.totalPosts").Int())
	assert.Equal(t, "Alice", res.Get("data.posts.posts.0.creator.name").String())

	code, res = app.call(t, http.MethodDelete, "/feed/post/"+postID, aliceToken, "", nil)
	require.Equal(t, http.StatusOK, code, res.Raw)

	code, _ = app.call(t, http.MethodGet, "/feed/post/"+postID, aliceToken, "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	_, err = os.Stat(filepath.Join(app.imagesDir, strings.TrimPrefix(imageURL, "images/")))
	assert.True(t, os.IsNotExist(err))
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	app := newFeedApp(t)
	app.signupAndLogin(t, "carol@example.com", "Carol")

	code, res := app.call(t, http.MethodPost, "/auth/signup", "", "application/json",
		strings.NewReader(`{"email":" Carol@Example.com ","name":"Carol","password":"secret1"}`))

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "e-mail address already exists", res.Get("message").String())
}
