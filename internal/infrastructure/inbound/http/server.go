package delivery_http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	ports "pinstack-feed-service/internal/domain/ports/output"
	"pinstack-feed-service/internal/infrastructure/inbound/http/middleware"
)

// Routes collects everything the router mounts.
type Routes struct {
	Auth      *AuthHandler
	Feed      *FeedHandler
	Gate      *middleware.Gate
	GraphQL   http.Handler
	Realtime  http.Handler
	ImagesDir string
	// ImagesPrefix is the URL path under which ImagesDir is served.
	ImagesPrefix string
}

func NewRouter(routes Routes, log ports.Logger, metrics ports.MetricsProvider) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Recovery(log), middleware.Logging(log), middleware.Metrics(metrics))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", routes.Auth.Signup).Methods(http.MethodPost, http.MethodPut)
	auth.HandleFunc("/login", routes.Auth.Login).Methods(http.MethodPost)

	feed := router.PathPrefix("/feed").Subrouter()
	feed.Use(routes.Gate.Require())
	feed.HandleFunc("/posts", routes.Feed.ListPosts).Methods(http.MethodGet)
	feed.HandleFunc("/post", routes.Feed.CreatePost).Methods(http.MethodPost)
	feed.HandleFunc("/post/{postId}", routes.Feed.GetPost).Methods(http.MethodGet)
	feed.HandleFunc("/post/{postId}", routes.Feed.UpdatePost).Methods(http.MethodPut)
	feed.HandleFunc("/post/{postId}", routes.Feed.DeletePost).Methods(http.MethodDelete)
	feed.HandleFunc("/status", routes.Feed.GetStatus).Methods(http.MethodGet)
	feed.HandleFunc("/status", routes.Feed.UpdateStatus).Methods(http.MethodPatch)

	router.Handle("/post-image", routes.Gate.Require()(http.HandlerFunc(routes.Feed.StoreImage))).Methods(http.MethodPut)

	if routes.GraphQL != nil {
		router.Handle("/graphql", routes.Gate.Optional()(routes.GraphQL)).Methods(http.MethodGet, http.MethodPost)
	}
	if routes.Realtime != nil {
		router.Handle("/ws", routes.Realtime).Methods(http.MethodGet)
	}
	if routes.ImagesDir != "" {
		prefix := "/" + routes.ImagesPrefix + "/"
		router.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(routes.ImagesDir)))).Methods(http.MethodGet)
	}

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)
}

type Server struct {
	server  *http.Server
	address string
	port    int
	log     ports.Logger
}

func NewServer(handler http.Handler, address string, port int, log ports.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", address, port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		address: address,
		port:    port,
		log:     log,
	}
}

func (s *Server) Run() error {
	s.log.Info("Starting HTTP server", slog.String("address", s.address), slog.Int("port", s.port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
