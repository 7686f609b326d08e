package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	auth_service "pinstack-feed-service/internal/application/service/auth"
	image_service "pinstack-feed-service/internal/application/service/image"
	post_service "pinstack-feed-service/internal/application/service/post"
	"pinstack-feed-service/internal/application/validation"
	"pinstack-feed-service/internal/domain/ports/output/events"
	post_repository "pinstack-feed-service/internal/domain/ports/output/post"
	user_repository "pinstack-feed-service/internal/domain/ports/output/user"
	"pinstack-feed-service/internal/infrastructure/config"
	graphql_api "pinstack-feed-service/internal/infrastructure/inbound/graphql"
	delivery_http "pinstack-feed-service/internal/infrastructure/inbound/http"
	"pinstack-feed-service/internal/infrastructure/inbound/http/middleware"
	metrics_server "pinstack-feed-service/internal/infrastructure/inbound/metrics"
	"pinstack-feed-service/internal/infrastructure/inbound/realtime"
	"pinstack-feed-service/internal/infrastructure/logger"
	redis_events "pinstack-feed-service/internal/infrastructure/outbound/events/redis"
	prometheus_metrics "pinstack-feed-service/internal/infrastructure/outbound/metrics/prometheus"
	post_memory "pinstack-feed-service/internal/infrastructure/outbound/repository/post/memory"
	post_postgres "pinstack-feed-service/internal/infrastructure/outbound/repository/post/postgres"
	"pinstack-feed-service/internal/infrastructure/outbound/repository/postgres"
	user_memory "pinstack-feed-service/internal/infrastructure/outbound/repository/user/memory"
	user_postgres "pinstack-feed-service/internal/infrastructure/outbound/repository/user/postgres"
	"pinstack-feed-service/internal/infrastructure/outbound/security"
	"pinstack-feed-service/internal/infrastructure/outbound/storage/disk"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	metrics.SetServiceHealth(true)

	var (
		postRepo post_repository.Repository
		userRepo user_repository.Repository
	)
	switch cfg.Database.Driver {
	case config.DatabaseDriverPostgres:
		if cfg.Database.Migrate {
			if err := postgres.Migrate(cfg.Database.URL, log); err != nil {
				log.Error("Failed to apply migrations", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			log.Error("Failed to parse postgres poolConfig", slog.String("error", err.Error()))
			os.Exit(1)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		postRepo = post_postgres.NewPostRepository(pool, log, metrics)
		userRepo = user_postgres.NewUserRepository(pool, log, metrics)
	default:
		log.Warn("Using in-memory storage, data is lost on restart")
		postRepo = post_memory.NewPostRepository(log)
		userRepo = user_memory.NewUserRepository(log)
	}

	store, err := disk.NewStore(cfg.Storage.ImagesDir, cfg.Storage.PublicPrefix, log)
	if err != nil {
		log.Error("Failed to prepare image storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	images := image_service.NewHandler(store, log, metrics)

	tokens, err := security.NewJWTProvider(cfg.Auth.Secrets, cfg.Auth.TokenTTL)
	if err != nil {
		log.Error("Failed to create token provider", slog.String("error", err.Error()))
		os.Exit(1)
	}
	validate := validation.New()

	hub := realtime.NewHub(log, metrics, 0)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	var broadcaster events.Broadcaster = hub
	relayDone := make(chan struct{})
	if cfg.Realtime.Driver == config.RealtimeDriverRedis {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_events.NewClient(cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()
		broadcaster = redis_events.NewBroadcaster(redisClient, cfg.Realtime.Channel, log)
		relay := redis_events.NewRelay(redisClient, cfg.Realtime.Channel, hub, log)
		go func() {
			defer close(relayDone)
			if err := relay.Run(ctx); err != nil {
				log.Error("Realtime relay stopped", slog.String("error", err.Error()))
			}
		}()
	} else {
		close(relayDone)
	}

	authService := auth_service.NewAuthService(userRepo, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, validate, log, metrics)
	postService := post_service.NewPostServiceMetricsDecorator(
		post_service.NewPostService(postRepo, userRepo, images, broadcaster, validate, log, metrics, cfg.Feed.PageSize),
		log,
		metrics,
	)

	graphqlHandler, err := graphql_api.NewHandler(authService, postService, log)
	if err != nil {
		log.Error("Failed to build graphql handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := delivery_http.NewRouter(delivery_http.Routes{
		Auth:         delivery_http.NewAuthHandler(authService, log),
		Feed:         delivery_http.NewFeedHandler(postService, images, log),
		Gate:         middleware.NewGate(tokens, log),
		GraphQL:      graphqlHandler,
		Realtime:     hub,
		ImagesDir:    store.Root(),
		ImagesPrefix: cfg.Storage.PublicPrefix,
	}, log, metrics)

	httpServer := delivery_http.NewServer(router, cfg.HTTPServer.Address, cfg.HTTPServer.Port, log)
	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		done <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	<-hubDone
	<-relayDone
	<-done
	<-metricsDone

	log.Info("Server exited")
}
