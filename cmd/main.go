package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gridclash/arena-api/cache"
	"github.com/gridclash/arena-api/config"
	"github.com/gridclash/arena-api/db"
	"github.com/gridclash/arena-api/handlers"
	"github.com/gridclash/arena-api/media"
	"github.com/gridclash/arena-api/middleware"
	"github.com/gridclash/arena-api/notify"
	"github.com/gridclash/arena-api/routes"
	"github.com/gridclash/arena-api/services"
	"github.com/gridclash/arena-api/store"
	"github.com/gridclash/arena-api/store/postgres"
	"github.com/gridclash/arena-api/store/supabase"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_backend", cfg.StorageBackend))

	// Storage backend selection: same store.Store contract, two
	// implementations.
	var st store.Store
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()
		st = postgres.New(dbConn)
		logger.Info("postgres store initialized")

	case config.BackendSupabase:
		st = supabase.New(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		logger.Info("supabase store initialized", slog.String("project_url", cfg.SupabaseURL))
	}

	// Optional Redis cache for unread counts. The cache is nil-safe:
	// without Redis every lookup is a miss.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, unread counts will not be cached", slog.Any("error", err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Info("redis cache connected", slog.String("addr", cfg.RedisAddr))
		}
	}
	unreadCache := cache.NewUnreadCache(redisClient)

	// Optional Cloudflare R2 media storage.
	var uploader media.FileUploader
	if cfg.MediaConfigured() {
		uploader, err = media.NewCloudflareR2Uploader(media.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize media storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("media storage initialized", slog.String("bucket", cfg.R2BucketName))
	}

	hub := notify.NewHub(logger)
	go hub.Run()

	notificationService := services.NewNotificationService(st, hub, unreadCache, logger)
	teamService := services.NewTeamService(st, uploader)
	authService := services.NewAuthService(st)
	userService := services.NewUserService(st, teamService)
	tournamentService := services.NewTournamentService(st, hub, uploader, notificationService, logger)
	registrationService := services.NewRegistrationService(st)
	adminService := services.NewAdminService(st, logger)
	dashboardService := services.NewDashboardService(st)

	if cfg.AdminPassword != "" {
		if err := adminService.EnsureBootstrapAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Error("failed to ensure bootstrap admin", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set, skipping bootstrap admin")
	}

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := routes.New(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, userService, cfg.JWTSecretKey),
		User:         handlers.NewUserHandler(userService),
		Team:         handlers.NewTeamHandler(teamService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Admin:        handlers.NewAdminHandler(adminService, dashboardService),
		WebSocket:    handlers.NewWebSocketHandler(hub, logger),
	}, auth, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
