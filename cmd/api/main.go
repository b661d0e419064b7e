// Package main is the entry point for the QuickMate admin API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/quickmate/backend/config"
	"github.com/quickmate/backend/internal/application/usecase/auth"
	"github.com/quickmate/backend/internal/infra/db"
	"github.com/quickmate/backend/internal/infra/dependency"
	"github.com/quickmate/backend/internal/integration/persistence/document"
	"github.com/quickmate/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting QuickMate API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"storage", cfg.Database.Driver,
	)

	ctx := context.Background()

	// Initialize storage
	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	// Initialize optional Redis for shared rate limits
	var limiterClient redis.UniversalClient
	redisClient, err := dependency.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		limiterClient = redisClient
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("Failed to close redis connection", "error", err)
			}
		}()
	}

	uploader, err := dependency.NewImageUploader(&cfg.Cloudinary)
	if err != nil {
		slog.Error("Failed to initialize image uploader", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Upload.TempDir, 0o750); err != nil {
		slog.Error("Failed to create upload temp dir", "path", cfg.Upload.TempDir, "error", err)
		os.Exit(1)
	}

	injector := dependency.NewInjector(cfg, storage, uploader, limiterClient)

	if cfg.Auth.AdminEmail != "" {
		created, err := injector.SeedAdmin.Execute(ctx, auth.SeedAdminInput{
			Name:     cfg.Auth.AdminName,
			Email:    cfg.Auth.AdminEmail,
			Password: cfg.Auth.AdminPassword,
		})
		if err != nil {
			slog.Error("Failed to seed admin account", "error", err)
			os.Exit(1)
		}
		if !created {
			slog.Info("Admin account already present", "email", cfg.Auth.AdminEmail)
		}
	}

	// Setup router
	engine := injector.Router.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

// openStorage connects the configured backend and prepares its schema or indexes.
func openStorage(ctx context.Context, cfg *config.Config) (dependency.Storage, func(), error) {
	if cfg.Database.Driver == config.DriverMongo {
		mongoDB, err := db.NewMongoConnection(ctx, &cfg.Mongo)
		if err != nil {
			return dependency.Storage{}, nil, err
		}
		if err := document.EnsureIndexes(ctx, mongoDB.DB()); err != nil {
			_ = mongoDB.Close()
			return dependency.Storage{}, nil, err
		}
		slog.Info("MongoDB indexes ensured")

		closeFn := func() {
			if err := mongoDB.Close(); err != nil {
				slog.Error("Failed to close mongodb connection", "error", err)
			}
		}
		return dependency.NewMongoStorage(mongoDB, cfg.Mongo.Transactions), closeFn, nil
	}

	var (
		database *db.Database
		err      error
	)
	if cfg.Database.Driver == config.DriverSQLite {
		database, err = db.NewSQLiteConnection(&cfg.Database)
	} else {
		database, err = db.NewPostgresConnection(&cfg.Database)
	}
	if err != nil {
		return dependency.Storage{}, nil, err
	}

	// Run database migrations
	if err := database.AutoMigrate(model.AllModels()...); err != nil {
		_ = database.Close()
		return dependency.Storage{}, nil, err
	}
	slog.Info("Database migrations completed successfully")

	closeFn := func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}
	return dependency.NewGormStorage(database), closeFn, nil
}
