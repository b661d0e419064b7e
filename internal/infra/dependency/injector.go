// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickmate/backend/config"
	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/application/usecase/auth"
	"github.com/quickmate/backend/internal/application/usecase/category"
	"github.com/quickmate/backend/internal/application/usecase/commission"
	"github.com/quickmate/backend/internal/infra/db"
	"github.com/quickmate/backend/internal/infra/server/router"
	"github.com/quickmate/backend/internal/integration/adapters"
	"github.com/quickmate/backend/internal/integration/entrypoint/controller"
	"github.com/quickmate/backend/internal/integration/entrypoint/middleware"
	"github.com/quickmate/backend/internal/integration/persistence"
	"github.com/quickmate/backend/internal/integration/persistence/document"
)

const rateLimitKeyPrefix = "quickmate:ratelimit:"

// Storage bundles the repositories of one storage backend.
type Storage struct {
	Categories      adapter.CategoryRepository
	CommissionRules adapter.CommissionRuleRepository
	Users           adapter.UserRepository
	Transactor      adapter.Transactor
	HealthCheck     controller.HealthChecker
}

// NewGormStorage wires the relational repositories.
func NewGormStorage(database *db.Database) Storage {
	gormDB := database.DB()
	return Storage{
		Categories:      persistence.NewCategoryRepository(gormDB),
		CommissionRules: persistence.NewCommissionRuleRepository(gormDB),
		Users:           persistence.NewUserRepository(gormDB),
		Transactor:      persistence.NewTransactor(gormDB),
		HealthCheck:     database.HealthCheck,
	}
}

// NewMongoStorage wires the document repositories.
func NewMongoStorage(database *db.MongoDatabase, transactions bool) Storage {
	return Storage{
		Categories:      document.NewCategoryRepository(database.DB()),
		CommissionRules: document.NewCommissionRuleRepository(database.DB()),
		Users:           document.NewUserRepository(database.DB()),
		Transactor:      document.NewTransactor(database.Client(), transactions),
		HealthCheck:     database.HealthCheck,
	}
}

// Injector holds all application dependencies.
type Injector struct {
	Config    *config.Config
	Router    *router.Router
	SeedAdmin *auth.SeedAdminUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case rate limits are kept in memory.
func NewInjector(cfg *config.Config, storage Storage, uploader adapter.ImageUploader, redisClient redis.UniversalClient) *Injector {
	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.Auth.BcryptCost)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(storage.Users, passwordService, cfg.Auth.AllowAdminSignup)
	loginUseCase := auth.NewLoginUserUseCase(storage.Users, passwordService, tokenService)
	seedAdminUseCase := auth.NewSeedAdminUseCase(storage.Users, passwordService)

	// Create category use cases
	categoryUseCases := controller.CategoryUseCases{
		Create:              category.NewCreateCategoryUseCase(storage.Categories, storage.CommissionRules, storage.Transactor),
		Update:              category.NewUpdateCategoryUseCase(storage.Categories, storage.CommissionRules, storage.Transactor),
		Get:                 category.NewGetCategoryUseCase(storage.Categories, storage.CommissionRules),
		ListTopLevel:        category.NewListTopLevelCategoriesUseCase(storage.Categories, storage.CommissionRules),
		ListSubcategories:   category.NewListSubcategoriesUseCase(storage.Categories),
		Delete:              category.NewDeleteCategoryUseCase(storage.Categories, storage.CommissionRules, storage.Transactor),
		GetGlobalCommission: category.NewGetGlobalCommissionUseCase(storage.CommissionRules),
		SetGlobalCommission: category.NewUpdateGlobalCommissionUseCase(storage.CommissionRules),
	}

	// Create commission use cases
	listRulesUseCase := commission.NewListCommissionRulesUseCase(storage.CommissionRules)
	getRuleUseCase := commission.NewGetCommissionRuleUseCase(storage.CommissionRules)

	// Create controllers
	healthController := controller.NewHealthController(storage.HealthCheck)
	authController := controller.NewAuthController(registerUseCase, loginUseCase)
	categoryController := controller.NewCategoryController(categoryUseCases, uploader, controller.IconUploadSettings{
		TempDir:      cfg.Upload.TempDir,
		MaxFileBytes: cfg.Upload.MaxFileBytes,
	})
	commissionRuleController := controller.NewCommissionRuleController(listRulesUseCase, getRuleUseCase)

	// Create middleware
	loginRateLimiter, apiRateLimiter := newRateLimiters(cfg, redisClient)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		authController,
		categoryController,
		commissionRuleController,
		loginRateLimiter,
		apiRateLimiter,
		authMiddleware,
		cfg.CORS.AllowedOrigins,
	)

	return &Injector{
		Config:    cfg,
		Router:    r,
		SeedAdmin: seedAdminUseCase,
	}
}

// newRateLimiters builds the login and API limiters. Use higher rate limits for
// E2E/test environments to prevent flaky tests.
func newRateLimiters(cfg *config.Config, redisClient redis.UniversalClient) (login, api *middleware.RateLimiter) {
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		return middleware.NewRateLimiterWithConfig(1000, time.Minute), middleware.NewRateLimiterWithConfig(10000, time.Minute)
	}

	var store middleware.RateLimitStore
	if redisClient != nil {
		store = middleware.NewRedisStore(redisClient, rateLimitKeyPrefix)
	} else {
		store = middleware.NewMemoryStore()
	}

	login = middleware.NewRateLimiterWithStore(store, "login", cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
	api = middleware.NewRateLimiterWithStore(store, "api", cfg.RateLimit.APIRequests, cfg.RateLimit.APIWindow)
	return login, api
}

// NewImageUploader returns the Cloudinary uploader, or a disabled one when no
// Cloudinary URL is configured.
func NewImageUploader(cfg *config.CloudinaryConfig) (adapter.ImageUploader, error) {
	if cfg.URL == "" {
		slog.Warn("CLOUDINARY_URL not set, category icon uploads are disabled")
		return adapters.NewDisabledUploader(), nil
	}
	return adapters.NewCloudinaryUploader(cfg.URL, cfg.Folder, cfg.UploadPrefix)
}

// NewRedisClient connects to Redis. It returns nil when no Redis URL is configured.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.Info("Redis connection established", "addr", opts.Addr)
	return client, nil
}
