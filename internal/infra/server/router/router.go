// Package router sets up the HTTP routing for the application.
package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/quickmate/backend/internal/domain/entity"
	"github.com/quickmate/backend/internal/infra/metrics"
	"github.com/quickmate/backend/internal/integration/entrypoint/controller"
	"github.com/quickmate/backend/internal/integration/entrypoint/dto"
	"github.com/quickmate/backend/internal/integration/entrypoint/middleware"
)

// maxMultipartMemory caps the part of a multipart body kept in memory.
const maxMultipartMemory = 8 << 20

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	authController           *controller.AuthController
	categoryController       *controller.CategoryController
	commissionRuleController *controller.CommissionRuleController
	loginRateLimiter         *middleware.RateLimiter
	apiRateLimiter           *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
	allowedOrigins           []string
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	commissionRuleController *controller.CommissionRuleController,
	loginRateLimiter *middleware.RateLimiter,
	apiRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	allowedOrigins []string,
) *Router {
	return &Router{
		healthController:         healthController,
		authController:           authController,
		categoryController:       categoryController,
		commissionRuleController: commissionRuleController,
		loginRateLimiter:         loginRateLimiter,
		apiRateLimiter:           apiRateLimiter,
		authMiddleware:           authMiddleware,
		allowedOrigins:           allowedOrigins,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		dto.RegisterValidators(v)
	} else {
		slog.Warn("Request validator engine is not go-playground/validator, custom rules disabled")
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.MaxMultipartMemory = maxMultipartMemory

	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:     r.allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.engine.Use(metrics.Middleware())

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
// Metrics are admin only and not exposed without the auth middleware.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.authMiddleware != nil {
		r.engine.GET("/metrics",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRoles(entity.RoleAdmin),
			gin.WrapH(metrics.Handler()),
		)
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	if r.apiRateLimiter != nil {
		v1.Use(r.apiRateLimiter.Middleware())
	}

	{
		// Auth routes (public, login is throttled)
		if r.authController != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				if r.loginRateLimiter != nil {
					auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
				} else {
					auth.POST("/login", r.authController.Login)
				}
			}
		}

		if r.authMiddleware == nil {
			return
		}
		adminOnly := []gin.HandlerFunc{
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRoles(entity.RoleAdmin),
		}

		// Category routes (admin only)
		if r.categoryController != nil {
			categories := v1.Group("/categories", adminOnly...)
			{
				categories.GET("/global-commission", r.categoryController.GetGlobalCommission)
				categories.PUT("/global-commission", r.categoryController.UpdateGlobalCommission)

				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
				categories.GET("/:id", r.categoryController.Get)
				categories.PUT("/:id", r.categoryController.Update)
				categories.DELETE("/:id", r.categoryController.Delete)
			}
		}

		// Commission rule routes (admin only, read-only)
		if r.commissionRuleController != nil {
			rules := v1.Group("/commission-rules", adminOnly...)
			{
				rules.GET("", r.commissionRuleController.List)
				rules.GET("/:id", r.commissionRuleController.Get)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
