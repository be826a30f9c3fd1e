package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/weblarek/commerce-system/internal/api/handler"
	"github.com/weblarek/commerce-system/internal/api/middleware"
	"github.com/weblarek/commerce-system/internal/core/domain"
	"github.com/weblarek/commerce-system/internal/core/service"
	"github.com/weblarek/commerce-system/internal/core/token"
	mongodb "github.com/weblarek/commerce-system/internal/infrastructure/db/mongo"
)

// RouterConfig carries everything the router needs to assemble the API.
type RouterConfig struct {
	DB         *mongo.Database
	Redis      *redis.Client
	Codec      *token.Codec
	Cookie     handler.CookieSettings
	BcryptCost int
	Limiter    middleware.Limiter
	Dispatcher handler.OrderEventDispatcher
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("commerce"))
	if cfg.Limiter != nil {
		e.Use(middleware.RateLimit(cfg.Limiter, cfg.Log))
	}

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(cfg.DB)
	sessionService := service.NewSessionService(userRepo, cfg.Codec, cfg.BcryptCost, cfg.Log)
	customerService := service.NewCustomerService(userRepo, cfg.Log)

	authHandler := handler.NewAuthHandler(sessionService, cfg.Cookie)
	customerHandler := handler.NewCustomerHandler(customerService)
	authRequired := middleware.Auth(cfg.Codec, userRepo)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/token", authHandler.Refresh)
	auth.GET("/token", authHandler.Refresh) // legacy alias kept for old clients
	auth.GET("/user", authHandler.CurrentUser, authRequired)
	auth.GET("/user/roles", authHandler.CurrentUserRoles, authRequired)
	auth.PATCH("/me", authHandler.UpdateProfile, authRequired)

	// --- Customer administration (admin only) ---
	customers := e.Group("/customers", authRequired, adminOnly)
	customers.GET("", customerHandler.List)
	customers.GET("/:id", customerHandler.Get)
	customers.PATCH("/:id/roles", customerHandler.UpdateRoles)
	customers.DELETE("/:id", customerHandler.Delete)

	// --- Order events from the order subsystem (admin only) ---
	if cfg.Dispatcher != nil {
		orderEventHandler := handler.NewOrderEventHandler(cfg.Dispatcher)
		events := e.Group("/internal/order-events", authRequired, adminOnly)
		events.POST("", orderEventHandler.Receive)
		events.POST("/batch", orderEventHandler.ReceiveBatch)
	}

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.DB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
