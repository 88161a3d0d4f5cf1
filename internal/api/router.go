package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/corpgpt/auth-service/internal/api/handler"
	"github.com/corpgpt/auth-service/internal/api/middleware"
	"github.com/corpgpt/auth-service/internal/core/domain"
	"github.com/corpgpt/auth-service/internal/core/ports"
)

// Deps bundles everything the router needs. Mongo and Redis may be nil in
// demo mode; the readiness probe reports them as disabled.
type Deps struct {
	AuthService ports.AuthService
	AuditRepo   ports.AuditRepository
	Mongo       *mongo.Database
	Redis       *redis.Client
	JWTSecret   string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("corpgpt_auth"))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	auditHandler := handler.NewAuditHandler(deps.AuditRepo)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/mfa/verify", authHandler.VerifyMFA)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/verify", authHandler.VerifyOTP)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Admin routes ---
	e.GET("/api/audit", auditHandler.List, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
