package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cesizen/identity-system/internal/api/handler"
	"github.com/cesizen/identity-system/internal/api/middleware"
	"github.com/cesizen/identity-system/internal/core/ports"
	"github.com/cesizen/identity-system/internal/core/service"
)

// Deps bundles everything the router needs. All handles are constructed
// once in cmd/server and passed by reference; no package-level state.
type Deps struct {
	Mongo       *mongo.Database
	Redis       *redis.Client
	AuthService ports.AuthService
	UserService ports.UserService
	Guard       *service.AccessGuard
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)

	authenticated := middleware.Authenticate(deps.Guard)
	active := middleware.RequireActive(deps.Guard)
	admin := middleware.RequireAdmin(deps.Guard)

	// --- Public routes ---
	e.POST("/token", authHandler.Login)
	e.POST("/users/", authHandler.Register)

	// --- Self-service (authenticated + active) ---
	me := e.Group("/users/me", authenticated, active)
	me.GET("/", userHandler.Me)
	me.PUT("/", userHandler.UpdateMe)

	// --- Admin ---
	adm := e.Group("/admin/users", authenticated, admin)
	adm.GET("/", userHandler.List)
	adm.GET("/:username", userHandler.Get)
	adm.PUT("/:username", userHandler.Update)
	adm.DELETE("/:username", userHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
