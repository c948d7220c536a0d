package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/facetrack/attendance-system/docs"
	"github.com/facetrack/attendance-system/internal/api/handler"
	"github.com/facetrack/attendance-system/internal/api/middleware"
	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

// RouterConfig carries the constructed services and infrastructure handles
// the router wires into handlers.
type RouterConfig struct {
	AttendanceService ports.AttendanceService
	AuthService       ports.AuthService
	JWTSecret         string
	DB                *mongo.Database
	Redis             *redis.Client
	Logger            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("faceattendance"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	attendanceHandler := handler.NewAttendanceHandler(cfg.AttendanceService)
	identityHandler := handler.NewIdentityHandler(cfg.AttendanceService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Attendance routes ---
	authMW := middleware.Auth(cfg.JWTSecret)
	v1 := e.Group("/v1", authMW)

	v1.POST("/attendance", attendanceHandler.Mark, middleware.RequireRole(domain.RoleKiosk, domain.RoleAdmin))
	v1.GET("/attendance", attendanceHandler.List, middleware.RequireRole(domain.RoleAdmin))
	v1.POST("/identities", identityHandler.Register, middleware.RequireRole(domain.RoleAdmin))
	v1.DELETE("/identities/:code", identityHandler.Deactivate, middleware.RequireRole(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
