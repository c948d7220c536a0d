package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/facetrack/attendance-system/internal/api"
	"github.com/facetrack/attendance-system/internal/core/ports"
	"github.com/facetrack/attendance-system/internal/core/service"
	mongodb "github.com/facetrack/attendance-system/internal/infrastructure/db/mongo"
	redisdb "github.com/facetrack/attendance-system/internal/infrastructure/db/redis"
	"github.com/facetrack/attendance-system/internal/infrastructure/queue"
	"github.com/facetrack/attendance-system/internal/pkg/config"
	"github.com/facetrack/attendance-system/pkg/logger"
)

// @title Face Attendance API
// @version 1.0
// @description Face recognition based employee attendance service.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting face attendance service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	identityRepo := mongodb.NewIdentityRepository(db)
	attendanceRepo := mongodb.NewAttendanceRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	authRepo := mongodb.NewAuthRepository(db)

	if err := identityRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("identity indexes failed")
	}
	if err := attendanceRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("attendance indexes failed")
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("auth indexes failed")
	}

	// --- Redis (optional, powers the mark cooldown guard) ---
	var cooldown service.CooldownGuard
	redisClient, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, mark cooldown disabled")
		redisClient = nil
	} else if cfg.CooldownSeconds > 0 {
		cooldown = redisdb.NewCooldownGuard(redisClient, time.Duration(cfg.CooldownSeconds)*time.Second)
	}
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	// --- Matching ---
	var matcher ports.Matcher
	switch cfg.Match.Engine {
	case "hnsw":
		matcher = service.NewHNSWMatcher(cfg.Match.Threshold, log)
	default:
		matcher = service.NewLinearMatcher(cfg.Match.Threshold, log)
	}
	log.Info().Str("engine", cfg.Match.Engine).Float64("threshold", cfg.Match.Threshold).Msg("matcher configured")

	// --- Audit trail ---
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, auditService, log)
	dispatcher.Start(ctx)

	// --- Timezone for the attendance day boundary ---
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
	}

	attendanceService := service.NewAttendanceService(
		identityRepo,
		attendanceRepo,
		matcher,
		service.AttendanceServiceConfig{
			DescriptorDim: cfg.Match.DescriptorDim,
			Location:      location,
			Cooldown:      cooldown,
			Events:        dispatcher,
		},
		log,
	)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	e := api.NewRouter(api.RouterConfig{
		AttendanceService: attendanceService,
		AuthService:       authService,
		JWTSecret:         cfg.JWTSecret,
		DB:                db,
		Redis:             redisClient,
		Logger:            log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
