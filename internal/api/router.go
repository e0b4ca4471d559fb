package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/muktihq/companion-api/internal/api/handler"
	"github.com/muktihq/companion-api/internal/api/middleware"
	"github.com/muktihq/companion-api/internal/core/ports"
	"github.com/muktihq/companion-api/internal/core/service"
	"github.com/muktihq/companion-api/internal/infrastructure/config"
)

// Deps carries everything the router needs to assemble the service graph.
// Mongo and Redis handles may be nil depending on the selected backends;
// the readiness probe and usage counter degrade accordingly.
type Deps struct {
	Cfg   *config.Config
	Repo  ports.UserRepository
	Usage ports.UsageCounter
	LLM   ports.CompletionClient
	Model string
	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	limits := service.LimitConfig{
		LimitNew:       d.Cfg.Limits.New,
		LimitReturning: d.Cfg.Limits.Returning,
	}
	authService := service.NewAuthService(d.Repo, d.Cfg.JWTSecret, 24*time.Hour)
	chatService := service.NewChatService(d.Repo, d.LLM, d.Usage, service.ChatOptions{
		Model:         d.Model,
		FallbackModel: d.Cfg.LLM.FallbackModel,
		HistoryDepth:  d.Cfg.Limits.HistoryDepth,
		PromptWindow:  d.Cfg.Limits.PromptWindow,
		UnlockCode:    d.Cfg.Limits.UnlockCode,
		Attempts:      d.Cfg.LLM.Attempts,
		Backoff:       d.Cfg.LLM.Backoff,
		Limits:        limits,
	}, d.Log)
	checkinService := service.NewCheckinService(d.Repo, d.Log)
	sessionService := service.NewSessionService(d.Repo, d.Usage, limits, d.Log)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	checkinHandler := handler.NewCheckinHandler(checkinService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	authMiddleware := middleware.Auth(d.Cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	api := e.Group("/api", authMiddleware)
	api.GET("/session", sessionHandler.Snapshot)
	api.GET("/sos", sessionHandler.SOS)
	api.POST("/chat", chatHandler.Submit)
	api.POST("/checkin", checkinHandler.CheckIn)
	api.POST("/unlock", chatHandler.Unlock)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
