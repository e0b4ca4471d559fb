package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/muktihq/companion-api/internal/api"
	"github.com/muktihq/companion-api/internal/core/ports"
	"github.com/muktihq/companion-api/internal/infrastructure/config"
	mongodb "github.com/muktihq/companion-api/internal/infrastructure/db/mongo"
	redisdb "github.com/muktihq/companion-api/internal/infrastructure/db/redis"
	"github.com/muktihq/companion-api/internal/infrastructure/llm"
	"github.com/muktihq/companion-api/internal/infrastructure/sheets"
	"github.com/muktihq/companion-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	// --- User record store ---
	var (
		repo    ports.UserRepository
		mongoDB *mongodriver.Database
	)
	switch cfg.Store {
	case "sheets":
		sheetRepo, err := sheets.NewUserRepository(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open sheets store")
		}
		repo = sheetRepo
		log.Info().Str("spreadsheet", cfg.Sheets.SpreadsheetID).Msg("using sheets record store")
	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer func() { _ = client.Disconnect(ctx) }()

		userRepo := mongodb.NewUserRepository(db)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure indexes")
		}
		repo = userRepo
		mongoDB = db
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb record store")
	}

	// --- Usage counter (optional) ---
	var (
		usage ports.UsageCounter
		rdb   *redis.Client
	)
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, daily usage will be counted from history")
		} else {
			defer func() { _ = client.Close() }()
			rdb = client
			usage = redisdb.NewUsageCounter(client)
		}
	}

	// --- Completion backend: pick a model or refuse to start ---
	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey)

	selectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	model, err := llm.SelectModel(selectCtx, llmClient, cfg.LLM.Preferred)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("no usable completion model, refusing to serve chat")
	}
	log.Info().Str("model", model).Msg("completion model selected")

	e := api.NewRouter(api.Deps{
		Cfg:   cfg,
		Repo:  repo,
		Usage: usage,
		LLM:   llmClient,
		Model: model,
		Mongo: mongoDB,
		Redis: rdb,
		Log:   log,
	})

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
