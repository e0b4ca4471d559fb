package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Store selects the user-record backend: "mongo" or "sheets".
	Store string `env:"STORE_BACKEND, default=mongo"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Sheets SheetsConfig
	LLM    LLMConfig
	Limits LimitsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=companion"`
}

type RedisConfig struct {
	// Addr left empty disables the Redis usage counter; the daily budget is
	// then approximated from the loaded history window.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type SheetsConfig struct {
	CredentialsFile string `env:"SHEETS_CREDENTIALS_FILE"`
	SpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID"`
	SheetName       string `env:"SHEETS_SHEET_NAME, default=Sheet1"`
}

type LLMConfig struct {
	BaseURL string `env:"LLM_BASE_URL, default=https://api.openai.com/v1"`
	APIKey  string `env:"LLM_API_KEY"`
	// Preferred is the ordered model preference list; the first identifier
	// the backend actually serves wins.
	Preferred     []string      `env:"LLM_PREFERRED_MODELS, default=gpt-4o,gpt-4o-mini,gpt-3.5-turbo"`
	FallbackModel string        `env:"LLM_FALLBACK_MODEL"`
	Attempts      int           `env:"LLM_RETRY_ATTEMPTS, default=3"`
	Backoff       time.Duration `env:"LLM_RETRY_BACKOFF,  default=1s"`
}

type LimitsConfig struct {
	New          int    `env:"LIMIT_NEW_USER,       default=10"`
	Returning    int    `env:"LIMIT_RETURNING_USER, default=5"`
	HistoryDepth int    `env:"HISTORY_DEPTH,        default=30"`
	PromptWindow int    `env:"PROMPT_WINDOW,        default=5"`
	UnlockCode   string `env:"UNLOCK_CODE,          default=MUKTI_BOSS"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
