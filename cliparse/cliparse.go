package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Bot update delivery modes
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

var databaseTypes = []string{"memory", "sqlite", "postgres", "redis"}

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	BotToken     string
	Mode         string
	WebhookURL   string
	// WebhookSecret is checked against the secret token header. Empty
	// means one is derived from the bot token at startup.
	WebhookSecret string
	// QueryToken guards the session and game query routes. Empty leaves
	// them unregistered.
	QueryToken     string
	DeckPath       string
	LogLevel       string
	RedisKeyPrefix string
}

// LoadEnv reads .env style files into the environment. Variables already
// set win over the files, and missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ParseFlags reads flags, falls back to env variables, then to defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	flags := pflag.NewFlagSet("devpoker", pflag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	flags.IntVarP(&cfg.Port, "port", "p", 0, "HTTP port")
	flags.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL or sqlite file")
	flags.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Store type (memory, sqlite, postgres or redis)")
	flags.StringVar(&cfg.RedisKeyPrefix, "redis-prefix", "", "Key prefix for the redis store")

	// Bot
	flags.StringVar(&cfg.BotToken, "token", "", "Telegram bot token (prefer env)")
	flags.StringVar(&cfg.Mode, "mode", "", "Update delivery (polling or webhook)")
	flags.StringVar(&cfg.WebhookURL, "webhook-url", "", "Public URL of POST /telegram/webhook")
	flags.StringVar(&cfg.WebhookSecret, "webhook-secret", "", "Webhook secret token (prefer env)")
	flags.StringVar(&cfg.QueryToken, "query-token", "", "Bearer token for the query endpoints (prefer env)")
	flags.StringVar(&cfg.DeckPath, "deck", "", "YAML file with the card layout")
	flags.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn or error)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	cfg.DatabaseType = strings.ToLower(firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "sqlite"))
	if !contains(databaseTypes, cfg.DatabaseType) {
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" && cfg.DatabaseType != "memory" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.RedisKeyPrefix = firstNonEmpty(cfg.RedisKeyPrefix, os.Getenv("REDIS_KEY_PREFIX"), "devpoker:")

	// Secrets - token MUST be provided
	cfg.BotToken = firstNonEmpty(cfg.BotToken, os.Getenv("DEVPOKER_BOT_API_TOKEN"))
	if cfg.BotToken == "" {
		return Config{}, errors.New("DEVPOKER_BOT_API_TOKEN required")
	}

	cfg.Mode = strings.ToLower(firstNonEmpty(cfg.Mode, os.Getenv("BOT_MODE"), ModePolling))
	if cfg.Mode != ModePolling && cfg.Mode != ModeWebhook {
		return Config{}, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	cfg.WebhookURL = firstNonEmpty(cfg.WebhookURL, os.Getenv("WEBHOOK_URL"))
	if cfg.Mode == ModeWebhook && cfg.WebhookURL == "" {
		return Config{}, errors.New("webhook mode requires WEBHOOK_URL")
	}
	cfg.WebhookSecret = firstNonEmpty(cfg.WebhookSecret, os.Getenv("WEBHOOK_SECRET"))

	cfg.QueryToken = firstNonEmpty(cfg.QueryToken, os.Getenv("QUERY_TOKEN"))

	cfg.DeckPath = firstNonEmpty(cfg.DeckPath, os.Getenv("DECK_PATH"))

	cfg.LogLevel = strings.ToLower(firstNonEmpty(cfg.LogLevel, os.Getenv("LOG_LEVEL"), "info"))
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SlogLevel returns the configured log level
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
