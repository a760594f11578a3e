package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/devpoker/auth"
	"github.com/danielhkuo/devpoker/cliparse"
	"github.com/danielhkuo/devpoker/db"
	"github.com/danielhkuo/devpoker/deck"
	"github.com/danielhkuo/devpoker/handlers"
	"github.com/danielhkuo/devpoker/middleware"
	"github.com/danielhkuo/devpoker/registry"
	"github.com/danielhkuo/devpoker/router"
	"github.com/danielhkuo/devpoker/telegram"
)

const pollTimeoutSeconds = 60

func main() {
	// devpoker token prints a fresh secret for WEBHOOK_SECRET or QUERY_TOKEN
	if len(os.Args) > 1 && os.Args[1] == "token" {
		token, err := auth.GenerateToken()
		if err != nil {
			slog.Error("token generation failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	// Parse configuration
	if err := cliparse.LoadEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	// signal.Notify requires the channel to be buffered
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
	}()

	if err := run(ctx, cancel, cfg); err != nil {
		slog.Error("devpoker stopped", "error", err)
		cancel()
		os.Exit(1)
	}
}

// run owns the store for the life of the bot, so it is closed on every
// return path.
func run(ctx context.Context, cancel context.CancelFunc, cfg cliparse.Config) error {
	// Open storage
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store setup failed (%s): %w", cfg.DatabaseType, err)
	}
	reg := registry.New(store)
	defer reg.Close()
	slog.Info("Store ready", "type", cfg.DatabaseType)

	cardDeck, err := deck.Load(cfg.DeckPath)
	if err != nil {
		return fmt.Errorf("deck loading failed: %w", err)
	}

	// Connect to Telegram
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("bot authorization failed: %w", err)
	}
	slog.Info("Authorized", "bot", bot.Self.UserName)

	dispatcher := handlers.NewDispatcher(reg, telegram.NewMessenger(bot), cardDeck)

	if cfg.Mode == cliparse.ModeWebhook {
		if cfg.WebhookSecret == "" {
			cfg.WebhookSecret = auth.DeriveWebhookSecret(cfg.BotToken)
		}
		if !auth.ValidSecretFormat(cfg.WebhookSecret) {
			return errors.New("webhook secret may only contain A-Z, a-z, 0-9, _ and -")
		}
	}
	if cfg.QueryToken == "" {
		slog.Info("Query endpoints disabled, set QUERY_TOKEN to enable them")
	}

	// Create server
	mux := router.NewRouter(reg, dispatcher, cfg)
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		slog.Info("Listening", "port", cfg.Port, "mode", cfg.Mode)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server closed", "error", err)
			cancel()
		}
	}()

	// Receive updates
	if cfg.Mode == cliparse.ModeWebhook {
		if err := telegram.RegisterWebhook(bot, cfg.WebhookURL, cfg.WebhookSecret); err != nil {
			server.Close()
			return fmt.Errorf("webhook registration failed: %w", err)
		}
		slog.Info("Webhook registered", "url", cfg.WebhookURL)
		<-ctx.Done()
	} else {
		if err := telegram.DeleteWebhook(bot); err != nil {
			slog.Warn("failed to delete webhook", "error", err)
		}
		if err := telegram.Poll(ctx, bot, dispatcher, pollTimeoutSeconds); err != nil {
			slog.Error("polling failed", "error", err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	err = server.Shutdown(shutdownCtx)
	slog.Info("Server closed", "error", err)
	return nil
}

// setupLogging writes text logs to terminals and JSON everywhere else.
func setupLogging(cfg cliparse.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func openStore(ctx context.Context, cfg cliparse.Config) (registry.Store, error) {
	storeType := registry.StoreType(cfg.DatabaseType)

	switch storeType {
	case registry.StoreTypeSQLite, registry.StoreTypePostgres:
		dbConn, err := sql.Open(string(storeType), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		if storeType == registry.StoreTypeSQLite {
			// One writer at a time avoids SQLITE_BUSY
			dbConn.SetMaxOpenConns(1)
		}

		// Verify connection
		if err := dbConn.PingContext(ctx); err != nil {
			dbConn.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}

		// Create schema (tables)
		if err := db.CreateSchema(dbConn); err != nil {
			dbConn.Close()
			return nil, err
		}
		return registry.NewStore(storeType, registry.WithDB(dbConn))

	case registry.StoreTypeRedis:
		opts, err := redis.ParseURL(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return registry.NewStore(storeType,
			registry.WithRedisClient(client),
			registry.WithKeyPrefix(cfg.RedisKeyPrefix),
		)

	default:
		return registry.NewStore(storeType)
	}
}
