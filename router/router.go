// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/devpoker/cliparse"
	"github.com/danielhkuo/devpoker/handlers"
	"github.com/danielhkuo/devpoker/middleware"
	"github.com/danielhkuo/devpoker/registry"
	"github.com/danielhkuo/devpoker/telegram"
)

// NewRouter builds the HTTP routes. The webhook route exists only in
// webhook mode and the query routes only with a query token.
func NewRouter(reg *registry.Registry, bot telegram.Handler, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(reg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Telegram updates
	if cfg.Mode == cliparse.ModeWebhook {
		hook := middleware.WithWebhookSecret(cfg.WebhookSecret, telegram.WebhookHandler(bot))
		mux.HandleFunc("POST /telegram/webhook", middleware.WithLogging(hook))
	}

	// Read-only queries, only with a query token
	if cfg.QueryToken != "" {
		mux.HandleFunc("GET /chats/{chat}/sessions/{key}",
			middleware.WithLogging(middleware.WithBearerToken(cfg.QueryToken, sessionHandler.GetSession)))
		mux.HandleFunc("GET /games/{id}/statistics",
			middleware.WithLogging(middleware.WithBearerToken(cfg.QueryToken, sessionHandler.GetGameStatistics)))
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("devpoker bot v1"))
	})

	return mux
}
