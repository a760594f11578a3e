// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the DevPoker bot.

# Route Registration

	mux := router.NewRouter(reg, dispatcher, cfg)

# Endpoints

Health:

	GET /health

Telegram (webhook mode only, checks X-Telegram-Bot-Api-Secret-Token):

	POST /telegram/webhook

Read-only queries (registered only when a query token is configured, and
every request needs "Authorization: Bearer <token>"):

	GET /chats/{chat}/sessions/{key} - Session state, votes masked until resolution
	GET /games/{id}/statistics       - Game with resolution counts

In polling mode without a query token the HTTP server only answers health
checks.
*/
package router
