// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the DevPoker Telegram bot.

DevPoker runs planning poker in group chats. A facilitator opens a session
with /poker, the group marks whether the topic is ready in the discussion
phase, casts masked estimates, and the facilitator reveals them. Sessions
can be re-estimated and grouped into games for statistics.

# Starting the Bot

	DEVPOKER_BOT_API_TOKEN=123:abc DATABASE_URL=devpoker.db go run .

Or with flags:

	go run . -t redis -d redis://localhost:6379/0 --token 123:abc

Settings may also live in a .env file next to the binary.

# Configuration

Required settings:

  - DEVPOKER_BOT_API_TOKEN (--token): Telegram bot token
  - DATABASE_URL (-d): sqlite file, PostgreSQL or Redis URL (not needed for memory)

Optional settings:

  - DATABASE_TYPE (-t): memory, sqlite, postgres or redis (default: sqlite)
  - BOT_MODE (--mode): polling or webhook (default: polling)
  - WEBHOOK_URL, WEBHOOK_SECRET: webhook registration
  - DECK_PATH (--deck): YAML card layout
  - PORT (-p): HTTP port for health, webhook and queries (default: 3318)
  - LOG_LEVEL (--log-level): debug, info, warn or error

Logs are text on a terminal and JSON otherwise.

# Architecture

  - models: participants, votes, the session state machine, games
  - deck: card layout
  - callback: button payload encoding
  - render: session and game messages
  - registry: storage drivers and per-session locking
  - db: SQL schema creation
  - handlers: chat event dispatcher and query handlers
  - telegram: Bot API transport
  - router, middleware, auth: HTTP surface
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
