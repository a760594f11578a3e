// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Portable between SQLite and PostgreSQL: no dialect defaults, ids are
// generated by the application.
const schema = `
-- Games
CREATE TABLE IF NOT EXISTS game (
    id TEXT PRIMARY KEY,
    chat_id BIGINT NOT NULL,
    owner_id BIGINT NOT NULL,
    owner_message_id BIGINT NOT NULL,
    rendered_message_id BIGINT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('started', 'ended')),
    name TEXT NOT NULL,
    json_data TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_game_owner_status ON game(chat_id, owner_id, status);

-- Game sessions
CREATE TABLE IF NOT EXISTS game_session (
    id TEXT PRIMARY KEY,
    game_id TEXT REFERENCES game(id),
    chat_id BIGINT NOT NULL,
    owner_id BIGINT NOT NULL,
    session_key BIGINT NOT NULL,
    rendered_message_id BIGINT NOT NULL,
    phase TEXT NOT NULL CHECK (phase IN ('discussion', 'estimation', 'resolution')),
    topic TEXT NOT NULL,
    json_data TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (chat_id, session_key)
);

CREATE INDEX IF NOT EXISTS idx_game_session_game_id ON game_session(game_id);
CREATE INDEX IF NOT EXISTS idx_game_session_phase ON game_session(phase);

-- Resolutions (one row per end_estimation)
CREATE TABLE IF NOT EXISTS session_resolution (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES game_session(id) ON DELETE CASCADE,
    game_id TEXT,
    chat_id BIGINT NOT NULL,
    session_key BIGINT NOT NULL,
    round INTEGER NOT NULL,
    json_data TEXT NOT NULL,
    resolved_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_resolution_game_id ON session_resolution(game_id);
`
