// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on SQLite and PostgreSQL.

# Tables

  - game: Optional grouping of sessions per facilitator and chat
  - game_session: One row per (chat_id, session_key)
  - session_resolution: One row each time a session is resolved

Each row stores the full state as JSON in json_data. The other columns exist
for lookups and statistics; json_data wins when a row is read back.

# Relationships

	game 1──* game_session
	game_session 1──* session_resolution

# Indexes

  - game.(chat_id, owner_id, status)
  - game_session.(chat_id, session_key) (unique)
  - game_session.game_id
  - game_session.phase
  - session_resolution.game_id
*/
package db
