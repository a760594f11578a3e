// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry stores sessions and games and serializes work on them.

# Drivers

NewStore picks a driver by type:

	store, err := registry.NewStore(registry.StoreTypeSQLite, registry.WithDB(db))
	store, err := registry.NewStore(registry.StoreTypeRedis,
		registry.WithRedisClient(client), registry.WithKeyPrefix("devpoker:"))
	store, err := registry.NewStore(registry.StoreTypeMemory)

The sql driver serves both sqlite and postgres with $N placeholders. Every
driver keeps the session JSON blob authoritative; lookup columns and keys
only exist to find it.

# Creation Is Strict

CreateSession and CreateGame never overwrite. A second create for the same
(chat, session key) returns models.ErrAlreadyExists, and a facilitator can
only have one started game per chat.

# Locking

Registry.Lock hands out a mutex per (chat, session key):

	unlock := reg.Lock(chatID, sessionKey)
	defer unlock()

	sess, err := reg.FindSession(ctx, chatID, sessionKey)
	// mutate, then
	err = reg.UpdateSession(ctx, sess)

Different keys never wait on each other. Idle locks are dropped so the
table does not grow with the number of sessions. LockOwner does the same
for the /game and /endgame commands of one facilitator.

# Statistics

RecordResolution appends a row each time a session reaches resolution.
GameStatistics counts those rows for a game (SessionsCount) and the
distinct session keys among them (EstimatedSessionsCount).
*/
package registry
