// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers turns chat events and HTTP queries into registry work.

# Dispatcher

Dispatcher receives typed events from the transport:

	d := handlers.NewDispatcher(reg, messenger, deck)
	err := d.HandleCommand(ctx, handlers.Command{Name: "poker", Args: "TASK-123", ...})
	err = d.HandleCallback(ctx, handlers.Callback{Data: "estimation-vote-click-42-5", ...})

Each callback holds the registry lock for its session while it loads,
checks, mutates, stores and re-renders. Rejected clicks are answered and
never stored:

	No such game
	Can't vote not in <phase> phase
	Unknown vote `<value>`
	Operation `<op>` is available only for facilitator
	Operation `<op>` is not available in <phase> phase

Edits and answers that fail after the session is stored are logged and
dropped.

# Commands

	/start, /help  → usage
	/poker [topic] → new session, topic defaults to "(no topic)"
	/game <name>   → start grouping sessions
	/endgame       → end the game and post its statistics

# Re-estimate

The next round continues in a new message. Only once the new round is
stored does the resolved message lose its buttons, keeping its text. If
storing fails, the new message is reduced to plain text and the old
Re-estimate button still works. If the new message cannot be sent, the old
one is turned back into a live session.

# Query Handlers

SessionHandler serves GET /chats/{chat}/sessions/{key} and
GET /games/{id}/statistics. Estimation values stay masked until the
session is resolved, exactly as in chat. The router puts both behind the
query token.
*/
package handlers
