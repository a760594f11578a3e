// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package render turns sessions and games into chat messages.

Every function here is pure: the output depends only on the arguments, so the
dispatcher re-renders from the in-memory session right after each mutation.

# Session Message

	Game: Sprint 7
	Facilitator: @olga (Olga Owner)
	Estimation for: Fix bug
	Round: 2nd

	Votes (2):
	♠️ @2 (Pavel)
	♥️ @olga (Olga Owner)

The game line appears only for sessions inside a game, the round line only
after a re-estimate. Votes are sorted by participant key. The mark column is
the status icon while discussing, a card suit while estimating, and the real
card once resolved.

# Buttons

	discussion  3 rows of lobby statuses, then "Start estimation"
	estimation  the deck rows, then "Clear votes" and "End estimation"
	resolution  "Re-estimate"

Button data comes from package callback, so a click resolves back to the
session key and value without server-side state.
*/
package render
