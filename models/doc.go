// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the planning poker domain: participants, votes,
game sessions and their phase state machine.

# Participants

Participant is built from the chat account that sent a command or pressed a
button. Its Key is the canonical display string used to index votes:

	@alice (Alice Smith)
	@42 (Bob)            // no username, numeric id instead

Authorization never uses the key; Session.Authorize compares account ids.

# Votes

EstimationVote keeps a value and a revision starting at -1. Each Set bumps
the revision by one, and Masked picks one of four card suits from it, so a
re-vote is visible to the group while the value stays hidden:

	v := NewEstimationVote()
	v.Set("5") // revision 0, ♥️
	v.Set("8") // revision 1, ♠️

DiscussionVote keeps a lobby status (to_estimate, need_discuss, ...) with a
fixed icon. Unknown statuses have an empty icon.

# Session Lifecycle

Sessions move through three phases:

	discussion --start_estimation--> estimation --end_estimation--> resolution
	                                  ^      |                           |
	                                  +------+ clear_votes               |
	                                  +----------------------------------+ re_estimate

Any other operation returns ErrPhaseViolation and leaves the session as it
was. Votes are admitted only in their own phase. clear_votes and re_estimate
empty the estimation votes; re_estimate also starts a new round.

# Persistence

Session implements json.Marshaler and json.Unmarshaler. The JSON blob holds
the whole state, including phase and both vote maps, and is authoritative
when a session is loaded back.

# Games

Game optionally groups sessions opened by one facilitator in one chat.
GameStatistics counts resolutions and distinct topics for a game.

# Errors

	ErrNotFound         no stored session or game
	ErrAlreadyExists    session key already stored
	ErrPhaseViolation   action invalid in the current phase
	ErrUnauthorized     control used by someone other than the facilitator
	ErrUnknownOperation unrecognized control name
	ErrInvalidVote      value outside the deck or unknown status
*/
package models
