// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrPhaseViolation   = errors.New("action not allowed in current phase")
	ErrUnauthorized     = errors.New("only the facilitator may do this")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrInvalidVote      = errors.New("invalid vote")
)
