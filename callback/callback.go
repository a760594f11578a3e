// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package callback encodes button payloads.
//
// A payload carries everything needed to act on a click without server-side
// lookup state:
//
//	estimation-vote-click-1234-8
//	discussion-vote-click-1234-to_estimate
//	end_estimation-click-1234
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/devpoker/models"
)

// Action is the kind of button that was pressed.
type Action string

const (
	ActionDiscussionVote Action = "discussion-vote"
	ActionEstimationVote Action = "estimation-vote"
)

const separator = "-click-"

var ErrMalformed = errors.New("malformed callback payload")

// Payload is a decoded button click.
type Payload struct {
	Action     Action
	SessionKey int
	Value      string
}

// IsVote reports whether the payload casts a vote rather than running a control.
func (p Payload) IsVote() bool {
	return p.Action == ActionDiscussionVote || p.Action == ActionEstimationVote
}

// Operation returns the facilitator control named by the payload.
func (p Payload) Operation() (models.Operation, bool) {
	for _, op := range models.Operations {
		if string(op) == string(p.Action) {
			return op, true
		}
	}
	return "", false
}

// Vote builds a vote payload.
func Vote(action Action, sessionKey int, value string) string {
	return fmt.Sprintf("%s%s%d-%s", action, separator, sessionKey, value)
}

// Operation builds a control payload.
func Operation(op models.Operation, sessionKey int) string {
	return fmt.Sprintf("%s%s%d", op, separator, sessionKey)
}

// Parse decodes a payload produced by Vote or Operation.
func Parse(data string) (Payload, error) {
	action, rest, ok := strings.Cut(data, separator)
	if !ok || action == "" || rest == "" {
		return Payload{}, fmt.Errorf("%w: %q", ErrMalformed, data)
	}

	p := Payload{Action: Action(action)}

	keyPart, value, hasValue := strings.Cut(rest, "-")
	key, err := strconv.Atoi(keyPart)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: bad session key in %q", ErrMalformed, data)
	}
	p.SessionKey = key

	if p.IsVote() {
		if !hasValue || value == "" {
			return Payload{}, fmt.Errorf("%w: vote without value in %q", ErrMalformed, data)
		}
		p.Value = value
		return p, nil
	}

	if _, ok := p.Operation(); !ok {
		return Payload{}, fmt.Errorf("%w: unknown action %q", ErrMalformed, action)
	}
	if hasValue {
		return Payload{}, fmt.Errorf("%w: unexpected value in %q", ErrMalformed, data)
	}

	return p, nil
}
