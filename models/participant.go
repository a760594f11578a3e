// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Participant is a chat member as seen by the bot.
// Built once at the transport boundary; the core never sees raw user payloads.
type Participant struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Key returns the canonical display string, e.g. "@alice (Alice Smith)".
// It indexes vote mappings and orders rendered output. Never use it for authorization.
func (p Participant) Key() string {
	handle := p.Username
	if handle == "" {
		handle = strconv.FormatInt(p.ID, 10)
	}

	name := strings.TrimSpace(p.FirstName + " " + p.LastName)

	return fmt.Sprintf("@%s (%s)", handle, name)
}

// String implements fmt.Stringer
func (p Participant) String() string {
	return p.Key()
}

// Is reports whether two participants are the same chat account.
func (p Participant) Is(other Participant) bool {
	return p.ID == other.ID
}
