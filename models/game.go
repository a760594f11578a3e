// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Game status constants
const (
	GameStatusStarted = "started"
	GameStatusEnded   = "ended"
)

// Game groups the sessions a facilitator runs in one chat, for statistics.
type Game struct {
	ID                string      `json:"id"`
	ChatID            int64       `json:"chat_id"`
	OwnerMessageID    int         `json:"owner_message_id"`
	RenderedMessageID int         `json:"rendered_message_id"`
	Name              string      `json:"name"`
	Status            string      `json:"status"`
	Owner             Participant `json:"owner"`
	CreatedAt         time.Time   `json:"created_at"`
}

func NewGame(chatID int64, ownerMessageID int, name string, owner Participant) *Game {
	return &Game{
		ChatID:         chatID,
		OwnerMessageID: ownerMessageID,
		Name:           name,
		Status:         GameStatusStarted,
		Owner:          owner,
	}
}

func (g *Game) Active() bool {
	return g.Status == GameStatusStarted
}

// GameStatistics summarizes resolved sessions of a game.
// SessionsCount counts every resolution, re-estimates included;
// EstimatedSessionsCount counts distinct topics.
type GameStatistics struct {
	SessionsCount          int `json:"sessions_count"`
	EstimatedSessionsCount int `json:"estimated_sessions_count"`
}
