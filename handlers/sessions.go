// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/devpoker/middleware"
	"github.com/danielhkuo/devpoker/models"
	"github.com/danielhkuo/devpoker/registry"
	"github.com/danielhkuo/devpoker/render"
)

// SessionHandler serves read-only views of sessions and games.
// Access control is left to the router.
type SessionHandler struct {
	reg *registry.Registry
}

func NewSessionHandler(reg *registry.Registry) *SessionHandler {
	return &SessionHandler{reg: reg}
}

// GetSession handles GET /chats/{chat}/sessions/{key}
// Estimation values stay masked until the session is resolved.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(r.PathValue("chat"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "chat must be an integer")
		return
	}
	sessionKey, err := strconv.Atoi(r.PathValue("key"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "key must be an integer")
		return
	}

	sess, err := h.reg.FindSession(r.Context(), chatID, sessionKey)
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to load session", "error", err, "chat_id", chatID, "session_key", sessionKey)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		ChatID:            sess.ChatID,
		SessionKey:        sess.SessionKey,
		RenderedMessageID: sess.RenderedMessageID,
		GameID:            sess.GameID,
		Topic:             sess.Topic,
		Facilitator:       sess.Owner.Key(),
		Phase:             sess.Phase(),
		Round:             sess.Round(),
		Votes:             render.Votes(sess),
	})
}

// GetGameStatistics handles GET /games/{id}/statistics
func (h *SessionHandler) GetGameStatistics(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if gameID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "game id is required")
		return
	}

	game, err := h.reg.FindGame(r.Context(), gameID)
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		slog.Error("failed to load game", "error", err, "game_id", gameID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load game")
		return
	}

	stats, err := h.reg.GameStatistics(r.Context(), gameID)
	if err != nil {
		slog.Error("failed to load game statistics", "error", err, "game_id", gameID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load statistics")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GameStatisticsResponse{
		Game:       *game,
		Statistics: stats,
	})
}
