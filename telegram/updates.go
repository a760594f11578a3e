// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/danielhkuo/devpoker/handlers"
	"github.com/danielhkuo/devpoker/middleware"
	"github.com/danielhkuo/devpoker/models"
)

// Handler consumes typed chat events. *handlers.Dispatcher implements it.
type Handler interface {
	HandleCommand(ctx context.Context, cmd handlers.Command) error
	HandleCallback(ctx context.Context, cb handlers.Callback) error
}

// UpdateSource is the long-poll side of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// WebhookAPI is the raw request side of *tgbotapi.BotAPI.
type WebhookAPI interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// ParticipantFromUser converts a Bot API user into the core identity.
func ParticipantFromUser(u *tgbotapi.User) models.Participant {
	return models.Participant{
		ID:        u.ID,
		IsBot:     u.IsBot,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.UserName,
	}
}

// Dispatch routes one update to h. Updates the bot does not act on are
// dropped.
func Dispatch(ctx context.Context, h Handler, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil {
			slog.Debug("dropping callback without chat", "update_id", update.UpdateID)
			return nil
		}
		return h.HandleCallback(ctx, handlers.Callback{
			ID:     cq.ID,
			ChatID: cq.Message.Chat.ID,
			Data:   cq.Data,
			Sender: ParticipantFromUser(cq.From),
		})

	case update.Message != nil:
		msg := update.Message
		if !msg.IsCommand() || msg.From == nil || msg.Chat == nil {
			return nil
		}
		return h.HandleCommand(ctx, handlers.Command{
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Name:      msg.Command(),
			Args:      msg.CommandArguments(),
			Sender:    ParticipantFromUser(msg.From),
		})
	}

	return nil
}

// Poll long-polls for updates until ctx is done. Each update runs on its
// own goroutine; Poll returns after all of them finish.
func Poll(ctx context.Context, src UpdateSource, h Handler, timeout int) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = timeout
	updates := src.GetUpdatesChan(cfg)

	// In-flight updates finish even after shutdown starts
	handlerCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	defer wg.Wait()

	slog.Info("polling for updates", "timeout_s", timeout)

	for {
		select {
		case <-ctx.Done():
			src.StopReceivingUpdates()
			slog.Info("stopped polling")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer wg.Done()
				if err := Dispatch(handlerCtx, h, update); err != nil {
					slog.Error("failed to handle update", "error", err, "update_id", update.UpdateID)
				}
			}(update)
		}
	}
}

// WebhookHandler handles POST /telegram/webhook. Handler errors are logged
// and still answered with 200, since Telegram would only redeliver them.
func WebhookHandler(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := middleware.ParseJSONBody(r, &update); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if err := Dispatch(context.WithoutCancel(r.Context()), h, update); err != nil {
			slog.Error("failed to handle update", "error", err, "update_id", update.UpdateID)
		}

		w.WriteHeader(http.StatusOK)
	}
}

// RegisterWebhook points Telegram at url. Telegram sends secret back in
// the secret token header of every update.
func RegisterWebhook(api WebhookAPI, url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)

	resp, err := api.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("failed to set webhook: %s", resp.Description)
	}
	return nil
}

// DeleteWebhook switches the bot back to long polling.
func DeleteWebhook(api WebhookAPI) error {
	resp, err := api.MakeRequest("deleteWebhook", tgbotapi.Params{})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("failed to delete webhook: %s", resp.Description)
	}
	return nil
}
