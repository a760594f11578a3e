// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/danielhkuo/devpoker/render"
)

// API is the part of *tgbotapi.BotAPI the messenger needs.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger delivers render.View values through the Bot API.
type Messenger struct {
	api API
}

func NewMessenger(api API) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) SendView(ctx context.Context, chatID int64, view render.View) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	msg := tgbotapi.NewMessage(chatID, view.Text)
	msg.ParseMode = view.ParseMode
	msg.DisableWebPagePreview = view.DisableWebPagePreview
	if len(view.Keyboard) > 0 {
		msg.ReplyMarkup = keyboard(view.Keyboard)
	}

	sent, err := m.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

// EditView replaces the text and keyboard of a message. A view without a
// keyboard removes the buttons.
func (m *Messenger) EditView(ctx context.Context, chatID int64, messageID int, view render.View) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var edit tgbotapi.EditMessageTextConfig
	if len(view.Keyboard) > 0 {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, view.Text, keyboard(view.Keyboard))
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, view.Text)
	}
	edit.ParseMode = view.ParseMode
	edit.DisableWebPagePreview = view.DisableWebPagePreview

	if _, err := m.api.Request(edit); err != nil {
		if isNotModified(err) {
			slog.Debug("message unchanged", "chat_id", chatID, "message_id", messageID)
			return nil
		}
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func (m *Messenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := m.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

func keyboard(rows [][]render.Button) tgbotapi.InlineKeyboardMarkup {
	markup := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		markup = append(markup, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(markup...)
}

// Telegram rejects edits that change nothing, e.g. after a repeated
// discussion vote.
func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
