// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package telegram connects the dispatcher to the Telegram Bot API.

Raw updates never leave this package. Dispatch turns them into
handlers.Command and handlers.Callback values with a typed
models.Participant as the sender:

	err := telegram.Dispatch(ctx, dispatcher, update)

Messages that are not commands are dropped, as are callbacks from inline
mode, which carry no chat.

# Delivery

Long polling runs until the context is canceled and waits for in-flight
updates before returning:

	err := telegram.Poll(ctx, bot, dispatcher, 60)

In webhook mode, WebhookHandler serves POST /telegram/webhook and
RegisterWebhook tells Telegram where to send updates and which secret to
echo back.

# Messenger

Messenger implements handlers.Messenger on top of *tgbotapi.BotAPI. Edits
that Telegram rejects as "message is not modified" count as success.
*/
package telegram
