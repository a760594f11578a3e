// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the webhook endpoint and the query endpoints.

# Webhook Secrets

Telegram echoes the secret registered with setWebhook in the
X-Telegram-Bot-Api-Secret-Token header of every update:

	err := auth.ValidateWebhookSecret(r.Header.Get(header), cfg.WebhookSecret)

Comparison is constant time. A missing header returns ErrMissingSecret, a
mismatch ErrInvalidSecret.

When no secret is configured, one is derived from the bot token with
HMAC-SHA256, so it survives restarts without being stored:

	secret := auth.DeriveWebhookSecret(cfg.BotToken)

GenerateToken returns a random one instead. Both are URL-safe base64
without padding, which fits the alphabet Telegram accepts.

# Query Tokens

Session and game queries carry names and votes from group chats, so they
need the configured query token:

	Authorization: Bearer <token>

	err := auth.ValidateBearerToken(r.Header.Get("Authorization"), cfg.QueryToken)

A fresh token comes from GenerateToken, printed by `devpoker token`.

Session control is not handled here: only the facilitator may run operations,
and that check lives on models.Session.
*/
package auth
