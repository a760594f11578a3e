// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSecret = errors.New("invalid webhook secret")
	ErrMissingSecret = errors.New("missing webhook secret")
	ErrInvalidToken  = errors.New("invalid access token")
	ErrMissingToken  = errors.New("missing access token")
)

// Telegram accepts 1-256 characters from A-Z, a-z, 0-9, _ and -.
const maxSecretLen = 256

// GenerateToken creates a random token usable as a webhook secret or a
// query access token
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	// URL-safe base64 without padding stays inside the allowed alphabet
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// DeriveWebhookSecret creates a deterministic secret from the bot token,
// so restarts keep the secret the webhook was registered with.
func DeriveWebhookSecret(botToken string) string {
	h := hmac.New(sha256.New, []byte(botToken))
	h.Write([]byte("devpoker-webhook"))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidSecretFormat reports whether secret can be registered with Telegram
func ValidSecretFormat(secret string) bool {
	if secret == "" || len(secret) > maxSecretLen {
		return false
	}
	for _, c := range secret {
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
		if !ok {
			return false
		}
	}
	return true
}

// ValidateWebhookSecret checks the secret header of an incoming update
func ValidateWebhookSecret(got, want string) error {
	if got == "" {
		return ErrMissingSecret
	}
	if !hmac.Equal([]byte(got), []byte(want)) {
		return ErrInvalidSecret
	}
	return nil
}

// ValidateBearerToken checks an Authorization header of the form
// "Bearer <token>"
func ValidateBearerToken(header, want string) error {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return ErrMissingToken
	}
	if !hmac.Equal([]byte(token), []byte(want)) {
		return ErrInvalidToken
	}
	return nil
}
