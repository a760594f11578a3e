// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Webhook Secret

Telegram sends the secret registered with setWebhook in the
X-Telegram-Bot-Api-Secret-Token header:

	mux.HandleFunc("POST /telegram/webhook",
		middleware.WithLogging(middleware.WithWebhookSecret(cfg.WebhookSecret, hook)))

Requests without the matching header get 401. An empty secret disables the check.

# Bearer Tokens

Query routes require the configured query token:

	middleware.WithBearerToken(cfg.QueryToken, sessionHandler.GetSession)

Requests without "Authorization: Bearer <token>" get 401 with a
WWW-Authenticate challenge.

# CORS Middleware

The query endpoints are read-only, so only GET and OPTIONS are allowed. The
origin is always "*" and credentials are never allowed; the bearer token is
what grants access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
	err := middleware.ParseJSONBody(r, &update)

# Client IP Extraction

GetClientIP honors X-Forwarded-For and X-Real-IP before RemoteAddr. Used in
request and rejection logs.
*/
package middleware
