// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that tags records with the
// request ID and signed-in user carried by the request context.
package logging

import (
	"context"
	"log/slog"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/filora/filora-site/internal/middleware"
)

// Attribute keys added by RequestHandler.
const (
	KeyRequestID = "request_id"
	KeyUserID    = "user_id"
)

// RequestHandler is a slog.Handler that wraps another handler and adds
// request-scoped attributes to records logged with a request context.
type RequestHandler struct {
	inner slog.Handler
}

// NewRequestHandler creates a RequestHandler that wraps the given handler.
func NewRequestHandler(inner slog.Handler) *RequestHandler {
	return &RequestHandler{inner: inner}
}

// Enabled implements slog.Handler.
func (h *RequestHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RequestHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := chimw.GetReqID(ctx); id != "" && !hasAttr(r, KeyRequestID) {
			r.AddAttrs(slog.String(KeyRequestID, id))
		}
		if cred := middleware.CredentialFromContext(ctx); cred != nil && !hasAttr(r, KeyUserID) {
			r.AddAttrs(slog.String(KeyUserID, cred.Subject))
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *RequestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RequestHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *RequestHandler) WithGroup(name string) slog.Handler {
	return &RequestHandler{inner: h.inner.WithGroup(name)}
}

// hasAttr reports whether the record already carries key.
func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}
