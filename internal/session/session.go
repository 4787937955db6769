// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session store used for flash
// messages and the login form's remembered email. Authentication itself is
// carried by the signed token cookie, not by this session.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyFlash      = "flash"
	KeyFlashType  = "flash_type"
	KeyLoginEmail = "login_email"
)

// Lifetime bounds how long an idle session survives.
const Lifetime = 12 * time.Hour

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.Name = "filora_flash"
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	if !isDev {
		// __Host- requires Secure, Path=/ and no Domain.
		sm.Cookie.Name = "__Host-filora_flash"
	}

	return sm
}

// PutFlash stores a one-shot message shown on the next rendered page.
func PutFlash(ctx context.Context, sm *scs.SessionManager, message, flashType string) {
	sm.Put(ctx, KeyFlash, message)
	sm.Put(ctx, KeyFlashType, flashType)
}

// PopFlash returns and clears the pending flash message. flashType
// defaults to "info".
func PopFlash(ctx context.Context, sm *scs.SessionManager) (message, flashType string) {
	message = sm.PopString(ctx, KeyFlash)
	if message == "" {
		return "", ""
	}
	flashType = sm.PopString(ctx, KeyFlashType)
	if flashType == "" {
		flashType = "info"
	}
	return message, flashType
}
