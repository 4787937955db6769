// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/filora/filora-site/internal/auth"
	"github.com/filora/filora-site/internal/middleware"
	"github.com/filora/filora-site/internal/model"
	"github.com/filora/filora-site/internal/render"
	"github.com/filora/filora-site/internal/service"
	"github.com/filora/filora-site/internal/session"
)

// AuthHandler handles login and logout. It issues the session credential
// that the access guard reads.
type AuthHandler struct {
	users           *service.UserService
	issuer          *auth.TokenIssuer
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	secureCookie    bool
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable
// account lockout.
func NewAuthHandler(users *service.UserService, issuer *auth.TokenIssuer, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		users:           users,
		issuer:          issuer,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		secureCookie:    secureCookie,
	}
}

// LoginFormData is passed to the login template.
type LoginFormData struct {
	Email string
}

// LoginForm renders the login page. Admins never get here: the guard sends
// them to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := LoginFormData{
		Email: h.sessionManager.PopString(r.Context(), session.KeyLoginEmail),
	}

	renderPage(w, r, h.renderer, "auth/login", render.TemplateData{
		Title: "Login",
		Data:  data,
		User:  middleware.CredentialFromContext(r.Context()),
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, "Invalid form data")
		return
	}

	email := model.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	// Keep the email for the next render of the form.
	h.sessionManager.Put(r.Context(), session.KeyLoginEmail, email)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.WarnContext(r.Context(), "login attempt on locked account", "email", email)
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.ErrorContext(r.Context(), "database error during login", "error", err)
			flashError(w, r, h.renderer, redirectLogin, "Login is temporarily unavailable")
			return
		}

		slog.DebugContext(r.Context(), "failed login", "email", email)
		h.failedLogin(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	token, expires, err := h.issuer.Issue(&user)
	if err != nil {
		logAndInternalError(w, "token issue error", "error", err, "user_id", user.ID)
		return
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Remove(r.Context(), session.KeyLoginEmail)

	auth.SetSessionCookie(w, token, expires, h.secureCookie)
	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "email", user.Email, "role", user.Role)

	if user.IsAdmin() {
		flashSuccess(w, r, h.renderer, redirectDashboard, "Welcome back!")
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// failedLogin records a failed attempt and redirects back to the form.
// Unknown emails count too, so they cannot be told apart from real ones.
func (h *AuthHandler) failedLogin(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			slog.WarnContext(r.Context(), "account locked due to failed attempts", "email", email, "duration", lockDuration.String())
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
			return
		}
		remaining := h.loginProtection.RemainingAttempts(email)
		if remaining <= 3 && remaining > 0 {
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, "Invalid email or password")
}

// Logout clears the credential cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if cred := middleware.CredentialFromContext(r.Context()); cred != nil {
		userID = cred.Subject
	}

	auth.ClearSessionCookie(w, h.secureCookie)
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "session renewal error", "error", err)
	}

	slog.InfoContext(r.Context(), "user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been logged out", flashTypeInfo)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
