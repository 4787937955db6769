// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/filora/filora-site/internal/auth"
)

// Reserved admin paths.
const (
	AdminPrefix   = "/admin"
	LoginPath     = "/admin/login"
	DashboardPath = "/admin/dashboard"
	HomePath      = "/"
)

// Decision is the outcome of the access guard for one request.
type Decision int

// Guard decisions.
const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case RedirectDashboard:
		return "redirect_dashboard"
	default:
		return "unknown"
	}
}

// Location returns the redirect target, or "" for Allow.
func (d Decision) Location() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	case RedirectDashboard:
		return DashboardPath
	default:
		return ""
	}
}

// IsAdminPath reports whether path falls under the reserved admin prefix.
// The prefix matches on a segment boundary: /admin and /admin/x are admin
// paths, /administrator is not.
func IsAdminPath(path string) bool {
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}

// Decide maps a request path and the caller's credential (nil when absent
// or unverifiable) to a guard decision. It is pure and never touches the store.
func Decide(path string, cred *auth.Credential) Decision {
	if !IsAdminPath(path) {
		return Allow
	}

	if path == LoginPath {
		// Signed-in non-admins may still reach the login form.
		if cred.IsAdmin() {
			return RedirectDashboard
		}
		return Allow
	}

	switch {
	case cred == nil:
		return RedirectLogin
	case !cred.IsAdmin():
		return RedirectHome
	default:
		return Allow
	}
}

// CredentialResolver extracts the session credential from a request.
// Any error is treated as "no credential".
type CredentialResolver interface {
	Resolve(r *http.Request) (*auth.Credential, error)
}

// ResolverFunc adapts a function to CredentialResolver.
type ResolverFunc func(r *http.Request) (*auth.Credential, error)

// Resolve calls f(r).
func (f ResolverFunc) Resolve(r *http.Request) (*auth.Credential, error) {
	return f(r)
}

type contextKey string

const contextKeyCredential contextKey = "credential"

// WithCredential returns a copy of ctx carrying cred.
func WithCredential(ctx context.Context, cred *auth.Credential) context.Context {
	return context.WithValue(ctx, contextKeyCredential, cred)
}

// CredentialFromContext returns the credential stored by Guard, or nil.
func CredentialFromContext(ctx context.Context) *auth.Credential {
	cred, _ := ctx.Value(contextKeyCredential).(*auth.Credential)
	return cred
}

// Guard creates the access guard middleware. The resolver is called once
// per request; the credential (possibly nil) is stored in the request
// context for downstream handlers.
func Guard(resolver CredentialResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred, err := resolver.Resolve(r)
			if err != nil {
				if IsAdminPath(r.URL.Path) && !errors.Is(err, auth.ErrNoCredential) {
					slog.DebugContext(r.Context(), "session credential rejected", "path", r.URL.Path, "error", err)
				}
				cred = nil
			}

			decision := Decide(r.URL.Path, cred)
			switch decision {
			case Allow:
				next.ServeHTTP(w, r.WithContext(WithCredential(r.Context(), cred)))
				return
			case RedirectHome:
				slog.WarnContext(r.Context(), "access denied",
					"path", r.URL.Path,
					"user_id", cred.Subject,
					"role", cred.Role.String(),
				)
			default:
				slog.DebugContext(r.Context(), "guard redirect", "path", r.URL.Path, "decision", decision.String())
			}

			http.Redirect(w, r, decision.Location(), http.StatusSeeOther)
		})
	}
}
