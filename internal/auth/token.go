// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/filora/filora-site/internal/model"
)

// Session credential transport.
const (
	CookieName = "filora_session"
	Issuer     = "filora-site"
)

var (
	// ErrNoCredential means the request carried no session token at all.
	ErrNoCredential = errors.New("no session credential")
	// ErrInvalidToken means a token was present but failed verification.
	ErrInvalidToken = errors.New("invalid session token")
)

// Credential is the decoded, verified session of a signed-in user.
// The role is taken from the token, never from the store.
type Credential struct {
	Subject string
	Email   string
	Role    model.Role
}

// IsAdmin reports whether the credential grants admin access.
// A nil credential is never admin.
func (c *Credential) IsAdmin() bool {
	return c != nil && c.Role.IsAdmin()
}

// Claims is the JWT payload of a session token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. The secret must be the configured
// session secret; ttl bounds the token lifetime.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for the user and its expiry time.
func (i *TokenIssuer) Issue(u *model.User) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)

	claims := Claims{
		Email: u.Email,
		Role:  u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses and validates a token string. Expired, tampered, or
// foreign-issuer tokens and tokens without a subject return ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (*Credential, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	role, ok := model.ParseRole(claims.Role)
	if !ok {
		// Keep the raw value; an unknown role is never privileged.
		role = model.Role(claims.Role)
	}

	return &Credential{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    role,
	}, nil
}

// Resolve extracts the session token from the request and verifies it.
// The cookie takes precedence over an Authorization: Bearer header.
func (i *TokenIssuer) Resolve(r *http.Request) (*Credential, error) {
	token := tokenFromRequest(r)
	if token == "" {
		return nil, ErrNoCredential
	}
	return i.Verify(token)
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// SetSessionCookie writes the token cookie. secure should be true outside
// development.
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the token cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
