// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/filora/filora-site/internal/auth"
	"github.com/filora/filora-site/internal/model"
	"github.com/filora/filora-site/internal/store"
)

// MinPasswordLength is the minimum length of a new password.
const MinPasswordLength = 8

// UserInput carries the fields of a new user.
type UserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserService manages admin accounts and password login.
type UserService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewUserService creates a UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{queries: store.New(db), now: time.Now}
}

// ListUsers returns all users, oldest first.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", store.Classify(err))
	}
	users := make([]model.User, len(rows))
	for i, r := range rows {
		users[i] = r.Model()
	}
	return users, nil
}

// CreateUser validates the input and creates the account. The email is
// normalized, so a case variant of an existing email returns store.ErrConflict.
func (s *UserService) CreateUser(ctx context.Context, in UserInput) (model.User, error) {
	email := model.NormalizeEmail(in.Email)
	role, roleOK := model.ParseRole(in.Role)

	v := validator{}
	_, mailErr := mail.ParseAddress(email)
	v.check(email != "" && mailErr == nil, "email", "must be a valid email address")
	v.check(utf8.RuneCountInString(in.Password) >= MinPasswordLength, "password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	v.check(roleOK, "role", "must be admin or editor")
	if err := v.err(); err != nil {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	row, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role.String(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("creating user %q: %w", email, store.Classify(err))
	}

	slog.InfoContext(ctx, "user created", "user_id", row.ID, "email", row.Email, "role", row.Role)
	return row.Model(), nil
}

// Authenticate checks an email and password. Unknown emails and wrong
// passwords both return ErrInvalidCredentials after the same hashing work.
// Hashes made with outdated parameters are upgraded on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = model.NormalizeEmail(email)

	row, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		err = store.Classify(err)
		if errors.Is(err, store.ErrNotFound) {
			auth.CheckDummyPassword(password)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("loading user: %w", err)
	}

	ok, err := auth.CheckPassword(password, row.PasswordHash)
	if err != nil {
		slog.ErrorContext(ctx, "stored password hash is unreadable", "user_id", row.ID, "error", err)
		return model.User{}, ErrInvalidCredentials
	}
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(row.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				ID:           row.ID,
				PasswordHash: hash,
				UpdatedAt:    s.now(),
			}); err != nil {
				slog.WarnContext(ctx, "password rehash failed", "user_id", row.ID, "error", err)
			}
		}
	}

	return row.Model(), nil
}
