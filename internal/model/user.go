// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models shared by the store, the access guard,
// and the admin handlers: users and their roles, page content, and posts.
package model

import (
	"strings"
	"time"
)

// Role is a coarse-grained permission tag carried by users and credentials.
// The set is closed: any string that does not parse to a known role is invalid
// and never privileged.
type Role string

// Known roles.
const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleAdmin, RoleEditor}

// ParseRole maps a raw claim or form value to a known role.
// The second return value is false for unknown or empty values.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEditor:
		return RoleEditor, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsAdmin reports whether the role grants access to the admin area.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleEditor:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// NormalizeEmail lower-cases and trims an email so lookups and the unique
// index treat addresses case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User represents an account that can sign in to the admin area.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}
