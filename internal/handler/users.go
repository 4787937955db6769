// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/filora/filora-site/internal/service"
)

// UsersHandler serves the admin JSON API for user accounts.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /admin/api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err, "user")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": users})
}

// Create handles POST /admin/api/users. A taken email returns 409.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := h.users.CreateUser(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "user")
		return
	}
	writeJSONCreated(w, map[string]any{"data": user})
}
