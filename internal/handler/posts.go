// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filora/filora-site/internal/middleware"
	"github.com/filora/filora-site/internal/service"
)

// PostsHandler serves the admin JSON API for posts.
type PostsHandler struct {
	content *service.ContentService
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(content *service.ContentService) *PostsHandler {
	return &PostsHandler{content: content}
}

// List handles GET /admin/api/posts, drafts included.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.ListPosts(r.Context())
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": posts})
}

// Get handles GET /admin/api/posts/{slug}.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": post})
}

// Create handles POST /admin/api/posts. The signed-in user becomes the author.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	cred := middleware.CredentialFromContext(r.Context())
	if cred == nil {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in service.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	post, err := h.content.CreatePost(r.Context(), cred.Subject, in)
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}
	writeJSONCreated(w, map[string]any{"data": post})
}

// Update handles PUT /admin/api/posts/{slug}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	post, err := h.content.UpdatePost(r.Context(), chi.URLParam(r, "slug"), in)
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": post})
}

// TogglePublish handles POST /admin/api/posts/{slug}/publish.
func (h *PostsHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.TogglePublished(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": post})
}

// Delete handles DELETE /admin/api/posts/{slug}.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeletePost(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeServiceError(w, err, "post")
		return
	}
	writeJSONSuccess(w, nil)
}
