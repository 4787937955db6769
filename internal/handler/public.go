// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filora/filora-site/internal/service"
)

// PublicHandler serves published content to anonymous visitors through the
// content cache.
type PublicHandler struct {
	content *service.ContentService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(content *service.ContentService) *PublicHandler {
	return &PublicHandler{content: content}
}

// Page handles GET /api/pages/{slug}.
func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.PublicPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err, "page")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": page})
}

// Posts handles GET /api/posts?limit=&offset=. Only published posts are
// listed, newest first.
func (h *PublicHandler) Posts(w http.ResponseWriter, r *http.Request) {
	p, fieldErrs := parsePagination(r)
	if fieldErrs != nil {
		writeServiceError(w, &service.ValidationError{Fields: fieldErrs}, "post")
		return
	}

	posts, err := h.content.PublishedPosts(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": posts})
}

// Post handles GET /api/posts/{slug}. Drafts are reported as not found.
func (h *PublicHandler) Post(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.PublicPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": post})
}
