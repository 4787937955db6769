// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filora/filora-site/internal/service"
)

// PagesHandler serves the admin JSON API for page contents.
type PagesHandler struct {
	content *service.ContentService
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(content *service.ContentService) *PagesHandler {
	return &PagesHandler{content: content}
}

// List handles GET /admin/api/pages.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.content.ListPages(r.Context())
	if err != nil {
		writeServiceError(w, err, "page")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": pages})
}

// Get handles GET /admin/api/pages/{slug}.
func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.GetPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err, "page")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": page})
}

// Create handles POST /admin/api/pages. A taken slug returns 409.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	page, err := h.content.CreatePage(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "page")
		return
	}
	writeJSONCreated(w, map[string]any{"data": page})
}

// Update handles PUT /admin/api/pages/{slug}. The slug in the body, if any,
// is ignored.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	page, err := h.content.UpdatePage(r.Context(), chi.URLParam(r, "slug"), in)
	if err != nil {
		writeServiceError(w, err, "page")
		return
	}
	writeJSONSuccess(w, map[string]any{"data": page})
}
