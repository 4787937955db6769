// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/filora/filora-site/internal/middleware"
	"github.com/filora/filora-site/internal/model"
	"github.com/filora/filora-site/internal/render"
	"github.com/filora/filora-site/internal/service"
)

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	content  *service.ContentService
	renderer *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(content *service.ContentService, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{content: content, renderer: renderer}
}

// DashboardData holds data for the dashboard template.
type DashboardData struct {
	Pages []model.PageContent
	Posts []model.Post
}

// Index redirects /admin to the dashboard.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
}

// Dashboard renders the admin dashboard with all pages and posts.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pages, err := h.content.ListPages(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list pages", "error", err)
		return
	}
	posts, err := h.content.ListPosts(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  DashboardData{Pages: pages, Posts: posts},
		User:  middleware.CredentialFromContext(ctx),
	})
}
