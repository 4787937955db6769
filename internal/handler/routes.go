// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filora/filora-site/internal/middleware"
)

// Routes groups the handlers mounted on the router. The access guard is
// applied by the caller in front of every route.
type Routes struct {
	Auth            *AuthHandler
	Admin           *AdminHandler
	Pages           *PagesHandler
	Posts           *PostsHandler
	Users           *UsersHandler
	Public          *PublicHandler
	Health          *HealthHandler
	LoginProtection *middleware.LoginProtection
	Robots          http.HandlerFunc
}

// Mount registers all routes on r.
func (rt *Routes) Mount(r chi.Router) {
	r.Get(RouteHealth, rt.Health.Health)
	if rt.Robots != nil {
		r.Get(RouteRobots, rt.Robots)
	}
	r.Post(RouteLogout, rt.Auth.Logout)

	r.Route(RoutePublicAPI, func(r chi.Router) {
		r.Get(RoutePages+RouteParamSlug, rt.Public.Page)
		r.Get(RoutePosts, rt.Public.Posts)
		r.Get(RoutePosts+RouteParamSlug, rt.Public.Post)
	})

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Get(RouteRoot, rt.Admin.Index)
		r.Get(RouteDashboard, rt.Admin.Dashboard)

		r.Group(func(r chi.Router) {
			if rt.LoginProtection != nil {
				r.Use(rt.LoginProtection.Middleware())
			}
			r.Get(RouteLogin, rt.Auth.LoginForm)
			r.Post(RouteLogin, rt.Auth.Login)
		})

		r.Route(RouteAdminAPI, func(r chi.Router) {
			r.Route(RoutePages, func(r chi.Router) {
				r.Get(RouteRoot, rt.Pages.List)
				r.Post(RouteRoot, rt.Pages.Create)
				r.Get(RouteParamSlug, rt.Pages.Get)
				r.Put(RouteParamSlug, rt.Pages.Update)
			})
			r.Route(RoutePosts, func(r chi.Router) {
				r.Get(RouteRoot, rt.Posts.List)
				r.Post(RouteRoot, rt.Posts.Create)
				r.Get(RouteParamSlug, rt.Posts.Get)
				r.Put(RouteParamSlug, rt.Posts.Update)
				r.Delete(RouteParamSlug, rt.Posts.Delete)
				r.Post(RouteParamSlug+RouteSuffixPublish, rt.Posts.TogglePublish)
			})
			r.Route(RouteUsers, func(r chi.Router) {
				r.Get(RouteRoot, rt.Users.List)
				r.Post(RouteRoot, rt.Users.Create)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
}
