// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteRobots serves the crawler rules.
	RouteRobots = "/robots.txt"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteLogout ends the signed-in session.
	RouteLogout = "/logout"

	// RouteAdmin is the admin area root.
	RouteAdmin = "/admin"
	// RouteLogin is the login route below /admin.
	RouteLogin = "/login"
	// RouteDashboard is the dashboard route below /admin.
	RouteDashboard = "/dashboard"
	// RouteAdminAPI is the admin JSON API below /admin.
	RouteAdminAPI = "/api"
	// RoutePublicAPI is the public JSON API.
	RoutePublicAPI = "/api"

	// RoutePages is the page content route.
	RoutePages = "/pages"
	// RoutePosts is the posts route.
	RoutePosts = "/posts"
	// RouteUsers is the users route.
	RouteUsers = "/users"

	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
	// RouteSuffixPublish toggles publication of a post.
	RouteSuffixPublish = "/publish"
)

// Redirect targets.
const (
	redirectLogin     = "/admin/login"
	redirectDashboard = "/admin/dashboard"
)

// Flash message types.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)

// maxJSONBodyBytes bounds admin API request bodies.
const maxJSONBodyBytes = 1 << 20
