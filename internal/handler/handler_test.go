// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filora/filora-site/internal/auth"
	"github.com/filora/filora-site/internal/cache"
	"github.com/filora/filora-site/internal/middleware"
	"github.com/filora/filora-site/internal/model"
	"github.com/filora/filora-site/internal/render"
	"github.com/filora/filora-site/internal/seo"
	"github.com/filora/filora-site/internal/service"
	"github.com/filora/filora-site/internal/session"
	"github.com/filora/filora-site/internal/testutil"
	"github.com/filora/filora-site/web"
)

const testSecret = "0123456789abcdef0123456789abcdef-test"

type testApp struct {
	db      *sql.DB
	router  http.Handler
	issuer  *auth.TokenIssuer
	content *service.ContentService
	admin   model.User
	editor  model.User
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	sm := session.New(db, true)
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm})
	require.NoError(t, err)

	memCache := cache.NewMemoryCache(time.Minute, 0)
	issuer := auth.NewTokenIssuer([]byte(testSecret), time.Hour)
	users := service.NewUserService(db)
	content := service.NewContentService(db, memCache, time.Minute)
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100})

	admin := testutil.CreateUser(t, db, "admin@example.com", "admin-password", "admin")
	editor := testutil.CreateUser(t, db, "editor@example.com", "editor-password", "editor")

	routes := &Routes{
		Auth:            NewAuthHandler(users, issuer, renderer, sm, lp, false),
		Admin:           NewAdminHandler(content, renderer),
		Pages:           NewPagesHandler(content),
		Posts:           NewPostsHandler(content),
		Users:           NewUsersHandler(users),
		Public:          NewPublicHandler(content),
		Health:          NewHealthHandler(db, memCache, cache.BackendMemory),
		LoginProtection: lp,
		Robots:          seo.NewRobotsBuilder(seo.RobotsConfig{}).Handler(),
	}

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.Guard(issuer))
	routes.Mount(r)

	return &testApp{
		db:      db,
		router:  r,
		issuer:  issuer,
		content: content,
		admin:   admin.Model(),
		editor:  editor.Model(),
	}
}

// token returns a signed session token for u.
func (a *testApp) token(t *testing.T, u model.User) string {
	t.Helper()
	tok, _, err := a.issuer.Issue(&u)
	require.NoError(t, err)
	return tok
}

// do sends a request with an optional session token cookie and JSON body.
func (a *testApp) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// postForm submits a login-style form, forwarding cookies.
func (a *testApp) postForm(t *testing.T, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// decodeBody parses a JSON response body.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

// responseCookie returns the named cookie set by the response, or nil.
func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func serve(app *testApp, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}
