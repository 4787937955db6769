// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/filora/filora-site/internal/cache"
	"github.com/filora/filora-site/internal/testutil"
)

// pingCache is a memory cache whose Ping result is fixed.
type pingCache struct {
	*cache.MemoryCache
	err error
}

func (c *pingCache) Ping(context.Context) error { return c.err }

func runHealth(t *testing.T, h *HealthHandler) (int, HealthStatus) {
	t.Helper()

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var status HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	return w.Code, status
}

func TestHealth(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	mem := cache.NewMemoryCache(time.Minute, 0)

	tests := []struct {
		name       string
		cache      cache.Cache
		wantCode   int
		wantStatus string
	}{
		{"memory cache", mem, http.StatusOK, statusHealthy},
		{"no cache", nil, http.StatusOK, statusHealthy},
		{"remote cache up", &pingCache{MemoryCache: mem}, http.StatusOK, statusHealthy},
		{"remote cache down", &pingCache{MemoryCache: mem, err: errors.New("dial tcp: refused")}, http.StatusOK, statusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(db, tt.cache, cache.BackendRedis)
			code, status := runHealth(t, h)

			if code != tt.wantCode {
				t.Errorf("status code = %d, want %d", code, tt.wantCode)
			}
			if status.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status.Status, tt.wantStatus)
			}
			if status.Checks["database"].Status != statusHealthy {
				t.Errorf("database check = %+v", status.Checks["database"])
			}
			if status.Version == "" {
				t.Error("version should be set")
			}
		})
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	cleanup()

	code, status := runHealth(t, NewHealthHandler(db, nil, ""))

	if code != http.StatusServiceUnavailable {
		t.Errorf("status code = %d, want %d", code, http.StatusServiceUnavailable)
	}
	if status.Status != statusUnhealthy {
		t.Errorf("status = %q, want %q", status.Status, statusUnhealthy)
	}
	if msg := status.Checks["database"].Message; msg != "database unreachable" {
		t.Errorf("database message = %q", msg)
	}
}

func TestRobotsRoute(t *testing.T) {
	app := newTestApp(t)

	w := serve(app, newRequest(http.MethodGet, "/robots.txt"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "Disallow: /admin") {
		t.Errorf("robots.txt = %q", w.Body.String())
	}
}
