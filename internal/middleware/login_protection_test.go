// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLoginProtection(maxAttempts int, lockout, window time.Duration) (*LoginProtection, *fakeClock) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	lp.now = clock.now
	return lp, clock
}

func TestNewLoginProtectionDefaults(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m", lp.attemptWindow)
	}
	if lp.maxTrackedIPs != 10000 {
		t.Errorf("maxTrackedIPs = %d, want 10000", lp.maxTrackedIPs)
	}
}

func TestLoginProtectionLockout(t *testing.T) {
	lp, clock := newTestLoginProtection(3, time.Minute, 10*time.Minute)
	email := "admin@example.com"

	for i := 1; i <= 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("attempt %d should not lock", i)
		}
	}
	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("third attempt: locked=%v duration=%v, want true 1m", locked, d)
	}

	if locked, remaining := lp.IsAccountLocked(email); !locked || remaining != time.Minute {
		t.Errorf("IsAccountLocked = %v %v, want true 1m", locked, remaining)
	}

	clock.advance(time.Minute + time.Second)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("account should unlock after the lockout expires")
	}
}

func TestLoginProtectionEmailIsCaseInsensitive(t *testing.T) {
	lp, _ := newTestLoginProtection(2, time.Minute, time.Minute)

	lp.RecordFailedAttempt("Admin@Example.com")
	lp.RecordFailedAttempt(" admin@example.com ")

	if locked, _ := lp.IsAccountLocked("ADMIN@EXAMPLE.COM"); !locked {
		t.Error("variants of one email should share the failure counter")
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, clock := newTestLoginProtection(2, time.Minute, time.Hour)
	email := "admin@example.com"

	want := []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}
	for i, w := range want {
		lp.RecordFailedAttempt(email)
		_, d := lp.RecordFailedAttempt(email)
		if d != w {
			t.Errorf("lockout %d = %v, want %v", i+1, d, w)
		}
		clock.advance(d + time.Second)
	}
}

func TestLoginProtectionBackoffIsCapped(t *testing.T) {
	lp, clock := newTestLoginProtection(1, 10*time.Hour, 100*time.Hour)
	email := "admin@example.com"

	var d time.Duration
	for i := 0; i < 4; i++ {
		_, d = lp.RecordFailedAttempt(email)
		clock.advance(d + time.Second)
	}
	if d != maxLockout {
		t.Errorf("lockout = %v, want cap %v", d, maxLockout)
	}
}

func TestLoginProtectionRemainingAttempts(t *testing.T) {
	lp, clock := newTestLoginProtection(5, time.Minute, time.Minute)
	email := "admin@example.com"

	if got := lp.RemainingAttempts(email); got != 5 {
		t.Errorf("RemainingAttempts() = %d, want 5", got)
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if got := lp.RemainingAttempts(email); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}

	clock.advance(2 * time.Minute)
	if got := lp.RemainingAttempts(email); got != 5 {
		t.Errorf("RemainingAttempts() after window = %d, want 5", got)
	}

	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)
	if got := lp.RemainingAttempts(email); got != 5 {
		t.Errorf("RemainingAttempts() after success = %d, want 5", got)
	}
}

func TestLoginProtectionCleanup(t *testing.T) {
	lp, clock := newTestLoginProtection(5, time.Minute, time.Minute)

	lp.RecordFailedAttempt("old@example.com")
	clock.advance(30 * time.Second)
	lp.RecordFailedAttempt("recent@example.com")

	clock.advance(45 * time.Second)
	if removed := lp.Cleanup(); removed != 1 {
		t.Errorf("Cleanup() removed %d entries, want 1", removed)
	}
	if got := lp.RemainingAttempts("recent@example.com"); got != 4 {
		t.Errorf("recent entry should survive cleanup, remaining = %d", got)
	}
}

func TestLoginProtectionCleanupClearsIPLimiters(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{MaxTrackedIPs: 2})
	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		lp.AllowIP(ip)
	}

	lp.Cleanup()
	if n := lp.ipLimiters.len(); n != 0 {
		t.Errorf("limiter cache has %d entries after cleanup, want 0", n)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := post("192.0.2.1:1234"); code != http.StatusOK {
			t.Fatalf("POST %d status = %d, want 200", i+1, code)
		}
	}
	if code := post("192.0.2.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("POST over burst status = %d, want 429", code)
	}
	if code := post("192.0.2.2:1234"); code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", code)
	}

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET should never be limited, got %d", rec.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"10.0.0.1", "10.0.0.1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}
