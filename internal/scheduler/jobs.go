// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"log/slog"

	"github.com/filora/filora-site/internal/cache"
)

// Job names and default schedules.
const (
	JobLoginCleanup = "login_cleanup"
	JobCachePurge   = "cache_purge"

	DefaultLoginCleanupSchedule = "@every 5m"
	DefaultCachePurgeSchedule   = "@every 1m"
)

// Cleaner drops stale login throttling state. Implemented by
// middleware.LoginProtection.
type Cleaner interface {
	Cleanup() int
}

// LoginCleanupJob returns a job pruning idle limiters and expired lockouts.
func LoginCleanupJob(c Cleaner, logger *slog.Logger) func() {
	return func() {
		if n := c.Cleanup(); n > 0 {
			logger.Debug("login protection cleaned", "removed", n)
		}
	}
}

// CachePurgeJob returns a job removing expired cache entries.
func CachePurgeJob(p cache.Purger, logger *slog.Logger) func() {
	return func() {
		if n := p.RemoveExpired(); n > 0 {
			logger.Debug("cache entries purged", "removed", n)
		}
	}
}
