// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/filora/filora-site/internal/cache"
	"github.com/filora/filora-site/internal/middleware"
	"github.com/filora/filora-site/internal/testutil"
)

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.TestLogger())

	if err := s.Add("noop", "@every 1h", func() {}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()
	jobs := s.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("Jobs() = %d entries, want 1", len(jobs))
	}
	if jobs[0].NextRun.IsZero() {
		t.Error("NextRun should be set once started")
	}
	s.Stop()
}

func TestScheduler_Add(t *testing.T) {
	s := New(testutil.TestLogger())

	tests := []struct {
		name     string
		job      string
		schedule string
		wantErr  bool
	}{
		{"descriptor", "a", "@every 5m", false},
		{"five fields", "b", "*/5 * * * *", false},
		{"duplicate name", "a", "@hourly", true},
		{"invalid schedule", "c", "every now and then", true},
		{"six fields", "d", "0 */5 * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Add(tt.job, tt.schedule, func() {})
			if (err != nil) != tt.wantErr {
				t.Errorf("Add(%q, %q) error = %v, wantErr %v", tt.job, tt.schedule, err, tt.wantErr)
			}
		})
	}

	jobs := s.Jobs()
	if len(jobs) != 2 || jobs[0].Name != "a" || jobs[1].Name != "b" {
		t.Errorf("Jobs() = %+v", jobs)
	}
}

func TestScheduler_Trigger(t *testing.T) {
	s := New(testutil.TestLogger())

	var runs atomic.Int32
	if err := s.Add("count", "@every 1h", func() { runs.Add(1) }); err != nil {
		t.Fatal(err)
	}

	if err := s.Trigger("count"); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", runs.Load())
	}

	if err := s.Trigger("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Trigger(missing) error = %v, want ErrJobNotFound", err)
	}
}

type countingCleaner struct{ calls int }

func (c *countingCleaner) Cleanup() int {
	c.calls++
	return 2
}

func TestLoginCleanupJob(t *testing.T) {
	c := &countingCleaner{}
	LoginCleanupJob(c, testutil.TestLogger())()
	if c.calls != 1 {
		t.Errorf("Cleanup called %d times, want 1", c.calls)
	}

	// The real implementation satisfies the interface.
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	LoginCleanupJob(lp, testutil.TestLogger())()
}

func TestCachePurgeJob(t *testing.T) {
	mem := cache.NewMemoryCache(time.Nanosecond, 0)
	ctx := t.Context()
	if err := mem.Set(ctx, "page:about", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)

	s := New(testutil.TestLogger())
	if err := s.Add(JobCachePurge, DefaultCachePurgeSchedule, CachePurgeJob(mem, testutil.TestLogger())); err != nil {
		t.Fatal(err)
	}
	if err := s.Trigger(JobCachePurge); err != nil {
		t.Fatal(err)
	}

	if mem.Len() != 0 {
		t.Errorf("Len() = %d after purge, want 0", mem.Len())
	}
}
