// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "filora-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func createTestUser(t *testing.T, q *Queries, email, role string) User {
	t.Helper()
	now := time.Now()
	u, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	user := createTestUser(t, q, "test@example.com", "editor")

	if user.ID == "" {
		t.Error("user.ID should be generated")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.Role != "editor" {
		t.Errorf("Role = %q, want %q", user.Role, "editor")
	}
}

func TestCreateUser_DuplicateEmailConflict(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	first := createTestUser(t, q, "dup@example.com", "admin")

	now := time.Now()
	_, err := q.CreateUser(ctx, CreateUserParams{
		Email:        "dup@example.com",
		PasswordHash: "other",
		Role:         "editor",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(Classify(err), ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	found, err := q.GetUserByEmail(ctx, "dup@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if found.ID != first.ID || found.Role != "admin" || found.PasswordHash != "hash" {
		t.Errorf("first user was modified: %+v", found)
	}
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	now := time.Now()
	_, err := New(db).CreateUser(context.Background(), CreateUserParams{
		Email:        "role@example.com",
		PasswordHash: "hash",
		Role:         "superuser",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err == nil {
		t.Fatal("expected CHECK constraint failure for unknown role")
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := New(db).GetUserByEmail(context.Background(), "nonexistent@example.com")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	if !errors.Is(Classify(err), ErrNotFound) {
		t.Errorf("Classify() = %v, want ErrNotFound", Classify(err))
	}
}

func TestGetUserByID(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	created := createTestUser(t, q, "byid@example.com", "editor")

	found, err := q.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if found.Email != "byid@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "byid@example.com")
	}
}

func TestPageContent_CreateAndUpdate(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now()

	page, err := q.CreatePageContent(ctx, CreatePageContentParams{
		Slug: "about", Title: "About", Content: "# About", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePageContent: %v", err)
	}

	updated, err := q.UpdatePageContent(ctx, UpdatePageContentParams{
		Slug: "about", Title: "About us", Content: "# About us", UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdatePageContent: %v", err)
	}
	if updated.ID != page.ID {
		t.Errorf("ID changed on update: %q -> %q", page.ID, updated.ID)
	}
	if updated.Title != "About us" || updated.Content != "# About us" {
		t.Errorf("update not applied: %+v", updated)
	}

	_, err = q.UpdatePageContent(ctx, UpdatePageContentParams{Slug: "missing", Title: "x", UpdatedAt: now})
	if !errors.Is(Classify(err), ErrNotFound) {
		t.Errorf("update of missing slug: want ErrNotFound, got %v", err)
	}
}

func TestPageContent_DuplicateSlugConflict(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now()

	if _, err := q.CreatePageContent(ctx, CreatePageContentParams{Slug: "pricing", Title: "Pricing", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreatePageContent: %v", err)
	}
	_, err := q.CreatePageContent(ctx, CreatePageContentParams{Slug: "pricing", Title: "Other", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(Classify(err), ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	page, err := q.GetPageContentBySlug(ctx, "pricing")
	if err != nil {
		t.Fatalf("GetPageContentBySlug: %v", err)
	}
	if page.Title != "Pricing" {
		t.Errorf("Title = %q, first record must be unmodified", page.Title)
	}
}

func TestPosts_PublishedListing(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "author@example.com", "admin")

	base := time.Now().Add(-time.Hour)
	posts := []CreatePostParams{
		{Slug: "draft", Title: "Draft", Published: false},
		{Slug: "older", Title: "Older", Published: true},
		{Slug: "newer", Title: "Newer", Published: true},
	}
	for i, p := range posts {
		p.AuthorID = author.ID
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		p.UpdatedAt = p.CreatedAt
		if _, err := q.CreatePost(ctx, p); err != nil {
			t.Fatalf("CreatePost(%s): %v", p.Slug, err)
		}
	}

	published, err := q.ListPublishedPosts(ctx, ListPublishedPostsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListPublishedPosts: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("got %d published posts, want 2", len(published))
	}
	if published[0].Slug != "newer" || published[1].Slug != "older" {
		t.Errorf("order = [%s %s], want [newer older]", published[0].Slug, published[1].Slug)
	}

	all, err := q.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListPosts returned %d, want 3", len(all))
	}
}

func TestPosts_PublishToggleAndDelete(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "author@example.com", "admin")
	now := time.Now()

	if _, err := q.CreatePost(ctx, CreatePostParams{Slug: "p", Title: "P", AuthorID: author.ID, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	p, err := q.SetPostPublished(ctx, SetPostPublishedParams{Slug: "p", Published: true, UpdatedAt: now})
	if err != nil {
		t.Fatalf("SetPostPublished: %v", err)
	}
	if !p.Published {
		t.Error("post should be published")
	}

	n, err := q.DeletePost(ctx, "p")
	if err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if n != 1 {
		t.Errorf("DeletePost affected %d rows, want 1", n)
	}
}

func TestPosts_UnknownAuthorIsInvalidReference(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	now := time.Now()
	_, err := New(db).CreatePost(context.Background(), CreatePostParams{
		Slug: "orphan", Title: "Orphan", AuthorID: "no-such-user", CreatedAt: now, UpdatedAt: now,
	})
	if !errors.Is(Classify(err), ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestPosts_AuthorDeleteRestricted(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "author@example.com", "admin")
	now := time.Now()
	if _, err := q.CreatePost(ctx, CreatePostParams{Slug: "kept", Title: "Kept", Published: true, AuthorID: author.ID, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", author.ID); err == nil {
		t.Fatal("deleting an author with posts must fail")
	}
}

func TestClassify(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
	if err := Classify(context.Canceled); !errors.Is(err, context.Canceled) || errors.Is(err, ErrUnavailable) {
		t.Errorf("context errors pass through, got %v", err)
	}
	if err := Classify(errors.New("disk I/O error")); !errors.Is(err, ErrUnavailable) {
		t.Errorf("unknown driver errors are ErrUnavailable, got %v", err)
	}
	if err := Classify(errors.New("UNIQUE constraint failed: users.email")); !errors.Is(err, ErrConflict) {
		t.Errorf("message-only unique violation should be ErrConflict, got %v", err)
	}
	wrapped := Classify(sql.ErrNoRows)
	if Classify(wrapped) != wrapped {
		t.Error("already-classified errors are returned as is")
	}
}

func TestClassify_ClosedDatabase(t *testing.T) {
	db, cleanup := testDB(t)
	cleanup()

	_, err := New(db).GetPageContentBySlug(context.Background(), "about")
	if !errors.Is(Classify(err), ErrUnavailable) {
		t.Errorf("closed database should be ErrUnavailable, got %v", err)
	}
}
