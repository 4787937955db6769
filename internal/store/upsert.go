// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
)

// ensure is create-if-absent: it looks the key up and only creates when no
// row exists. An existing row is returned unchanged. If a concurrent writer
// wins the unique index between the lookup and the insert, the winner's row
// is read back and returned, so provisioning stays idempotent.
func ensure[T any](lookup func() (T, error), create func() (T, error)) (T, bool, error) {
	var zero T

	existing, err := lookup()
	if err == nil {
		return existing, false, nil
	}
	if err = Classify(err); !errors.Is(err, ErrNotFound) {
		return zero, false, err
	}

	created, err := create()
	if err == nil {
		return created, true, nil
	}
	if err = Classify(err); !errors.Is(err, ErrConflict) {
		return zero, false, err
	}

	existing, err = lookup()
	if err != nil {
		return zero, false, Classify(err)
	}
	return existing, false, nil
}

// EnsureUser creates the user unless one with the same email exists.
// The boolean reports whether a row was created.
func (q *Queries) EnsureUser(ctx context.Context, arg CreateUserParams) (User, bool, error) {
	return ensure(
		func() (User, error) { return q.GetUserByEmail(ctx, arg.Email) },
		func() (User, error) { return q.CreateUser(ctx, arg) },
	)
}

// EnsurePageContent creates the page content unless the slug is taken.
// Existing content is never overwritten, so live admin edits survive reseeding.
func (q *Queries) EnsurePageContent(ctx context.Context, arg CreatePageContentParams) (PageContent, bool, error) {
	return ensure(
		func() (PageContent, error) { return q.GetPageContentBySlug(ctx, arg.Slug) },
		func() (PageContent, error) { return q.CreatePageContent(ctx, arg) },
	)
}

// EnsurePost creates the post unless the slug is taken.
func (q *Queries) EnsurePost(ctx context.Context, arg CreatePostParams) (Post, bool, error) {
	return ensure(
		func() (Post, error) { return q.GetPostBySlug(ctx, arg.Slug) },
		func() (Post, error) { return q.CreatePost(ctx, arg) },
	)
}
