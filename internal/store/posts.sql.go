// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const postColumns = `id, slug, title, excerpt, content, published, author_id, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) listPostsQuery(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPost = `-- name: CreatePost :one
INSERT INTO posts (id, slug, title, excerpt, content, published, author_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

// CreatePostParams holds the fields of a new post.
type CreatePostParams struct {
	ID        string
	Slug      string
	Title     string
	Excerpt   string
	Content   string
	Published bool
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	if arg.ID == "" {
		arg.ID = uuid.NewString()
	}
	row := q.db.QueryRowContext(ctx, createPost,
		arg.ID,
		arg.Slug,
		arg.Title,
		arg.Excerpt,
		arg.Content,
		arg.Published,
		arg.AuthorID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPost(row)
}

const getPostBySlug = `-- name: GetPostBySlug :one
SELECT ` + postColumns + ` FROM posts WHERE slug = ?`

func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostBySlug, slug))
}

const listPosts = `-- name: ListPosts :many
SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, slug ASC`

// ListPosts returns every post, drafts included. Admin use only.
func (q *Queries) ListPosts(ctx context.Context) ([]Post, error) {
	return q.listPostsQuery(ctx, listPosts)
}

const listPublishedPosts = `-- name: ListPublishedPosts :many
SELECT ` + postColumns + ` FROM posts
WHERE published = 1
ORDER BY created_at DESC, slug ASC
LIMIT ? OFFSET ?`

// ListPublishedPostsParams pages through published posts.
type ListPublishedPostsParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) ([]Post, error) {
	return q.listPostsQuery(ctx, listPublishedPosts, arg.Limit, arg.Offset)
}

const updatePost = `-- name: UpdatePost :one
UPDATE posts SET title = ?, excerpt = ?, content = ?, updated_at = ?
WHERE slug = ?
RETURNING ` + postColumns

// UpdatePostParams holds an admin edit of a post. The slug is the lookup key
// and is never rewritten.
type UpdatePostParams struct {
	Title     string
	Excerpt   string
	Content   string
	UpdatedAt time.Time
	Slug      string
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost, arg.Title, arg.Excerpt, arg.Content, arg.UpdatedAt, arg.Slug)
	return scanPost(row)
}

const setPostPublished = `-- name: SetPostPublished :one
UPDATE posts SET published = ?, updated_at = ?
WHERE slug = ?
RETURNING ` + postColumns

// SetPostPublishedParams flips the publish flag of a post.
type SetPostPublishedParams struct {
	Published bool
	UpdatedAt time.Time
	Slug      string
}

func (q *Queries) SetPostPublished(ctx context.Context, arg SetPostPublishedParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, setPostPublished, arg.Published, arg.UpdatedAt, arg.Slug)
	return scanPost(row)
}

const deletePost = `-- name: DeletePost :execrows
DELETE FROM posts WHERE slug = ?`

func (q *Queries) DeletePost(ctx context.Context, slug string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePost, slug)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countPostsByAuthor = `-- name: CountPostsByAuthor :one
SELECT COUNT(*) FROM posts WHERE author_id = ?`

func (q *Queries) CountPostsByAuthor(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPostsByAuthor, authorID).Scan(&n)
	return n, err
}
