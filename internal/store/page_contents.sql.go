// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const pageContentColumns = `id, slug, title, content, created_at, updated_at`

func scanPageContent(row interface{ Scan(...any) error }) (PageContent, error) {
	var p PageContent
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const createPageContent = `-- name: CreatePageContent :one
INSERT INTO page_contents (id, slug, title, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + pageContentColumns

// CreatePageContentParams holds the fields of a new page content record.
type CreatePageContentParams struct {
	ID        string
	Slug      string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreatePageContent(ctx context.Context, arg CreatePageContentParams) (PageContent, error) {
	if arg.ID == "" {
		arg.ID = uuid.NewString()
	}
	row := q.db.QueryRowContext(ctx, createPageContent,
		arg.ID,
		arg.Slug,
		arg.Title,
		arg.Content,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPageContent(row)
}

const getPageContentBySlug = `-- name: GetPageContentBySlug :one
SELECT ` + pageContentColumns + ` FROM page_contents WHERE slug = ?`

func (q *Queries) GetPageContentBySlug(ctx context.Context, slug string) (PageContent, error) {
	return scanPageContent(q.db.QueryRowContext(ctx, getPageContentBySlug, slug))
}

const listPageContents = `-- name: ListPageContents :many
SELECT ` + pageContentColumns + ` FROM page_contents ORDER BY slug ASC`

func (q *Queries) ListPageContents(ctx context.Context) ([]PageContent, error) {
	rows, err := q.db.QueryContext(ctx, listPageContents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PageContent
	for rows.Next() {
		p, err := scanPageContent(rows)
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

const updatePageContent = `-- name: UpdatePageContent :one
UPDATE page_contents SET title = ?, content = ?, updated_at = ?
WHERE slug = ?
RETURNING ` + pageContentColumns

// UpdatePageContentParams holds an admin edit of a page content record.
type UpdatePageContentParams struct {
	Title     string
	Content   string
	UpdatedAt time.Time
	Slug      string
}

func (q *Queries) UpdatePageContent(ctx context.Context, arg UpdatePageContentParams) (PageContent, error) {
	row := q.db.QueryRowContext(ctx, updatePageContent, arg.Title, arg.Content, arg.UpdatedAt, arg.Slug)
	return scanPageContent(row)
}

const countPageContentsBySlug = `-- name: CountPageContentsBySlug :one
SELECT COUNT(*) FROM page_contents WHERE slug = ?`

func (q *Queries) CountPageContentsBySlug(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPageContentsBySlug, slug).Scan(&n)
	return n, err
}
