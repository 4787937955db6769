// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the content and user operations used by the admin
// and public handlers: input validation, slug derivation, store access, and
// public cache maintenance.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/filora/filora-site/internal/cache"
	"github.com/filora/filora-site/internal/model"
	"github.com/filora/filora-site/internal/store"
	"github.com/filora/filora-site/internal/util"
)

// Field limits.
const (
	MaxTitleLength   = 200
	MaxExcerptLength = 500
	DefaultPageSize  = 10
	MaxPageSize      = 50
)

// PageInput carries admin edits to a page content record.
type PageInput struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostInput carries admin edits to a post. Slug is only read on create and
// defaults to the slugified title.
type PostInput struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// ContentService manages page contents and posts.
type ContentService struct {
	queries   *store.Queries
	cache     cache.Cache
	pages     *cache.Typed[model.PageContent]
	posts     *cache.Typed[model.Post]
	postLists *cache.Typed[[]model.Post]
	now       func() time.Time
}

// NewContentService creates a ContentService. Public reads go through c
// with the given TTL; admin reads always hit the store.
func NewContentService(db *sql.DB, c cache.Cache, ttl time.Duration) *ContentService {
	return &ContentService{
		queries:   store.New(db),
		cache:     c,
		pages:     cache.NewTyped[model.PageContent](c, ttl),
		posts:     cache.NewTyped[model.Post](c, ttl),
		postLists: cache.NewTyped[[]model.Post](c, ttl),
		now:       time.Now,
	}
}

// ListPages returns all page contents ordered by slug.
func (s *ContentService) ListPages(ctx context.Context) ([]model.PageContent, error) {
	rows, err := s.queries.ListPageContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", store.Classify(err))
	}
	pages := make([]model.PageContent, len(rows))
	for i, r := range rows {
		pages[i] = r.Model()
	}
	return pages, nil
}

// GetPage returns one page content by slug.
func (s *ContentService) GetPage(ctx context.Context, slug string) (model.PageContent, error) {
	row, err := s.queries.GetPageContentBySlug(ctx, slug)
	if err != nil {
		return model.PageContent{}, fmt.Errorf("getting page %q: %w", slug, store.Classify(err))
	}
	return row.Model(), nil
}

// PublicPage is GetPage behind the public cache.
func (s *ContentService) PublicPage(ctx context.Context, slug string) (model.PageContent, error) {
	return s.pages.GetOrLoad(ctx, cache.PageKey(slug), func(ctx context.Context) (model.PageContent, error) {
		return s.GetPage(ctx, slug)
	})
}

func validatePage(v validator, in *PageInput) {
	in.Title = plainText(in.Title)
	v.check(in.Title != "", "title", "is required")
	v.check(utf8.RuneCountInString(in.Title) <= MaxTitleLength, "title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
}

// CreatePage creates a page content record. A taken slug returns
// store.ErrConflict and leaves the existing record unchanged.
func (s *ContentService) CreatePage(ctx context.Context, in PageInput) (model.PageContent, error) {
	v := validator{}
	v.check(util.IsValidSlug(in.Slug), "slug", "must be lower-case letters, digits and single hyphens")
	validatePage(v, &in)
	if err := v.err(); err != nil {
		return model.PageContent{}, err
	}

	now := s.now()
	row, err := s.queries.CreatePageContent(ctx, store.CreatePageContentParams{
		Slug:      in.Slug,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.PageContent{}, fmt.Errorf("creating page %q: %w", in.Slug, store.Classify(err))
	}

	s.invalidate(ctx, cache.PageKey(in.Slug), false)
	slog.InfoContext(ctx, "page created", "slug", row.Slug)
	return row.Model(), nil
}

// UpdatePage replaces the title and content of an existing page.
func (s *ContentService) UpdatePage(ctx context.Context, slug string, in PageInput) (model.PageContent, error) {
	v := validator{}
	validatePage(v, &in)
	if err := v.err(); err != nil {
		return model.PageContent{}, err
	}

	row, err := s.queries.UpdatePageContent(ctx, store.UpdatePageContentParams{
		Slug:      slug,
		Title:     in.Title,
		Content:   in.Content,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return model.PageContent{}, fmt.Errorf("updating page %q: %w", slug, store.Classify(err))
	}

	s.invalidate(ctx, cache.PageKey(slug), false)
	slog.InfoContext(ctx, "page updated", "slug", slug)
	return row.Model(), nil
}

// ListPosts returns every post, newest first, drafts included.
func (s *ContentService) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := s.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", store.Classify(err))
	}
	return postModels(rows), nil
}

// GetPost returns one post by slug, published or not.
func (s *ContentService) GetPost(ctx context.Context, slug string) (model.Post, error) {
	row, err := s.queries.GetPostBySlug(ctx, slug)
	if err != nil {
		return model.Post{}, fmt.Errorf("getting post %q: %w", slug, store.Classify(err))
	}
	return row.Model(), nil
}

// PublishedPosts returns one page of published posts, newest first.
// limit is clamped to [1, MaxPageSize]; zero means DefaultPageSize.
func (s *ContentService) PublishedPosts(ctx context.Context, limit, offset int) ([]model.Post, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	offset = max(offset, 0)

	return s.postLists.GetOrLoad(ctx, cache.PostListKey(limit, offset), func(ctx context.Context) ([]model.Post, error) {
		rows, err := s.queries.ListPublishedPosts(ctx, store.ListPublishedPostsParams{
			Limit:  int64(limit),
			Offset: int64(offset),
		})
		if err != nil {
			return nil, fmt.Errorf("listing published posts: %w", store.Classify(err))
		}
		return postModels(rows), nil
	})
}

// PublicPost returns a published post. Drafts are reported as not found.
func (s *ContentService) PublicPost(ctx context.Context, slug string) (model.Post, error) {
	post, err := s.posts.GetOrLoad(ctx, cache.PostKey(slug), func(ctx context.Context) (model.Post, error) {
		post, err := s.GetPost(ctx, slug)
		if err != nil {
			return model.Post{}, err
		}
		if !post.IsPublic() {
			return model.Post{}, fmt.Errorf("post %q is not published: %w", slug, store.ErrNotFound)
		}
		return post, nil
	})
	return post, err
}

func validatePost(v validator, in *PostInput) {
	in.Title = plainText(in.Title)
	in.Excerpt = plainText(in.Excerpt)
	v.check(in.Title != "", "title", "is required")
	v.check(utf8.RuneCountInString(in.Title) <= MaxTitleLength, "title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	v.check(utf8.RuneCountInString(in.Excerpt) <= MaxExcerptLength, "excerpt", fmt.Sprintf("must be at most %d characters", MaxExcerptLength))
}

// CreatePost creates a post authored by authorID. The slug is derived from
// the title unless given, and is never changed afterwards.
func (s *ContentService) CreatePost(ctx context.Context, authorID string, in PostInput) (model.Post, error) {
	v := validator{}
	validatePost(v, &in)
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Title)
	}
	v.check(util.IsValidSlug(in.Slug), "slug", "could not derive a valid slug from the title")
	v.check(authorID != "", "author", "is required")
	if err := v.err(); err != nil {
		return model.Post{}, err
	}

	now := s.now()
	row, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		Slug:      in.Slug,
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("creating post %q: %w", in.Slug, store.Classify(err))
	}

	s.invalidate(ctx, cache.PrefixPosts, true)
	slog.InfoContext(ctx, "post created", "slug", row.Slug, "author_id", authorID, "published", row.Published)
	return row.Model(), nil
}

// UpdatePost replaces title, excerpt and content. The slug and the
// publication flag are not changed here.
func (s *ContentService) UpdatePost(ctx context.Context, slug string, in PostInput) (model.Post, error) {
	v := validator{}
	validatePost(v, &in)
	if err := v.err(); err != nil {
		return model.Post{}, err
	}

	row, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		Slug:      slug,
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("updating post %q: %w", slug, store.Classify(err))
	}

	s.invalidate(ctx, cache.PrefixPosts, true)
	slog.InfoContext(ctx, "post updated", "slug", slug)
	return row.Model(), nil
}

// TogglePublished flips the publication flag of a post.
func (s *ContentService) TogglePublished(ctx context.Context, slug string) (model.Post, error) {
	current, err := s.GetPost(ctx, slug)
	if err != nil {
		return model.Post{}, err
	}

	row, err := s.queries.SetPostPublished(ctx, store.SetPostPublishedParams{
		Slug:      slug,
		Published: !current.Published,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("publishing post %q: %w", slug, store.Classify(err))
	}

	s.invalidate(ctx, cache.PrefixPosts, true)
	slog.InfoContext(ctx, "post publication changed", "slug", slug, "published", row.Published)
	return row.Model(), nil
}

// DeletePost removes a post.
func (s *ContentService) DeletePost(ctx context.Context, slug string) error {
	n, err := s.queries.DeletePost(ctx, slug)
	if err != nil {
		return fmt.Errorf("deleting post %q: %w", slug, store.Classify(err))
	}
	if n == 0 {
		return fmt.Errorf("deleting post %q: %w", slug, store.ErrNotFound)
	}

	s.invalidate(ctx, cache.PrefixPosts, true)
	slog.InfoContext(ctx, "post deleted", "slug", slug)
	return nil
}

// invalidate drops a key, or every key under a prefix. Cache failures are
// logged; entries expire on their own.
func (s *ContentService) invalidate(ctx context.Context, key string, prefix bool) {
	var err error
	if prefix {
		err = s.cache.DeleteByPrefix(ctx, key)
	} else {
		err = s.cache.Delete(ctx, key)
	}
	if err != nil && !errors.Is(err, cache.ErrCacheClosed) {
		slog.WarnContext(ctx, "cache invalidation failed", "key", key, "error", err)
	}
}

func postModels(rows []store.Post) []model.Post {
	posts := make([]model.Post, len(rows))
	for i, r := range rows {
		posts[i] = r.Model()
	}
	return posts
}
