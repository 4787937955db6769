// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/filora/filora-site/internal/auth"
	"github.com/filora/filora-site/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@filorayazilim.com"
	DefaultAdminPassword = "changeme"
)

// SeedOptions controls the provisioning step.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// SeedResult reports which records the provisioning step created.
// Records that already existed are left untouched and not counted.
type SeedResult struct {
	AdminCreated bool
	PagesCreated []string
	PostsCreated []string
}

// seedPage is a page content record created on first run.
type seedPage struct {
	slug    string
	title   string
	content string
}

var seedPages = []seedPage{
	{
		slug:  model.PageSlugAbout,
		title: "Hakkımızda",
		content: `# Filora Yazılım Hakkında

Filora Yazılım, modern teknolojilerle geliştirilmiş çözümler sunan bir yazılım şirketidir.

## Misyonumuz
Müşterilerimize en iyi yazılım deneyimini sunmak.

## Vizyonumuz
Teknoloji dünyasında öncü olmak.`,
	},
	{
		slug:  model.PageSlugServices,
		title: "Hizmetlerimiz",
		content: `# Hizmetlerimiz

## Web Geliştirme
Modern ve kullanıcı dostu web siteleri geliştiriyoruz.

## Mobil Uygulama
iOS ve Android platformları için mobil uygulamalar.

## Danışmanlık
Teknoloji danışmanlığı hizmetleri.`,
	},
	{
		slug:  model.PageSlugPricing,
		title: "Fiyatlarımız",
		content: `# Fiyat Paketlerimiz

## Temel Paket
- Web sitesi geliştirme
- Temel destek
- **5.000 TL**

## Profesyonel Paket
- Web + Mobil uygulama
- Gelişmiş destek
- **15.000 TL**

## Kurumsal Paket
- Tam entegre çözüm
- 7/24 destek
- **Fiyat teklifi için iletişim**`,
	},
}

const (
	samplePostSlug    = "nextjs-ile-modern-web-gelistirme"
	samplePostTitle   = "Next.js ile Modern Web Geliştirme"
	samplePostExcerpt = "Next.js kullanarak modern, hızlı ve SEO uyumlu web siteleri nasıl geliştirilir?"
	samplePostContent = `# Next.js ile Modern Web Geliştirme

Next.js, React tabanlı modern web uygulamaları geliştirmek için güçlü bir framework'tür.

## Avantajları

### 1. Server-Side Rendering (SSR)
SSR sayesinde SEO performansı artar.

### 2. Static Site Generation (SSG)
Hızlı yüklenen statik sayfalar oluşturabilirsiniz.

### 3. API Routes
Backend functionality'sini aynı projede geliştirebilirsiniz.

## Sonuç
Next.js ile hem frontend hem backend geliştirerek full-stack uygulamalar oluşturabilirsiniz.`
)

// Seed provisions the admin user, the about/services/pricing page contents,
// and one sample post. It is create-only: running it any number of times
// yields the same state as running it once, and never overwrites edits.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) (SeedResult, error) {
	var result SeedResult
	queries := New(db)

	if opts.AdminEmail == "" {
		opts.AdminEmail = DefaultAdminEmail
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = DefaultAdminPassword
	}
	email := model.NormalizeEmail(opts.AdminEmail)

	admin, err := queries.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		slog.Info("admin user already exists, skipping", "email", email)
	case errors.Is(err, sql.ErrNoRows):
		// Hash only when the account is actually missing.
		passwordHash, err := auth.HashPassword(opts.AdminPassword)
		if err != nil {
			return result, fmt.Errorf("hashing password: %w", err)
		}
		now := time.Now()
		admin, result.AdminCreated, err = queries.EnsureUser(ctx, CreateUserParams{
			Email:        email,
			PasswordHash: passwordHash,
			Role:         string(model.RoleAdmin),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return result, fmt.Errorf("creating admin user: %w", err)
		}
		if result.AdminCreated {
			slog.Info("created default admin user", "id", admin.ID, "email", admin.Email)
			if opts.AdminPassword == DefaultAdminPassword {
				slog.Warn("admin user uses the default password; change it after first login", "email", admin.Email)
			}
		}
	default:
		return result, fmt.Errorf("checking for admin user: %w", Classify(err))
	}

	for _, p := range seedPages {
		now := time.Now()
		_, created, err := queries.EnsurePageContent(ctx, CreatePageContentParams{
			Slug:      p.slug,
			Title:     p.title,
			Content:   p.content,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return result, fmt.Errorf("seeding page content %q: %w", p.slug, err)
		}
		if created {
			result.PagesCreated = append(result.PagesCreated, p.slug)
		}
	}

	now := time.Now()
	_, created, err := queries.EnsurePost(ctx, CreatePostParams{
		Slug:      samplePostSlug,
		Title:     samplePostTitle,
		Excerpt:   samplePostExcerpt,
		Content:   samplePostContent,
		Published: true,
		AuthorID:  admin.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return result, fmt.Errorf("seeding sample post: %w", err)
	}
	if created {
		result.PostsCreated = append(result.PostsCreated, samplePostSlug)
	}

	slog.Info("seed complete",
		"admin_created", result.AdminCreated,
		"pages_created", len(result.PagesCreated),
		"posts_created", len(result.PostsCreated),
	)
	return result, nil
}
