// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "fmt"

// Key prefixes for public content. Invalidate with DeleteByPrefix.
const (
	PrefixPage  = "page:"
	PrefixPosts = "posts:"
)

// PageKey is the key of one public page.
func PageKey(slug string) string {
	return PrefixPage + slug
}

// PostKey is the key of one published post.
func PostKey(slug string) string {
	return PrefixPosts + "slug:" + slug
}

// PostListKey is the key of one page of the published post listing.
func PostListKey(limit, offset int) string {
	return fmt.Sprintf("%slist:%d:%d", PrefixPosts, limit, offset)
}
