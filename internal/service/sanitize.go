// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// plainTextPolicy strips every HTML element. Titles and excerpts are plain
// text; page and post bodies are stored verbatim.
var plainTextPolicy = bluemonday.StrictPolicy()

// plainText removes markup from s and returns unescaped, trimmed text.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(s)))
}
