// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
)

// Pagination is the limit/offset window of a listing request.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit and offset from the query string. Missing
// values are zero; the service applies its defaults and caps.
func parsePagination(r *http.Request) (Pagination, map[string]string) {
	q := r.URL.Query()
	errs := make(map[string]string)

	p := Pagination{
		Limit:  queryInt(q, "limit", errs),
		Offset: queryInt(q, "offset", errs),
	}
	if len(errs) > 0 {
		return Pagination{}, errs
	}
	return p, nil
}

func queryInt(q url.Values, key string, errs map[string]string) int {
	raw := q.Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		errs[key] = "must be a non-negative integer"
		return 0
	}
	return n
}
