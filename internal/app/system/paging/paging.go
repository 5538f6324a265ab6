// Package paging parses page/limit query parameters and computes page
// counts for the shared pagination envelope.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

const (
	// DefaultLimit is used when the client sends no limit.
	DefaultLimit = 50
	// MaxLimit caps the page size; larger requests are clamped, not rejected.
	MaxLimit = 100
)

// Params is a parsed page request.
type Params struct {
	Page  int
	Limit int
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Parse reads "page" and "limit" from the request query. Missing or
// malformed values fall back to defaults; out-of-range values are clamped.
func Parse(r *http.Request, defaultLimit int) Params {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	p := Params{Page: 1, Limit: defaultLimit}

	if raw := query.Get(r, "page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Page = n
		}
	}
	if raw := query.Get(r, "limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Pages returns the total page count for a result set: ceil(total/limit),
// and 0 when the set is empty.
func Pages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
