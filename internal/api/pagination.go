package api

import (
	"net/http"
	"strconv"
)

// Pagination defaults for list endpoints. Clients asking for more than
// maxPerPage are clamped, never rejected.
const (
	defaultPage    = 1
	defaultPerPage = 50
	maxPerPage     = 200
)

// PaginationParams holds parsed pagination query parameters.
type PaginationParams struct {
	Page    int
	PerPage int
}

// ParsePagination extracts page and per_page from the request query.
// Missing, malformed or non-positive values fall back to the defaults.
func ParsePagination(r *http.Request) PaginationParams {
	query := r.URL.Query()
	return PaginationParams{
		Page:    positiveIntParam(query.Get("page"), defaultPage, 0),
		PerPage: positiveIntParam(query.Get("per_page"), defaultPerPage, maxPerPage),
	}
}

// positiveIntParam parses raw as a positive integer, clamping to max when
// max is non-zero and falling back to def otherwise.
func positiveIntParam(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// Offset returns the database offset for the current page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages calculates the total number of pages for a given total count.
func (p PaginationParams) TotalPages(total int64) int {
	if p.PerPage <= 0 {
		return 0
	}
	pages := int(total) / p.PerPage
	if int(total)%p.PerPage > 0 {
		pages++
	}
	return pages
}
