package common

import (
	"net/http"
	"strconv"
)

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination extracts page and limit query parameters. limit is capped at maxPerPage
// when maxPerPage is positive.
func ParsePagination(r *http.Request, defaultPerPage, maxPerPage int) (page, perPage int) {
	page = 1
	perPage = defaultPerPage
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		perPage = l
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// Window returns the [start, end) slice bounds of the requested page over total items.
// Pages past the end yield an empty window at TotalItems.
func (p Pagination) Window() (start, end int) {
	if p.PerPage <= 0 || p.Page <= 1 {
		start = 0
	} else if p.Page-1 > p.TotalItems/p.PerPage {
		start = p.TotalItems
	} else {
		start = (p.Page - 1) * p.PerPage
	}
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end = p.TotalItems
	if p.PerPage > 0 && p.PerPage < p.TotalItems-start {
		end = start + p.PerPage
	}
	return start, end
}
