package common

import (
	"math"
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/products?page=3&limit=500", nil)
	page, perPage := ParsePagination(req, 20, 100)
	if page != 3 || perPage != 100 {
		t.Fatalf("expected page 3 limit 100, got %d %d", page, perPage)
	}

	req = httptest.NewRequest("GET", "/api/v1/products?page=-1&limit=abc", nil)
	page, perPage = ParsePagination(req, 20, 100)
	if page != 1 || perPage != 20 {
		t.Fatalf("expected defaults, got %d %d", page, perPage)
	}
}

func TestPaginationWindow(t *testing.T) {
	cases := []struct {
		p          Pagination
		start, end int
	}{
		{Pagination{Page: 1, PerPage: 2, TotalItems: 5}, 0, 2},
		{Pagination{Page: 3, PerPage: 2, TotalItems: 5}, 4, 5},
		{Pagination{Page: 9, PerPage: 2, TotalItems: 5}, 5, 5},
		{Pagination{Page: math.MaxInt, PerPage: 50, TotalItems: 1}, 1, 1},
		{Pagination{Page: math.MaxInt / 2, PerPage: 200, TotalItems: 3}, 3, 3},
		{Pagination{Page: 1, PerPage: math.MaxInt, TotalItems: 3}, 0, 3},
	}
	for _, tc := range cases {
		start, end := tc.p.Window()
		if start != tc.start || end != tc.end {
			t.Fatalf("%+v: got [%d,%d) want [%d,%d)", tc.p, start, end, tc.start, tc.end)
		}
	}
}

func TestParsePaginationHugePage(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/products?page=9223372036854775807&limit=50", nil)
	page, perPage := ParsePagination(req, 20, 100)
	start, end := Pagination{Page: page, PerPage: perPage, TotalItems: 1}.Window()
	if start != 1 || end != 1 {
		t.Fatalf("expected empty window at end, got [%d,%d)", start, end)
	}
}
