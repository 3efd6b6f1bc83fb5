package shared

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

// Pagination captures limit/offset parameters for listing endpoints.
type Pagination struct {
	Limit  int
	Offset int
}

// PaginationFromRequest parses limit/offset query parameters with bounds applied.
func PaginationFromRequest(r *http.Request) Pagination {
	p := Pagination{Limit: defaultPageSize}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Offset = v
		}
	}
	return p
}
