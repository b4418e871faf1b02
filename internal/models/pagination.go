package models

// DefaultPageLimit is the page size applied when a request omits it.
const DefaultPageLimit = 20

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewPagination computes page-count metadata for a result window.
func NewPagination(page, limit, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return &Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}
