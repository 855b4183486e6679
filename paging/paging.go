// Package paging implements page/limit pagination.
package paging

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the pagination parameters
type Params struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize clamps Page and Limit to acceptable values
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip returns the number of items before the page.
func (p Params) Skip() int64 {
	p = p.Normalize()
	return int64((p.Page - 1) * p.Limit)
}

// Pagination describes the position of a page
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Result holds the pagination result
type Result[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewResult builds a Result, never returning nil Items.
func NewResult[T any](items []T, total int64, p Params) *Result[T] {
	p = p.Normalize()
	if items == nil {
		items = make([]T, 0)
	}
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return &Result[T]{
		Items: items,
		Pagination: Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: pages,
		},
	}
}
