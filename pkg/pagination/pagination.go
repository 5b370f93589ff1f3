package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Pagination represents pagination metadata returned to clients
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns default pagination values
func DefaultPagination() *PaginationParams {
	return &PaginationParams{
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Ensure returns p validated, or the defaults when p is nil
func Ensure(p *PaginationParams) *PaginationParams {
	if p == nil {
		return DefaultPagination()
	}
	p.Validate()
	return p
}

// FromQuery builds params from raw query values, ignoring anything that is
// not a positive integer.
func FromQuery(page, perPage string) *PaginationParams {
	p := DefaultPagination()
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(perPage); err == nil && n > 0 {
		p.PerPage = n
	}
	p.Validate()
	return p
}

// Validate ensures pagination parameters are within valid ranges
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset calculates the offset for SQL queries
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult represents a paginated result with items and pagination info
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, params *PaginationParams, total int64) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: NewPagination(params.Page, params.PerPage, total),
	}
}
