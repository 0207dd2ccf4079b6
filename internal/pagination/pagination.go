// Package pagination turns a page request and a counted result set into the
// page envelope returned by list endpoints.
package pagination

import (
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortDirection orders a list by its primary sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OrDefault returns d, or SortDesc when d is empty.
func (d SortDirection) OrDefault() SortDirection {
	if d == "" {
		return SortDesc
	}
	return d
}

// SQL returns the ORDER BY keyword for the direction.
func (d SortDirection) SQL() string {
	if d.OrDefault() == SortAsc {
		return "ASC"
	}
	return "DESC"
}

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1"`
}

// Defaults fills in default values when page or page_size are not provided.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
}

// Valid reports whether the request can be paged: both values positive and
// the page size within MaxPageSize.
func (p PageRequest) Valid() bool {
	return p.Page >= 1 && p.PageSize >= 1 && p.PageSize <= MaxPageSize
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a page of items with its metadata.
type PageResponse[T any] struct {
	TotalCount  int64 `json:"total_count"`
	TotalPage   int   `json:"total_page"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
	Results     []T   `json:"results"`
}

// NewPageResponse builds the envelope for one page. pageSize must be positive;
// callers reject a zero page size before reaching this point.
//
// A zero total yields total_page 0, no next/prev page and an empty results
// slice, with page and page_size echoed back.
func NewPageResponse[T any](items []T, page, pageSize int, totalCount int64) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	if totalCount == 0 {
		return PageResponse[T]{
			Page:     page,
			PageSize: pageSize,
			Results:  []T{},
		}
	}

	totalPage := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	return PageResponse[T]{
		TotalCount:  totalCount,
		TotalPage:   totalPage,
		Page:        page,
		PageSize:    pageSize,
		HasNextPage: page < totalPage,
		HasPrevPage: page > 1,
		Results:     items,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
