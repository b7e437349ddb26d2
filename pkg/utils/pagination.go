package utils

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams holds pagination request parameters
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"pageSize"`
}

// PaginationMeta holds pagination response metadata
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// GetPaginationParams normalizes page and limit.
// Pages are 1-indexed; page < 1 becomes 1. A non-positive limit falls back to
// DefaultPageSize and limits above MaxPageSize are capped.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// CalculateOffset returns the slice offset
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Bounds returns the [start, end) window of a collection of size total.
// A page past the end yields an empty window.
func (p PaginationParams) Bounds(total int) (int, int) {
	start := p.CalculateOffset()
	if start >= total {
		return total, total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

// CalculateMeta generates pagination metadata
func CalculateMeta(totalCount, page, limit int) PaginationMeta {
	if limit <= 0 {
		return PaginationMeta{
			Page:       1,
			Limit:      totalCount,
			TotalCount: totalCount,
			TotalPages: 1,
		}
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))
	if totalPages < 0 {
		totalPages = 0
	}

	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
