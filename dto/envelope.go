// Package dto holds the JSON shapes exchanged between the API server and
// its clients.
package dto

import "math"

// DataResponse wraps a single resource: {"data": ...}
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResponse wraps a page of resources: {"data": [...], "pagination": {...}}
type PaginatedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes pagination metadata. TotalPages is never below 1.
func NewPagination(totalCount int64, page, perPage int) Pagination {
	totalPages := 1
	if perPage > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(perPage)))
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}

// ErrorDetail points a validation message at a request field.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorResponse wraps an error: {"error": {...}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
