package services

import (
	"strings"

	"daily_report_app_go/dto"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// PageParams are the normalized paging and ordering inputs of a list query.
type PageParams struct {
	Page    int
	PerPage int
	Sort    string
	Order   string
}

// Offset returns the number of rows skipped before the current page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ValidatePage checks page >= 1 and 1 <= perPage <= MaxPerPage.
func ValidatePage(page, perPage int) error {
	var details []dto.ErrorDetail
	if page < 1 {
		details = append(details, dto.ErrorDetail{Field: "page", Message: "1以上の値を指定してください"})
	}
	if perPage < 1 || perPage > MaxPerPage {
		details = append(details, dto.ErrorDetail{Field: "per_page", Message: "1から100の範囲で指定してください"})
	}
	if len(details) > 0 {
		return NewValidationError("", details...)
	}
	return nil
}

// resolveOrder whitelists sort columns and directions.
func resolveOrder(sort, order string, allowed map[string]string, defaultSort, defaultOrder string) (string, string, error) {
	if sort == "" {
		sort = defaultSort
	}
	column, ok := allowed[sort]
	if !ok {
		return "", "", NewFieldError("sort", "無効なソート項目です")
	}
	order = strings.ToLower(order)
	if order == "" {
		order = defaultOrder
	}
	if order != "asc" && order != "desc" {
		return "", "", NewFieldError("order", "ascまたはdescを指定してください")
	}
	return column, order, nil
}
