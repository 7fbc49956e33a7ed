package services

import (
	"time"

	"daily_report_app_go/models"
)

const msgInvalidDate = "日付形式で入力してください"

// ParseDate parses a YYYY-MM-DD value into a UTC calendar date. Failures
// are validation errors on field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, NewFieldError(field, msgInvalidDate)
	}
	return models.NormalizeDate(t), nil
}
