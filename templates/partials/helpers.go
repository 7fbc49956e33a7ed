package partials

import (
	"context"
	"fmt"
	"time"

	"daily_report_app_go/models"
	"daily_report_app_go/services/i18n"
)

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

func parseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	return t, err == nil
}

// FormatReportDate renders "MM/DD（曜）". Unparseable input is returned as is.
func FormatReportDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%02d/%02d（%s）", int(t.Month()), t.Day(), weekdays[t.Weekday()])
}

// FormatReportDateLong renders "YYYY/MM/DD（曜）".
func FormatReportDateLong(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%d/%02d/%02d（%s）", t.Year(), int(t.Month()), t.Day(), weekdays[t.Weekday()])
}

// FormatDateTime renders "MM/DD HH:mm" in local time.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("01/02 15:04")
}

// FormatSubmittedAt renders a submission time, or a dash when the report
// was never submitted.
func FormatSubmittedAt(ctx context.Context, t *time.Time) string {
	if t == nil {
		return i18n.T(ctx, "common.empty_value")
	}
	return FormatDateTime(*t)
}

// T translates key in the locale of ctx.
func T(ctx context.Context, key string, args ...map[string]interface{}) string {
	return i18n.T(ctx, key, args...)
}

// Deref returns the pointed string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
