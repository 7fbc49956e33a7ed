package pages

import (
	"context"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	"daily_report_app_go/templates/partials"
)

var reportStatuses = []models.ReportStatus{
	models.ReportStatusDraft,
	models.ReportStatusSubmitted,
	models.ReportStatusReviewed,
}

var reportColumns = []column{
	{"report_date", "reports.columns.report_date"},
	{"", "reports.columns.salesperson"},
	{"", "reports.columns.visit_count"},
	{"status", "reports.columns.status"},
	{"submitted_at", "reports.columns.submitted_at"},
}

func (v ReportListView) headers(ctx context.Context) []sortHeader {
	return sortHeaders(ctx, v.Def, v.List, reportColumns, v.URL)
}

func (v ReportListView) pageURL(page int) string {
	return v.URL(v.Def.WithPage(v.List, page))
}

// exportURL is the CSV export of the current search, all pages.
func (v ReportListView) exportURL() string {
	q := v.Def.Query(v.List)
	q.Del("page")
	return "/reports/export?" + q.Encode()
}

func (v ReportListView) salespeople() []dto.UserResponse {
	var out []dto.UserResponse
	for _, u := range v.Salespeople {
		if u.Role == models.RoleSales {
			out = append(out, u)
		}
	}
	return out
}

func statusOption(ctx context.Context, s models.ReportStatus) string {
	return partials.T(ctx, "status."+string(s))
}
