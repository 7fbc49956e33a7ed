package pages

import (
	"context"

	"daily_report_app_go/templates/components"
	"daily_report_app_go/templates/partials"
)

const (
	// ReportPageID is the shell the detail and edit pages load into.
	ReportPageID = "report-page"
	// ReportContentID is the element htmx swaps after a comment or review.
	ReportContentID = "report-content"
)

func (v ReportDetailView) deleteConfirm(ctx context.Context) components.ConfirmProps {
	return components.ConfirmProps{
		Message:    partials.T(ctx, "confirm.delete_report"),
		Action:     v.Path() + "/delete",
		CancelHref: v.Path(),
		Danger:     true,
	}
}

func (v ReportDetailView) reviewConfirm(ctx context.Context) components.ConfirmProps {
	return components.ConfirmProps{
		Message:    partials.T(ctx, "confirm.review"),
		Action:     v.Path() + "/review",
		CancelHref: v.Path(),
	}
}

func commentsHeading(ctx context.Context, n int) string {
	return partials.T(ctx, "report.comments", map[string]interface{}{"count": n})
}
