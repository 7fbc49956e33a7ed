package components

import (
	"context"

	"daily_report_app_go/models"
	"daily_report_app_go/templates/partials"
)

func statusLabel(ctx context.Context, status models.ReportStatus) string {
	if !status.Valid() {
		return string(status)
	}
	return partials.T(ctx, "status."+string(status))
}

// ConfirmProps describes a confirmation step before a destructive or
// state-changing post.
type ConfirmProps struct {
	Message    string
	Action     string
	CancelHref string
	Danger     bool
}

func (p ConfirmProps) buttonClass() string {
	if p.Danger {
		return "btn btn-sm btn-danger"
	}
	return "btn btn-sm"
}
