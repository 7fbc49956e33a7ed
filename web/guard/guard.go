// Package guard decides what a report page may show to the current viewer.
// Decisions are pure functions of the viewer, the report and any fetch
// error, so they are re-evaluated on every render from fresh data.
package guard

import (
	"fmt"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

type Outcome int

const (
	// Loading means the inputs are not available yet; serve the report shell.
	Loading Outcome = iota
	Allow
	Redirect
	Deny
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "LOADING"
	case Allow:
		return "ALLOW"
	case Redirect:
		return "REDIRECT"
	case Deny:
		return "DENY"
	}
	return "UNKNOWN"
}

// Decision is the outcome of a guard and, for redirects, where to go.
type Decision struct {
	Outcome Outcome
	Target  string
}

const ReportsPath = "/reports"

// ReportPath is the detail page of report id.
func ReportPath(id uint) string {
	return fmt.Sprintf("/reports/%d", id)
}

func allow() Decision                 { return Decision{Outcome: Allow} }
func redirect(target string) Decision { return Decision{Outcome: Redirect, Target: target} }

// ReportDetail guards the detail page. Any fetch error sends the viewer
// back to the list, as does a salesperson opening someone else's report.
func ReportDetail(viewer *dto.UserResponse, report *dto.ReportDetail, fetchErr error) Decision {
	if fetchErr != nil {
		return redirect(ReportsPath)
	}
	if viewer == nil || report == nil {
		return Decision{Outcome: Loading}
	}
	if viewer.Role == models.RoleSales && report.Salesperson.ID != viewer.ID {
		return redirect(ReportsPath)
	}
	return allow()
}

// ReportEdit guards the edit page of report id. Managers go to the list;
// everyone else is sent to the detail page unless they own a draft.
func ReportEdit(id uint, viewer *dto.UserResponse, report *dto.ReportDetail, fetchErr error) Decision {
	if viewer != nil && viewer.Role == models.RoleManager {
		return redirect(ReportsPath)
	}
	if fetchErr != nil {
		return redirect(ReportPath(id))
	}
	if viewer == nil || report == nil {
		return Decision{Outcome: Loading}
	}
	if report.Status != models.ReportStatusDraft || report.Salesperson.ID != viewer.ID {
		return redirect(ReportPath(id))
	}
	return allow()
}

// NewReport guards the create page: managers do not write reports.
func NewReport(viewer *dto.UserResponse) Decision {
	if viewer == nil {
		return Decision{Outcome: Loading}
	}
	if viewer.Role == models.RoleManager {
		return redirect(ReportsPath)
	}
	return allow()
}

// ReviewAction guards the review confirmation and its post. Only managers
// may act, and only on submitted reports.
func ReviewAction(viewer *dto.UserResponse, report *dto.ReportDetail) Decision {
	if viewer == nil || report == nil {
		return Decision{Outcome: Loading}
	}
	if !CanReview(viewer, report) {
		return Decision{Outcome: Deny}
	}
	return allow()
}

// CommentAction guards the comment post.
func CommentAction(viewer *dto.UserResponse, report *dto.ReportDetail) Decision {
	if viewer == nil || report == nil {
		return Decision{Outcome: Loading}
	}
	if !CanComment(viewer, report) {
		return Decision{Outcome: Deny}
	}
	return allow()
}

// DeleteAction guards report deletion, which follows the edit rules.
func DeleteAction(viewer *dto.UserResponse, report *dto.ReportDetail) Decision {
	if viewer == nil || report == nil {
		return Decision{Outcome: Loading}
	}
	if !CanEdit(viewer, report) {
		return Decision{Outcome: Deny}
	}
	return allow()
}

// CanEdit reports whether the edit link is offered: the owning
// salesperson while the report is a draft.
func CanEdit(viewer *dto.UserResponse, report *dto.ReportDetail) bool {
	return viewer.Role == models.RoleSales &&
		viewer.ID == report.Salesperson.ID &&
		report.Status == models.ReportStatusDraft
}

// CanComment reports whether the comment composer is offered.
func CanComment(viewer *dto.UserResponse, report *dto.ReportDetail) bool {
	return viewer.Role == models.RoleManager &&
		(report.Status == models.ReportStatusSubmitted || report.Status == models.ReportStatusReviewed)
}

// CanReview reports whether the review action is offered.
func CanReview(viewer *dto.UserResponse, report *dto.ReportDetail) bool {
	return viewer.Role == models.RoleManager && report.Status == models.ReportStatusSubmitted
}

// CanCreateReport reports whether the new-report link is offered.
func CanCreateReport(viewer *dto.UserResponse) bool {
	return viewer != nil && viewer.Role == models.RoleSales
}

// CanFilterBySalesperson reports whether the salesperson filter is shown.
func CanFilterBySalesperson(viewer *dto.UserResponse) bool {
	return viewer != nil && viewer.Role == models.RoleManager
}
