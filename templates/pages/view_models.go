// Package pages renders the screens of the web front-end.
package pages

import (
	"strconv"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	"daily_report_app_go/web/listing"
	"daily_report_app_go/web/validation"
)

// LoginView is the sign-in form.
type LoginView struct {
	Form   validation.LoginForm
	Errors validation.Errors
}

// ReportListView is the report list with its applied search state.
type ReportListView struct {
	Viewer      *dto.UserResponse
	Def         listing.Definition[listing.ReportFilter]
	List        listing.List[listing.ReportFilter]
	Result      *dto.PaginatedResponse[dto.ReportListItem]
	Salespeople []dto.UserResponse
	Error       string
}

// URL is the list page showing l.
func (v ReportListView) URL(l listing.List[listing.ReportFilter]) string {
	return "/reports?" + v.Def.Query(l).Encode()
}

// ReportDetailView is the report detail with the viewer's pending inputs.
type ReportDetailView struct {
	Viewer *dto.UserResponse
	Report *dto.ReportDetail
	// Confirm is "review" or "delete" while that question is open.
	Confirm       string
	CommentDrafts map[models.CommentTarget]string
	CommentErrors map[models.CommentTarget]string
	Error         string
}

func (v ReportDetailView) Path() string {
	return "/reports/" + strconv.FormatUint(uint64(v.Report.ID), 10)
}

// CommentsFor filters the report comments by target.
func (v ReportDetailView) CommentsFor(target models.CommentTarget) []dto.CommentResponse {
	var out []dto.CommentResponse
	for _, c := range v.Report.Comments {
		if c.Target == target {
			out = append(out, c)
		}
	}
	return out
}

// Report form confirmation steps.
const (
	ConfirmSubmit = "submit"
	ConfirmCancel = "cancel"
	ConfirmRemove = "remove_visit"
)

// ReportFormView is the create or edit form of a report.
type ReportFormView struct {
	Viewer   *dto.UserResponse
	ReportID uint
	Form     validation.ReportForm
	Errors   validation.Errors
	// Confirm is the pending confirmation step and ConfirmRow the row a
	// removal applies to.
	Confirm    string
	ConfirmRow int
}

func (v ReportFormView) Action() string {
	if v.ReportID == 0 {
		return "/reports/new"
	}
	return "/reports/" + strconv.FormatUint(uint64(v.ReportID), 10) + "/edit"
}

// CustomerListView is the customer list with its applied search state.
type CustomerListView struct {
	Viewer *dto.UserResponse
	Def    listing.Definition[listing.CustomerFilter]
	List   listing.List[listing.CustomerFilter]
	Result *dto.PaginatedResponse[dto.CustomerListItem]
	// ConfirmDelete is the customer whose deletion awaits confirmation.
	ConfirmDelete *dto.CustomerListItem
	Error         string
}

func (v CustomerListView) URL(l listing.List[listing.CustomerFilter]) string {
	return "/customers?" + v.Def.Query(l).Encode()
}

// CustomerFormView is the create or edit form of a customer.
type CustomerFormView struct {
	Viewer     *dto.UserResponse
	CustomerID uint
	Form       validation.CustomerForm
	Errors     validation.Errors
}

func (v CustomerFormView) Action() string {
	if v.CustomerID == 0 {
		return "/customers/new"
	}
	return "/customers/" + strconv.FormatUint(uint64(v.CustomerID), 10) + "/edit"
}
