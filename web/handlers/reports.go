package handlers

import (
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	"daily_report_app_go/templates/pages"
	"daily_report_app_go/web/apiclient"
	"daily_report_app_go/web/guard"
	"daily_report_app_go/web/listing"
	webmw "daily_report_app_go/web/middleware"
	"daily_report_app_go/web/state"
	"daily_report_app_go/web/validation"
)

// ReportList shows the reports matching the applied search in the URL.
func (a *App) ReportList(c echo.Context) error {
	viewer, res, err := a.viewer(c)
	if err != nil {
		if left, lerr := a.leave(c, err, webmw.LoginPath); left {
			return lerr
		}
		return err
	}

	ctx := c.Request().Context()
	def := listing.Reports(a.Now)
	view := pages.ReportListView{Viewer: viewer, Def: def, List: def.FromQuery(c.QueryParams())}
	isManager := guard.CanFilterBySalesperson(viewer)

	view.Result, err = res.Reports(ctx, listing.ReportQuery(view.List, isManager))
	if apiclient.IsUnauthorized(err) {
		return a.signOut(c)
	}
	if err != nil {
		view.Error = apiclient.UserMessage(err)
	}
	if isManager {
		users, err := res.Users(ctx, string(models.RoleSales))
		if err != nil {
			zap.L().Warn("failed to load salespeople", zap.Error(err))
		}
		view.Salespeople = users
	}
	return a.page(c, http.StatusOK, "reports.title", viewer, pages.ReportList(view))
}

// ExportReports downloads the applied search as a spreadsheet.
func (a *App) ExportReports(c echo.Context) error {
	viewer, res, err := a.viewer(c)
	if err != nil {
		_, lerr := a.leave(c, err, webmw.LoginPath)
		return lerr
	}
	def := listing.Reports(a.Now)
	l := def.FromQuery(c.QueryParams())
	back := "/reports?" + def.Query(l).Encode()
	if !guard.CanFilterBySalesperson(viewer) {
		return webmw.Redirect(c, guard.ReportsPath)
	}

	export, err := res.ExportReports(c.Request().Context(), listing.ReportQuery(l, true))
	if err != nil {
		if left, lerr := a.leave(c, err, back); left {
			return lerr
		}
		toast(c, state.ToastError, apiclient.UserMessage(err))
		return webmw.Redirect(c, back)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
	return c.Blob(http.StatusOK, export.ContentType, export.Body)
}

// loadReport fetches the viewer and report of the request. done is true
// when the response was already decided.
func (a *App) loadReport(c echo.Context) (viewer *dto.UserResponse, report *dto.ReportDetail, done bool, err error) {
	id, ok := paramID(c)
	if !ok {
		return nil, nil, true, webmw.Redirect(c, guard.ReportsPath)
	}
	viewer, res, err := a.viewer(c)
	if err != nil {
		_, lerr := a.leave(c, err, guard.ReportsPath)
		return nil, nil, true, lerr
	}
	report, err = res.Report(c.Request().Context(), id)
	if apiclient.IsUnauthorized(err) {
		return nil, nil, true, a.signOut(c)
	}
	if err != nil && !apiclient.IsClientError(err) {
		zap.L().Warn("failed to load report", zap.Uint("report_id", id), zap.Error(err))
	}

	if done, err := decided(c, guard.ReportDetail(viewer, report, err)); done {
		return nil, nil, true, err
	}
	return viewer, report, false, nil
}

// decided applies a guard decision taken after the fetch. Both inputs are
// known by then, so anything but Allow or Redirect is a failed upstream.
func decided(c echo.Context, d guard.Decision) (bool, error) {
	switch d.Outcome {
	case guard.Allow:
		return false, nil
	case guard.Redirect:
		return true, webmw.Redirect(c, d.Target)
	}
	return true, echo.NewHTTPError(http.StatusBadGateway)
}

// isContentRequest reports whether htmx is loading the content of a report
// shell.
func isContentRequest(c echo.Context) bool {
	return webmw.IsHTMX(c) && c.Request().Header.Get("HX-Target") == pages.ReportPageID
}

// storedViewer is the user last seen by the session, without a fetch.
func storedViewer(c echo.Context) *dto.UserResponse {
	if sess := webmw.GetSession(c); sess != nil {
		return sess.Store.User()
	}
	return nil
}

// reportShell answers the first request of a report page with the layout
// and a shell that loads path into itself. Only the stored viewer is known
// here, so d is the guard decision before the fetch.
func (a *App) reportShell(c echo.Context, titleKey, path string, viewer *dto.UserResponse, d guard.Decision) error {
	if webmw.GetResources(c) == nil {
		return a.signOut(c)
	}
	if d.Outcome == guard.Redirect {
		return webmw.Redirect(c, d.Target)
	}
	return a.page(c, http.StatusOK, titleKey, viewer, pages.ReportShell(path))
}

// showReport renders the detail page, or only its content for htmx
// requests targeting it.
func (a *App) showReport(c echo.Context, status int, view pages.ReportDetailView) error {
	if webmw.IsHTMX(c) && c.Request().Header.Get("HX-Target") == pages.ReportContentID {
		return render(c, status, pages.ReportContent(view))
	}
	return a.page(c, status, "report.detail_title", view.Viewer, pages.ReportDetail(view))
}

// ReportDetail serves the report shell, then the detail the shell loads.
func (a *App) ReportDetail(c echo.Context) error {
	if !isContentRequest(c) {
		id, ok := paramID(c)
		if !ok {
			return webmw.Redirect(c, guard.ReportsPath)
		}
		viewer := storedViewer(c)
		return a.reportShell(c, "report.detail_title", guard.ReportPath(id), viewer, guard.ReportDetail(viewer, nil, nil))
	}
	viewer, report, done, err := a.loadReport(c)
	if done {
		return err
	}
	return render(c, http.StatusOK, pages.ReportDetail(pages.ReportDetailView{Viewer: viewer, Report: report}))
}

// ReviewReportPage opens the review confirmation.
func (a *App) ReviewReportPage(c echo.Context) error {
	viewer, report, done, err := a.loadReport(c)
	if done {
		return err
	}
	if guard.ReviewAction(viewer, report).Outcome != guard.Allow {
		return webmw.Redirect(c, guard.ReportPath(report.ID))
	}
	return a.showReport(c, http.StatusOK, pages.ReportDetailView{Viewer: viewer, Report: report, Confirm: "review"})
}

func (a *App) ReviewReport(c echo.Context) error {
	viewer, report, done, err := a.loadReport(c)
	if done {
		return err
	}
	detail := guard.ReportPath(report.ID)
	if guard.ReviewAction(viewer, report).Outcome != guard.Allow {
		return webmw.Redirect(c, detail)
	}
	if _, err := webmw.GetResources(c).ReviewReport(c.Request().Context(), report.ID); err != nil {
		if left, lerr := a.leave(c, err, detail); left {
			return lerr
		}
		toast(c, state.ToastError, apiclient.UserMessage(err))
		return webmw.Redirect(c, detail)
	}
	toast(c, state.ToastSuccess, t(c, "toast.report_reviewed"))
	return webmw.Redirect(c, detail)
}

// CreateComment posts a manager comment. Invalid input redisplays the
// report with the draft kept; success reloads the report so the composer
// starts empty.
func (a *App) CreateComment(c echo.Context) error {
	viewer, report, done, err := a.loadReport(c)
	if done {
		return err
	}
	detail := guard.ReportPath(report.ID)
	if guard.CommentAction(viewer, report).Outcome != guard.Allow {
		return webmw.Redirect(c, detail)
	}

	params, err := c.FormParams()
	if err != nil {
		return err
	}
	form := validation.ParseCommentForm(params)
	view := pages.ReportDetailView{
		Viewer:        viewer,
		Report:        report,
		CommentDrafts: map[models.CommentTarget]string{},
		CommentErrors: map[models.CommentTarget]string{},
	}
	target := models.CommentTarget(form.Target)
	if errs := form.Validate(); errs.Any() {
		if !target.Valid() {
			view.Error = errs.Field("target")
			return a.showReport(c, formStatus(c), view)
		}
		view.CommentDrafts[target] = form.Content
		view.CommentErrors[target] = errs.Field("content")
		return a.showReport(c, formStatus(c), view)
	}

	if _, err := webmw.GetResources(c).CreateComment(c.Request().Context(), report.ID, form.Request()); err != nil {
		if left, lerr := a.leave(c, err, detail); left {
			return lerr
		}
		errs := validation.FromAPIError(err)
		view.CommentDrafts[target] = form.Content
		view.CommentErrors[target] = errs.Form
		return a.showReport(c, formStatus(c), view)
	}
	toast(c, state.ToastSuccess, t(c, "toast.comment_posted"))
	return webmw.Redirect(c, detail)
}

// DeleteReportPage opens the delete confirmation.
func (a *App) DeleteReportPage(c echo.Context) error {
	viewer, report, done, err := a.loadReport(c)
	if done {
		return err
	}
	if guard.DeleteAction(viewer, report).Outcome != guard.Allow {
		return webmw.Redirect(c, guard.ReportPath(report.ID))
	}
	return a.showReport(c, http.StatusOK, pages.ReportDetailView{Viewer: viewer, Report: report, Confirm: "delete"})
}

func (a *App) DeleteReport(c echo.Context) error {
	viewer, report, done, err := a.loadReport(c)
	if done {
		return err
	}
	detail := guard.ReportPath(report.ID)
	if guard.DeleteAction(viewer, report).Outcome != guard.Allow {
		return webmw.Redirect(c, detail)
	}
	if err := webmw.GetResources(c).DeleteReport(c.Request().Context(), report.ID); err != nil {
		if left, lerr := a.leave(c, err, detail); left {
			return lerr
		}
		toast(c, state.ToastError, apiclient.UserMessage(err))
		return webmw.Redirect(c, detail)
	}
	toast(c, state.ToastSuccess, t(c, "toast.report_deleted"))
	return webmw.Redirect(c, guard.ReportsPath)
}
