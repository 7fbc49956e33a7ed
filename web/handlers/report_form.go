package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	"daily_report_app_go/templates/pages"
	"daily_report_app_go/web/apiclient"
	"daily_report_app_go/web/guard"
	webmw "daily_report_app_go/web/middleware"
	"daily_report_app_go/web/state"
	"daily_report_app_go/web/validation"
)

const removeVisitAction = "remove_visit:"

func (a *App) today() string {
	return a.Now().Format(models.DateLayout)
}

func formTitle(id uint) string {
	if id == 0 {
		return "report.new_title"
	}
	return "report.edit_title"
}

func (a *App) showReportForm(c echo.Context, status int, view pages.ReportFormView) error {
	return a.page(c, status, formTitle(view.ReportID), view.Viewer, pages.ReportFormPage(view))
}

// newReportViewer checks that the viewer may write a new report.
func (a *App) newReportViewer(c echo.Context) (*dto.UserResponse, bool, error) {
	viewer, _, err := a.viewer(c)
	if err != nil {
		_, lerr := a.leave(c, err, guard.ReportsPath)
		return nil, false, lerr
	}
	if d := guard.NewReport(viewer); d.Outcome != guard.Allow {
		return nil, false, webmw.Redirect(c, d.Target)
	}
	return viewer, true, nil
}

func (a *App) NewReportPage(c echo.Context) error {
	viewer, ok, err := a.newReportViewer(c)
	if !ok {
		return err
	}
	return a.showReportForm(c, http.StatusOK, pages.ReportFormView{Viewer: viewer, Form: validation.NewReportForm(a.today())})
}

func (a *App) NewReport(c echo.Context) error {
	viewer, ok, err := a.newReportViewer(c)
	if !ok {
		return err
	}
	return a.handleReportForm(c, viewer, 0, validation.NewReportForm(a.today()))
}

// editReport loads the report behind the edit page and applies the edit
// guard.
func (a *App) editReport(c echo.Context) (*dto.UserResponse, *dto.ReportDetail, bool, error) {
	id, ok := paramID(c)
	if !ok {
		return nil, nil, false, webmw.Redirect(c, guard.ReportsPath)
	}
	viewer, res, err := a.viewer(c)
	if err != nil {
		_, lerr := a.leave(c, err, guard.ReportPath(id))
		return nil, nil, false, lerr
	}
	report, err := res.Report(c.Request().Context(), id)
	if apiclient.IsUnauthorized(err) {
		return nil, nil, false, a.signOut(c)
	}
	if err != nil && !apiclient.IsClientError(err) {
		zap.L().Warn("failed to load report for edit", zap.Uint("report_id", id), zap.Error(err))
	}

	if done, err := decided(c, guard.ReportEdit(id, viewer, report, err)); done {
		return nil, nil, false, err
	}
	return viewer, report, true, nil
}

// EditReportPage serves the report shell, then the form the shell loads.
func (a *App) EditReportPage(c echo.Context) error {
	if !isContentRequest(c) {
		id, ok := paramID(c)
		if !ok {
			return webmw.Redirect(c, guard.ReportsPath)
		}
		viewer := storedViewer(c)
		return a.reportShell(c, "report.edit_title", guard.ReportPath(id)+"/edit", viewer, guard.ReportEdit(id, viewer, nil, nil))
	}
	viewer, report, ok, err := a.editReport(c)
	if !ok {
		return err
	}
	return render(c, http.StatusOK, pages.ReportFormPage(pages.ReportFormView{
		Viewer:   viewer,
		ReportID: report.ID,
		Form:     validation.ReportFormFrom(report),
	}))
}

func (a *App) EditReport(c echo.Context) error {
	viewer, report, ok, err := a.editReport(c)
	if !ok {
		return err
	}
	return a.handleReportForm(c, viewer, report.ID, validation.ReportFormFrom(report))
}

// handleReportForm applies one posted action to the report form. Row
// edits and confirmations redisplay the form; only save_draft and a
// confirmed submit reach the API. initial is the form as first shown and
// decides whether cancelling discards anything.
func (a *App) handleReportForm(c echo.Context, viewer *dto.UserResponse, id uint, initial validation.ReportForm) error {
	params, err := c.FormParams()
	if err != nil {
		return err
	}
	form := validation.ParseReportForm(params)
	action := params.Get("action")
	// A confirmation only covers the action it was opened for.
	confirmed := action != "" && params.Get("confirmed") == action
	view := pages.ReportFormView{Viewer: viewer, ReportID: id, Form: form}

	switch {
	case action == "add_visit":
		view.Form = form.AddRow()

	case strings.HasPrefix(action, removeVisitAction):
		i, err := strconv.Atoi(strings.TrimPrefix(action, removeVisitAction))
		if err != nil || i < 0 || i >= len(form.Visits) {
			break
		}
		if confirmed || form.Visits[i].Blank() {
			view.Form = form.RemoveRow(i)
			break
		}
		view.Confirm, view.ConfirmRow = pages.ConfirmRemove, i

	case action == "cancel":
		if confirmed || form.Equal(initial) {
			return webmw.Redirect(c, cancelTarget(id))
		}
		view.Confirm = pages.ConfirmCancel

	case action == "save_draft":
		return a.saveReport(c, view, validation.ModeDraft)

	case action == "submit":
		if errs := form.Validate(validation.ModeSubmit); errs.Any() {
			view.Errors = errs
			return a.showReportForm(c, formStatus(c), view)
		}
		if !confirmed {
			view.Confirm = pages.ConfirmSubmit
			break
		}
		return a.saveReport(c, view, validation.ModeSubmit)
	}
	return a.showReportForm(c, http.StatusOK, view)
}

func cancelTarget(id uint) string {
	if id == 0 {
		return guard.ReportsPath
	}
	return guard.ReportPath(id)
}

// saveReport validates view.Form in mode and creates or updates the
// report. Submitting sends status SUBMITTED in the same request.
func (a *App) saveReport(c echo.Context, view pages.ReportFormView, mode validation.Mode) error {
	form := view.Form.Prepare(mode)
	if errs := form.Validate(mode); errs.Any() {
		view.Form, view.Errors = form, errs
		return a.showReportForm(c, formStatus(c), view)
	}

	status, msgKey := models.ReportStatusDraft, "toast.report_saved"
	if mode == validation.ModeSubmit {
		status, msgKey = models.ReportStatusSubmitted, "toast.report_submitted"
	}
	res := webmw.GetResources(c)
	ctx := c.Request().Context()
	var (
		saved *dto.ReportDetail
		err   error
	)
	if view.ReportID == 0 {
		saved, err = res.CreateReport(ctx, form.Request(status))
	} else {
		saved, err = res.UpdateReport(ctx, view.ReportID, form.Request(status))
	}
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return a.signOut(c)
		}
		view.Form, view.Errors = form, validation.FromAPIError(err)
		return a.showReportForm(c, formStatus(c), view)
	}

	zap.L().Info("report saved",
		zap.Uint("report_id", saved.ID),
		zap.String("status", string(saved.Status)),
		zap.Uint("user_id", view.Viewer.ID))
	toast(c, state.ToastSuccess, t(c, msgKey))
	return webmw.Redirect(c, guard.ReportPath(saved.ID))
}
