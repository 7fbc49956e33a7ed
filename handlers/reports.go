package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"daily_report_app_go/db"
	"daily_report_app_go/dto"
	"daily_report_app_go/middleware"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportFilter reads the list filters shared by the list and the export.
func reportFilter(c echo.Context) (services.ReportFilter, error) {
	var f services.ReportFilter
	var err error
	if f.DateFrom, err = queryDate(c, "date_from"); err != nil {
		return f, err
	}
	if f.DateTo, err = queryDate(c, "date_to"); err != nil {
		return f, err
	}
	if v := c.QueryParam("salesperson_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, services.NewFieldError("salesperson_id", "無効なIDです")
		}
		sid := uint(id)
		f.SalespersonID = &sid
	}
	f.Status = c.QueryParam("status")
	f.Sort = c.QueryParam("sort")
	f.Order = c.QueryParam("order")
	return f, nil
}

// ListReportsHandler handles GET /reports
func ListReportsHandler(c echo.Context) error {
	filter, err := reportFilter(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	filter.PageParams = page

	reports, total, err := services.ListReports(db.DB, middleware.GetCurrentUser(c), filter)
	if err != nil {
		return err
	}

	items := make([]dto.ReportListItem, 0, len(reports))
	for i := range reports {
		items = append(items, dto.NewReportListItem(&reports[i]))
	}
	return respondPage(c, items, total, page)
}

// GetReportHandler handles GET /reports/:id
func GetReportHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, err := services.GetReport(db.DB, middleware.GetCurrentUser(c), id)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, dto.NewReportDetail(report))
}

func bindReport(c echo.Context) (*services.ReportInput, error) {
	var req dto.ReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return nil, err
	}
	return services.ReportInputFromRequest(req)
}

// CreateReportHandler handles POST /reports
func CreateReportHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.IsSales() {
		return services.NewForbiddenError("営業担当者のみ日報を作成できます")
	}
	in, err := bindReport(c)
	if err != nil {
		return err
	}
	report, err := services.CreateReport(db.DB, user, in)
	if err != nil {
		return err
	}

	detail := dto.NewReportDetail(report)
	recordAudit(c, models.AuditActionCreate, "daily_report", report.ID, report.DateString(), nil, detail)
	if report.Status == models.ReportStatusSubmitted {
		services.NotifyReportSubmitted(getConfig(c), db.DB, report)
	}
	return respondData(c, http.StatusCreated, detail)
}

// UpdateReportHandler handles PUT /reports/:id
func UpdateReportHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	in, err := bindReport(c)
	if err != nil {
		return err
	}
	report, err := services.UpdateReport(db.DB, middleware.GetCurrentUser(c), id, in)
	if err != nil {
		return err
	}

	detail := dto.NewReportDetail(report)
	recordAudit(c, models.AuditActionUpdate, "daily_report", report.ID, report.DateString(), nil, detail)
	if report.Status == models.ReportStatusSubmitted {
		services.NotifyReportSubmitted(getConfig(c), db.DB, report)
	}
	return respondData(c, http.StatusOK, detail)
}

// DeleteReportHandler handles DELETE /reports/:id
func DeleteReportHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, err := services.DeleteReport(db.DB, middleware.GetCurrentUser(c), id)
	if err != nil {
		return err
	}

	recordAudit(c, models.AuditActionDelete, "daily_report", report.ID, report.DateString(), dto.NewReportDetail(report), nil)
	return c.NoContent(http.StatusNoContent)
}

// SubmitReportHandler handles PATCH /reports/:id/submit
func SubmitReportHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, err := services.SubmitReport(db.DB, middleware.GetCurrentUser(c), id)
	if err != nil {
		return err
	}

	recordAudit(c, models.AuditActionSubmit, "daily_report", report.ID, report.DateString(), nil, nil)
	services.NotifyReportSubmitted(getConfig(c), db.DB, report)
	return respondData(c, http.StatusOK, dto.ReportSubmitResponse{
		ID:          report.ID,
		Status:      report.Status,
		SubmittedAt: report.SubmittedAt,
	})
}

// ReviewReportHandler handles PATCH /reports/:id/review
func ReviewReportHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, err := services.ReviewReport(db.DB, middleware.GetCurrentUser(c), id)
	if err != nil {
		return err
	}

	recordAudit(c, models.AuditActionReview, "daily_report", report.ID, report.DateString(), nil, nil)
	return respondData(c, http.StatusOK, dto.ReportReviewResponse{ID: report.ID, Status: report.Status})
}

// ExportReportsHandler handles GET /reports/export
func ExportReportsHandler(c echo.Context) error {
	filter, err := reportFilter(c)
	if err != nil {
		return err
	}
	buf, err := services.ExportReports(db.DB, middleware.GetCurrentUser(c), filter)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("daily_reports_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
