package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	"daily_report_app_go/validation"
)

var reportSortColumns = map[string]string{
	"report_date":  "report_date",
	"status":       "status",
	"submitted_at": "submitted_at",
}

// ReportFilter narrows the report list. SALES viewers are always limited to
// their own reports regardless of SalespersonID.
type ReportFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	SalespersonID *uint
	Status        string
	PageParams
}

// VisitInput is one parsed visit record of a report write.
type VisitInput struct {
	CustomerID   uint
	VisitContent string
	VisitedAt    time.Time
}

// ReportInput is a parsed create or update request.
type ReportInput struct {
	ReportDate time.Time
	Problem    *string
	Plan       *string
	Status     models.ReportStatus
	Visits     []VisitInput
}

// ReportInputFromRequest parses a structurally valid request. Free text is
// kept as entered; blank optional text becomes nil.
func ReportInputFromRequest(req dto.ReportRequest) (*ReportInput, error) {
	date, err := ParseDate("report_date", req.ReportDate)
	if err != nil {
		return nil, err
	}
	in := &ReportInput{
		ReportDate: date,
		Problem:    optionalText(req.Problem),
		Plan:       optionalText(req.Plan),
		Status:     req.Status,
	}
	for i, v := range req.VisitRecords {
		at, err := models.ParseVisitTime(v.VisitedAt)
		if err != nil {
			return nil, NewFieldError(fmt.Sprintf("visit_records[%d].visited_at", i), "時刻形式（HH:mm）で入力してください")
		}
		in.Visits = append(in.Visits, VisitInput{
			CustomerID:   v.CustomerID,
			VisitContent: v.VisitContent,
			VisitedAt:    at,
		})
	}
	return in, nil
}

func optionalText(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// reportListQuery applies visibility and filters shared by the list and the export.
func reportListQuery(db *gorm.DB, viewer *models.User, f ReportFilter) (*gorm.DB, error) {
	query := db.Model(&models.DailyReport{})

	if viewer.IsSales() {
		query = query.Where("salesperson_id = ?", viewer.ID)
	} else if f.SalespersonID != nil {
		query = query.Where("salesperson_id = ?", *f.SalespersonID)
	}

	if f.Status != "" {
		status := models.ReportStatus(f.Status)
		if !status.Valid() {
			return nil, NewFieldError("status", "無効なステータスです")
		}
		query = query.Where("status = ?", status)
	}
	if f.DateFrom != nil {
		query = query.Where("report_date >= ?", models.NormalizeDate(*f.DateFrom))
	}
	if f.DateTo != nil {
		query = query.Where("report_date <= ?", models.NormalizeDate(*f.DateTo))
	}
	return query, nil
}

// ListReports returns one page of reports visible to viewer and the total
// match count. Salesperson and visit records are preloaded.
func ListReports(db *gorm.DB, viewer *models.User, f ReportFilter) ([]models.DailyReport, int64, error) {
	if err := ValidatePage(f.Page, f.PerPage); err != nil {
		return nil, 0, err
	}
	column, order, err := resolveOrder(f.Sort, f.Order, reportSortColumns, "report_date", "desc")
	if err != nil {
		return nil, 0, err
	}
	query, err := reportListQuery(db, viewer, f)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	var reports []models.DailyReport
	err = query.Preload("Salesperson").Preload("VisitRecords").
		Order(column + " " + order).Order("id DESC").
		Offset(f.Offset()).Limit(f.PerPage).
		Find(&reports).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// findReport loads a report with every relation the detail view needs.
func findReport(db *gorm.DB, id uint) (*models.DailyReport, error) {
	var report models.DailyReport
	err := db.Preload("Salesperson").
		Preload("VisitRecords", func(tx *gorm.DB) *gorm.DB { return tx.Order("visit_order ASC") }).
		Preload("VisitRecords.Customer").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC, id ASC") }).
		Preload("Comments.Manager").
		First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("日報が見つかりません")
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// GetReport returns a report. SALES viewers may only read their own.
func GetReport(db *gorm.DB, viewer *models.User, id uint) (*models.DailyReport, error) {
	report, err := findReport(db, id)
	if err != nil {
		return nil, err
	}
	if viewer.IsSales() && !report.IsOwnedBy(viewer.ID) {
		return nil, NewForbiddenError("自分の日報のみ閲覧できます")
	}
	return report, nil
}

// CreateReport stores a new DRAFT or SUBMITTED report authored by viewer.
func CreateReport(db *gorm.DB, viewer *models.User, in *ReportInput) (*models.DailyReport, error) {
	if !viewer.IsSales() {
		return nil, NewForbiddenError("営業担当者のみ日報を作成できます")
	}
	if err := checkReportInput(db, in); err != nil {
		return nil, err
	}
	if err := checkDuplicateDate(db, viewer.ID, in.ReportDate, 0); err != nil {
		return nil, err
	}

	report := &models.DailyReport{
		SalespersonID: viewer.ID,
		ReportDate:    in.ReportDate,
		Problem:       in.Problem,
		Plan:          in.Plan,
		Status:        in.Status,
	}
	if in.Status == models.ReportStatusSubmitted {
		now := time.Now().UTC()
		report.SubmittedAt = &now
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Salesperson", "VisitRecords", "Comments").Create(report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		return replaceVisits(tx, report.ID, in.Visits)
	})
	if err != nil {
		return nil, err
	}
	return findReport(db, report.ID)
}

// UpdateReport overwrites a DRAFT report owned by viewer. Visit records are
// replaced wholesale and renumbered from 1.
func UpdateReport(db *gorm.DB, viewer *models.User, id uint, in *ReportInput) (*models.DailyReport, error) {
	report, err := editableReport(db, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := checkReportInput(db, in); err != nil {
		return nil, err
	}
	if !in.ReportDate.Equal(report.ReportDate) {
		if err := checkDuplicateDate(db, viewer.ID, in.ReportDate, report.ID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"report_date": in.ReportDate,
		"problem":     in.Problem,
		"plan":        in.Plan,
		"status":      in.Status,
	}
	if in.Status == models.ReportStatusSubmitted && report.SubmittedAt == nil {
		updates["submitted_at"] = time.Now().UTC()
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DailyReport{ID: report.ID}).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update report: %w", err)
		}
		return replaceVisits(tx, report.ID, in.Visits)
	})
	if err != nil {
		return nil, err
	}
	return findReport(db, report.ID)
}

// DeleteReport removes a DRAFT report owned by viewer.
func DeleteReport(db *gorm.DB, viewer *models.User, id uint) (*models.DailyReport, error) {
	report, err := editableReport(db, viewer, id)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("daily_report_id = ?", report.ID).Delete(&models.VisitRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete visit records: %w", err)
		}
		if err := tx.Where("daily_report_id = ?", report.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Delete(&models.DailyReport{}, report.ID).Error; err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// SubmitReport moves a DRAFT report owned by viewer to SUBMITTED.
func SubmitReport(db *gorm.DB, viewer *models.User, id uint) (*models.DailyReport, error) {
	report, err := findReport(db, id)
	if err != nil {
		return nil, err
	}
	if !report.IsOwnedBy(viewer.ID) {
		return nil, NewForbiddenError("自分の日報のみ提出できます")
	}
	if !report.IsDraft() {
		return nil, NewConflictError("下書きの日報のみ提出できます")
	}

	now := time.Now().UTC()
	err = db.Model(&models.DailyReport{ID: report.ID}).Updates(map[string]interface{}{
		"status":       models.ReportStatusSubmitted,
		"submitted_at": now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to submit report: %w", err)
	}
	report.Status = models.ReportStatusSubmitted
	report.SubmittedAt = &now
	return report, nil
}

// ReviewReport moves a SUBMITTED report to REVIEWED. Managers only.
func ReviewReport(db *gorm.DB, viewer *models.User, id uint) (*models.DailyReport, error) {
	if !viewer.IsManager() {
		return nil, NewForbiddenError("上長のみ確認済みにできます")
	}
	report, err := findReport(db, id)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusSubmitted {
		return nil, NewConflictError("提出済みの日報のみ確認済みにできます")
	}

	err = db.Model(&models.DailyReport{ID: report.ID}).Update("status", models.ReportStatusReviewed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to review report: %w", err)
	}
	report.Status = models.ReportStatusReviewed
	return report, nil
}

func editableReport(db *gorm.DB, viewer *models.User, id uint) (*models.DailyReport, error) {
	report, err := findReport(db, id)
	if err != nil {
		return nil, err
	}
	if !report.IsOwnedBy(viewer.ID) {
		return nil, NewForbiddenError("自分の日報のみ編集できます")
	}
	if !report.IsDraft() {
		return nil, NewForbiddenError("提出済みの日報は編集できません")
	}
	return report, nil
}

// checkReportInput enforces the rules that hold for every report write.
func checkReportInput(db *gorm.DB, in *ReportInput) error {
	if validation.IsFutureDate(in.ReportDate) {
		return NewFieldError("report_date", "報告日に未来の日付は指定できません")
	}
	if in.Status != models.ReportStatusDraft && in.Status != models.ReportStatusSubmitted {
		return NewFieldError("status", "ステータスはDRAFTまたはSUBMITTEDを指定してください")
	}
	if len(in.Visits) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(in.Visits))
	for _, v := range in.Visits {
		ids = append(ids, v.CustomerID)
	}
	var found []uint
	if err := db.Model(&models.Customer{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return fmt.Errorf("failed to check customers: %w", err)
	}
	known := make(map[uint]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	var details []dto.ErrorDetail
	for i, v := range in.Visits {
		if !known[v.CustomerID] {
			details = append(details, dto.ErrorDetail{
				Field:   fmt.Sprintf("visit_records[%d].customer_id", i),
				Message: "顧客が見つかりません",
			})
		}
	}
	if len(details) > 0 {
		return NewValidationError("", details...)
	}
	return nil
}

func checkDuplicateDate(db *gorm.DB, salespersonID uint, date time.Time, exceptID uint) error {
	query := db.Model(&models.DailyReport{}).
		Where("salesperson_id = ? AND report_date = ?", salespersonID, date)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check duplicate report: %w", err)
	}
	if count > 0 {
		return NewConflictError("指定された日付の日報は既に存在します")
	}
	return nil
}

// replaceVisits deletes the report's visit records and inserts visits in order.
func replaceVisits(tx *gorm.DB, reportID uint, visits []VisitInput) error {
	if err := tx.Where("daily_report_id = ?", reportID).Delete(&models.VisitRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear visit records: %w", err)
	}
	if len(visits) == 0 {
		return nil
	}
	records := make([]models.VisitRecord, 0, len(visits))
	for i, v := range visits {
		records = append(records, models.VisitRecord{
			DailyReportID: reportID,
			CustomerID:    v.CustomerID,
			VisitContent:  v.VisitContent,
			VisitedAt:     v.VisitedAt,
			VisitOrder:    i + 1,
		})
	}
	if err := tx.Omit("Customer").Create(&records).Error; err != nil {
		return fmt.Errorf("failed to create visit records: %w", err)
	}
	return nil
}
