package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"daily_report_app_go/models"
)

// MaxExportRows caps the number of reports written to one workbook.
const MaxExportRows = 5000

const (
	exportReportSheet = "日報一覧"
	exportVisitSheet  = "訪問記録"
)

// ExportReports writes the reports matching f into an xlsx workbook with a
// report sheet and a visit sheet. Managers only.
func ExportReports(db *gorm.DB, viewer *models.User, f ReportFilter) (*bytes.Buffer, error) {
	if !viewer.IsManager() {
		return nil, NewForbiddenError("")
	}
	column, order, err := resolveOrder(f.Sort, f.Order, reportSortColumns, "report_date", "desc")
	if err != nil {
		return nil, err
	}
	query, err := reportListQuery(db, viewer, f)
	if err != nil {
		return nil, err
	}

	var reports []models.DailyReport
	err = query.Preload("Salesperson").
		Preload("VisitRecords", func(tx *gorm.DB) *gorm.DB { return tx.Order("visit_order ASC") }).
		Preload("VisitRecords.Customer").
		Order(column + " " + order).Order("id DESC").
		Limit(MaxExportRows).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reports for export: %w", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", exportReportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := wb.NewSheet(exportVisitSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	headerStyle, _ := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	writeRow := func(sheet string, row int, values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return wb.SetSheetRow(sheet, cell, &values)
	}

	reportHeaders := []interface{}{"ID", "報告日", "担当者", "ステータス", "訪問件数", "提出日時", "課題・相談", "明日やること"}
	visitHeaders := []interface{}{"日報ID", "報告日", "担当者", "訪問順", "訪問時刻", "会社名", "担当者名", "訪問内容"}
	if err := writeRow(exportReportSheet, 1, reportHeaders...); err != nil {
		return nil, err
	}
	if err := writeRow(exportVisitSheet, 1, visitHeaders...); err != nil {
		return nil, err
	}
	_ = wb.SetCellStyle(exportReportSheet, "A1", "H1", headerStyle)
	_ = wb.SetCellStyle(exportVisitSheet, "A1", "H1", headerStyle)

	visitRow := 2
	for i := range reports {
		r := &reports[i]
		submittedAt := ""
		if r.SubmittedAt != nil {
			submittedAt = r.SubmittedAt.Format("2006-01-02 15:04")
		}
		err := writeRow(exportReportSheet, i+2,
			r.ID, r.DateString(), r.Salesperson.Name, r.Status.Label(),
			len(r.VisitRecords), submittedAt, deref(r.Problem), deref(r.Plan))
		if err != nil {
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
		for j := range r.VisitRecords {
			v := &r.VisitRecords[j]
			err := writeRow(exportVisitSheet, visitRow,
				r.ID, r.DateString(), r.Salesperson.Name, v.VisitOrder, v.TimeString(),
				v.Customer.CompanyName, v.Customer.ContactName, v.VisitContent)
			if err != nil {
				return nil, fmt.Errorf("failed to write visit row: %w", err)
			}
			visitRow++
		}
	}

	_ = wb.SetColWidth(exportReportSheet, "B", "C", 14)
	_ = wb.SetColWidth(exportReportSheet, "G", "H", 40)
	_ = wb.SetColWidth(exportVisitSheet, "F", "H", 30)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
