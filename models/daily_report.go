package models

import (
	"time"
)

// ReportStatus is the lifecycle state of a daily report.
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "DRAFT"
	ReportStatusSubmitted ReportStatus = "SUBMITTED"
	ReportStatusReviewed  ReportStatus = "REVIEWED"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusDraft, ReportStatusSubmitted, ReportStatusReviewed:
		return true
	}
	return false
}

// Label returns the Japanese display label used by badges and exports.
func (s ReportStatus) Label() string {
	switch s {
	case ReportStatusDraft:
		return "下書き"
	case ReportStatusSubmitted:
		return "提出済"
	case ReportStatusReviewed:
		return "確認済"
	}
	return string(s)
}

// DateLayout is the wire and storage format of report dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format of visit times.
const TimeLayout = "15:04"

// DailyReport is one salesperson's report for one calendar day.
//
// A report is mutable by its owner only while DRAFT. SUBMITTED and
// REVIEWED reports only accept review transitions and manager comments.
type DailyReport struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SalespersonID uint         `gorm:"not null;uniqueIndex:idx_report_salesperson_date" json:"salesperson_id"`
	ReportDate    time.Time    `gorm:"not null;uniqueIndex:idx_report_salesperson_date;index" json:"report_date"`
	Problem       *string      `gorm:"type:text" json:"problem"`
	Plan          *string      `gorm:"type:text" json:"plan"`
	Status        ReportStatus `gorm:"not null;size:20;default:DRAFT;index" json:"status"`
	SubmittedAt   *time.Time   `json:"submitted_at"`

	// Relationships
	Salesperson  User          `gorm:"foreignKey:SalespersonID" json:"salesperson"`
	VisitRecords []VisitRecord `gorm:"foreignKey:DailyReportID;constraint:OnDelete:CASCADE" json:"visit_records"`
	Comments     []Comment     `gorm:"foreignKey:DailyReportID;constraint:OnDelete:CASCADE" json:"comments"`
}

// TableName specifies the table name for DailyReport model
func (DailyReport) TableName() string {
	return "daily_reports"
}

// IsOwnedBy checks whether userID authored the report
func (r *DailyReport) IsOwnedBy(userID uint) bool {
	return r.SalespersonID == userID
}

// IsDraft checks if the report is still editable by its owner
func (r *DailyReport) IsDraft() bool {
	return r.Status == ReportStatusDraft
}

// DateString formats the report date as YYYY-MM-DD
func (r *DailyReport) DateString() string {
	return r.ReportDate.Format(DateLayout)
}

// NormalizeDate truncates t to midnight UTC of its calendar day so that
// dates compare consistently in storage.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
