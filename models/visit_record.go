package models

import "time"

// VisitRecord is a single customer visit inside a daily report.
type VisitRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DailyReportID uint `gorm:"not null;index" json:"daily_report_id"`
	CustomerID    uint `gorm:"not null;index" json:"customer_id"`
	// VisitedAt carries the wall-clock time on 1970-01-01 UTC.
	VisitedAt    time.Time `gorm:"not null" json:"visited_at"`
	VisitContent string    `gorm:"type:text;not null" json:"visit_content"`
	VisitOrder   int       `gorm:"not null" json:"visit_order"`

	Customer Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer"`
}

// TableName specifies the table name for VisitRecord model
func (VisitRecord) TableName() string {
	return "visit_records"
}

// TimeString formats the visit time as HH:mm
func (v *VisitRecord) TimeString() string {
	return v.VisitedAt.Format(TimeLayout)
}

// ParseVisitTime parses an HH:mm string into the stored representation.
func ParseVisitTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(1970, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
