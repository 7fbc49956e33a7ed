package models

import (
	"time"

	"gorm.io/gorm"
)

// CommentTarget selects which section of a report a comment refers to.
type CommentTarget string

const (
	CommentTargetProblem CommentTarget = "PROBLEM"
	CommentTargetPlan    CommentTarget = "PLAN"
)

// Valid reports whether t is a known comment target.
func (t CommentTarget) Valid() bool {
	return t == CommentTargetProblem || t == CommentTargetPlan
}

// Comment is an immutable manager remark on a submitted report.
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	DailyReportID uint          `gorm:"not null;index" json:"daily_report_id"`
	ManagerID     uint          `gorm:"not null;index" json:"manager_id"`
	Target        CommentTarget `gorm:"not null;size:20" json:"target"`
	Content       string        `gorm:"type:text;not null" json:"content"`

	Manager User `gorm:"foreignKey:ManagerID" json:"manager"`
}

// TableName specifies the table name for Comment model
func (Comment) TableName() string {
	return "comments"
}

// BeforeUpdate prevents modification of comments
func (c *Comment) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutable
}
