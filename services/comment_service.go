package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

// CreateComment adds a manager comment to a SUBMITTED or REVIEWED report.
func CreateComment(db *gorm.DB, viewer *models.User, reportID uint, req dto.CommentRequest) (*models.Comment, error) {
	if !viewer.IsManager() {
		return nil, NewForbiddenError("上長のみコメントを投稿できます")
	}

	var report models.DailyReport
	if err := db.Select("id", "status").First(&report, reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("日報が見つかりません")
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report.IsDraft() {
		return nil, NewForbiddenError("下書きの日報にはコメントできません")
	}
	if !req.Target.Valid() {
		return nil, NewFieldError("target", "targetはPROBLEMまたはPLANを指定してください")
	}

	content := req.Content
	if strings.TrimSpace(content) == "" {
		return nil, NewFieldError("content", "コメントを入力してください")
	}

	comment := &models.Comment{
		DailyReportID: report.ID,
		ManagerID:     viewer.ID,
		Target:        req.Target,
		Content:       content,
	}
	if err := db.Omit("Manager").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Manager = *viewer
	return comment, nil
}
