package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

func TestCreateComment(t *testing.T) {
	f := newReportFixture(t)
	report := f.draft(t, f.sales, daysAgo(1))
	req := dto.CommentRequest{Target: models.CommentTargetProblem, Content: "確認しました"}

	t.Run("draft reports cannot be commented", func(t *testing.T) {
		_, err := CreateComment(f.db, f.manager, report.ID, req)
		appErr, ok := AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, CodeForbidden, appErr.Code)
		assert.Equal(t, "下書きの日報にはコメントできません", appErr.Message)
	})

	_, err := SubmitReport(f.db, f.sales, report.ID)
	require.NoError(t, err)

	t.Run("sales cannot comment", func(t *testing.T) {
		_, err := CreateComment(f.db, f.sales, report.ID, req)
		appErr, ok := AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "上長のみコメントを投稿できます", appErr.Message)
	})

	t.Run("missing report", func(t *testing.T) {
		_, err := CreateComment(f.db, f.manager, 999, req)
		assert.True(t, IsCode(err, CodeNotFound))
	})

	t.Run("invalid target", func(t *testing.T) {
		_, err := CreateComment(f.db, f.manager, report.ID, dto.CommentRequest{Target: "VISIT", Content: "x"})
		assert.True(t, IsCode(err, CodeValidation))
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := CreateComment(f.db, f.manager, report.ID, dto.CommentRequest{Target: models.CommentTargetPlan, Content: "  \n "})
		appErr, ok := AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "content", appErr.Details[0].Field)
	})

	t.Run("manager comments on problem and plan", func(t *testing.T) {
		c1, err := CreateComment(f.db, f.manager, report.ID, dto.CommentRequest{Target: models.CommentTargetProblem, Content: "値引き<5%は不可"})
		require.NoError(t, err)
		assert.Equal(t, "値引き<5%は不可", c1.Content)
		assert.Equal(t, "manager", c1.Manager.Name)

		_, err = CreateComment(f.db, f.manager, report.ID, dto.CommentRequest{Target: models.CommentTargetPlan, Content: "了解"})
		require.NoError(t, err)

		detail, err := GetReport(f.db, f.sales, report.ID)
		require.NoError(t, err)
		require.Len(t, detail.Comments, 2)
		assert.Equal(t, models.CommentTargetProblem, detail.Comments[0].Target)
		assert.Equal(t, "manager", detail.Comments[1].Manager.Name)
	})

	t.Run("reviewed reports accept comments", func(t *testing.T) {
		_, err := ReviewReport(f.db, f.manager, report.ID)
		require.NoError(t, err)
		_, err = CreateComment(f.db, f.manager, report.ID, req)
		assert.NoError(t, err)
	})

	t.Run("comments are immutable", func(t *testing.T) {
		var c models.Comment
		require.NoError(t, f.db.First(&c).Error)
		c.Content = "changed"
		assert.Error(t, f.db.Save(&c).Error)
	})
}
