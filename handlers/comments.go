package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"daily_report_app_go/db"
	"daily_report_app_go/dto"
	"daily_report_app_go/middleware"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
)

// CreateCommentHandler handles POST /reports/:id/comments
func CreateCommentHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.IsManager() {
		return services.NewForbiddenError("上長のみコメントを投稿できます")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := services.CreateComment(db.DB, user, id, req)
	if err != nil {
		return err
	}

	resp := dto.NewCommentResponse(comment)
	recordAudit(c, models.AuditActionCreate, "comment", comment.ID, string(comment.Target), nil, resp)
	return respondData(c, http.StatusCreated, resp)
}
