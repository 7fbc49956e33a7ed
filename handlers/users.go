package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"daily_report_app_go/db"
	"daily_report_app_go/dto"
	"daily_report_app_go/middleware"
	"daily_report_app_go/services"
)

// ListUsersHandler handles GET /users?role=
func ListUsersHandler(c echo.Context) error {
	users, err := services.ListUsers(db.DB, middleware.GetCurrentUser(c), c.QueryParam("role"))
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return respondData(c, http.StatusOK, items)
}
