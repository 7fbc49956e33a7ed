package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"daily_report_app_go/db"
)

// HealthHandler reports whether the API and its database are reachable.
func HealthHandler(c echo.Context) error {
	status := "ok"
	code := http.StatusOK
	if sqlDB, err := db.DB.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]string{"status": status})
}
