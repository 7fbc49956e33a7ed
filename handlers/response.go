package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"daily_report_app_go/config"
	"daily_report_app_go/db"
	"daily_report_app_go/dto"
	"daily_report_app_go/middleware"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
	"daily_report_app_go/validation"
)

const msgMalformedBody = "リクエストの形式が正しくありません"

func respondData[T any](c echo.Context, status int, data T) error {
	return c.JSON(status, dto.DataResponse[T]{Data: data})
}

func respondPage[T any](c echo.Context, items []T, total int64, page services.PageParams) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, dto.PaginatedResponse[T]{
		Data:       items,
		Pagination: dto.NewPagination(total, page.Page, page.PerPage),
	})
}

// bindAndValidate decodes the JSON body into dst and runs its validate tags.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return services.NewValidationError(msgMalformedBody)
	}
	if details := validation.Struct(dst); len(details) > 0 {
		return services.NewValidationError("", details...)
	}
	return nil
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, services.NewFieldError(name, "無効なIDです")
	}
	return uint(id), nil
}

// pageParams reads page, per_page, sort and order. Absent values take the
// defaults; malformed numbers are rejected.
func pageParams(c echo.Context) (services.PageParams, error) {
	p := services.PageParams{
		Page:    1,
		PerPage: services.DefaultPerPage,
		Sort:    c.QueryParam("sort"),
		Order:   c.QueryParam("order"),
	}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, services.NewFieldError("page", "1以上の値を指定してください")
		}
		p.Page = n
	}
	if v := c.QueryParam("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, services.NewFieldError("per_page", "1から100の範囲で指定してください")
		}
		p.PerPage = n
	}
	return p, services.ValidatePage(p.Page, p.PerPage)
}

func queryDate(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := services.ParseDate(name, v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg
	}
	return &config.Config{EmailTestMode: true}
}

// recordAudit writes an audit entry for the acting user in the background.
func recordAudit(c echo.Context, action models.AuditAction, resourceType string, resourceID uint, description string, oldValues, newValues interface{}) {
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), services.AuditEvent{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Description:  description,
		OldValues:    oldValues,
		NewValues:    newValues,
	})
}
