package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"daily_report_app_go/dto"
	"daily_report_app_go/services"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", services.NewConflictError("重複"), http.StatusConflict, services.CodeConflict},
		{"wrapped app error", errors.Join(errors.New("ctx"), services.NewNotFoundError("")), http.StatusNotFound, services.CodeNotFound},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, services.CodeNotFound},
		{"echo method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, services.CodeNotFound},
		{"echo bad request", echo.NewHTTPError(http.StatusBadRequest, "bad"), http.StatusBadRequest, services.CodeValidation},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, services.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c, rec := setupEcho(http.MethodGet, "/", nil)
			HTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			body := decode[dto.ErrorResponse](t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}

	t.Run("details are kept", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		HTTPErrorHandler(services.NewFieldError("company_name", "会社名を入力してください"), c)
		body := decode[dto.ErrorResponse](t, rec)
		assert.Equal(t, []dto.ErrorDetail{{Field: "company_name", Message: "会社名を入力してください"}}, body.Error.Details)
	})

	t.Run("unknown route through the server", func(t *testing.T) {
		a := newAPITest(t)
		rec := a.do(http.MethodGet, "/nope", "", nil)
		assert.Contains(t, []int{http.StatusNotFound, http.StatusUnauthorized}, rec.Code)
		assert.NotEmpty(t, errorBody(t, rec).Code)
	})
}

func TestPageParams(t *testing.T) {
	_, c, _ := setupEcho(http.MethodGet, "/?page=2&per_page=50&sort=status&order=asc", nil)
	p, err := pageParams(c)
	assert.NoError(t, err)
	assert.Equal(t, services.PageParams{Page: 2, PerPage: 50, Sort: "status", Order: "asc"}, p)

	_, c, _ = setupEcho(http.MethodGet, "/", nil)
	p, err = pageParams(c)
	assert.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, services.DefaultPerPage, p.PerPage)

	for _, q := range []string{"?page=0", "?per_page=101", "?page=x", "?per_page=0"} {
		_, c, _ = setupEcho(http.MethodGet, "/"+q, nil)
		_, err = pageParams(c)
		assert.True(t, services.IsCode(err, services.CodeValidation), q)
	}
}
