package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/dto"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_ReturnsUserAndCookieToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "yamada@example.com", req.Email)
		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "tok123", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, dto.DataResponse[dto.LoginResponse]{
			Data: dto.LoginResponse{User: dto.UserResponse{ID: 7, Name: "山田", Role: "SALES"}},
		})
	})
	c := newTestClient(t, mux)

	user, token, err := c.Login(context.Background(), dto.LoginRequest{Email: "yamada@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "山田", user.Name)
}

func TestLogin_InvalidCredentialsKeepsServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: dto.ErrorBody{
			Code: "UNAUTHORIZED", Message: "メールアドレスまたはパスワードが正しくありません",
		}})
	})
	c := newTestClient(t, mux)

	_, _, err := c.Login(context.Background(), dto.LoginRequest{Email: "a@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "メールアドレスまたはパスワードが正しくありません", UserMessage(err))
}

func TestRequests_SendBearerToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: dto.ErrorBody{Code: "UNAUTHORIZED"}})
			return
		}
		writeJSON(w, http.StatusOK, dto.DataResponse[dto.UserResponse]{Data: dto.UserResponse{ID: 3, Role: "MANAGER"}})
	})
	c := newTestClient(t, mux)

	me, err := c.Me(context.Background(), "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(3), me.ID)

	_, err = c.Me(context.Background(), "wrong")
	assert.True(t, IsUnauthorized(err))
}

func TestErrorEnvelopeIsNormalised(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/customers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
			Code:    "VALIDATION_ERROR",
			Message: "入力内容に誤りがあります",
			Details: []dto.ErrorDetail{
				{Field: "company_name", Message: "会社名を入力してください"},
				{Field: "company_name", Message: "200文字以内で入力してください"},
			},
		}})
	})
	c := newTestClient(t, mux)

	_, err := c.CreateCustomer(context.Background(), "t", dto.CustomerRequest{})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "会社名を入力してください", apiErr.FieldErrors()["company_name"])
	assert.True(t, IsClientError(err))
	assert.Equal(t, "入力内容に誤りがあります", UserMessage(err))
}

func TestServerErrorFallsBackToGenericMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/reports/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	c := newTestClient(t, mux)

	_, err := c.GetReport(context.Background(), "t", 1)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnknown, apiErr.Code)
	assert.False(t, IsClientError(err))
	assert.Equal(t, MsgUnknown, UserMessage(err))
}

func TestNetworkFailureIsNotAnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	c := New(srv.URL)
	srv.Close()

	_, err := c.Me(context.Background(), "t")
	require.Error(t, err)
	_, ok := AsAPIError(err)
	assert.False(t, ok)
	assert.Equal(t, MsgUnknown, UserMessage(err))
}

func TestReportQueryParamsOmitEmptyValues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/reports", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2026-10-01", q.Get("date_from"))
		assert.Equal(t, "4", q.Get("salesperson_id"))
		assert.False(t, q.Has("status"))
		assert.Equal(t, "2", q.Get("page"))
		writeJSON(w, http.StatusOK, dto.PaginatedResponse[dto.ReportListItem]{
			Data:       []dto.ReportListItem{{ID: 1}},
			Pagination: dto.NewPagination(21, 2, 20),
		})
	})
	c := newTestClient(t, mux)

	page, err := c.ListReports(context.Background(), "t", ReportQuery{DateFrom: "2026-10-01", SalespersonID: 4, Page: 2, PerPage: 20})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestDeleteHandlesNoContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/customers/9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)

	assert.NoError(t, c.DeleteCustomer(context.Background(), "t", 9))
}

func TestExportReadsFilename(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/reports/export", func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("page"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="daily_reports_20261017.xlsx"`)
		_, _ = w.Write([]byte("PK"))
	})
	c := newTestClient(t, mux)

	exp, err := c.ExportReports(context.Background(), "t", ReportQuery{Page: 3, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, "daily_reports_20261017.xlsx", exp.Filename)
	assert.Equal(t, []byte("PK"), exp.Body)
}

func TestAsAPIErrorUnwraps(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &APIError{Status: 404, Code: "NOT_FOUND"})
	assert.True(t, IsStatus(wrapped, 404))
	assert.False(t, IsUnauthorized(wrapped))
}
