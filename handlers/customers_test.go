package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

func TestCustomerEndpoints(t *testing.T) {
	a := newAPITest(t)
	token := a.token(a.user("sales", models.RoleSales))

	rec := a.do(http.MethodPost, "/customers", token, dto.CustomerRequest{
		CompanyName: "株式会社ABC商事",
		ContactName: "田中 一郎",
		Phone:       stringToPtr("03-1234-5678"),
		Email:       stringToPtr("tanaka@abc.example.com"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.DataResponse[dto.CustomerResponse]](t, rec).Data
	assert.NotZero(t, created.ID)
	path := fmt.Sprintf("/customers/%d", created.ID)

	rec = a.do(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "田中 一郎", decode[dto.DataResponse[dto.CustomerResponse]](t, rec).Data.ContactName)

	rec = a.do(http.MethodPut, path, token, dto.CustomerRequest{CompanyName: "株式会社ABC", ContactName: "田中"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[dto.DataResponse[dto.CustomerResponse]](t, rec).Data
	assert.Equal(t, "株式会社ABC", updated.CompanyName)
	assert.Nil(t, updated.Phone)

	rec = a.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerValidation(t *testing.T) {
	a := newAPITest(t)
	token := a.token(a.user("sales", models.RoleSales))

	rec := a.do(http.MethodPost, "/customers", token, dto.CustomerRequest{
		Phone: stringToPtr("abc"),
		Email: stringToPtr("nope"),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := map[string]string{}
	for _, d := range errorBody(t, rec).Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "会社名を入力してください", fields["company_name"])
	assert.Equal(t, "担当者名を入力してください", fields["contact_name"])
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "email")

	rec = a.do(http.MethodGet, "/customers/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, "/customers/999", token, dto.CustomerRequest{CompanyName: "x", ContactName: "y"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerDeleteInUse(t *testing.T) {
	a := newAPITest(t)
	token := a.token(a.user("sales", models.RoleSales))
	customer := a.customer("使用中の顧客")

	rec := a.do(http.MethodPost, "/reports", token, dto.ReportRequest{
		ReportDate:   today(),
		Status:       models.ReportStatusDraft,
		VisitRecords: []dto.VisitRecordRequest{{CustomerID: customer.ID, VisitContent: "訪問", VisitedAt: "10:00"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodDelete, fmt.Sprintf("/customers/%d", customer.ID), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "この顧客は訪問記録で使用されているため削除できません", errorBody(t, rec).Message)
}

func TestListCustomersHandler(t *testing.T) {
	a := newAPITest(t)
	token := a.token(a.user("sales", models.RoleSales))
	for i := 1; i <= 25; i++ {
		a.customer(fmt.Sprintf("会社%02d", i))
	}
	a.customer("Special Corp")

	rec := a.do(http.MethodGet, "/customers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[dto.PaginatedResponse[dto.CustomerListItem]](t, rec)
	assert.Len(t, page.Data, 20)
	assert.Equal(t, dto.Pagination{CurrentPage: 1, PerPage: 20, TotalCount: 26, TotalPages: 2}, page.Pagination)

	rec = a.do(http.MethodGet, "/customers?page=2", token, nil)
	page = decode[dto.PaginatedResponse[dto.CustomerListItem]](t, rec)
	assert.Len(t, page.Data, 6)

	rec = a.do(http.MethodGet, "/customers?company_name=special", token, nil)
	page = decode[dto.PaginatedResponse[dto.CustomerListItem]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Special Corp", page.Data[0].CompanyName)

	rec = a.do(http.MethodGet, "/customers?company_name=nothing", token, nil)
	page = decode[dto.PaginatedResponse[dto.CustomerListItem]](t, rec)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	assert.Equal(t, 1, page.Pagination.TotalPages)

	rec = a.do(http.MethodGet, "/customers?per_page=101", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/customers?sort=address", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
