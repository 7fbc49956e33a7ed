package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

func firstPage() PageParams {
	return PageParams{Page: 1, PerPage: DefaultPerPage}
}

func TestCustomerCRUD(t *testing.T) {
	conn := setupTestDB(t)

	created, err := CreateCustomer(conn, dto.CustomerRequest{
		CompanyName: " 株式会社ABC ",
		ContactName: "田中",
		Phone:       ptr("03-1234-5678"),
		Email:       ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "株式会社ABC", created.CompanyName)
	assert.Nil(t, created.Email)
	require.NotNil(t, created.Phone)

	updated, err := UpdateCustomer(conn, created.ID, dto.CustomerRequest{
		CompanyName: "株式会社ABC商事",
		ContactName: "田中 一郎",
		Address:     ptr("東京都"),
	})
	require.NoError(t, err)
	assert.Equal(t, "株式会社ABC商事", updated.CompanyName)
	assert.Nil(t, updated.Phone)

	got, err := GetCustomer(conn, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "東京都", *got.Address)

	_, err = GetCustomer(conn, 9999)
	assert.True(t, IsCode(err, CodeNotFound))

	_, err = UpdateCustomer(conn, 9999, dto.CustomerRequest{CompanyName: "x", ContactName: "y"})
	assert.True(t, IsCode(err, CodeNotFound))

	deleted, err := DeleteCustomer(conn, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = GetCustomer(conn, created.ID)
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestDeleteCustomerInUse(t *testing.T) {
	conn := setupTestDB(t)
	sales := createTestUser(t, conn, "sales", models.RoleSales)
	customer := createTestCustomer(t, conn, "使用中")

	_, err := CreateReport(conn, sales, &ReportInput{
		ReportDate: daysAgo(1),
		Status:     models.ReportStatusDraft,
		Visits:     []VisitInput{{CustomerID: customer.ID, VisitContent: "訪問", VisitedAt: visitAt(t, "10:00")}},
	})
	require.NoError(t, err)

	_, err = DeleteCustomer(conn, customer.ID)
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, appErr.Code)
	assert.Equal(t, "この顧客は訪問記録で使用されているため削除できません", appErr.Message)

	_, err = GetCustomer(conn, customer.ID)
	assert.NoError(t, err)
}

func TestListCustomers(t *testing.T) {
	conn := setupTestDB(t)
	for _, name := range []string{"Beta Corp", "alpha inc", "Gamma 100%", "ALPHA Trading"} {
		createTestCustomer(t, conn, name)
	}

	t.Run("default order is company name ascending by byte value", func(t *testing.T) {
		customers, total, err := ListCustomers(conn, CustomerFilter{PageParams: firstPage()})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Equal(t, "ALPHA Trading", customers[0].CompanyName)
		assert.Equal(t, "alpha inc", customers[3].CompanyName)
	})

	t.Run("partial case-insensitive match", func(t *testing.T) {
		customers, total, err := ListCustomers(conn, CustomerFilter{CompanyName: "alpha", PageParams: firstPage()})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, customers, 2)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		_, total, err := ListCustomers(conn, CustomerFilter{CompanyName: "%", PageParams: firstPage()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		_, total, err = ListCustomers(conn, CustomerFilter{CompanyName: "_", PageParams: firstPage()})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("contact name filter", func(t *testing.T) {
		_, total, err := ListCustomers(conn, CustomerFilter{ContactName: "担当 beta", PageParams: firstPage()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("paging and descending order", func(t *testing.T) {
		customers, total, err := ListCustomers(conn, CustomerFilter{PageParams: PageParams{Page: 2, PerPage: 3, Order: "DESC"}})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, customers, 1)
		assert.Equal(t, "ALPHA Trading", customers[0].CompanyName)
	})

	t.Run("rejects bad paging and sort", func(t *testing.T) {
		_, _, err := ListCustomers(conn, CustomerFilter{PageParams: PageParams{Page: 0, PerPage: 20}})
		assert.True(t, IsCode(err, CodeValidation))

		_, _, err = ListCustomers(conn, CustomerFilter{PageParams: PageParams{Page: 1, PerPage: 101}})
		assert.True(t, IsCode(err, CodeValidation))

		_, _, err = ListCustomers(conn, CustomerFilter{PageParams: PageParams{Page: 1, PerPage: 20, Sort: "address"}})
		assert.True(t, IsCode(err, CodeValidation))
	})
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%abc%`, likePattern("ABC"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestValidatePage(t *testing.T) {
	assert.NoError(t, ValidatePage(1, 1))
	assert.NoError(t, ValidatePage(3, MaxPerPage))

	err := ValidatePage(0, 0)
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	require.Len(t, appErr.Details, 2)
	assert.Equal(t, "page", appErr.Details[0].Field)
	assert.Equal(t, "per_page", appErr.Details[1].Field)

	assert.Equal(t, 40, PageParams{Page: 3, PerPage: 20}.Offset())
}
