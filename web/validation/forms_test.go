package validation

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	rules "daily_report_app_go/validation"
	"daily_report_app_go/web/apiclient"
)

func fixClock(t *testing.T) {
	t.Helper()
	prev := rules.Now
	rules.Now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local) }
	t.Cleanup(func() { rules.Now = prev })
}

func TestLoginForm(t *testing.T) {
	errs := ParseLoginForm(url.Values{}).Validate()
	assert.Equal(t, "入力してください", errs.Field("email"))
	assert.Equal(t, "パスワードを入力してください", errs.Field("password"))

	errs = LoginForm{Email: "not-an-email", Password: "x"}.Validate()
	assert.Equal(t, "メール形式で入力してください", errs.Field("email"))
	assert.Empty(t, errs.Field("password"))

	errs = LoginForm{Email: "yamada@example.com", Password: "password123"}.Validate()
	assert.False(t, errs.Any())
}

func TestCustomerForm(t *testing.T) {
	tests := []struct {
		name  string
		form  CustomerForm
		field string
		msg   string
	}{
		{"company required", CustomerForm{ContactName: "田中"}, "company_name", "会社名を入力してください"},
		{"contact required", CustomerForm{CompanyName: "ABC商事"}, "contact_name", "担当者名を入力してください"},
		{"company too long", CustomerForm{CompanyName: strings.Repeat("あ", 201), ContactName: "田中"}, "company_name", "200文字以内で入力してください"},
		{"address too long", CustomerForm{CompanyName: "A", ContactName: "B", Address: strings.Repeat("a", 501)}, "address", "500文字以内で入力してください"},
		{"phone letters", CustomerForm{CompanyName: "A", ContactName: "B", Phone: "03-abcd"}, "phone", "電話番号の形式で入力してください"},
		{"phone too long", CustomerForm{CompanyName: "A", ContactName: "B", Phone: strings.Repeat("1", 21)}, "phone", "20文字以内で入力してください"},
		{"email invalid", CustomerForm{CompanyName: "A", ContactName: "B", Email: "foo@"}, "email", "メール形式で入力してください"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.form.Validate().Field(tt.field))
		})
	}
}

func TestCustomerForm_ValidOptionalFields(t *testing.T) {
	f := CustomerForm{CompanyName: "ABC商事", ContactName: "田中一郎", Phone: "03-1234-5678", Email: "tanaka@abc.co.jp"}
	assert.False(t, f.Validate().Any())

	f = CustomerForm{CompanyName: "ABC商事", ContactName: "田中一郎", Phone: "+81 (3) 1234-5678"}
	assert.False(t, f.Validate().Any())
}

func TestCustomerForm_RequestOmitsEmptyOptionals(t *testing.T) {
	req := ParseCustomerForm(url.Values{
		"company_name": {"ABC商事"},
		"contact_name": {"田中"},
		"address":      {"  "},
		"phone":        {"03-1234-5678"},
	}).Request()

	assert.Nil(t, req.Address)
	assert.Nil(t, req.Email)
	require.NotNil(t, req.Phone)
	assert.Equal(t, "03-1234-5678", *req.Phone)
}

func TestCustomerFormFrom(t *testing.T) {
	phone := "03-0000-0000"
	f := CustomerFormFrom(&dto.CustomerResponse{CompanyName: "A", ContactName: "B", Phone: &phone})
	assert.Equal(t, "03-0000-0000", f.Phone)
	assert.Empty(t, f.Address)
}

func TestCommentForm(t *testing.T) {
	errs := CommentForm{Target: "PROBLEM", Content: "   "}.Validate()
	assert.Equal(t, "コメントを入力してください", errs.Field("content"))

	errs = CommentForm{Target: "PLAN", Content: strings.Repeat("a", 1001)}.Validate()
	assert.Equal(t, "1000文字以内で入力してください", errs.Field("content"))

	errs = CommentForm{Target: "OTHER", Content: "ok"}.Validate()
	assert.NotEmpty(t, errs.Field("target"))

	f := CommentForm{Target: "PROBLEM", Content: "  対応完了  "}
	assert.False(t, f.Validate().Any())
	assert.Equal(t, dto.CommentRequest{Target: models.CommentTargetProblem, Content: "対応完了"}, f.Request())
}

func TestFromAPIError(t *testing.T) {
	errs := FromAPIError(&apiclient.APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: "この日付の日報は既に存在します",
		Details: []dto.ErrorDetail{{Field: "report_date", Message: "重複しています"}},
	})
	assert.Equal(t, "この日付の日報は既に存在します", errs.Form)
	assert.Equal(t, "重複しています", errs.Field("report_date"))

	errs = FromAPIError(&apiclient.APIError{Status: http.StatusInternalServerError, Message: "db down"})
	assert.Equal(t, apiclient.MsgUnknown, errs.Form)
	assert.Empty(t, errs.Fields)
}
