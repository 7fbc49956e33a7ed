package validation

import (
	"net/url"
	"strconv"
	"strings"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	rules "daily_report_app_go/validation"
)

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required" label:"パスワード"`
}

func ParseLoginForm(v url.Values) LoginForm {
	return LoginForm{Email: strings.TrimSpace(v.Get("email")), Password: v.Get("password")}
}

func (f LoginForm) Validate() Errors {
	return fromDetails(rules.Struct(f))
}

func (f LoginForm) Request() dto.LoginRequest {
	return dto.LoginRequest{Email: f.Email, Password: f.Password}
}

// CustomerForm is the customer create and edit form.
type CustomerForm struct {
	CompanyName string `form:"company_name" validate:"required,max=200" label:"会社名"`
	ContactName string `form:"contact_name" validate:"required,max=100" label:"担当者名"`
	Address     string `form:"address" validate:"max=500" label:"住所"`
	Phone       string `form:"phone" validate:"max=20,phone" label:"電話番号"`
	Email       string `form:"email" validate:"omitempty,email" label:"メールアドレス"`
}

func ParseCustomerForm(v url.Values) CustomerForm {
	return CustomerForm{
		CompanyName: v.Get("company_name"),
		ContactName: v.Get("contact_name"),
		Address:     v.Get("address"),
		Phone:       strings.TrimSpace(v.Get("phone")),
		Email:       strings.TrimSpace(v.Get("email")),
	}
}

// CustomerFormFrom fills the form from an existing customer.
func CustomerFormFrom(c *dto.CustomerResponse) CustomerForm {
	return CustomerForm{
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Address:     deref(c.Address),
		Phone:       deref(c.Phone),
		Email:       deref(c.Email),
	}
}

func (f CustomerForm) Validate() Errors {
	return fromDetails(rules.Struct(f))
}

// Request builds the API payload. Empty optional fields are left out.
func (f CustomerForm) Request() dto.CustomerRequest {
	return dto.CustomerRequest{
		CompanyName: f.CompanyName,
		ContactName: f.ContactName,
		Address:     optional(f.Address),
		Phone:       optional(f.Phone),
		Email:       optional(f.Email),
	}
}

// CommentForm is the comment composer under a report section.
type CommentForm struct {
	Target  string `form:"target" validate:"oneof=PROBLEM PLAN"`
	Content string `form:"content" validate:"notblank,max=1000,nomarkup" label:"コメント"`
}

func ParseCommentForm(v url.Values) CommentForm {
	return CommentForm{Target: v.Get("target"), Content: v.Get("content")}
}

func (f CommentForm) Validate() Errors {
	return fromDetails(rules.Struct(f))
}

// Request sends the trimmed content.
func (f CommentForm) Request() dto.CommentRequest {
	return dto.CommentRequest{
		Target:  models.CommentTarget(f.Target),
		Content: strings.TrimSpace(f.Content),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseID(s string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
