package dto

import (
	"time"

	"daily_report_app_go/models"
)

// CustomerRequest is the body of customer create and update.
type CustomerRequest struct {
	CompanyName string  `json:"company_name" validate:"required,max=200" label:"会社名"`
	ContactName string  `json:"contact_name" validate:"required,max=100" label:"担当者名"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500" label:"住所"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20,phone" label:"電話番号"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email" label:"メールアドレス"`
}

type CustomerResponse struct {
	ID          uint      `json:"id"`
	CompanyName string    `json:"company_name"`
	ContactName string    `json:"contact_name"`
	Address     *string   `json:"address"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CustomerListItem struct {
	ID          uint    `json:"id"`
	CompanyName string  `json:"company_name"`
	ContactName string  `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
}

func NewCustomerResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewCustomerListItem(c *models.Customer) CustomerListItem {
	return CustomerListItem{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
	}
}
