package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"daily_report_app_go/db"
	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
)

// ListCustomersHandler handles GET /customers
func ListCustomersHandler(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	customers, total, err := services.ListCustomers(db.DB, services.CustomerFilter{
		CompanyName: c.QueryParam("company_name"),
		ContactName: c.QueryParam("contact_name"),
		PageParams:  page,
	})
	if err != nil {
		return err
	}

	items := make([]dto.CustomerListItem, 0, len(customers))
	for i := range customers {
		items = append(items, dto.NewCustomerListItem(&customers[i]))
	}
	return respondPage(c, items, total, page)
}

// GetCustomerHandler handles GET /customers/:id
func GetCustomerHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	customer, err := services.GetCustomer(db.DB, id)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, dto.NewCustomerResponse(customer))
}

// CreateCustomerHandler handles POST /customers
func CreateCustomerHandler(c echo.Context) error {
	var req dto.CustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	customer, err := services.CreateCustomer(db.DB, req)
	if err != nil {
		return err
	}

	resp := dto.NewCustomerResponse(customer)
	recordAudit(c, models.AuditActionCreate, "customer", customer.ID, customer.CompanyName, nil, resp)
	return respondData(c, http.StatusCreated, resp)
}

// UpdateCustomerHandler handles PUT /customers/:id
func UpdateCustomerHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	before, err := services.GetCustomer(db.DB, id)
	if err != nil {
		return err
	}
	oldValues := dto.NewCustomerResponse(before)

	customer, err := services.UpdateCustomer(db.DB, id, req)
	if err != nil {
		return err
	}

	resp := dto.NewCustomerResponse(customer)
	recordAudit(c, models.AuditActionUpdate, "customer", customer.ID, customer.CompanyName, oldValues, resp)
	return respondData(c, http.StatusOK, resp)
}

// DeleteCustomerHandler handles DELETE /customers/:id
func DeleteCustomerHandler(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	customer, err := services.DeleteCustomer(db.DB, id)
	if err != nil {
		return err
	}

	recordAudit(c, models.AuditActionDelete, "customer", customer.ID, customer.CompanyName, dto.NewCustomerResponse(customer), nil)
	return c.NoContent(http.StatusNoContent)
}
