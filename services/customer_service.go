package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

var customerSortColumns = map[string]string{
	"company_name": "company_name",
	"contact_name": "contact_name",
}

// CustomerFilter narrows the customer list. Names match partially and
// case-insensitively.
type CustomerFilter struct {
	CompanyName string
	ContactName string
	PageParams
}

// ListCustomers returns one page of customers and the total match count.
func ListCustomers(db *gorm.DB, f CustomerFilter) ([]models.Customer, int64, error) {
	if err := ValidatePage(f.Page, f.PerPage); err != nil {
		return nil, 0, err
	}
	column, order, err := resolveOrder(f.Sort, f.Order, customerSortColumns, "company_name", "asc")
	if err != nil {
		return nil, 0, err
	}

	query := db.Model(&models.Customer{})
	if name := strings.TrimSpace(f.CompanyName); name != "" {
		query = query.Where("LOWER(company_name) LIKE ? ESCAPE '\\'", likePattern(name))
	}
	if name := strings.TrimSpace(f.ContactName); name != "" {
		query = query.Where("LOWER(contact_name) LIKE ? ESCAPE '\\'", likePattern(name))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	var customers []models.Customer
	err = query.Order(column + " " + order).Order("id ASC").
		Offset(f.Offset()).Limit(f.PerPage).
		Find(&customers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

// GetCustomer loads a customer by id.
func GetCustomer(db *gorm.DB, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("顧客が見つかりません")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

// CreateCustomer inserts a customer from a validated request.
func CreateCustomer(db *gorm.DB, req dto.CustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{}
	applyCustomer(customer, req)
	if err := db.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// UpdateCustomer replaces every editable field of a customer.
func UpdateCustomer(db *gorm.DB, id uint, req dto.CustomerRequest) (*models.Customer, error) {
	customer, err := GetCustomer(db, id)
	if err != nil {
		return nil, err
	}
	applyCustomer(customer, req)
	if err := db.Save(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer that no visit record refers to.
func DeleteCustomer(db *gorm.DB, id uint) (*models.Customer, error) {
	customer, err := GetCustomer(db, id)
	if err != nil {
		return nil, err
	}

	var uses int64
	if err := db.Model(&models.VisitRecord{}).Where("customer_id = ?", id).Count(&uses).Error; err != nil {
		return nil, fmt.Errorf("failed to check customer usage: %w", err)
	}
	if uses > 0 {
		return nil, NewConflictError("この顧客は訪問記録で使用されているため削除できません")
	}

	if err := db.Delete(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to delete customer: %w", err)
	}
	return customer, nil
}

func applyCustomer(c *models.Customer, req dto.CustomerRequest) {
	c.CompanyName = strings.TrimSpace(req.CompanyName)
	c.ContactName = strings.TrimSpace(req.ContactName)
	c.Address = emptyToNil(req.Address)
	c.Phone = emptyToNil(req.Phone)
	c.Email = emptyToNil(req.Email)
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// likePattern escapes LIKE wildcards and lowercases the term.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(term)) + "%"
}
