package models

import "time"

// Customer is an entry of the customer master visited by salespeople.
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyName string  `gorm:"not null;size:200;index" json:"company_name"`
	ContactName string  `gorm:"not null;size:100;index" json:"contact_name"`
	Address     *string `gorm:"size:500" json:"address"`
	Phone       *string `gorm:"size:20" json:"phone"`
	Email       *string `gorm:"size:255" json:"email"`
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}
