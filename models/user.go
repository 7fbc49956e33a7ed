package models

import (
	"time"
)

// Role identifies what a user may do in the application.
type Role string

const (
	RoleSales   Role = "SALES"
	RoleManager Role = "MANAGER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSales || r == RoleManager
}

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"not null;size:100" json:"name"`
	Email    string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"not null;size:20;index" json:"role"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsManager checks if the user reviews reports
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsSales checks if the user authors reports
func (u *User) IsSales() bool {
	return u.Role == RoleSales
}
