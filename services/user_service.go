package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"daily_report_app_go/models"
)

// CreateUserInput holds the fields needed to register a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// CreateUser registers a user with a hashed password.
func CreateUser(db *gorm.DB, in CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		return nil, NewValidationError("名前・メールアドレス・パスワードは必須です")
	}
	if !in.Role.Valid() {
		return nil, NewFieldError("role", "ロールはSALESまたはMANAGERを指定してください")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, NewConflictError("このメールアドレスは既に登録されています")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, Password: hash, Role: in.Role}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ListUsers returns users ordered by id, optionally narrowed to one role.
// Only managers may list users.
func ListUsers(db *gorm.DB, viewer *models.User, role string) ([]models.User, error) {
	if !viewer.IsManager() {
		return nil, NewForbiddenError("")
	}

	query := db.Model(&models.User{}).Order("id ASC")
	if role != "" {
		r := models.Role(role)
		if !r.Valid() {
			return nil, NewFieldError("role", "無効なロールです")
		}
		query = query.Where("role = ?", r)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser loads a user by id.
func GetUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("ユーザーが見つかりません")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ListManagers returns every manager, used for submission notifications.
func ListManagers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Where("role = ?", models.RoleManager).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return users, nil
}
