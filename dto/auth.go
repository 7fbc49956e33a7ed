package dto

import "daily_report_app_go/models"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"メールアドレス"`
	Password string `json:"password" validate:"required" label:"パスワード"`
}

type UserResponse struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// LoginResponse carries the user only; the session token travels in a cookie.
type LoginResponse struct {
	User UserResponse `json:"user"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
