package services

import (
	"errors"
	"fmt"
	"net/http"

	"daily_report_app_go/dto"
)

// Error codes carried in the error envelope.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Default messages per code.
const (
	MsgValidation      = "入力内容に誤りがあります"
	MsgUnauthorized    = "認証が必要です"
	MsgForbidden       = "この操作を行う権限がありません"
	MsgNotFound        = "リソースが見つかりません"
	MsgConflict        = "リソースが競合しています"
	MsgTooManyRequests = "リクエストが多すぎます。しばらくしてから再度お試しください"
	MsgInternal        = "サーバー内部エラーが発生しました"
	MsgInvalidLogin    = "メールアドレスまたはパスワードが正しくありません"
)

// AppError is a failure that maps onto an HTTP status and error code.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details []dto.ErrorDetail
}

func (e *AppError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%d details)", e.Code, e.Message, len(e.Details))
}

// Body converts the error into its envelope payload.
func (e *AppError) Body() dto.ErrorResponse {
	return dto.ErrorResponse{Error: dto.ErrorBody{Code: e.Code, Message: e.Message, Details: e.Details}}
}

func newAppError(status int, code, defaultMsg, msg string) *AppError {
	if msg == "" {
		msg = defaultMsg
	}
	return &AppError{Status: status, Code: code, Message: msg}
}

func NewValidationError(msg string, details ...dto.ErrorDetail) *AppError {
	e := newAppError(http.StatusBadRequest, CodeValidation, MsgValidation, msg)
	e.Details = details
	return e
}

// NewFieldError builds a validation error for a single field.
func NewFieldError(field, message string) *AppError {
	return NewValidationError("", dto.ErrorDetail{Field: field, Message: message})
}

func NewUnauthorizedError(msg string) *AppError {
	return newAppError(http.StatusUnauthorized, CodeUnauthorized, MsgUnauthorized, msg)
}

func NewForbiddenError(msg string) *AppError {
	return newAppError(http.StatusForbidden, CodeForbidden, MsgForbidden, msg)
}

func NewNotFoundError(msg string) *AppError {
	return newAppError(http.StatusNotFound, CodeNotFound, MsgNotFound, msg)
}

func NewConflictError(msg string) *AppError {
	return newAppError(http.StatusConflict, CodeConflict, MsgConflict, msg)
}

func NewTooManyRequestsError(msg string) *AppError {
	return newAppError(http.StatusTooManyRequests, CodeTooManyRequests, MsgTooManyRequests, msg)
}

func NewInternalError(msg string) *AppError {
	return newAppError(http.StatusInternalServerError, CodeInternal, MsgInternal, msg)
}

// AsAppError unwraps err into an *AppError when it carries one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
