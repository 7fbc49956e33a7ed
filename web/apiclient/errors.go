package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"daily_report_app_go/dto"
)

const (
	CodeUnknown      = "UNKNOWN_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"

	// MsgUnknown is shown for server failures and unreadable error bodies.
	MsgUnknown      = "エラーが発生しました"
	msgUnauthorized = "認証が必要です"
)

// APIError is a non-2xx answer of the API, normalised from its error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []dto.ErrorDetail
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// FieldErrors indexes the error details by field path. The first message
// for a field wins.
func (e *APIError) FieldErrors() map[string]string {
	if len(e.Details) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Details))
	for _, d := range e.Details {
		if _, ok := out[d.Field]; !ok {
			out[d.Field] = d.Message
		}
	}
	return out
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == status
}

// IsUnauthorized reports whether err means the session is missing or expired.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsClientError reports whether err is a 4xx answer. Network failures and
// 5xx answers are not client errors.
func IsClientError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status >= 400 && apiErr.Status < 500
}

// UserMessage is the text to show for err in a form-level error slot.
// Client errors carry the server message; everything else gets the
// generic fallback.
func UserMessage(err error) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Status < 500 && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgUnknown
}
