// Package validation checks web form input before any API call is made
// and maps API error details back onto form fields.
package validation

import (
	"daily_report_app_go/dto"
	"daily_report_app_go/web/apiclient"
)

// Errors holds field messages keyed by form field path plus an optional
// form-level message.
type Errors struct {
	Fields map[string]string
	Form   string
}

// Field returns the message for name, or "".
func (e Errors) Field(name string) string {
	return e.Fields[name]
}

// Any reports whether there is at least one message.
func (e Errors) Any() bool {
	return len(e.Fields) > 0 || e.Form != ""
}

func fromDetails(details []dto.ErrorDetail) Errors {
	if len(details) == 0 {
		return Errors{}
	}
	e := Errors{Fields: make(map[string]string, len(details))}
	for _, d := range details {
		if _, ok := e.Fields[d.Field]; !ok {
			e.Fields[d.Field] = d.Message
		}
	}
	return e
}

// FromAPIError turns a failed mutation into form errors: field details go
// next to their fields and the server message becomes the form-level error.
// Server and network failures get the generic message.
func FromAPIError(err error) Errors {
	e := Errors{Form: apiclient.UserMessage(err)}
	if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Status < 500 {
		e.Fields = apiErr.FieldErrors()
	}
	return e
}
