package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"daily_report_app_go/config"
)

const (
	// CSRFFormField is the hidden form field carrying the token
	CSRFFormField  = "_csrf"
	csrfContextKey = "csrf"
)

// CSRF protects form posts of the web front-end. htmx requests send the token
// in the X-CSRF-Token header, plain forms in the _csrf field.
func CSRF(cfg *config.Config) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:" + CSRFFormField,
		ContextKey:     csrfContextKey,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure || cfg.IsProduction(),
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// GetCSRFToken retrieves the CSRF token from the Echo context
// This token should be included in forms and AJAX requests
func GetCSRFToken(c echo.Context) string {
	token := c.Get(csrfContextKey)
	if token == nil {
		return ""
	}
	if tokenStr, ok := token.(string); ok {
		return tokenStr
	}
	return ""
}
