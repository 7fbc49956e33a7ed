// Package middleware holds the echo middleware of the web front-end.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"daily_report_app_go/web/apiclient"
)

const (
	LoginPath   = "/login"
	ReportsPath = "/reports"
)

// protectedPrefixes need a session cookie.
var protectedPrefixes = []string{"/reports", "/customers"}

func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// RouteGuard only looks at the presence of the session cookie. Whether the
// session is still valid is decided by the API on the next call.
func RouteGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			signedIn := HasSessionCookie(c)

			if !signedIn {
				for _, prefix := range protectedPrefixes {
					if hasPathPrefix(path, prefix) {
						return Redirect(c, LoginPath)
					}
				}
			}
			if signedIn && hasPathPrefix(path, LoginPath) {
				return Redirect(c, ReportsPath)
			}
			return next(c)
		}
	}
}

// HasSessionCookie reports whether the request carries a non-empty
// session cookie.
func HasSessionCookie(c echo.Context) bool {
	cookie, err := c.Cookie(apiclient.SessionCookieName)
	return err == nil && cookie.Value != ""
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// Redirect navigates to target: htmx requests get an HX-Redirect header,
// everything else a 303.
func Redirect(c echo.Context, target string) error {
	if IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", target)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, target)
}
