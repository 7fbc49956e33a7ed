// Package components holds the page chrome and reusable widgets.
package components

import (
	"context"
	"strings"

	"daily_report_app_go/dto"
	"daily_report_app_go/templates/partials"
	"daily_report_app_go/web/state"
)

const htmxURL = "https://unpkg.com/htmx.org@2.0.4"

// LayoutProps describes the page chrome around a view.
type LayoutProps struct {
	// TitleKey is the i18n key of the page title.
	TitleKey   string
	User       *dto.UserResponse
	Toasts     []state.Toast
	ActivePath string
}

var navItems = []struct{ href, key string }{
	{"/reports", "nav.reports"},
	{"/customers", "nav.customers"},
}

func isActive(path, href string) bool {
	return path == href || strings.HasPrefix(path, href+"/")
}

func pageTitle(ctx context.Context, titleKey string) string {
	title := partials.T(ctx, "app.title")
	if titleKey == "" {
		return title
	}
	return partials.T(ctx, titleKey) + " | " + title
}

// csrfHeaders makes htmx send the CSRF token with every request.
func csrfHeaders(ctx context.Context) string {
	return JSON(map[string]string{"X-CSRF-Token": partials.CSRF(ctx)})
}
