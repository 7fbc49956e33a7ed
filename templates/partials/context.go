// Package partials holds the render context and formatting helpers shared
// by every view of the web front-end.
package partials

import "context"

type contextKey string

const csrfKey contextKey = "csrf_token"

// WithCSRF stores the CSRF token for forms rendered under ctx.
func WithCSRF(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfKey, token)
}

// CSRF returns the token stored by WithCSRF.
func CSRF(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey).(string)
	return token
}
