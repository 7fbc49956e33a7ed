package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"daily_report_app_go/web/apiclient"
	"daily_report_app_go/web/resources"
	"daily_report_app_go/web/state"
)

const (
	contextKeyToken     = "web_token"
	contextKeySession   = "web_session"
	contextKeyResources = "web_resources"
)

// Sessions binds the per-session state and API resources of the request's
// session token to the echo context. Requests without a token pass through
// untouched.
func Sessions(registry *state.Registry, api *apiclient.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(apiclient.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			sess := registry.Get(cookie.Value)
			c.Set(contextKeyToken, cookie.Value)
			c.Set(contextKeySession, sess)
			c.Set(contextKeyResources, resources.New(api, sess.Queries, cookie.Value))
			return next(c)
		}
	}
}

// GetToken returns the session token of the request, if any.
func GetToken(c echo.Context) string {
	token, _ := c.Get(contextKeyToken).(string)
	return token
}

// GetSession returns the session state bound by Sessions.
func GetSession(c echo.Context) *state.Session {
	sess, _ := c.Get(contextKeySession).(*state.Session)
	return sess
}

// GetResources returns the API resources bound by Sessions.
func GetResources(c echo.Context) *resources.Resources {
	res, _ := c.Get(contextKeyResources).(*resources.Resources)
	return res
}

// SetSessionCookie stores the token returned by the API login.
func SetSessionCookie(c echo.Context, token string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     apiclient.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     apiclient.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
