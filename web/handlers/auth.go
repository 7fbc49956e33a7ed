package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"daily_report_app_go/templates/pages"
	webmw "daily_report_app_go/web/middleware"
	"daily_report_app_go/web/resources"
	"daily_report_app_go/web/validation"
)

func (a *App) LoginPage(c echo.Context) error {
	return render(c, http.StatusOK, pages.Login(pages.LoginView{}))
}

// Login validates locally, then signs in through the API. The API token is
// kept in the web session cookie and the returned user primes the cache.
func (a *App) Login(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return err
	}
	form := validation.ParseLoginForm(params)
	view := pages.LoginView{Form: form, Errors: form.Validate()}
	if view.Errors.Any() {
		return render(c, formStatus(c), pages.Login(view))
	}

	user, token, err := a.API.Login(c.Request().Context(), form.Request())
	if err != nil {
		view.Errors = validation.FromAPIError(err)
		return render(c, formStatus(c), pages.Login(view))
	}

	webmw.SetSessionCookie(c, token, a.cookieSecure())
	sess := a.Sessions.Get(token)
	sess.Store.SetUser(user)
	resources.New(a.API, sess.Queries, token).SetMe(user)
	return webmw.Redirect(c, webmw.ReportsPath)
}

// Logout ends the API session. The local session is dropped even when the
// API call fails.
func (a *App) Logout(c echo.Context) error {
	if res := webmw.GetResources(c); res != nil {
		if err := res.Logout(c.Request().Context()); err != nil {
			zap.L().Warn("logout failed", zap.Error(err))
		}
	}
	if sess := webmw.GetSession(c); sess != nil {
		sess.Store.Clear()
	}
	return a.signOut(c)
}
