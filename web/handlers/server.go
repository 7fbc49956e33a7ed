// Package handlers serves the server-rendered web front-end. Every page
// reads and writes through the REST API with the visitor's session token.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"daily_report_app_go/config"
	"daily_report_app_go/dto"
	"daily_report_app_go/middleware"
	"daily_report_app_go/services/i18n"
	"daily_report_app_go/templates/components"
	"daily_report_app_go/templates/partials"
	"daily_report_app_go/web/apiclient"
	webmw "daily_report_app_go/web/middleware"
	"daily_report_app_go/web/resources"
	"daily_report_app_go/web/search"
	"daily_report_app_go/web/state"
	"daily_report_app_go/web/static"
)

// sessionCapacity bounds the number of sessions whose state is kept.
const sessionCapacity = 1024

// App carries the dependencies of the web handlers.
type App struct {
	Config   *config.Config
	API      *apiclient.Client
	Sessions *state.Registry
	Lookups  *search.Debouncer[[]dto.CustomerListItem]
	Now      func() time.Time
}

// NewApp wires the web front-end to the API at cfg.APIURL.
func NewApp(cfg *config.Config) *App {
	return &App{
		Config:   cfg,
		API:      apiclient.New(cfg.APIURL),
		Sessions: state.NewRegistry(sessionCapacity, cfg.SessionTTL),
		Lookups:  search.NewDebouncer[[]dto.CustomerListItem](cfg.SearchDebounce),
		Now:      time.Now,
	}
}

// NewServer builds the web echo instance with its middleware chain and
// routes.
func NewServer(a *App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(middleware.CSPNonce())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", a.Config)
			return next(c)
		}
	})
	e.Use(middleware.Locale(a.Config))
	e.Use(middleware.CSRF(a.Config))
	e.Use(webmw.RouteGuard())
	e.Use(webmw.Sessions(a.Sessions, a.API))

	webmw.InitAssetVersions(static.FS, "style.css", "app.js")
	e.StaticFS(webmw.StaticPrefix, static.FS)

	a.RegisterRoutes(e)
	return e
}

// RegisterRoutes mounts every page.
func (a *App) RegisterRoutes(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error { return webmw.Redirect(c, webmw.ReportsPath) })

	e.GET("/login", a.LoginPage)
	e.POST("/login", a.Login)
	e.POST("/logout", a.Logout)
	e.POST("/toasts/:id/dismiss", a.DismissToast)

	e.GET("/reports", a.ReportList)
	e.GET("/reports/export", a.ExportReports)
	e.GET("/reports/new", a.NewReportPage)
	e.POST("/reports/new", a.NewReport)
	e.GET("/reports/:id", a.ReportDetail)
	e.GET("/reports/:id/edit", a.EditReportPage)
	e.POST("/reports/:id/edit", a.EditReport)
	e.GET("/reports/:id/review", a.ReviewReportPage)
	e.POST("/reports/:id/review", a.ReviewReport)
	e.POST("/reports/:id/comments", a.CreateComment)
	e.GET("/reports/:id/delete", a.DeleteReportPage)
	e.POST("/reports/:id/delete", a.DeleteReport)

	e.GET("/customers", a.CustomerList)
	e.GET("/customers/lookup", a.CustomerLookup)
	e.GET("/customers/new", a.NewCustomerPage)
	e.POST("/customers/new", a.NewCustomer)
	e.GET("/customers/:id/edit", a.EditCustomerPage)
	e.POST("/customers/:id/edit", a.EditCustomer)
	e.GET("/customers/:id/delete", a.DeleteCustomerPage)
	e.POST("/customers/:id/delete", a.DeleteCustomer)
}

// errorHandler logs server errors and answers with the generic message.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("web request failed", zap.Error(err), zap.String("path", c.Request().URL.Path))
	}
	msg := http.StatusText(status)
	if status >= http.StatusInternalServerError {
		msg = i18n.T(c.Request().Context(), "error.unknown")
	}
	if err := c.String(status, msg); err != nil {
		zap.L().Error("failed to write error response", zap.Error(err))
	}
}

func render(c echo.Context, status int, component templ.Component) error {
	ctx := partials.WithCSRF(c.Request().Context(), middleware.GetCSRFToken(c))
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(ctx, c.Response().Writer)
}

// page renders body inside the signed-in layout.
func (a *App) page(c echo.Context, status int, titleKey string, viewer *dto.UserResponse, body templ.Component) error {
	var toasts []state.Toast
	if sess := webmw.GetSession(c); sess != nil {
		toasts = sess.Store.Snapshot().Toasts
	}
	return render(c, status, components.Layout(components.LayoutProps{
		TitleKey:   titleKey,
		User:       viewer,
		Toasts:     toasts,
		ActivePath: c.Request().URL.Path,
	}, body))
}

// formStatus is the status of a re-rendered invalid form. htmx only swaps
// successful responses.
func formStatus(c echo.Context) int {
	if webmw.IsHTMX(c) {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

var errNoSession = errors.New("no session cookie")

// viewer returns the signed-in user and the session resources. The user
// is cached for resources.MeStaleTime and mirrored into the session store.
func (a *App) viewer(c echo.Context) (*dto.UserResponse, *resources.Resources, error) {
	res := webmw.GetResources(c)
	if res == nil {
		return nil, nil, errNoSession
	}
	me, err := res.Me(c.Request().Context())
	if err != nil {
		return nil, res, err
	}
	if sess := webmw.GetSession(c); sess != nil {
		sess.Store.SetUser(me)
	}
	return me, res, nil
}

// signOut forgets the session and sends the visitor to the login page.
func (a *App) signOut(c echo.Context) error {
	if token := webmw.GetToken(c); token != "" {
		a.Sessions.Drop(token)
	}
	webmw.ClearSessionCookie(c, a.cookieSecure())
	return webmw.Redirect(c, webmw.LoginPath)
}

func (a *App) cookieSecure() bool {
	return a.Config.CookieSecure || a.Config.IsProduction()
}

// leave handles the errors that end the current page: a missing or
// rejected session signs out, 403 and 404 go to parent. It reports false
// when err should be shown on the page instead.
func (a *App) leave(c echo.Context, err error, parent string) (bool, error) {
	switch {
	case errors.Is(err, errNoSession), apiclient.IsUnauthorized(err):
		return true, a.signOut(c)
	case apiclient.IsStatus(err, http.StatusForbidden), apiclient.IsStatus(err, http.StatusNotFound):
		return true, webmw.Redirect(c, parent)
	}
	return false, nil
}

// toast queues a notification for the next rendered page.
func toast(c echo.Context, typ state.ToastType, message string) {
	if sess := webmw.GetSession(c); sess != nil {
		sess.Store.AddToast(typ, message)
	}
}

func t(c echo.Context, key string) string {
	return i18n.T(c.Request().Context(), key)
}

func paramID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// DismissToast removes a notification. htmx swaps the toast with the
// empty response.
func (a *App) DismissToast(c echo.Context) error {
	if sess := webmw.GetSession(c); sess != nil {
		sess.Store.RemoveToast(c.Param("id"))
	}
	if webmw.IsHTMX(c) {
		return c.NoContent(http.StatusOK)
	}
	return webmw.Redirect(c, webmw.ReportsPath)
}
