package handlers

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"daily_report_app_go/config"
	"daily_report_app_go/middleware"
	"daily_report_app_go/models"
)

// APIPrefix is the mount point of the REST API.
const APIPrefix = "/api/v1"

// NewServer builds the API echo instance with its middleware chain, error
// envelope and routes. The caller owns db.DB.
func NewServer(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit("1M"))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.Locale(cfg))

	e.GET("/health", HealthHandler)

	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRateLimit)
	e.Server.RegisterOnShutdown(loginLimiter.Stop)

	RegisterRoutes(e.Group(APIPrefix), loginLimiter)
	return e
}

// RegisterRoutes mounts every API endpoint on g.
func RegisterRoutes(g *echo.Group, loginLimiter *middleware.RateLimiter) {
	g.GET("/health", HealthHandler)
	g.POST("/auth/login", LoginHandler, middleware.AuditContext(), loginLimiter.Middleware())

	protected := g.Group("")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.AuditContext())
	{
		protected.POST("/auth/logout", LogoutHandler)
		protected.GET("/auth/me", MeHandler)

		protected.GET("/users", ListUsersHandler, middleware.RequireRole(models.RoleManager))

		protected.GET("/customers", ListCustomersHandler)
		protected.POST("/customers", CreateCustomerHandler)
		protected.GET("/customers/:id", GetCustomerHandler)
		protected.PUT("/customers/:id", UpdateCustomerHandler)
		protected.DELETE("/customers/:id", DeleteCustomerHandler)

		protected.GET("/reports", ListReportsHandler)
		protected.POST("/reports", CreateReportHandler)
		protected.GET("/reports/export", ExportReportsHandler, middleware.RequireRole(models.RoleManager))
		protected.GET("/reports/:id", GetReportHandler)
		protected.PUT("/reports/:id", UpdateReportHandler)
		protected.DELETE("/reports/:id", DeleteReportHandler)
		protected.PATCH("/reports/:id/submit", SubmitReportHandler)
		protected.PATCH("/reports/:id/review", ReviewReportHandler)
		protected.POST("/reports/:id/comments", CreateCommentHandler)
	}
}
