package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"daily_report_app_go/db"
	"daily_report_app_go/dto"
	"daily_report_app_go/middleware"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
)

// LoginHandler authenticates email and password, starts a session and sets
// the access_token cookie.
func LoginHandler(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	audit := middleware.GetAuditContext(c)
	user, err := services.Authenticate(db.DB, req.Email, req.Password)
	if err != nil {
		if services.IsCode(err, services.CodeUnauthorized) {
			audit.UserName = req.Email
			services.LogAuditEvent(db.DB, audit, services.AuditEvent{
				Action:       models.AuditActionLogin,
				ResourceType: "session",
				Description:  "login failed",
			})
		}
		return err
	}

	cfg := getConfig(c)
	session, err := services.CreateSession(db.DB, user.ID, cfg.SessionTTL, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt)

	zap.L().Info("user logged in", zap.Uint("user_id", user.ID))
	services.LogAuditEvent(db.DB, services.NewAuditContext(user, audit.IPAddress, audit.UserAgent), services.AuditEvent{
		Action:       models.AuditActionLogin,
		ResourceType: "user",
		ResourceID:   user.ID,
		Description:  "login",
	})

	return respondData(c, http.StatusOK, dto.LoginResponse{User: dto.NewUserResponse(user)})
}

// LogoutHandler ends the current session and clears the cookie.
func LogoutHandler(c echo.Context) error {
	if session := middleware.GetCurrentSession(c); session != nil {
		if err := services.DeleteSession(db.DB, session.Token); err != nil {
			return err
		}
		recordAudit(c, models.AuditActionLogout, "user", session.UserID, "logout", nil, nil)
	}
	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// MeHandler returns the authenticated user.
func MeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	return respondData(c, http.StatusOK, dto.NewUserResponse(user))
}
