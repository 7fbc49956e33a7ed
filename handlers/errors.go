package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"daily_report_app_go/services"
)

// HTTPErrorHandler renders every error as the JSON error envelope.
// AppErrors keep their status and details, echo errors map onto the closest
// code and anything else becomes a logged 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(appErr.Status)
	} else {
		err = c.JSON(appErr.Status, appErr.Body())
	}
	if err != nil {
		zap.L().Error("failed to write error response", zap.Error(err))
	}
}

func toAppError(err error) *services.AppError {
	if appErr, ok := services.AsAppError(err); ok {
		return appErr
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
			return services.NewValidationError("")
		case http.StatusUnauthorized:
			return services.NewUnauthorizedError("")
		case http.StatusForbidden:
			return services.NewForbiddenError("")
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			e := services.NewNotFoundError("")
			e.Status = he.Code
			return e
		case http.StatusTooManyRequests:
			return services.NewTooManyRequestsError("")
		}
		if he.Code < http.StatusInternalServerError {
			return &services.AppError{Status: he.Code, Code: services.CodeValidation, Message: services.MsgValidation}
		}
	}
	return services.NewInternalError("")
}
