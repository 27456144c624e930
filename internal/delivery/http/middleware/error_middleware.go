package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "guardpost/internal/delivery/context"
	"guardpost/internal/delivery/http/response"
	domainerrors "guardpost/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Try to parse as AppError
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		m.writeError(c, appErr.HTTPCode(), appErr.Message(), appErr.ErrorCode(), appErr.Details())

		return
	}

	// Check if it's Echo's HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		m.writeError(c, httpErr.Code, message, "HTTP_ERROR", message)

		return
	}

	// Default to internal error, log and return a generic message
	m.logger.Error("Unhandled error",
		"error", err.Error(),
		"request_id", deliverycontext.GetRequestID(c),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
	)

	m.writeError(c, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR", "")
}

func (m *ErrorMiddleware) writeError(c echo.Context, statusCode int, message, errorCode, details string) {
	writeErr := c.JSON(statusCode, response.Response{
		Success:   false,
		Code:      statusCode,
		Message:   message,
		RequestID: deliverycontext.GetRequestID(c),
		Error: &response.ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
	if writeErr != nil {
		m.logger.Error("Failed to write error response", "error", writeErr)
	}
}
