// Package handler contains the echo handlers for the HTTP delivery.
package handler

import (
	"net/http"

	"guardpost/internal/delivery/http/middleware"
	"guardpost/internal/delivery/http/response"
	"guardpost/internal/domain/entity"
	domainerrors "guardpost/internal/domain/errors"
	"guardpost/internal/domain/policy"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// requireActor extracts the authenticated caller from the context. A
// missing or malformed identity means the auth middleware did not run,
// so the request is rejected.
func requireActor(c echo.Context) (policy.Actor, error) {
	actorID, ok := c.Get(middleware.ContextKeyActorID).(uuid.UUID)
	if !ok {
		return policy.Actor{}, response.Unauthorized(c, "INVALID_TOKEN", "Invalid account ID in token")
	}

	role, ok := c.Get(middleware.ContextKeyActorRole).(entity.Role)
	if !ok || !role.IsValid() {
		return policy.Actor{}, response.Unauthorized(c, "INVALID_TOKEN", "Invalid role in token")
	}

	return policy.Actor{Role: role, ID: actorID}, nil
}

// handleAppError renders application errors through the unified envelope.
func handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
