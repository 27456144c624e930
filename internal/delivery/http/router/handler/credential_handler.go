package handler

import (
	"log/slog"
	"net/http"

	"guardpost/internal/delivery/http/response"
	"guardpost/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CredentialHandlerParams holds dependencies for CredentialHandler,
// injected by Fx.
type CredentialHandlerParams struct {
	fx.In

	CredentialUC usecase.CredentialUsecase
	Logger       *slog.Logger
}

// CredentialHandler holds dependencies for password management handlers.
type CredentialHandler struct {
	credentialUC usecase.CredentialUsecase
	logger       *slog.Logger
}

// NewCredentialHandler is the constructor for CredentialHandler
func NewCredentialHandler(params CredentialHandlerParams) *CredentialHandler {
	return &CredentialHandler{
		credentialUC: params.CredentialUC,
		logger:       params.Logger,
	}
}

// ChangeUserPasswordRequest targets any account by email or phone.
type ChangeUserPasswordRequest struct {
	UserEmail   string `json:"user_email" validate:"omitempty,email"`
	UserPhone   string `json:"user_phone"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangeSupervisorPasswordRequest targets a supervisor by email or phone.
type ChangeSupervisorPasswordRequest struct {
	SupervisorEmail string `json:"supervisor_email" validate:"omitempty,email"`
	SupervisorPhone string `json:"supervisor_phone"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ChangeGuardPasswordRequest targets a guard by email or phone.
type ChangeGuardPasswordRequest struct {
	GuardEmail  string `json:"guard_email" validate:"omitempty,email"`
	GuardPhone  string `json:"guard_phone"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangeOwnPasswordRequest carries the current-password proof.
type ChangeOwnPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ChangeUserPassword handles the super-admin password reset for any account.
func (h *CredentialHandler) ChangeUserPassword(c echo.Context) error {
	var req ChangeUserPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	return h.changePassword(c, firstNonEmpty(req.UserEmail, req.UserPhone), req.NewPassword)
}

// ChangeSupervisorPassword handles the admin password reset for supervisors.
func (h *CredentialHandler) ChangeSupervisorPassword(c echo.Context) error {
	var req ChangeSupervisorPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	return h.changePassword(c, firstNonEmpty(req.SupervisorEmail, req.SupervisorPhone), req.NewPassword)
}

// ChangeGuardPassword handles the supervisor password reset for guards.
func (h *CredentialHandler) ChangeGuardPassword(c echo.Context) error {
	var req ChangeGuardPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	return h.changePassword(c, firstNonEmpty(req.GuardEmail, req.GuardPhone), req.NewPassword)
}

// ChangeOwnPassword handles the caller's own password change.
func (h *CredentialHandler) ChangeOwnPassword(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req ChangeOwnPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := &usecase.ChangeOwnPasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}

	if err := h.credentialUC.ChangeOwnPassword(c.Request().Context(), actor, input); err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password changed successfully"}, "Password changed successfully")
}

func (h *CredentialHandler) changePassword(c echo.Context, selector string, newPassword string) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	if selector == "" {
		return response.BadRequest(c, "VALIDATION_ERROR", "An email or phone selector is required")
	}

	input := &usecase.ChangePasswordInput{
		Selector:    selector,
		NewPassword: newPassword,
	}

	result, err := h.credentialUC.ChangePassword(c.Request().Context(), actor, input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Password changed successfully")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
