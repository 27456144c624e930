// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"guardpost/internal/delivery/http/middleware"
	"guardpost/internal/delivery/http/router/handler"
	"guardpost/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SearchHandler     *handler.SearchHandler
	CredentialHandler *handler.CredentialHandler
	AttendanceHandler *handler.AttendanceHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	searchHandler     *handler.SearchHandler
	credentialHandler *handler.CredentialHandler
	attendanceHandler *handler.AttendanceHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		searchHandler:     params.SearchHandler,
		credentialHandler: params.CredentialHandler,
		attendanceHandler: params.AttendanceHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Super-admin routes
	superAdminGroup := e.Group("/super-admin")
	superAdminGroup.Use(r.authMiddleware.Authenticate)
	superAdminGroup.Use(r.authMiddleware.RequireRole(entity.RoleSuperAdmin))
	{
		superAdminGroup.GET("/search-users", r.searchHandler.SearchUsers)
		superAdminGroup.PUT("/change-user-password", r.credentialHandler.ChangeUserPassword)
		superAdminGroup.PUT("/change-own-password", r.credentialHandler.ChangeOwnPassword)
	}

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.PUT("/change-supervisor-password", r.credentialHandler.ChangeSupervisorPassword)
	}

	// Supervisor routes
	supervisorGroup := e.Group("/supervisor")
	supervisorGroup.Use(r.authMiddleware.Authenticate)
	supervisorGroup.Use(r.authMiddleware.RequireRole(entity.RoleSupervisor))
	{
		supervisorGroup.PUT("/change-guard-password", r.credentialHandler.ChangeGuardPassword)
	}

	// QR lifecycle and attendance ledger
	qrGroup := e.Group("/qr")
	qrGroup.Use(r.authMiddleware.Authenticate)
	{
		issuerOnly := r.authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor)
		scannerOnly := r.authMiddleware.RequireRole(entity.RoleGuard, entity.RoleSupervisor)

		qrGroup.POST("/create", r.attendanceHandler.CreateQR, issuerOnly)
		qrGroup.GET("/list", r.attendanceHandler.ListQR, issuerOnly)
		qrGroup.POST("/scan", r.attendanceHandler.Scan, scannerOnly)
		qrGroup.GET("/scans", r.attendanceHandler.ListScans, scannerOnly)
	}
}
