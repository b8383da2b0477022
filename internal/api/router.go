package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/tohpitoh/portal-gateway/internal/api/handler"
	"github.com/tohpitoh/portal-gateway/internal/api/middleware"
	"github.com/tohpitoh/portal-gateway/internal/core/domain"
	"github.com/tohpitoh/portal-gateway/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(sessions ports.SessionService, remote ports.RemoteClient, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Session lifecycle ---
	sessionHandler := handler.NewSessionHandler(sessions)
	e.GET("/session", sessionHandler.Get)
	e.POST("/session/role", sessionHandler.SelectRole)
	e.POST("/session/back", sessionHandler.Back)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/register/start", sessionHandler.StartRegistration)
	e.POST("/session/register/cancel", sessionHandler.CancelRegistration)
	e.POST("/session/register", sessionHandler.Register)
	e.POST("/session/logout", sessionHandler.Logout)
	e.PUT("/session/view", sessionHandler.SetView)
	e.PUT("/session/theme", sessionHandler.SetTheme)

	// --- Role-specific data proxies ---
	dataHandler := handler.NewDataHandler(sessions, remote)
	data := e.Group("/data", middleware.RequireSession(sessions))

	data.PUT("/profile", dataHandler.UpdateProfile)

	patientOnly := middleware.RequireRole(sessions, domain.RolePatient, domain.RoleGenericUser)
	data.GET("/records", dataHandler.MedicalRecords, patientOnly)
	data.GET("/access-grants", dataHandler.AccessGrants, patientOnly)
	data.POST("/access-grants", dataHandler.GrantAccess, patientOnly)
	data.DELETE("/access-grants/:id", dataHandler.RevokeAccess, patientOnly)
	data.PUT("/patient-info", dataHandler.UpdatePatientInfo, patientOnly)
	data.GET("/doctors", dataHandler.Doctors,
		middleware.RequireRole(sessions, domain.RolePatient, domain.RoleGenericUser, domain.RoleDoctor))

	doctorOnly := middleware.RequireRole(sessions, domain.RoleDoctor)
	data.POST("/patients/:id/records", dataHandler.CreateRecord, doctorOnly)
	data.POST("/prescriptions", dataHandler.CreatePrescription, doctorOnly)
	data.POST("/lab-tests", dataHandler.OrderLabTest, doctorOnly)

	labOnly := middleware.RequireRole(sessions, domain.RoleLaboratory)
	data.GET("/pending-tests", dataHandler.PendingTests, labOnly)
	data.PUT("/pending-tests/:id/start", dataHandler.StartTest, labOnly)
	data.PUT("/pending-tests/:id/results", dataHandler.CompleteTest, labOnly)

	adminOnly := middleware.RequireRole(sessions, domain.RoleAdmin)
	data.GET("/admin/stats", dataHandler.AdminStats, adminOnly)
	data.GET("/admin/users", dataHandler.AllUsers, adminOnly)
	data.GET("/admin/validations", dataHandler.PendingValidations, adminOnly)
	data.PUT("/admin/validations/:id", dataHandler.ValidateProfessional, adminOnly)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
