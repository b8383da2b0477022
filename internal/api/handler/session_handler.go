package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
	"github.com/tohpitoh/portal-gateway/internal/core/ports"
)

// SessionHandler exposes the session operations to the presentation layer.
// All state lives in the session service; handlers only translate HTTP.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get returns the current session projection.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

// SelectRole records the target portal and moves to the login step.
//
// @Summary      Select portal
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      selectRoleRequest  true  "Portal to enter"
// @Success      200   {object}  sessionResponse
// @Router       /session/role [post]
func (h *SessionHandler) SelectRole(c echo.Context) error {
	var req selectRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}
	if err := h.sessions.SelectRole(role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

func (h *SessionHandler) StartRegistration(c echo.Context) error {
	if err := h.sessions.BeginRegistration(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

func (h *SessionHandler) CancelRegistration(c echo.Context) error {
	if err := h.sessions.CancelRegistration(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

func (h *SessionHandler) Back(c echo.Context) error {
	if err := h.sessions.BackToRoleSelection(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

// Login exchanges credentials and validates the account role against the
// selected portal.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

// Register submits a role-specific registration for the selected portal.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  sessionResponse
// @Failure      422   {object}  map[string]string
// @Router       /session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := validateForPortal(&req, h.sessions.Snapshot().TargetRole); err != nil {
		return err
	}

	form := domain.RegistrationForm{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		DateOfBirth:   req.DateOfBirth,
		Gender:        req.Gender,
		LicenseNumber: req.LicenseNumber,
		Specialty:     req.Specialty,
		Hospital:      req.Hospital,
	}
	if err := h.sessions.Register(c.Request().Context(), form); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

// Logout clears the session. Always succeeds.
func (h *SessionHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

func (h *SessionHandler) SetView(c echo.Context) error {
	var req setViewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.SetActiveView(req.View); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

func (h *SessionHandler) SetTheme(c echo.Context) error {
	var req setThemeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.SetTheme(c.Request().Context(), req.Theme); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

// validateForPortal enforces the fields each portal's registration needs on
// top of the tag-level validation: patients need a birth date and gender,
// doctors and laboratories need a license number.
func validateForPortal(req *registerRequest, target domain.Role) error {
	switch {
	case target.IsPatient():
		if req.DateOfBirth == "" || req.Gender == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "date_of_birth and gender are required for patient registration")
		}
	case target == domain.RoleDoctor, target == domain.RoleLaboratory:
		if req.LicenseNumber == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "license_number is required for professional registration")
		}
	case target == domain.RoleAdmin:
		return echo.NewHTTPError(http.StatusBadRequest, "admin accounts cannot self-register")
	}
	return nil
}
