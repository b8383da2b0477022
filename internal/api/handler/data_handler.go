package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
	"github.com/tohpitoh/portal-gateway/internal/core/ports"
)

// DataHandler proxies role-specific reads and writes to the clinical API
// using the session's committed token. Routes are role-gated by middleware;
// the handler only resolves the token and forwards.
type DataHandler struct {
	sessions ports.SessionService
	remote   ports.RemoteClient
}

func NewDataHandler(sessions ports.SessionService, remote ports.RemoteClient) *DataHandler {
	return &DataHandler{sessions: sessions, remote: remote}
}

func (h *DataHandler) MedicalRecords(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.remote.FetchMedicalRecords(c.Request().Context(), token))
}

func (h *DataHandler) AccessGrants(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.remote.FetchAccessGrants(c.Request().Context(), token))
}

func (h *DataHandler) GrantAccess(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	var req grantAccessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := toAccessGrantRequest(req)
	if err := h.remote.GrantAccess(c.Request().Context(), token, input); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (h *DataHandler) RevokeAccess(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	grantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid grant id")
	}
	if err := h.remote.RevokeAccess(c.Request().Context(), token, grantID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DataHandler) UpdateProfile(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
	}
	if err := h.remote.UpdateProfile(c.Request().Context(), token, update); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DataHandler) UpdatePatientInfo(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	var req updatePatientInfoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := domain.PatientInfoUpdate{
		Gender:         req.Gender,
		DateOfBirth:    req.DateOfBirth,
		BloodType:      req.BloodType,
		Genotype:       req.Genotype,
		KnownAllergies: req.KnownAllergies,
		KnownDiseases:  req.KnownDiseases,
	}
	if err := h.remote.UpdatePatientInfo(c.Request().Context(), token, update); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DataHandler) Doctors(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.remote.FetchDoctors(c.Request().Context(), token))
}

// CreateRecord adds a medical record to the patient named in the path.
func (h *DataHandler) CreateRecord(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := domain.MedicalRecordInput{
		PatientID:   patientID,
		RecordType:  req.RecordType,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
	}
	if err := h.remote.CreateMedicalRecord(c.Request().Context(), token, input); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (h *DataHandler) CreatePrescription(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	var req createPrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := domain.PrescriptionInput{
		PatientID:  req.PatientID,
		Medication: req.Medication,
		Dosage:     req.Dosage,
		Frequency:  req.Frequency,
		Duration:   req.Duration,
		Notes:      req.Notes,
	}
	if err := h.remote.CreatePrescription(c.Request().Context(), token, input); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (h *DataHandler) OrderLabTest(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	var req orderLabTestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order := domain.LabTestOrder{
		PatientID: req.PatientID,
		TestType:  req.TestType,
		Notes:     req.Notes,
	}
	if err := h.remote.OrderLabTest(c.Request().Context(), token, order); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (h *DataHandler) PendingTests(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.remote.FetchPendingTests(c.Request().Context(), token))
}

func (h *DataHandler) StartTest(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}
	if err := h.remote.StartTest(c.Request().Context(), token, testID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DataHandler) CompleteTest(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}

	var req completeTestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result := domain.LabTestResult{Results: req.Results, Notes: req.Notes}
	if err := h.remote.CompleteTest(c.Request().Context(), token, testID, result); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DataHandler) AdminStats(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	stats, err := h.remote.FetchAdminStats(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *DataHandler) AllUsers(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	users, err := h.remote.FetchAllUsers(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *DataHandler) PendingValidations(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	pending, err := h.remote.FetchPendingValidations(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pending)
}

func (h *DataHandler) ValidateProfessional(c echo.Context) error {
	token, _, err := h.sessions.AuthorizedToken()
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional id")
	}

	var req validateProfessionalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.remote.ValidateProfessional(c.Request().Context(), token, id, req.Type, req.Action); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
