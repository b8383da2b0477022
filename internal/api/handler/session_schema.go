package handler

import (
	"time"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
)

// --- Request types ---

type selectRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=patient doctor laboratory admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Phone     string `json:"phone"      validate:"required"`

	// Patient fields, required when the patient portal is selected.
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=M F"`

	// Professional fields, license required for doctor and laboratory.
	LicenseNumber string `json:"license_number,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
	Hospital      string `json:"hospital,omitempty"`
}

type setViewRequest struct {
	View string `json:"view" validate:"required"`
}

type setThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type grantAccessRequest struct {
	DoctorID  int64  `json:"doctor_id" validate:"required"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type validateProfessionalRequest struct {
	Type   string `json:"type"   validate:"required,oneof=doctor laboratory"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

type updateProfileRequest struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

type updatePatientInfoRequest struct {
	Gender         string `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	BloodType      string `json:"blood_type,omitempty"`
	Genotype       string `json:"genotype,omitempty"`
	KnownAllergies string `json:"known_allergies,omitempty"`
	KnownDiseases  string `json:"known_diseases,omitempty"`
}

type createRecordRequest struct {
	RecordType  string `json:"record_type" validate:"required,oneof=vaccination prescription consultation lab_result diagonosis other"`
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

type createPrescriptionRequest struct {
	PatientID  int64  `json:"patient_id" validate:"required"`
	Medication string `json:"medication" validate:"required"`
	Dosage     string `json:"dosage"     validate:"required"`
	Frequency  string `json:"frequency,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type orderLabTestRequest struct {
	PatientID int64  `json:"patient_id" validate:"required"`
	TestType  string `json:"test_type"  validate:"required"`
	Notes     string `json:"notes,omitempty"`
}

type completeTestRequest struct {
	Results string `json:"results" validate:"required"`
	Notes   string `json:"notes,omitempty"`
}

// --- Response types ---

// sessionResponse is the read-only projection of the session handed to the
// presentation layer. The access token itself is deliberately absent: the
// gateway holds it, consumers only learn whether one exists.
type sessionResponse struct {
	Step          string                 `json:"step"`
	TargetRole    string                 `json:"target_role,omitempty"`
	Authenticated bool                   `json:"authenticated"`
	Busy          bool                   `json:"busy"`
	ActiveView    string                 `json:"active_view,omitempty"`
	Theme         string                 `json:"theme,omitempty"`
	ExpiresAt     *time.Time             `json:"expires_at,omitempty"`
	Notice        string                 `json:"notice,omitempty"`
	LastError     string                 `json:"last_error,omitempty"`
	Profile       *domain.Profile        `json:"profile,omitempty"`
	Records       []domain.MedicalRecord `json:"records,omitempty"`
}

func toAccessGrantRequest(req grantAccessRequest) domain.AccessGrantRequest {
	return domain.AccessGrantRequest{
		DoctorID:  req.DoctorID,
		ExpiresAt: req.ExpiresAt,
	}
}

func toSessionResponse(s domain.Session) sessionResponse {
	resp := sessionResponse{
		Step:          string(s.Step),
		TargetRole:    string(s.TargetRole),
		Authenticated: s.Authenticated(),
		Busy:          s.Busy,
		ActiveView:    s.ActiveView,
		Theme:         s.Theme,
		Notice:        s.Notice,
		LastError:     s.LastError,
		Profile:       s.Profile,
		Records:       s.Records,
	}
	if !s.ExpiresAt.IsZero() {
		t := s.ExpiresAt
		resp.ExpiresAt = &t
	}
	return resp
}
