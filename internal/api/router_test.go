package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
)

// The prometheus middleware registers its collectors in the default registry,
// so the router is built exactly once and every test reconfigures the shared
// stubs instead. Tests therefore must not run in parallel.
var (
	routerOnce sync.Once
	router     http.Handler
	service    *stubService
	remote     *stubRemote
)

type stubService struct {
	session domain.Session

	loginErr    error
	registerErr error
	viewErr     error

	token   string
	role    domain.Role
	authErr error
}

func (s *stubService) Snapshot() domain.Session                      { return s.session.Clone() }
func (s *stubService) SelectRole(role domain.Role) error             { return nil }
func (s *stubService) BeginRegistration() error                      { return nil }
func (s *stubService) CancelRegistration() error                     { return nil }
func (s *stubService) BackToRoleSelection() error                    { return nil }
func (s *stubService) Login(_ context.Context, _, _ string) error    { return s.loginErr }
func (s *stubService) LoadUserData(_ context.Context, _ string) error { return nil }
func (s *stubService) Logout(_ context.Context)                      {}
func (s *stubService) SetActiveView(_ string) error                  { return s.viewErr }
func (s *stubService) SetTheme(_ context.Context, _ string) error    { return nil }

func (s *stubService) Register(_ context.Context, _ domain.RegistrationForm) error {
	return s.registerErr
}

func (s *stubService) AuthorizedToken() (string, domain.Role, error) {
	if s.authErr != nil {
		return "", "", s.authErr
	}
	return s.token, s.role, nil
}

type stubRemote struct {
	records []domain.MedicalRecord
	stats   *domain.AdminStats

	lastRecord  domain.MedicalRecordInput
	startedTest int64
}

func (r *stubRemote) Authenticate(_ context.Context, _, _ string) (string, error) { return "", nil }
func (r *stubRemote) Register(_ context.Context, _ domain.RegistrationPayload) error {
	return nil
}
func (r *stubRemote) FetchProfile(_ context.Context, _ string) (*domain.Profile, error) {
	return nil, nil
}
func (r *stubRemote) FetchMedicalRecords(_ context.Context, _ string) []domain.MedicalRecord {
	return r.records
}
func (r *stubRemote) FetchAccessGrants(_ context.Context, _ string) []domain.AccessGrant {
	return []domain.AccessGrant{}
}
func (r *stubRemote) FetchDoctors(_ context.Context, _ string) []domain.User { return []domain.User{} }
func (r *stubRemote) FetchPendingTests(_ context.Context, _ string) []domain.LabTest {
	return []domain.LabTest{}
}
func (r *stubRemote) GrantAccess(_ context.Context, _ string, _ domain.AccessGrantRequest) error {
	return nil
}
func (r *stubRemote) RevokeAccess(_ context.Context, _ string, _ int64) error { return nil }

func (r *stubRemote) UpdateProfile(_ context.Context, _ string, _ domain.ProfileUpdate) error {
	return nil
}
func (r *stubRemote) UpdatePatientInfo(_ context.Context, _ string, _ domain.PatientInfoUpdate) error {
	return nil
}
func (r *stubRemote) CreateMedicalRecord(_ context.Context, _ string, input domain.MedicalRecordInput) error {
	r.lastRecord = input
	return nil
}
func (r *stubRemote) CreatePrescription(_ context.Context, _ string, _ domain.PrescriptionInput) error {
	return nil
}
func (r *stubRemote) OrderLabTest(_ context.Context, _ string, _ domain.LabTestOrder) error {
	return nil
}
func (r *stubRemote) StartTest(_ context.Context, _ string, testID int64) error {
	r.startedTest = testID
	return nil
}
func (r *stubRemote) CompleteTest(_ context.Context, _ string, _ int64, _ domain.LabTestResult) error {
	return nil
}
func (r *stubRemote) FetchAdminStats(_ context.Context, _ string) (*domain.AdminStats, error) {
	return r.stats, nil
}
func (r *stubRemote) FetchAllUsers(_ context.Context, _ string) ([]domain.User, error) {
	return nil, nil
}
func (r *stubRemote) FetchPendingValidations(_ context.Context, _ string) ([]domain.PendingProfessional, error) {
	return nil, nil
}
func (r *stubRemote) ValidateProfessional(_ context.Context, _ string, _ int64, _, _ string) error {
	return nil
}

func setup(t *testing.T) {
	t.Helper()
	routerOnce.Do(func() {
		service = &stubService{}
		remote = &stubRemote{}
		router = NewRouter(service, remote, zerolog.Nop())
	})
	*service = stubService{}
	*remote = stubRemote{}
}

func authenticatedAs(role domain.Role) domain.Session {
	return domain.Session{
		AuthToken: "tok",
		Profile:   &domain.Profile{User: domain.User{ID: 1, Role: role}},
		Step:      domain.StepLogin,
	}
}

func do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_GetSession(t *testing.T) {
	setup(t)
	service.session = domain.Session{Step: domain.StepRoleSelection, Theme: "dark"}

	rec := do(t, http.MethodGet, "/session", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["step"] != "role-selection" || resp["theme"] != "dark" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if _, leaked := resp["auth_token"]; leaked {
		t.Fatalf("session response must never expose the token")
	}
}

func TestRouter_Login_Denied(t *testing.T) {
	setup(t)
	service.loginErr = domain.ErrAccessDenied

	rec := do(t, http.MethodPost, "/session/login", `{"email": "a@x.com", "password": "pw"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Login_AuthFailed(t *testing.T) {
	setup(t)
	service.loginErr = domain.ErrAuthFailed

	rec := do(t, http.MethodPost, "/session/login", `{"email": "a@x.com", "password": "pw"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Login_Busy(t *testing.T) {
	setup(t)
	service.loginErr = domain.ErrSessionBusy

	rec := do(t, http.MethodPost, "/session/login", `{"email": "a@x.com", "password": "pw"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Login_InvalidPayload(t *testing.T) {
	setup(t)

	rec := do(t, http.MethodPost, "/session/login", `{"email": "not-an-email", "password": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Register_PatientMissingFields(t *testing.T) {
	setup(t)
	service.session = domain.Session{Step: domain.StepRegister, TargetRole: domain.RolePatient}

	body := `{"email": "a@x.com", "password": "secret123", "first_name": "A", "last_name": "B", "phone": "1"}`
	rec := do(t, http.MethodPost, "/session/register", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Register_Rejected(t *testing.T) {
	setup(t)
	service.session = domain.Session{Step: domain.StepRegister, TargetRole: domain.RoleDoctor}
	service.registerErr = domain.ErrRegistrationRejected

	body := `{"email": "a@x.com", "password": "secret123", "first_name": "A", "last_name": "B",
		"phone": "1", "license_number": "L-1", "specialty": "Cardiology", "hospital": "CHU"}`
	rec := do(t, http.MethodPost, "/session/register", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Data_Unauthenticated(t *testing.T) {
	setup(t)

	rec := do(t, http.MethodGet, "/data/records", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Data_RoleGate(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RoleDoctor)
	service.token, service.role = "tok", domain.RoleDoctor

	rec := do(t, http.MethodGet, "/data/records", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("doctor reading patient records: status = %d, want 403", rec.Code)
	}

	rec = do(t, http.MethodGet, "/data/doctors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("doctor listing doctors: status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, http.MethodGet, "/data/admin/stats", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("doctor reading admin stats: status = %d, want 403", rec.Code)
	}
}

func TestRouter_Data_Records(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RoleGenericUser)
	service.token, service.role = "tok", domain.RoleGenericUser
	remote.records = []domain.MedicalRecord{{ID: 1, Title: "Vaccination"}}

	rec := do(t, http.MethodGet, "/data/records", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var records []domain.MedicalRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Vaccination" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestRouter_Data_AdminStats(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RoleAdmin)
	service.token, service.role = "tok", domain.RoleAdmin
	remote.stats = &domain.AdminStats{TotalUsers: 10}

	rec := do(t, http.MethodGet, "/data/admin/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var stats domain.AdminStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalUsers != 10 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRouter_Data_DoctorWrites(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RoleDoctor)
	service.token, service.role = "tok", domain.RoleDoctor

	body := `{"record_type": "consultation", "title": "Checkup"}`
	rec := do(t, http.MethodPost, "/data/patients/12/records", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create record: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if remote.lastRecord.PatientID != 12 || remote.lastRecord.Title != "Checkup" {
		t.Fatalf("unexpected record input: %+v", remote.lastRecord)
	}

	rec = do(t, http.MethodPost, "/data/prescriptions",
		`{"patient_id": 12, "medication": "Amoxicillin", "dosage": "500mg"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create prescription: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, http.MethodPost, "/data/lab-tests", `{"patient_id": 12, "test_type": "blood_count"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("order lab test: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Data_DoctorWrites_ForbiddenForPatient(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RolePatient)
	service.token, service.role = "tok", domain.RolePatient

	body := `{"record_type": "consultation", "title": "Checkup"}`
	rec := do(t, http.MethodPost, "/data/patients/12/records", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("patient creating records: status = %d, want 403", rec.Code)
	}
}

func TestRouter_Data_CreateRecord_BadType(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RoleDoctor)
	service.token, service.role = "tok", domain.RoleDoctor

	rec := do(t, http.MethodPost, "/data/patients/12/records",
		`{"record_type": "diagnosis", "title": "Checkup"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("record type outside the backend's set: status = %d, want 400", rec.Code)
	}
}

func TestRouter_Data_LabWrites(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RoleLaboratory)
	service.token, service.role = "tok", domain.RoleLaboratory

	rec := do(t, http.MethodPut, "/data/pending-tests/9/start", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("start test: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if remote.startedTest != 9 {
		t.Fatalf("expected test 9 started, got %d", remote.startedTest)
	}

	rec = do(t, http.MethodPut, "/data/pending-tests/9/results", `{"results": "normal"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("complete test: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, http.MethodPost, "/data/prescriptions",
		`{"patient_id": 1, "medication": "X", "dosage": "1"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("lab issuing prescriptions: status = %d, want 403", rec.Code)
	}
}

func TestRouter_Data_UpdateProfile(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RoleDoctor)
	service.token, service.role = "tok", domain.RoleDoctor

	rec := do(t, http.MethodPut, "/data/profile", `{"first_name": "New"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update profile: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Data_RevokeInvalidID(t *testing.T) {
	setup(t)
	service.session = authenticatedAs(domain.RolePatient)
	service.token, service.role = "tok", domain.RolePatient

	rec := do(t, http.MethodDelete, "/data/access-grants/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_SetTheme_Invalid(t *testing.T) {
	setup(t)

	rec := do(t, http.MethodPut, "/session/theme", `{"theme": "sepia"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Health(t *testing.T) {
	setup(t)

	rec := do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}
