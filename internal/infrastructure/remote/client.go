// Package remote implements the HTTP client for the Tohpitoh clinical API,
// including the profile normalization rules that shield the rest of the
// gateway from backend response shape drift.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
	"github.com/tohpitoh/portal-gateway/internal/metrics"
)

const maxBodyBytes = 1 << 20

// Client talks to the clinical REST API. All methods are safe for concurrent
// use; the client holds no per-session state.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Client rooted at baseURL (the fixed /api/v1 base path
// included). The timeout applies per request; there is no retry layer.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// credentialResponse covers every token field name the backend has been seen
// to use. accessToken returns the first non-empty one in priority order.
type credentialResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Access      string `json:"access"`
	Key         string `json:"key"`
}

func (r credentialResponse) accessToken() string {
	for _, t := range []string{r.Token, r.AccessToken, r.Access, r.Key} {
		if t != "" {
			return t
		}
	}
	return ""
}

func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.request(ctx, "auth", http.MethodPost, "/jwt/auth", "", body)
	if err != nil {
		return "", err
	}
	raw, err := readBody(resp)
	if err != nil {
		return "", fmt.Errorf("auth: %w", err)
	}
	if !is2xx(resp.StatusCode) {
		return "", fmt.Errorf("%w: %s", domain.ErrAuthFailed, apiMessage(raw, resp.StatusCode))
	}

	var cred credentialResponse
	if err := json.Unmarshal(raw, &cred); err != nil {
		return "", fmt.Errorf("auth: decode response: %w", err)
	}
	token := cred.accessToken()
	if token == "" {
		return "", domain.ErrNoToken
	}
	return token, nil
}

func (c *Client) Register(ctx context.Context, payload domain.RegistrationPayload) error {
	resp, err := c.request(ctx, "register", http.MethodPost, "/jwt/register", "", payload)
	if err != nil {
		return err
	}
	raw, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if !is2xx(resp.StatusCode) {
		// The server message passes through verbatim so the user sees
		// exactly what the backend objected to.
		return fmt.Errorf("%w: %s", domain.ErrRegistrationRejected, apiMessage(raw, resp.StatusCode))
	}
	return nil
}

// FetchProfile retrieves and normalizes the account profile, and attaches
// best-effort patient details for patient accounts.
func (c *Client) FetchProfile(ctx context.Context, token string) (*domain.Profile, error) {
	resp, err := c.request(ctx, "profile", http.MethodGet, "/jwt/profile", token, nil)
	if err != nil {
		return nil, err
	}
	raw, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if !is2xx(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAuthFailed, apiMessage(raw, resp.StatusCode))
	}

	user, err := normalizeUser(raw)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	profile := &domain.Profile{User: user}
	if user.Role.IsPatient() {
		profile.Patient = c.fetchPatientDetails(ctx, token)
	}
	return profile, nil
}

// fetchPatientDetails is best-effort: the patient record may simply not exist
// yet, so every failure degrades to an absent detail block.
func (c *Client) fetchPatientDetails(ctx context.Context, token string) *domain.PatientDetails {
	resp, err := c.request(ctx, "patient_details", http.MethodGet, "/patients/profile", token, nil)
	if err != nil {
		c.log.Warn().Err(err).Msg("patient details fetch failed")
		return nil
	}
	raw, err := readBody(resp)
	if err != nil {
		c.log.Warn().Err(err).Msg("patient details read failed")
		return nil
	}
	if !is2xx(resp.StatusCode) {
		c.log.Debug().Int("status", resp.StatusCode).Msg("no patient details for account")
		return nil
	}

	var det domain.PatientDetails
	if err := json.Unmarshal(raw, &det); err != nil {
		c.log.Warn().Err(err).Msg("malformed patient details payload")
		return nil
	}
	return &det
}

func (c *Client) FetchMedicalRecords(ctx context.Context, token string) []domain.MedicalRecord {
	return fetchList[domain.MedicalRecord](c, ctx, "records", "/patients/medical-records", token)
}

func (c *Client) FetchAccessGrants(ctx context.Context, token string) []domain.AccessGrant {
	return fetchList[domain.AccessGrant](c, ctx, "access_grants", "/patients/granted-accesses", token)
}

func (c *Client) FetchDoctors(ctx context.Context, token string) []domain.User {
	return fetchList[domain.User](c, ctx, "doctors", "/doctors", token)
}

func (c *Client) FetchPendingTests(ctx context.Context, token string) []domain.LabTest {
	return fetchList[domain.LabTest](c, ctx, "pending_tests", "/laboratories/tests", token)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) error {
	return c.call(ctx, "update_profile", http.MethodPut, "/jwt/profile", token, update)
}

func (c *Client) UpdatePatientInfo(ctx context.Context, token string, update domain.PatientInfoUpdate) error {
	return c.call(ctx, "update_patient_info", http.MethodPut, "/patients/profile/me", token, update)
}

func (c *Client) GrantAccess(ctx context.Context, token string, req domain.AccessGrantRequest) error {
	return c.call(ctx, "grant_access", http.MethodPost, "/patients/grant", token, req)
}

func (c *Client) RevokeAccess(ctx context.Context, token string, grantID int64) error {
	path := fmt.Sprintf("/patients/revoke/%d", grantID)
	return c.call(ctx, "revoke_access", http.MethodDelete, path, token, nil)
}

// CreateMedicalRecord adds a record to the patient named in the input; the
// backend routes it by the patient id in the path.
func (c *Client) CreateMedicalRecord(ctx context.Context, token string, input domain.MedicalRecordInput) error {
	path := fmt.Sprintf("/doctors/patients/%d/medical-records", input.PatientID)
	return c.call(ctx, "create_record", http.MethodPost, path, token, input)
}

func (c *Client) CreatePrescription(ctx context.Context, token string, input domain.PrescriptionInput) error {
	return c.call(ctx, "create_prescription", http.MethodPost, "/doctors/prescriptions", token, input)
}

func (c *Client) OrderLabTest(ctx context.Context, token string, order domain.LabTestOrder) error {
	return c.call(ctx, "order_lab_test", http.MethodPost, "/doctors/lab-tests", token, order)
}

// StartTest flips a test to in-progress. The status endpoint takes the test id
// in the body, camelCase, unlike every other endpoint; keep it verbatim.
func (c *Client) StartTest(ctx context.Context, token string, testID int64) error {
	body := map[string]any{"testId": testID, "status": "in_progress"}
	return c.call(ctx, "start_test", http.MethodPut, "/laboratories/update-exam-status", token, body)
}

func (c *Client) CompleteTest(ctx context.Context, token string, testID int64, result domain.LabTestResult) error {
	path := fmt.Sprintf("/laboratories/tests/%d/results", testID)
	return c.call(ctx, "complete_test", http.MethodPut, path, token, result)
}

func (c *Client) FetchAdminStats(ctx context.Context, token string) (*domain.AdminStats, error) {
	var stats domain.AdminStats
	if err := c.getJSON(ctx, "admin_stats", "/admin/statistics", token, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) FetchAllUsers(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	if err := c.getJSON(ctx, "admin_users", "/admin/all-users", token, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) FetchPendingValidations(ctx context.Context, token string) ([]domain.PendingProfessional, error) {
	var pending []domain.PendingProfessional
	if err := c.getJSON(ctx, "admin_validations", "/admin/pending-validations", token, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (c *Client) ValidateProfessional(ctx context.Context, token string, id int64, profType, action string) error {
	if profType != "doctor" && profType != "laboratory" {
		return fmt.Errorf("validate professional: unknown type %q", profType)
	}
	if action != "approve" && action != "reject" {
		return fmt.Errorf("validate professional: unknown action %q", action)
	}

	path := fmt.Sprintf("/admin/doctors/%d/%s", id, action)
	if profType == "laboratory" {
		path = fmt.Sprintf("/admin/laboratories/%d/%s", id, action)
	}
	return c.call(ctx, "validate_professional", http.MethodPut, path, token, nil)
}

// fetchList issues a best-effort list fetch: transport failures and non-2xx
// statuses both normalize to an empty slice, logged at different levels so a
// flaky network is distinguishable from legitimate absence in diagnostics.
func fetchList[T any](c *Client, ctx context.Context, endpoint, path, token string) []T {
	resp, err := c.request(ctx, endpoint, http.MethodGet, path, token, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("list fetch failed")
		return []T{}
	}
	raw, err := readBody(resp)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("list read failed")
		return []T{}
	}
	if !is2xx(resp.StatusCode) {
		c.log.Debug().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("list unavailable, treating as empty")
		return []T{}
	}
	return unwrapList[T](raw)
}

// request issues one JSON request. The endpoint name labels metrics and logs;
// paths with embedded ids would blow up label cardinality.
func (c *Client) request(ctx context.Context, endpoint, method, path, token string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", endpoint, err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	outcome := "ok"
	if !is2xx(resp.StatusCode) {
		outcome = "rejected"
	}
	metrics.RemoteRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	return resp, nil
}

// call issues a request where only success or failure matters.
func (c *Client) call(ctx context.Context, endpoint, method, path, token string, body any) error {
	resp, err := c.request(ctx, endpoint, method, path, token, body)
	if err != nil {
		return err
	}
	raw, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	if !is2xx(resp.StatusCode) {
		return fmt.Errorf("%s: %s", endpoint, apiMessage(raw, resp.StatusCode))
	}
	return nil
}

// getJSON issues a GET and decodes the body into out. Non-2xx is an error.
func (c *Client) getJSON(ctx context.Context, endpoint, path, token string, out any) error {
	resp, err := c.request(ctx, endpoint, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	raw, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	if !is2xx(resp.StatusCode) {
		return fmt.Errorf("%s: %s", endpoint, apiMessage(raw, resp.StatusCode))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
