package ports

import (
	"context"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
)

// RemoteClient is the boundary to the clinical REST API. Implementations own
// payload normalization: callers always receive canonical domain records,
// whatever envelope the backend wrapped them in.
//
// The Fetch* list methods without an error return are best-effort by
// contract: any failure degrades to an empty slice and is logged by the
// implementation, never surfaced to the caller.
type RemoteClient interface {
	// Authenticate exchanges credentials for an access token. It fails with
	// domain.ErrNoToken when the response carries none of the recognised
	// token fields, and with domain.ErrAuthFailed on backend rejection.
	Authenticate(ctx context.Context, email, password string) (string, error)

	// Register submits a role-specific registration payload. Backend
	// rejections are wrapped in domain.ErrRegistrationRejected with the
	// server message preserved verbatim.
	Register(ctx context.Context, payload domain.RegistrationPayload) error

	// FetchProfile returns the normalized profile for the token's account,
	// including best-effort patient details for patient accounts.
	FetchProfile(ctx context.Context, token string) (*domain.Profile, error)

	FetchMedicalRecords(ctx context.Context, token string) []domain.MedicalRecord
	FetchAccessGrants(ctx context.Context, token string) []domain.AccessGrant
	FetchDoctors(ctx context.Context, token string) []domain.User
	FetchPendingTests(ctx context.Context, token string) []domain.LabTest

	// UpdateProfile and UpdatePatientInfo change the account's own data.
	UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) error
	UpdatePatientInfo(ctx context.Context, token string, update domain.PatientInfoUpdate) error

	GrantAccess(ctx context.Context, token string, req domain.AccessGrantRequest) error
	RevokeAccess(ctx context.Context, token string, grantID int64) error

	// Doctor writes.
	CreateMedicalRecord(ctx context.Context, token string, input domain.MedicalRecordInput) error
	CreatePrescription(ctx context.Context, token string, input domain.PrescriptionInput) error
	OrderLabTest(ctx context.Context, token string, order domain.LabTestOrder) error

	// Laboratory writes. StartTest marks a test in progress; CompleteTest
	// submits its results.
	StartTest(ctx context.Context, token string, testID int64) error
	CompleteTest(ctx context.Context, token string, testID int64, result domain.LabTestResult) error

	// Admin reads are not best-effort: the dashboard is useless without
	// them, so failures propagate.
	FetchAdminStats(ctx context.Context, token string) (*domain.AdminStats, error)
	FetchAllUsers(ctx context.Context, token string) ([]domain.User, error)
	FetchPendingValidations(ctx context.Context, token string) ([]domain.PendingProfessional, error)
	ValidateProfessional(ctx context.Context, token string, id int64, profType, action string) error
}
