package ports

import (
	"context"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
)

// SessionService owns the authentication lifecycle. Snapshot is the only read
// surface; everything else mutates session state. State-changing operations
// that hit the network (Login, Register, LoadUserData) serialize through a
// busy flag and fail fast with domain.ErrSessionBusy while one is in flight.
type SessionService interface {
	Snapshot() domain.Session

	// SelectRole records the target portal and moves to the login step.
	SelectRole(role domain.Role) error

	// BeginRegistration and CancelRegistration move between the login and
	// register steps. BackToRoleSelection abandons the current portal.
	BeginRegistration() error
	CancelRegistration() error
	BackToRoleSelection() error

	// Login exchanges credentials, validates the account role against the
	// selected portal, and on success commits token and profile atomically
	// to memory and the token store.
	Login(ctx context.Context, email, password string) error

	// Register submits a role-specific registration and returns to the
	// login step on success. It never authenticates.
	Register(ctx context.Context, form domain.RegistrationForm) error

	// LoadUserData hydrates the session from a previously obtained token.
	// Any profile failure forces a full logout rather than leaving a
	// half-populated session.
	LoadUserData(ctx context.Context, token string) error

	// Logout clears the session and the stored token. Idempotent.
	Logout(ctx context.Context)

	SetActiveView(view string) error
	SetTheme(ctx context.Context, theme string) error

	// AuthorizedToken returns the committed token and account role, or
	// domain.ErrNotAuthenticated.
	AuthorizedToken() (string, domain.Role, error)
}
