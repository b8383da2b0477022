package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
	"github.com/tohpitoh/portal-gateway/internal/core/ports"
	"github.com/tohpitoh/portal-gateway/internal/metrics"
)

// SessionManager implements ports.SessionService. It is the single writer of
// the session: the mutex guards state reads and writes, and the busy flag
// serializes the network-bound operations so no two of them ever race for the
// same session field.
type SessionManager struct {
	remote ports.RemoteClient
	store  ports.TokenStore
	log    zerolog.Logger

	mu    sync.Mutex
	busy  bool
	state domain.Session
}

func NewSessionManager(remote ports.RemoteClient, store ports.TokenStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		remote: remote,
		store:  store,
		log:    log,
		state:  domain.Session{Step: domain.StepRoleSelection},
	}
}

// Snapshot returns a deep copy of the current session.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state.Clone()
	s.Busy = m.busy
	return s
}

// Restore hydrates the session from a token persisted by a previous run.
// Absence of a stored token is not an error.
func (m *SessionManager) Restore(ctx context.Context) error {
	theme, err := m.store.Theme(ctx)
	if err == nil && theme != "" {
		m.mu.Lock()
		m.state.Theme = theme
		m.mu.Unlock()
	}

	token, err := m.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("restore: read token store: %w", err)
	}
	if token == "" {
		return nil
	}
	return m.LoadUserData(ctx, token)
}

func (m *SessionManager) SelectRole(role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.Step.CanTransitionTo(domain.StepLogin) {
		return fmt.Errorf("select role: %w", domain.ErrInvalidTransition)
	}

	m.state.TargetRole = role
	m.state.Step = domain.StepLogin
	m.state.Notice = ""
	m.state.LastError = ""
	return nil
}

func (m *SessionManager) BeginRegistration() error {
	return m.transition(domain.StepRegister)
}

func (m *SessionManager) CancelRegistration() error {
	return m.transition(domain.StepLogin)
}

func (m *SessionManager) BackToRoleSelection() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.Step.CanTransitionTo(domain.StepRoleSelection) {
		return fmt.Errorf("back: %w", domain.ErrInvalidTransition)
	}
	m.state.Step = domain.StepRoleSelection
	m.state.TargetRole = ""
	m.state.Notice = ""
	m.state.LastError = ""
	return nil
}

func (m *SessionManager) transition(next domain.Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.Step.CanTransitionTo(next) {
		return fmt.Errorf("step %s to %s: %w", m.state.Step, next, domain.ErrInvalidTransition)
	}
	m.state.Step = next
	return nil
}

// Login performs the credential exchange, role-gate validation, and atomic
// commit of token and profile. The token is never persisted unless the role
// gate passes; on any failure the session is left exactly as it was.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()

	m.mu.Lock()
	if m.state.Step != domain.StepLogin {
		m.mu.Unlock()
		return fmt.Errorf("login: %w", domain.ErrInvalidTransition)
	}
	target := m.state.TargetRole
	m.state.Notice = ""
	m.state.LastError = ""
	m.mu.Unlock()

	token, err := m.remote.Authenticate(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(target), "failed").Inc()
		m.recordError(err)
		return fmt.Errorf("login: %w", err)
	}

	profile, err := m.remote.FetchProfile(ctx, token)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(target), "failed").Inc()
		m.recordError(err)
		return fmt.Errorf("login: %w", err)
	}

	if !target.Admits(profile.User.Role) {
		metrics.LoginsTotal.WithLabelValues(string(target), "denied").Inc()
		err := fmt.Errorf("%w for the %s portal", domain.ErrAccessDenied, target)
		m.log.Warn().
			Str("portal", string(target)).
			Str("account_role", string(profile.User.Role)).
			Msg("role gate rejected login")
		m.recordError(err)
		return err
	}

	if err := m.store.SetToken(ctx, token); err != nil {
		metrics.LoginsTotal.WithLabelValues(string(target), "failed").Inc()
		m.recordError(err)
		return fmt.Errorf("login: persist token: %w", err)
	}

	m.commit(token, profile)
	m.loadRoleData(ctx, token, profile.User.Role)
	metrics.LoginsTotal.WithLabelValues(string(target), "success").Inc()

	m.log.Info().
		Str("portal", string(target)).
		Str("role", string(profile.User.Role)).
		Msg("session authenticated")
	return nil
}

// Register assembles the payload for the selected portal and submits it. On
// success the session returns to the login step; it never auto-authenticates.
func (m *SessionManager) Register(ctx context.Context, form domain.RegistrationForm) error {
	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()

	m.mu.Lock()
	if m.state.Step != domain.StepRegister {
		m.mu.Unlock()
		return fmt.Errorf("register: %w", domain.ErrInvalidTransition)
	}
	target := m.state.TargetRole
	m.state.LastError = ""
	m.mu.Unlock()

	payload := domain.BuildRegistrationPayload(form, target)
	if err := m.remote.Register(ctx, payload); err != nil {
		m.recordError(err)
		return fmt.Errorf("register: %w", err)
	}

	m.mu.Lock()
	m.state.Step = domain.StepLogin
	m.state.Notice = "account created, sign in to continue"
	m.mu.Unlock()

	m.log.Info().Str("portal", string(target)).Msg("registration accepted")
	return nil
}

// LoadUserData hydrates the session from a previously obtained token. A
// profile failure forces a full logout: a partially loaded clinical session
// is unsafe to display, so this path fails closed.
func (m *SessionManager) LoadUserData(ctx context.Context, token string) error {
	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()

	profile, err := m.remote.FetchProfile(ctx, token)
	if err != nil {
		metrics.SessionResetsTotal.WithLabelValues("load_failure").Inc()
		m.log.Warn().Err(err).Msg("profile load failed, forcing logout")
		m.reset(ctx)
		return fmt.Errorf("load user data: %w", err)
	}

	m.commit(token, profile)
	m.loadRoleData(ctx, token, profile.User.Role)
	return nil
}

// Logout clears the session and the stored token. It has no failure mode and
// is idempotent; a store error is logged and otherwise ignored.
func (m *SessionManager) Logout(ctx context.Context) {
	metrics.SessionResetsTotal.WithLabelValues("logout").Inc()
	m.reset(ctx)
}

func (m *SessionManager) SetActiveView(view string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	m.state.ActiveView = view
	return nil
}

func (m *SessionManager) SetTheme(ctx context.Context, theme string) error {
	m.mu.Lock()
	m.state.Theme = theme
	m.mu.Unlock()

	if err := m.store.SetTheme(ctx, theme); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}

func (m *SessionManager) AuthorizedToken() (string, domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.Authenticated() {
		return "", "", domain.ErrNotAuthenticated
	}
	return m.state.AuthToken, m.state.Profile.User.Role, nil
}

// commit writes token and profile together so no consumer ever observes a
// token without its validated profile.
func (m *SessionManager) commit(token string, profile *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.AuthToken = token
	m.state.Profile = profile
	m.state.ExpiresAt = tokenExpiry(token)
	m.state.Notice = ""
	m.state.LastError = ""
}

// loadRoleData fetches the post-auth data for the account role and sets the
// default view. Record fetches are best-effort; an empty list is acceptable.
func (m *SessionManager) loadRoleData(ctx context.Context, token string, role domain.Role) {
	var records []domain.MedicalRecord
	if role.IsPatient() {
		records = m.remote.FetchMedicalRecords(ctx, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Records = records
	m.state.ActiveView = role.DefaultView()
}

func (m *SessionManager) reset(ctx context.Context) {
	if err := m.store.ClearToken(ctx); err != nil {
		m.log.Error().Err(err).Msg("failed to clear stored token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	theme := m.state.Theme
	m.state = domain.Session{Step: domain.StepRoleSelection, Theme: theme}
}

func (m *SessionManager) recordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastError = err.Error()
}

func (m *SessionManager) acquire() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return domain.ErrSessionBusy
	}
	m.busy = true
	return nil
}

func (m *SessionManager) release() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

// tokenExpiry extracts the exp claim without verifying the signature. The
// gateway never validates tokens; expiry is informational only, and opaque
// tokens simply yield a zero time.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
