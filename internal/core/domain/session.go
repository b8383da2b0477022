package domain

import "time"

// Step represents the pre-authentication UI step.
type Step string

const (
	StepRoleSelection Step = "role-selection"
	StepLogin         Step = "login"
	StepRegister      Step = "register"
)

// validSteps defines the allowed step transitions.
var validSteps = map[Step][]Step{
	StepRoleSelection: {StepLogin},
	StepLogin:         {StepRegister, StepRoleSelection},
	StepRegister:      {StepLogin, StepRoleSelection},
}

// CanTransitionTo reports whether a transition from the current step to next
// is valid.
func (s Step) CanTransitionTo(next Step) bool {
	for _, allowed := range validSteps[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Session is the single source of truth for what the presentation layer
// should show. It is owned by the session manager and mutated only through
// its operations.
//
// Invariant: Profile is set if and only if AuthToken is set and the profile
// fetch succeeded. The two are committed together.
type Session struct {
	AuthToken  string
	Profile    *Profile
	Records    []MedicalRecord
	Step       Step
	TargetRole Role
	ActiveView string
	Theme      string

	// ExpiresAt is the token expiry when the token carries a readable exp
	// claim. Zero for opaque tokens; informational only.
	ExpiresAt time.Time

	// Busy is set while a state-changing operation is in flight, so the
	// presentation layer can disable its triggering affordances.
	Busy bool

	// Notice and LastError are transient user-visible messages, cleared on
	// role selection and on the next successful operation.
	Notice    string
	LastError string
}

// Authenticated reports whether the session holds a committed token and
// profile pair.
func (s Session) Authenticated() bool {
	return s.AuthToken != "" && s.Profile != nil
}

// Clone returns a deep copy safe to hand to consumers.
func (s Session) Clone() Session {
	out := s
	if s.Profile != nil {
		p := *s.Profile
		if s.Profile.Patient != nil {
			det := *s.Profile.Patient
			p.Patient = &det
		}
		out.Profile = &p
	}
	if s.Records != nil {
		out.Records = make([]MedicalRecord, len(s.Records))
		copy(out.Records, s.Records)
	}
	return out
}
