package domain

// Role is the closed set of account roles known to the clinical backend.
// RoleGenericUser is a legacy label some backend deployments return instead
// of RolePatient; the two are equivalent for access control.
type Role string

const (
	RolePatient     Role = "patient"
	RoleDoctor      Role = "doctor"
	RoleLaboratory  Role = "laboratory"
	RoleAdmin       Role = "admin"
	RoleGenericUser Role = "user"
)

// portalGate lists the backend roles each portal admits. It is the single
// source of truth for role-gate validation at login.
var portalGate = map[Role][]Role{
	RolePatient:    {RolePatient, RoleGenericUser},
	RoleDoctor:     {RoleDoctor},
	RoleLaboratory: {RoleLaboratory},
	RoleAdmin:      {RoleAdmin},
}

// Admits reports whether an account with the given backend role may enter
// this portal.
func (p Role) Admits(backend Role) bool {
	for _, allowed := range portalGate[p] {
		if allowed == backend {
			return true
		}
	}
	return false
}

// ParseRole converts an inbound string to a Role. The second return value is
// false for strings outside the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleLaboratory, RoleAdmin, RoleGenericUser:
		return Role(s), true
	}
	return "", false
}

// DefaultView returns the view key the presentation layer should open first
// for an account of this role.
func (r Role) DefaultView() string {
	switch r {
	case RoleAdmin:
		return "dashboard"
	case RoleDoctor:
		return "patients"
	case RoleLaboratory:
		return "requests"
	default: // patient and generic user
		return "summary"
	}
}

// IsPatient reports whether the role is treated as a patient account,
// honouring the generic-user equivalence.
func (r Role) IsPatient() bool {
	return r == RolePatient || r == RoleGenericUser
}
