package domain

// RegistrationForm carries everything the registration screen collects. Only
// the fields relevant to the target role end up in the submitted payload.
type RegistrationForm struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string

	// Patient fields.
	DateOfBirth string
	Gender      string

	// Professional fields.
	LicenseNumber string
	Specialty     string
	Hospital      string
}

// RegistrationPayload is the write-only body submitted to the registration
// endpoint. It is assembled per target role and discarded after submission.
type RegistrationPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`

	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`

	LicenseNumber string `json:"license_number,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
	Hospital      string `json:"hospital,omitempty"`
}

// BuildRegistrationPayload assembles the role-specific payload: base identity
// fields always, patients add birth date and gender, doctors add license,
// specialty and hospital, laboratories add license only.
func BuildRegistrationPayload(form RegistrationForm, target Role) RegistrationPayload {
	p := RegistrationPayload{
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
		Role:      backendRoleLabel(target),
	}

	switch target {
	case RoleDoctor:
		p.LicenseNumber = form.LicenseNumber
		p.Specialty = form.Specialty
		p.Hospital = form.Hospital
	case RoleLaboratory:
		p.LicenseNumber = form.LicenseNumber
	default: // patient portal, including the generic-user label
		p.DateOfBirth = form.DateOfBirth
		p.Gender = form.Gender
	}

	return p
}

// backendRoleLabel maps a portal to the role string the registration endpoint
// expects. Only three labels exist on the backend; anything that is not a
// doctor or laboratory registers as a patient.
func backendRoleLabel(target Role) string {
	switch target {
	case RoleLaboratory:
		return "laboratory"
	case RoleDoctor:
		return "doctor"
	default:
		return "patient"
	}
}
