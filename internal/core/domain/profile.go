package domain

// User is the canonical identity record extracted from the remote profile
// payload, whatever envelope the backend wrapped it in.
type User struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       Role   `json:"role"`
	Avatar     string `json:"avatar,omitempty"`
	IsActive   bool   `json:"is_active"`
	IsVerified bool   `json:"is_verified,omitempty"`
}

// PatientDetails holds the patient-table record attached to patient accounts.
type PatientDetails struct {
	ID                     int64  `json:"id"`
	UserID                 int64  `json:"user_id"`
	Gender                 string `json:"gender"`
	DateOfBirth            string `json:"date_of_birth"`
	BloodType              string `json:"blood_type"`
	Genotype               string `json:"genotype,omitempty"`
	KnownAllergies         string `json:"known_allergies,omitempty"`
	KnownDiseases          string `json:"known_diseases,omitempty"`
	EmergencyAccessEnabled bool   `json:"emergency_access_enabled"`
	EmergencyAccessCode    string `json:"emergency_access_code,omitempty"`
}

// Profile is the canonical normalized profile. Patient is present only for
// accounts whose role is patient (or the generic-user equivalent), and only
// when the best-effort detail fetch succeeded.
type Profile struct {
	User    User            `json:"user"`
	Patient *PatientDetails `json:"patient,omitempty"`
}

// ProfileUpdate carries the identity fields an account may change about
// itself. Empty fields are left untouched by the backend.
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// PatientInfoUpdate carries the editable medical fields of the patient record.
type PatientInfoUpdate struct {
	Gender         string `json:"gender,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	BloodType      string `json:"blood_type,omitempty"`
	Genotype       string `json:"genotype,omitempty"`
	KnownAllergies string `json:"known_allergies,omitempty"`
	KnownDiseases  string `json:"known_diseases,omitempty"`
}
