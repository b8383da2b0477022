package domain

// RecordType enumerates the clinical record categories the backend stores.
type RecordType string

const (
	RecordVaccination  RecordType = "vaccination"
	RecordPrescription RecordType = "prescription"
	RecordConsultation RecordType = "consultation"
	RecordLabResult    RecordType = "lab_result"
	RecordOther        RecordType = "other"
	// The backend model spells diagnosis this way; keep it verbatim or
	// record-type filters stop matching.
	RecordDiagnosis RecordType = "diagonosis"
)

// MedicalRecord is an immutable clinical entry owned by the remote system.
type MedicalRecord struct {
	ID            int64  `json:"id"`
	PatientID     int64  `json:"patient_id"`
	DoctorID      int64  `json:"doctor_id,omitempty"`
	LaboratoryID  int64  `json:"laboratory_id,omitempty"`
	RecordType    string `json:"record_type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	AttachmentURL string `json:"attachment_url,omitempty"`
	IsShared      bool   `json:"is_shared"`
}

// AccessGrant is a permission a patient has granted to a professional.
type AccessGrant struct {
	ID            int64  `json:"id"`
	GrantedToName string `json:"granted_to_name"`
	GrantedToRole string `json:"granted_to_role"`
	Status        string `json:"status"` // active, expired, revoked
	ExpiresAt     string `json:"expires_at"`
}

// AccessGrantRequest is the write-only payload for granting a professional
// access to the patient record.
type AccessGrantRequest struct {
	DoctorID  int64  `json:"doctor_id"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// LabTest is a pending or in-progress laboratory test request.
type LabTest struct {
	ID          int64  `json:"id"`
	PatientID   int64  `json:"patient_id"`
	PatientName string `json:"patient_name,omitempty"`
	TestType    string `json:"test_type"`
	Status      string `json:"status"`
	RequestedAt string `json:"requested_at,omitempty"`
}

// AdminStats is the aggregate counters shown on the admin dashboard.
// Field names follow the backend's camelCase statistics endpoint.
type AdminStats struct {
	TotalUsers         int `json:"totalUsers"`
	TotalDoctors       int `json:"totalDoctors"`
	TotalPatients      int `json:"totalPatients"`
	PendingValidations int `json:"pendingValidations"`
}

// MedicalRecordInput is the write-only payload a doctor submits to add an
// entry to a patient's record.
type MedicalRecordInput struct {
	PatientID   int64  `json:"patient_id"`
	RecordType  string `json:"record_type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

// PrescriptionInput is the write-only payload for issuing a prescription.
type PrescriptionInput struct {
	PatientID  int64  `json:"patient_id"`
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// LabTestOrder is the write-only payload a doctor submits to request a test.
type LabTestOrder struct {
	PatientID int64  `json:"patient_id"`
	TestType  string `json:"test_type"`
	Notes     string `json:"notes,omitempty"`
}

// LabTestResult is the write-only payload a laboratory submits to close out a
// test.
type LabTestResult struct {
	Results string `json:"results"`
	Notes   string `json:"notes,omitempty"`
}

// PendingProfessional is a doctor or laboratory awaiting admin validation.
type PendingProfessional struct {
	ID            int64  `json:"id"`
	Type          string `json:"type"` // doctor or laboratory
	Name          string `json:"name"`
	Email         string `json:"email"`
	LicenseNumber string `json:"license_number"`
	Status        string `json:"status"` // pending, approved, rejected
	RequestDate   string `json:"requestDate,omitempty"`
}
