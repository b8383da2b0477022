package domain

import (
	"encoding/json"
	"testing"
)

func payloadKeys(t *testing.T, p RegistrationPayload) map[string]any {
	t.Helper()
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return m
}

func baseForm() RegistrationForm {
	return RegistrationForm{
		Email:         "a@x.com",
		Password:      "secret123",
		FirstName:     "Ama",
		LastName:      "Doe",
		Phone:         "+22912345678",
		DateOfBirth:   "1990-01-02",
		Gender:        "F",
		LicenseNumber: "LIC-42",
		Specialty:     "Cardiology",
		Hospital:      "CHU",
	}
}

func TestBuildRegistrationPayload_Laboratory(t *testing.T) {
	p := BuildRegistrationPayload(baseForm(), RoleLaboratory)

	if p.Role != "laboratory" {
		t.Fatalf("expected role literal \"laboratory\", got %q", p.Role)
	}
	if p.LicenseNumber != "LIC-42" {
		t.Fatalf("expected license number, got %q", p.LicenseNumber)
	}

	m := payloadKeys(t, p)
	for _, forbidden := range []string{"specialty", "hospital", "date_of_birth", "gender"} {
		if _, ok := m[forbidden]; ok {
			t.Errorf("laboratory payload must not include %q", forbidden)
		}
	}
}

func TestBuildRegistrationPayload_Doctor(t *testing.T) {
	p := BuildRegistrationPayload(baseForm(), RoleDoctor)

	if p.Role != "doctor" {
		t.Fatalf("expected role literal \"doctor\", got %q", p.Role)
	}
	if p.LicenseNumber == "" || p.Specialty == "" || p.Hospital == "" {
		t.Fatalf("doctor payload missing professional fields: %+v", p)
	}

	m := payloadKeys(t, p)
	for _, forbidden := range []string{"date_of_birth", "gender"} {
		if _, ok := m[forbidden]; ok {
			t.Errorf("doctor payload must not include %q", forbidden)
		}
	}
}

func TestBuildRegistrationPayload_Patient(t *testing.T) {
	p := BuildRegistrationPayload(baseForm(), RolePatient)

	if p.Role != "patient" {
		t.Fatalf("expected role literal \"patient\", got %q", p.Role)
	}
	if p.DateOfBirth != "1990-01-02" || p.Gender != "F" {
		t.Fatalf("patient payload missing medical fields: %+v", p)
	}

	m := payloadKeys(t, p)
	for _, forbidden := range []string{"license_number", "specialty", "hospital"} {
		if _, ok := m[forbidden]; ok {
			t.Errorf("patient payload must not include %q", forbidden)
		}
	}
}

func TestBuildRegistrationPayload_BaseFields(t *testing.T) {
	for _, role := range []Role{RolePatient, RoleDoctor, RoleLaboratory} {
		p := BuildRegistrationPayload(baseForm(), role)
		if p.Email != "a@x.com" || p.Password != "secret123" || p.FirstName != "Ama" ||
			p.LastName != "Doe" || p.Phone != "+22912345678" {
			t.Errorf("%s payload missing base fields: %+v", role, p)
		}
	}
}
