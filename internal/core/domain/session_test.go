package domain

import "testing"

func TestStep_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Step
		want     bool
	}{
		{StepRoleSelection, StepLogin, true},
		{StepRoleSelection, StepRegister, false},
		{StepLogin, StepRegister, true},
		{StepLogin, StepRoleSelection, true},
		{StepLogin, StepLogin, false},
		{StepRegister, StepLogin, true},
		{StepRegister, StepRoleSelection, true},
		{StepRegister, StepRegister, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestSession_Authenticated(t *testing.T) {
	var s Session
	if s.Authenticated() {
		t.Fatalf("empty session must not be authenticated")
	}

	s.AuthToken = "tok"
	if s.Authenticated() {
		t.Fatalf("token without profile must not be authenticated")
	}

	s.Profile = &Profile{User: User{Role: RolePatient}}
	if !s.Authenticated() {
		t.Fatalf("token with profile must be authenticated")
	}
}

func TestSession_Clone(t *testing.T) {
	orig := Session{
		AuthToken: "tok",
		Profile: &Profile{
			User:    User{ID: 7, Role: RolePatient},
			Patient: &PatientDetails{ID: 3, BloodType: "O+"},
		},
		Records: []MedicalRecord{{ID: 1, Title: "Vaccination"}},
	}

	clone := orig.Clone()
	clone.Profile.User.ID = 99
	clone.Profile.Patient.BloodType = "AB-"
	clone.Records[0].Title = "changed"

	if orig.Profile.User.ID != 7 {
		t.Fatalf("clone shares user with original")
	}
	if orig.Profile.Patient.BloodType != "O+" {
		t.Fatalf("clone shares patient details with original")
	}
	if orig.Records[0].Title != "Vaccination" {
		t.Fatalf("clone shares records with original")
	}
}
