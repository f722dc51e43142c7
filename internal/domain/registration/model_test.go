package registration_test

import (
	"testing"
	"time"

	"dkl/internal/domain/registration"
	"dkl/internal/domain/submission"
)

func TestForm_Parse(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	valid := registration.Form{
		Naam:          "Marieke de Vries",
		Email:         "marieke@example.nl",
		Telefoon:      "06-1234 5678",
		Rol:           registration.RolDeelnemer,
		Afstand:       "6 KM",
		Ondersteuning: registration.OndersteuningNee,
		Terms:         true,
	}

	tests := []struct {
		name      string
		mutate    func(*registration.Form)
		wantField string
	}{
		{name: "valid"},
		{name: "begeleider without distance", mutate: func(f *registration.Form) { f.Rol = registration.RolBegeleider; f.Afstand = "" }},
		{name: "international prefix", mutate: func(f *registration.Form) { f.Telefoon = "+31 6 12345678" }},
		{name: "no phone", mutate: func(f *registration.Form) { f.Telefoon = "" }},
		{name: "support with details", mutate: func(f *registration.Form) {
			f.Ondersteuning = registration.OndersteuningJa
			f.Bijzonderheden = "Rolstoel"
		}},
		{name: "short name", mutate: func(f *registration.Form) { f.Naam = "M" }, wantField: "naam"},
		{name: "bad email", mutate: func(f *registration.Form) { f.Email = "marieke" }, wantField: "email"},
		{name: "landline", mutate: func(f *registration.Form) { f.Telefoon = "0201234567" }, wantField: "telefoon"},
		{name: "unknown role", mutate: func(f *registration.Form) { f.Rol = "Toeschouwer" }, wantField: "rol"},
		{name: "participant without distance", mutate: func(f *registration.Form) { f.Afstand = "" }, wantField: "afstand"},
		{name: "unknown distance", mutate: func(f *registration.Form) { f.Afstand = "42 KM" }, wantField: "afstand"},
		{name: "support without details", mutate: func(f *registration.Form) { f.Ondersteuning = registration.OndersteuningAnders }, wantField: "bijzonderheden"},
		{name: "no support choice", mutate: func(f *registration.Form) { f.Ondersteuning = "" }, wantField: "ondersteuning"},
		{name: "terms not accepted", mutate: func(f *registration.Form) { f.Terms = false }, wantField: "terms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			if tt.mutate != nil {
				tt.mutate(&f)
			}
			r, err := f.Parse("r1", now)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if r.Status != registration.StatusPending {
					t.Errorf("status = %q, want pending", r.Status)
				}
				return
			}
			fe, ok := submission.AsFieldErrors(err)
			if !ok {
				t.Fatalf("error = %v, want FieldErrors", err)
			}
			if len(fe) != 1 || fe[tt.wantField] == "" {
				t.Errorf("field errors = %v, want only %s", fe, tt.wantField)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := registration.NormalizePhone(" 06-12 34 56 78 "); got != "0612345678" {
		t.Errorf("NormalizePhone = %q", got)
	}
}
