// Package contact models messages sent through the contact form.
package contact

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"dkl/internal/domain/submission"
)

// Statuses of a contact message in the back office.
const (
	StatusNieuw         = "nieuw"
	StatusInBehandeling = "in_behandeling"
	StatusAfgehandeld   = "afgehandeld"
)

// Form is the raw input of the contact form.
type Form struct {
	Naam           string `json:"naam"`
	Email          string `json:"email"`
	Bericht        string `json:"bericht"`
	PrivacyAkkoord bool   `json:"privacy_akkoord"`
	// Website is the honeypot field; people leave it empty.
	Website string `json:"website"`
}

// IsBot reports whether the honeypot was filled in.
func (f Form) IsBot() bool {
	return strings.TrimSpace(f.Website) != ""
}

// Submission is a stored contact message.
type Submission struct {
	ID               string
	Naam             string
	Email            string
	Bericht          string
	PrivacyAkkoord   bool
	Status           string
	EmailVerzonden   bool
	EmailVerzondenOp *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Parse validates the form and returns a new submission with status nieuw.
// PRE: none
// POST: Returns submission.FieldErrors when any field is invalid
func (f Form) Parse(id string, now time.Time) (Submission, error) {
	fe := submission.FieldErrors{}
	naam := strings.TrimSpace(f.Naam)
	email := strings.TrimSpace(f.Email)
	bericht := strings.TrimSpace(f.Bericht)

	if utf8.RuneCountInString(naam) < 2 {
		fe.Add("naam", "Naam moet minimaal 2 karakters zijn")
	}
	if !ValidEmail(email) {
		fe.Add("email", "Ongeldig email adres")
	}
	if bericht == "" {
		fe.Add("bericht", "Bericht is verplicht")
	}
	if !f.PrivacyAkkoord {
		fe.Add("privacy_akkoord", "Je moet akkoord gaan met het privacybeleid")
	}
	if err := fe.Err(); err != nil {
		return Submission{}, err
	}
	return Submission{
		ID:             id,
		Naam:           naam,
		Email:          email,
		Bericht:        bericht,
		PrivacyAkkoord: true,
		Status:         StatusNieuw,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkEmailSent records a delivered confirmation.
func (s *Submission) MarkEmailSent(at time.Time) {
	s.EmailVerzonden = true
	s.EmailVerzondenOp = &at
	s.UpdatedAt = at
}

// ValidEmail accepts a bare address with a dotted domain.
func ValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}
