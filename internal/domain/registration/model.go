// Package registration models sign-ups for the walk.
package registration

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"dkl/internal/domain/contact"
	"dkl/internal/domain/submission"
)

// Roles a person can sign up for.
const (
	RolDeelnemer    = "Deelnemer"
	RolBegeleider   = "Begeleider"
	RolVrijwilliger = "Vrijwilliger"
)

// Support options.
const (
	OndersteuningJa     = "Ja"
	OndersteuningNee    = "Nee"
	OndersteuningAnders = "Anders"
)

// StatusPending is the status of a new registration.
const StatusPending = "pending"

var (
	Rollen        = []string{RolDeelnemer, RolBegeleider, RolVrijwilliger}
	Afstanden     = []string{"2.5 KM", "6 KM", "10 KM", "15 KM"}
	Ondersteuning = []string{OndersteuningJa, OndersteuningNee, OndersteuningAnders}
)

var (
	// ErrClosed is returned after the registration deadline.
	ErrClosed = errors.New("registration is closed")
	// ErrDuplicate is returned when the email address is already registered.
	ErrDuplicate = errors.New("email already registered")
)

var phonePattern = regexp.MustCompile(`^(\+31|0)[6-9]\d{8}$`)

// Form is the raw input of the registration form.
type Form struct {
	Naam           string `json:"naam"`
	Email          string `json:"email"`
	Telefoon       string `json:"telefoon"`
	Rol            string `json:"rol"`
	Afstand        string `json:"afstand"`
	Ondersteuning  string `json:"ondersteuning"`
	Bijzonderheden string `json:"bijzonderheden"`
	Terms          bool   `json:"terms"`
	Website        string `json:"website"` // honeypot
}

// IsBot reports whether the honeypot was filled in.
func (f Form) IsBot() bool {
	return strings.TrimSpace(f.Website) != ""
}

// Registration is a stored sign-up.
type Registration struct {
	ID               string
	Naam             string
	Email            string
	Telefoon         string
	Rol              string
	Afstand          string
	Ondersteuning    string
	Bijzonderheden   string
	Terms            bool
	Status           string
	EmailVerzonden   bool
	EmailVerzondenOp *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Parse validates the form and returns a pending registration.
// PRE: none
// POST: Returns submission.FieldErrors when any field is invalid
func (f Form) Parse(id string, now time.Time) (Registration, error) {
	fe := submission.FieldErrors{}
	r := Registration{
		ID:             id,
		Naam:           strings.TrimSpace(f.Naam),
		Email:          strings.TrimSpace(f.Email),
		Telefoon:       NormalizePhone(f.Telefoon),
		Rol:            strings.TrimSpace(f.Rol),
		Afstand:        strings.TrimSpace(f.Afstand),
		Ondersteuning:  strings.TrimSpace(f.Ondersteuning),
		Bijzonderheden: strings.TrimSpace(f.Bijzonderheden),
		Terms:          f.Terms,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if utf8.RuneCountInString(r.Naam) < 2 {
		fe.Add("naam", "Naam moet minimaal 2 karakters zijn")
	}
	if !contact.ValidEmail(r.Email) {
		fe.Add("email", "Ongeldig email adres")
	}
	if r.Telefoon != "" && !phonePattern.MatchString(r.Telefoon) {
		fe.Add("telefoon", "Ongeldig telefoonnummer")
	}
	if !slices.Contains(Rollen, r.Rol) {
		fe.Add("rol", "Kies een rol")
	}
	switch {
	case r.Afstand == "" && r.Rol == RolDeelnemer:
		fe.Add("afstand", "Kies een afstand")
	case r.Afstand != "" && !slices.Contains(Afstanden, r.Afstand):
		fe.Add("afstand", "Kies een geldige afstand")
	}
	if !slices.Contains(Ondersteuning, r.Ondersteuning) {
		fe.Add("ondersteuning", "Maak een keuze")
	} else if r.Ondersteuning != OndersteuningNee && r.Bijzonderheden == "" {
		fe.Add("bijzonderheden", "Beschrijf welke ondersteuning je nodig hebt")
	}
	if !r.Terms {
		fe.Add("terms", "Je moet akkoord gaan met de voorwaarden")
	}
	if err := fe.Err(); err != nil {
		return Registration{}, err
	}
	return r, nil
}

// MarkEmailSent records a delivered confirmation.
func (r *Registration) MarkEmailSent(at time.Time) {
	r.EmailVerzonden = true
	r.EmailVerzondenOp = &at
	r.UpdatedAt = at
}

// NormalizePhone strips spaces and dashes.
func NormalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}
