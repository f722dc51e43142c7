package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"dkl/internal/application/orchestrators"
	"dkl/internal/domain/contact"
	"dkl/internal/domain/modal"
	"dkl/internal/domain/registration"
	"dkl/internal/domain/submission"
)

// Messages for submit outcomes that are not field errors.
const (
	msgCheckFields        = "Controleer de gemarkeerde velden"
	msgInFlight           = "Je formulier wordt al verstuurd"
	msgRegistrationClosed = "De inschrijving is gesloten"
	msgInvalidRequest     = "Ongeldig verzoek"
)

// submitOutcome maps a submit result to a status and the message shown to
// the visitor. Field errors are returned separately for inline display.
// PRE: err is the error returned by a submit orchestrator
// POST: status is 200 only when err is nil
func submitOutcome(res submission.Result, err error) (status int, msg string, fields submission.FieldErrors) {
	if err == nil {
		return http.StatusOK, res.Message, nil
	}
	if fe, ok := submission.AsFieldErrors(err); ok {
		return http.StatusBadRequest, msgCheckFields, fe
	}
	switch {
	case errors.Is(err, submission.ErrInFlight):
		return http.StatusConflict, msgInFlight, nil
	case errors.Is(err, registration.ErrClosed):
		return http.StatusGone, msgRegistrationClosed, nil
	default:
		logSubmitError(err)
		return http.StatusInternalServerError, orchestrators.MsgSubmitFailed, nil
	}
}

// logSubmitError logs unexpected submit failures. Email failures are
// logged by the orchestrator with the record ID.
func logSubmitError(err error) {
	if errors.Is(err, orchestrators.ErrEmailNotSent) {
		return
	}
	slog.Error("submit_failed", "error", err)
}

func (s *Server) submitContact(ctx context.Context, form contact.Form) (submission.Result, error) {
	return orchestrators.ExecuteSubmitContact(ctx, form, orchestrators.SubmitContactDeps{
		ContactStore: s.deps.Contacts,
		Outbox:       s.deps.OutboxStore,
		EmailSender:  s.deps.Email,
		Guard:        &s.guard,
		AdminEmail:   s.cfg.AdminEmail,
		GenerateID:   s.deps.GenerateID,
		Now:          s.deps.Now,
	})
}

func (s *Server) submitRegistration(ctx context.Context, form registration.Form) (submission.Result, error) {
	return orchestrators.ExecuteSubmitRegistration(ctx, form, orchestrators.SubmitRegistrationDeps{
		RegistrationStore: s.deps.Registrations,
		Outbox:            s.deps.OutboxStore,
		EmailSender:       s.deps.Email,
		Guard:             &s.guard,
		Dates:             s.cfg.Dates,
		AdminEmail:        s.cfg.AdminEmail,
		GenerateID:        s.deps.GenerateID,
		Now:               s.deps.Now,
	})
}

// writeSubmitJSON answers a JSON submit with the result or an apiError.
func writeSubmitJSON(w http.ResponseWriter, res submission.Result, err error) {
	status, msg, fields := submitOutcome(res, err)
	if status == http.StatusOK {
		writeJSON(w, status, res)
		return
	}
	writeJSON(w, status, apiError{Error: msg, FieldErrors: fields})
}

func (s *Server) handleContactAPI(w http.ResponseWriter, r *http.Request) {
	var form contact.Form
	if err := strictDecode(w, r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: msgInvalidRequest})
		return
	}
	res, err := s.submitContact(r.Context(), form)
	writeSubmitJSON(w, res, err)
}

func (s *Server) handleRegistrationAPI(w http.ResponseWriter, r *http.Request) {
	var form registration.Form
	if err := strictDecode(w, r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: msgInvalidRequest})
		return
	}
	res, err := s.submitRegistration(r.Context(), form)
	writeSubmitJSON(w, res, err)
}

// checked reads an HTML checkbox.
func checked(r *http.Request, name string) bool {
	switch strings.ToLower(r.PostFormValue(name)) {
	case "on", "true", "1", "ja":
		return true
	}
	return false
}

// handleContactForm handles the contact dialog's form post. Success
// redirects to the home page with a thank-you message; anything else shows
// the dialog again with the input and the errors.
func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	form := contact.Form{
		Naam:           r.PostFormValue("naam"),
		Email:          r.PostFormValue("email"),
		Bericht:        r.PostFormValue("bericht"),
		PrivacyAkkoord: checked(r, "privacy_akkoord"),
		Website:        r.PostFormValue("website"),
	}
	res, err := s.submitContact(r.Context(), form)
	status, msg, fields := submitOutcome(res, err)
	if status == http.StatusOK {
		http.Redirect(w, r, "/?bedankt=contact", http.StatusSeeOther)
		return
	}

	p := modal.NewProvider()
	p.OpenContact()
	s.renderHome(w, r, status, p, func(d *dialogs) {
		d.Contact = contactDialog{Form: form, Errors: fields, Message: msg}
	})
}

// handleRegistrationForm handles the registration dialog's form post.
func (s *Server) handleRegistrationForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	form := registration.Form{
		Naam:           r.PostFormValue("naam"),
		Email:          r.PostFormValue("email"),
		Telefoon:       r.PostFormValue("telefoon"),
		Rol:            r.PostFormValue("rol"),
		Afstand:        r.PostFormValue("afstand"),
		Ondersteuning:  r.PostFormValue("ondersteuning"),
		Bijzonderheden: r.PostFormValue("bijzonderheden"),
		Terms:          checked(r, "terms"),
		Website:        r.PostFormValue("website"),
	}
	res, err := s.submitRegistration(r.Context(), form)
	status, msg, fields := submitOutcome(res, err)
	if status == http.StatusOK {
		http.Redirect(w, r, "/?bedankt=aanmelding", http.StatusSeeOther)
		return
	}

	p := modal.NewProvider()
	p.OpenRegister()
	s.renderHome(w, r, status, p, func(d *dialogs) {
		d.Register.Form = form
		d.Register.Errors = fields
		d.Register.Message = msg
	})
}
