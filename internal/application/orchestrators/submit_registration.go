package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "dkl/internal/adapters/email"
	"dkl/internal/domain/event"
	domain "dkl/internal/domain/registration"
	"dkl/internal/domain/submission"
)

const msgAlreadyRegistered = "Dit e-mailadres is al aangemeld"

// RegistrationStore is the registration persistence the submit flow needs.
type RegistrationStore interface {
	Create(ctx context.Context, r domain.Registration) error
	EmailExists(ctx context.Context, email string) (bool, error)
	MarkEmailSent(ctx context.Context, id string, at time.Time) error
}

// SubmitRegistrationDeps holds dependencies for SubmitRegistration.
type SubmitRegistrationDeps struct {
	RegistrationStore RegistrationStore
	Outbox            OutboxWriter
	EmailSender       emailAdapter.Sender
	Guard             *submission.Guard
	Dates             event.Dates
	AdminEmail        string
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteSubmitRegistration stores a sign-up and sends its confirmation.
// PRE: deps are set
// POST: Returns domain.ErrClosed after the registration deadline.
// POST: A second sign-up with the same email is a field error on email.
// POST: When email fails the sign-up stays stored and the email is queued.
func ExecuteSubmitRegistration(ctx context.Context, form domain.Form, deps SubmitRegistrationDeps) (submission.Result, error) {
	if form.IsBot() {
		slog.Info("registration_honeypot_dropped")
		return submission.Result{Dropped: true, Message: MsgRegistrationSent}, nil
	}

	now := deps.Now()
	if !deps.Dates.RegistrationOpen(now) {
		return submission.Result{}, domain.ErrClosed
	}
	reg, err := form.Parse(deps.GenerateID(), now)
	if err != nil {
		return submission.Result{}, err
	}

	release, ok := deps.Guard.Acquire(submission.Key("registration", reg.Email))
	if !ok {
		return submission.Result{}, submission.ErrInFlight
	}
	defer release()

	exists, err := deps.RegistrationStore.EmailExists(ctx, reg.Email)
	if err != nil {
		return submission.Result{}, fmt.Errorf("check registration: %w", err)
	}
	if exists {
		return submission.Result{}, submission.FieldErrors{"email": msgAlreadyRegistered}
	}
	if err := deps.RegistrationStore.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return submission.Result{}, submission.FieldErrors{"email": msgAlreadyRegistered}
		}
		return submission.Result{}, fmt.Errorf("save registration: %w", err)
	}
	slog.Info("registration_saved", "registration_id", reg.ID, "rol", reg.Rol, "afstand", reg.Afstand)

	reqs, err := registrationEmails(reg, deps.AdminEmail)
	if err != nil {
		return submission.Result{ID: reg.ID, Message: MsgSubmitFailed}, err
	}
	if _, err := deps.EmailSender.SendBatch(ctx, reqs); err != nil {
		slog.Error("registration_email_failed", "registration_id", reg.ID, "error", err)
		queueEmails(ctx, deps.Outbox, reqs, "registration:"+reg.ID, deps.GenerateID, now)
		return submission.Result{ID: reg.ID, Message: MsgSubmitFailed}, fmt.Errorf("%w: %v", ErrEmailNotSent, err)
	}

	if err := deps.RegistrationStore.MarkEmailSent(ctx, reg.ID, deps.Now()); err != nil {
		slog.Error("registration_mark_sent_failed", "registration_id", reg.ID, "error", err)
	}
	return submission.Result{ID: reg.ID, EmailSent: true, Message: MsgRegistrationSent}, nil
}

func registrationEmails(reg domain.Registration, adminEmail string) ([]emailAdapter.SendRequest, error) {
	confirmation, err := renderMail("registration_confirmation", reg)
	if err != nil {
		return nil, err
	}
	reqs := []emailAdapter.SendRequest{{
		To:      []string{reg.Email},
		Subject: "Bevestiging aanmelding De Koninklijke Loop",
		HTML:    confirmation,
	}}
	if adminEmail != "" {
		notification, err := renderMail("registration_notification", reg)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, emailAdapter.SendRequest{
			To:      []string{adminEmail},
			Subject: "Nieuwe aanmelding: " + reg.Naam,
			HTML:    notification,
			ReplyTo: reg.Email,
		})
	}
	return reqs, nil
}
