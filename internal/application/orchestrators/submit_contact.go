package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "dkl/internal/adapters/email"
	domain "dkl/internal/domain/contact"
	"dkl/internal/domain/submission"
)

// ErrEmailNotSent is returned when a submit was saved but its confirmation
// could not be delivered. The email is queued for retry.
var ErrEmailNotSent = errors.New("confirmation email not sent")

// ContactStore is the contact persistence the submit flow needs.
type ContactStore interface {
	Create(ctx context.Context, s domain.Submission) error
	MarkEmailSent(ctx context.Context, id string, at time.Time) error
}

// SubmitContactDeps holds dependencies for SubmitContact.
type SubmitContactDeps struct {
	ContactStore ContactStore
	Outbox       OutboxWriter
	EmailSender  emailAdapter.Sender
	Guard        *submission.Guard
	AdminEmail   string // receives the notification
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSubmitContact stores a contact message and sends the confirmation
// and the notification to the organisers.
// PRE: deps are set; Guard is shared by all requests
// POST: On success the message is stored with email_verzonden set.
// POST: A filled honeypot returns a dropped result with nothing stored.
// POST: When email fails the message stays stored and the email is queued.
func ExecuteSubmitContact(ctx context.Context, form domain.Form, deps SubmitContactDeps) (submission.Result, error) {
	if form.IsBot() {
		slog.Info("contact_honeypot_dropped")
		return submission.Result{Dropped: true, Message: MsgContactSent}, nil
	}

	now := deps.Now()
	sub, err := form.Parse(deps.GenerateID(), now)
	if err != nil {
		return submission.Result{}, err
	}

	release, ok := deps.Guard.Acquire(submission.Key("contact", sub.Email))
	if !ok {
		return submission.Result{}, submission.ErrInFlight
	}
	defer release()

	if err := deps.ContactStore.Create(ctx, sub); err != nil {
		return submission.Result{}, fmt.Errorf("save contact: %w", err)
	}
	slog.Info("contact_saved", "contact_id", sub.ID)

	reqs, err := contactEmails(sub, deps.AdminEmail)
	if err != nil {
		return submission.Result{ID: sub.ID, Message: MsgSubmitFailed}, err
	}
	if _, err := deps.EmailSender.SendBatch(ctx, reqs); err != nil {
		slog.Error("contact_email_failed", "contact_id", sub.ID, "error", err)
		queueEmails(ctx, deps.Outbox, reqs, "contact:"+sub.ID, deps.GenerateID, now)
		return submission.Result{ID: sub.ID, Message: MsgSubmitFailed}, fmt.Errorf("%w: %v", ErrEmailNotSent, err)
	}

	sentAt := deps.Now()
	if err := deps.ContactStore.MarkEmailSent(ctx, sub.ID, sentAt); err != nil {
		slog.Error("contact_mark_sent_failed", "contact_id", sub.ID, "error", err)
	}
	return submission.Result{ID: sub.ID, EmailSent: true, Message: MsgContactSent}, nil
}

func contactEmails(sub domain.Submission, adminEmail string) ([]emailAdapter.SendRequest, error) {
	confirmation, err := renderMail("contact_confirmation", sub)
	if err != nil {
		return nil, err
	}
	reqs := []emailAdapter.SendRequest{{
		To:      []string{sub.Email},
		Subject: "Bedankt voor je bericht - De Koninklijke Loop",
		HTML:    confirmation,
	}}
	if adminEmail != "" {
		notification, err := renderMail("contact_notification", sub)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, emailAdapter.SendRequest{
			To:      []string{adminEmail},
			Subject: "Nieuw contactformulier: " + sub.Naam,
			HTML:    notification,
			ReplyTo: sub.Email,
		})
	}
	return reqs, nil
}
