package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	emailAdapter "dkl/internal/adapters/email"
	"dkl/internal/domain/contact"
)

// ErrMissingFields is returned when to, subject or html is empty.
var ErrMissingFields = errors.New("to, subject and html are required")

// SendContactEmailInput is the body of POST /api/email/send-contact.
type SendContactEmailInput struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	ReplyTo string `json:"replyTo"`
}

// SendContactEmailDeps holds dependencies for SendContactEmail.
type SendContactEmailDeps struct {
	EmailSender emailAdapter.Sender
	Policy      *bluemonday.Policy // nil uses the UGC policy
}

// ExecuteSendContactEmail sends one message on behalf of the site. The HTML
// is sanitised before it leaves the server.
// PRE: deps.EmailSender is set
// POST: Returns ErrMissingFields before contacting the provider
func ExecuteSendContactEmail(ctx context.Context, input SendContactEmailInput, deps SendContactEmailDeps) (emailAdapter.SendResult, error) {
	to := strings.TrimSpace(input.To)
	subject := strings.TrimSpace(input.Subject)
	if to == "" || subject == "" || strings.TrimSpace(input.HTML) == "" {
		return emailAdapter.SendResult{}, ErrMissingFields
	}
	replyTo := strings.TrimSpace(input.ReplyTo)
	if replyTo != "" && !contact.ValidEmail(replyTo) {
		replyTo = ""
	}

	policy := deps.Policy
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	res, err := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{to},
		Subject: subject,
		HTML:    policy.Sanitize(input.HTML),
		ReplyTo: replyTo,
	})
	if err != nil {
		return emailAdapter.SendResult{}, fmt.Errorf("send contact email: %w", err)
	}
	slog.Info("contact_email_sent", "message_id", res.MessageID)
	return res, nil
}
