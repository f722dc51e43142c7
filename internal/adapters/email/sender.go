// Package email delivers the site's outgoing mail: form confirmations,
// notifications to the organisers and messages from /api/email/send-contact.
package email

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecipients is returned for a request without recipients.
var ErrNoRecipients = errors.New("email has no recipients")

// SendRequest is one outgoing message.
type SendRequest struct {
	To      []string
	From    string // empty uses the sender's default, e.g. "De Koninklijke Loop <noreply@dekoninklijkeloop.nl>"
	Subject string
	HTML    string
	ReplyTo string
}

// Validate checks the fields every provider needs.
func (r SendRequest) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	if r.Subject == "" {
		return errors.New("email has no subject")
	}
	return nil
}

// SendResult is the provider's acknowledgement.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	// SendBatch sends all requests and returns results in request order.
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
