package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendBatchLimit is the maximum number of messages per batch call.
const resendBatchLimit = 100

// ResendSender sends email through the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	replyTo string
	now     func() time.Time
}

// ResendOption configures a ResendSender.
type ResendOption func(*ResendSender)

// WithBaseURL points the client at another API host.
func WithBaseURL(u *url.URL) ResendOption {
	return func(s *ResendSender) { s.client.BaseURL = u }
}

// WithReplyTo sets the reply-to used when a request carries none.
func WithReplyTo(addr string) ResendOption {
	return func(s *ResendSender) { s.replyTo = addr }
}

// NewResendSender creates a sender with a default from address.
// PRE: apiKey is a Resend API key; from is a verified sender address
// POST: Returns a ready-to-use sender
func NewResendSender(apiKey, from string, opts ...ResendOption) *ResendSender {
	s := &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResendSender) params(req SendRequest) *resend.SendEmailRequest {
	from := req.From
	if from == "" {
		from = s.from
	}
	replyTo := req.ReplyTo
	if replyTo == "" {
		replyTo = s.replyTo
	}
	return &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: replyTo,
	}
}

// Send sends one message.
// PRE: req passes Validate
// POST: Message is accepted by Resend; returns its ID
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if err := req.Validate(); err != nil {
		return SendResult{}, err
	}
	sent, err := s.client.Emails.SendWithContext(ctx, s.params(req))
	if err != nil {
		slog.Error("resend_send_failed", "error", err, "subject", req.Subject)
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}
	slog.Info("resend_sent", "message_id", sent.Id, "subject", req.Subject)
	return SendResult{MessageID: sent.Id, SentAt: s.now()}, nil
}

// SendBatch sends messages in chunks of up to 100. On error the results of
// the chunks already sent are returned with it.
// PRE: every request passes Validate
// POST: Returns one result per request, in order
func (s *ResendSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	var results []SendResult
	for start := 0; start < len(reqs); start += resendBatchLimit {
		chunk := reqs[start:min(start+resendBatchLimit, len(reqs))]
		params := make([]*resend.SendEmailRequest, 0, len(chunk))
		for _, req := range chunk {
			if err := req.Validate(); err != nil {
				return results, err
			}
			params = append(params, s.params(req))
		}

		resp, err := s.client.Batch.SendWithContext(ctx, params)
		if err != nil {
			slog.Error("resend_batch_failed", "error", err, "batch_size", len(chunk))
			return results, fmt.Errorf("resend batch send: %w", err)
		}
		if len(resp.Data) != len(chunk) {
			return results, fmt.Errorf("resend batch send: %d of %d accepted", len(resp.Data), len(chunk))
		}
		for _, item := range resp.Data {
			results = append(results, SendResult{MessageID: item.Id, SentAt: s.now()})
		}
		slog.Info("resend_batch_sent", "count", len(chunk))
	}
	return results, nil
}
