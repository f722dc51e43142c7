// Package outbox models deferred side effects, such as confirmation emails,
// that are retried until they succeed or run out of attempts.
package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Entry statuses.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// ActionEmail is the only action type the site queues.
const ActionEmail = "email"

// DefaultMaxAttempts applies when an entry does not set its own limit.
const DefaultMaxAttempts = 5

var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrNotRetryable    = errors.New("entry cannot be retried")
)

// Entry is one queued action with its delivery history.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	NextAttemptAt   time.Time
	CreatedAt       time.Time
	ExternalID      string // provider message ID once delivered
	ErrorMessage    string
}

// EmailPayload is the replayable form of one outgoing message.
type EmailPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
	// Ref links the email to the submission that caused it, e.g. "contact:<id>".
	Ref string `json:"ref,omitempty"`
}

// NewEmail builds a pending email entry.
// PRE: p has at least one recipient
// POST: Returns a valid pending entry or an error
func NewEmail(id string, p EmailPayload, now time.Time) (Entry, error) {
	if len(p.To) == 0 {
		return Entry{}, errors.New("email payload needs a recipient")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return Entry{}, fmt.Errorf("encode email payload: %w", err)
	}
	e := Entry{
		ID:            id,
		ActionType:    ActionEmail,
		Payload:       string(raw),
		Status:        StatusPending,
		MaxAttempts:   DefaultMaxAttempts,
		CreatedAt:     now,
		NextAttemptAt: now,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Email decodes the payload of an email entry.
func (e *Entry) Email() (EmailPayload, error) {
	var p EmailPayload
	if e.ActionType != ActionEmail {
		return p, fmt.Errorf("entry %s is %q, not email", e.ID, e.ActionType)
	}
	if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
		return p, fmt.Errorf("decode email payload: %w", err)
	}
	return p, nil
}

// Validate checks required fields and fills in MaxAttempts.
// PRE: none
// POST: Returns nil if the entry can be stored
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry reports whether another attempt is allowed.
func (e *Entry) CanRetry() bool {
	switch e.Status {
	case StatusPending, StatusRetrying, StatusFailed:
		return e.Attempts < e.MaxAttempts
	}
	return false
}

// Due reports whether the entry may be attempted at now.
func (e *Entry) Due(now time.Time) bool {
	return e.CanRetry() && !now.Before(e.NextAttemptAt)
}

// IsTerminal reports whether no further attempts will be made.
func (e *Entry) IsTerminal() bool {
	switch e.Status {
	case StatusDone, StatusAbandoned:
		return true
	case StatusFailed:
		return e.Attempts >= e.MaxAttempts
	}
	return false
}

// MarkAttempt records the start of an attempt.
// PRE: CanRetry is true
// POST: Attempts incremented and status retrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess records a delivered action.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records a failed attempt and schedules the next one. Once
// attempts are exhausted the entry becomes failed.
// POST: ErrorMessage set; NextAttemptAt = now + delay when still retrying
func (e *Entry) MarkFailed(err error, now time.Time, baseDelay, maxDelay time.Duration) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
		return
	}
	e.NextAttemptAt = now.Add(e.NextRetryDelay(baseDelay, maxDelay))
}

// MarkAbandoned stops all further attempts.
func (e *Entry) MarkAbandoned() {
	e.Status = StatusAbandoned
}

// NextRetryDelay returns baseDelay * 2^(attempts-1), capped at maxDelay.
func (e *Entry) NextRetryDelay(baseDelay, maxDelay time.Duration) time.Duration {
	n := e.Attempts - 1
	if n < 0 {
		n = 0
	}
	if n > 30 {
		return maxDelay
	}
	delay := baseDelay * (1 << n)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}
