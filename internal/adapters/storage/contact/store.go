package contact

import (
	"context"
	"time"

	domain "dkl/internal/domain/contact"
)

// Store persists contact form messages.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Submission, error)
	// Create inserts a new message. Messages are never overwritten.
	Create(ctx context.Context, s domain.Submission) error
	// MarkEmailSent sets email_verzonden and its timestamp.
	MarkEmailSent(ctx context.Context, id string, at time.Time) error
}
