package registration

import (
	"context"
	"time"

	domain "dkl/internal/domain/registration"
)

// Store persists sign-ups.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Registration, error)
	// Create inserts a sign-up. A second sign-up with the same email
	// returns domain.ErrDuplicate.
	Create(ctx context.Context, r domain.Registration) error
	EmailExists(ctx context.Context, email string) (bool, error)
	MarkEmailSent(ctx context.Context, id string, at time.Time) error
	Count(ctx context.Context) (int, error)
}
