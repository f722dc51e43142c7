package outbox

import (
	"context"
	"time"

	domain "dkl/internal/domain/outbox"
)

// Store persists outbox entries.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	// Save inserts or updates an entry.
	Save(ctx context.Context, e domain.Entry) error
	// ListDue returns pending or retrying entries whose next attempt is at or
	// before now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Entry, error)
	// ListFailed returns entries that ran out of attempts, most recent first.
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)
	// Delete removes a terminal entry.
	Delete(ctx context.Context, id string) error
}
