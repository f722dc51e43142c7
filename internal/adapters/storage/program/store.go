package program

import (
	"context"

	domain "dkl/internal/domain/program"
)

// Store persists the event-day schedule.
type Store interface {
	// ListVisible returns visible schedule rows ordered by order_number.
	ListVisible(ctx context.Context) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
