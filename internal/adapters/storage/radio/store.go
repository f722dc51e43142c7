package radio

import (
	"context"

	domain "dkl/internal/domain/radio"
)

// Store persists radio recordings.
type Store interface {
	// ListVisible returns visible recordings ordered by order_number.
	ListVisible(ctx context.Context) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
