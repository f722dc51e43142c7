package sponsor

import (
	"context"

	domain "dkl/internal/domain/sponsor"
)

// Store persists sponsor rows.
type Store interface {
	// ListActive returns active sponsors not explicitly hidden, ordered by order_number.
	ListActive(ctx context.Context) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
