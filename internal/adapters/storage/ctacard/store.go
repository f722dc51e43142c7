package ctacard

import (
	"context"

	domain "dkl/internal/domain/ctacard"
)

// Store persists call-to-action cards.
type Store interface {
	// ListActive returns active cards ordered by display_order.
	ListActive(ctx context.Context) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
