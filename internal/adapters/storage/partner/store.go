package partner

import (
	"context"

	domain "dkl/internal/domain/partner"
)

// Store persists partner rows.
type Store interface {
	// ListVisible returns visible partners ordered by order_number.
	ListVisible(ctx context.Context) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
