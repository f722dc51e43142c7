package video

import (
	"context"

	domain "dkl/internal/domain/video"
)

// Store persists video rows.
type Store interface {
	// ListVisible returns videos not explicitly hidden, ordered by order_number.
	ListVisible(ctx context.Context) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
