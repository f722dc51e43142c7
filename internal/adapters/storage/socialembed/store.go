package socialembed

import (
	"context"

	domain "dkl/internal/domain/socialembed"
)

// Store persists social media embeds.
type Store interface {
	// ListActive returns active embeds of a page section ordered by display_order.
	ListActive(ctx context.Context, section string) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
