package photo

import (
	"context"

	domain "dkl/internal/domain/photo"
)

// Store persists gallery photos.
type Store interface {
	// ListVisible returns visible photos, newest year first.
	ListVisible(ctx context.Context) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
