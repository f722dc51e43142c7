package titlesection

import (
	"context"
	"errors"

	domain "dkl/internal/domain/titlesection"
)

// ErrNotFound is returned when no title section has been stored.
var ErrNotFound = errors.New("title section not found")

// Store persists the home page title section.
type Store interface {
	// Get returns the most recently updated title section.
	Get(ctx context.Context) (domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
}
