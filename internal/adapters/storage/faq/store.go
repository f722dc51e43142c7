package faq

import (
	"context"

	domain "dkl/internal/domain/faq"
)

// Store persists the assistant's questions.
type Store interface {
	// ListVisible returns visible items grouped by category, each category
	// in order_number order.
	ListVisible(ctx context.Context) ([]domain.Row, error)
	Save(ctx context.Context, r domain.Row) error
	Count(ctx context.Context) (int, error)
}
