package steps

import (
	"context"
	"time"

	domain "dkl/internal/domain/steps"
)

// Store persists per-participant step totals.
type Store interface {
	// Increment adds delta to the participant, creating it when new, and
	// returns the participant's and the overall total after the change.
	Increment(ctx context.Context, naam string, delta int64, at time.Time) (domain.Participant, int64, error)
	Total(ctx context.Context) (int64, error)
	// Top returns the n participants with the most steps.
	Top(ctx context.Context, n int) ([]domain.Participant, error)
}
