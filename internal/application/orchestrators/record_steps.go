package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domain "dkl/internal/domain/steps"
)

// StepsStore is the counter persistence RecordSteps needs.
type StepsStore interface {
	Increment(ctx context.Context, naam string, delta int64, at time.Time) (domain.Participant, int64, error)
	Top(ctx context.Context, n int) ([]domain.Participant, error)
}

// StepsPublisher fans counter changes out to live subscribers.
type StepsPublisher interface {
	PublishStep(p domain.Participant, delta int64)
	PublishTotal(total int64)
	PublishLeaderboard(top []domain.Entry)
}

// RecordStepsDeps holds dependencies for RecordSteps. Lock, when set, is
// held from the increment until the frames are published, so concurrent
// callers sharing it publish totals in increment order.
type RecordStepsDeps struct {
	StepsStore StepsStore
	Publisher  StepsPublisher
	Lock       sync.Locker
	Now        func() time.Time
}

// RecordStepsResult is the counter after the increment.
type RecordStepsResult struct {
	Participant domain.Participant
	Total       int64
}

// ExecuteRecordSteps adds steps for a participant and publishes the new
// totals.
// PRE: deps are set
// POST: Store updated; step, total and leaderboard frames published in that order
func ExecuteRecordSteps(ctx context.Context, in domain.Increment, deps RecordStepsDeps) (RecordStepsResult, error) {
	if err := in.Validate(); err != nil {
		return RecordStepsResult{}, err
	}
	if deps.Lock != nil {
		deps.Lock.Lock()
		defer deps.Lock.Unlock()
	}
	p, total, err := deps.StepsStore.Increment(ctx, in.Participant, in.Delta, deps.Now())
	if err != nil {
		return RecordStepsResult{}, fmt.Errorf("increment steps: %w", err)
	}
	slog.Info("steps_recorded", "participant", p.Naam, "delta", in.Delta, "total", total)

	deps.Publisher.PublishStep(p, in.Delta)
	deps.Publisher.PublishTotal(total)
	top, err := deps.StepsStore.Top(ctx, domain.LeaderboardSize)
	if err != nil {
		slog.Error("steps_leaderboard_failed", "error", err)
	} else {
		deps.Publisher.PublishLeaderboard(domain.Leaderboard(top, domain.LeaderboardSize))
	}
	return RecordStepsResult{Participant: p, Total: total}, nil
}
