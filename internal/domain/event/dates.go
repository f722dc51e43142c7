// Package event holds the walk's key dates.
package event

import (
	"math"
	"time"
)

// Dates are the configured moments that drive countdowns and form state.
type Dates struct {
	Start                time.Time
	RegistrationDeadline time.Time
	EarlyBirdEnd         time.Time
}

// DaysUntil returns whole days until the start, rounded up, and 0 once
// the walk has begun.
func (d Dates) DaysUntil(now time.Time) int {
	left := d.Start.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// RegistrationOpen reports whether sign-ups are still accepted.
func (d Dates) RegistrationOpen(now time.Time) bool {
	return !now.After(d.RegistrationDeadline)
}

// EarlyBirdActive reports whether the early-bird period is running.
func (d Dates) EarlyBirdActive(now time.Time) bool {
	return now.Before(d.EarlyBirdEnd)
}

// Passed reports whether the walk has started.
func (d Dates) Passed(now time.Time) bool {
	return !now.Before(d.Start)
}
