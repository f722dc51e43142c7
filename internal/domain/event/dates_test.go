package event_test

import (
	"testing"
	"time"

	"dkl/internal/domain/event"
)

func TestDates(t *testing.T) {
	ams := time.FixedZone("CEST", 2*60*60)
	d := event.Dates{
		Start:                time.Date(2026, 5, 16, 10, 0, 0, 0, ams),
		RegistrationDeadline: time.Date(2026, 5, 15, 23, 59, 59, 0, ams),
		EarlyBirdEnd:         time.Date(2026, 3, 1, 0, 0, 0, 0, ams),
	}

	tests := []struct {
		name      string
		now       time.Time
		days      int
		open      bool
		earlyBird bool
		passed    bool
	}{
		{"february", time.Date(2026, 2, 14, 10, 0, 0, 0, ams), 91, true, true, false},
		{"day before", time.Date(2026, 5, 15, 12, 0, 0, 0, ams), 1, true, false, false},
		{"after deadline", time.Date(2026, 5, 16, 8, 0, 0, 0, ams), 1, false, false, false},
		{"start", d.Start, 0, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.DaysUntil(tt.now); got != tt.days {
				t.Errorf("DaysUntil = %d, want %d", got, tt.days)
			}
			if got := d.RegistrationOpen(tt.now); got != tt.open {
				t.Errorf("RegistrationOpen = %v, want %v", got, tt.open)
			}
			if got := d.EarlyBirdActive(tt.now); got != tt.earlyBird {
				t.Errorf("EarlyBirdActive = %v, want %v", got, tt.earlyBird)
			}
			if got := d.Passed(tt.now); got != tt.passed {
				t.Errorf("Passed = %v, want %v", got, tt.passed)
			}
		})
	}
}
