package outbox_test

import (
	"errors"
	"testing"
	"time"

	"dkl/internal/domain/outbox"
)

func TestNewEmail_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := outbox.EmailPayload{To: []string{"jan@example.nl"}, Subject: "Bedankt", HTML: "<p>Hoi</p>", Ref: "contact:c1"}
	e, err := outbox.NewEmail("o1", p, now)
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}
	if e.Status != outbox.StatusPending || e.MaxAttempts != outbox.DefaultMaxAttempts || !e.Due(now) {
		t.Errorf("entry = %+v", e)
	}
	got, err := e.Email()
	if err != nil {
		t.Fatalf("Email: %v", err)
	}
	if got.Subject != "Bedankt" || got.Ref != "contact:c1" {
		t.Errorf("payload = %+v", got)
	}

	if _, err := outbox.NewEmail("o2", outbox.EmailPayload{}, now); err == nil {
		t.Error("payload without recipient accepted")
	}
}

// TestEntry_RetrySchedule walks an entry through every attempt.
func TestEntry_RetrySchedule(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e, err := outbox.NewEmail("o1", outbox.EmailPayload{To: []string{"a@b.nl"}}, now)
	if err != nil {
		t.Fatal(err)
	}
	e.MaxAttempts = 3
	base, maxDelay := 30*time.Second, time.Minute

	wantDelays := []time.Duration{30 * time.Second, time.Minute}
	for i, want := range wantDelays {
		e.MarkAttempt(now)
		e.MarkFailed(errors.New("provider down"), now, base, maxDelay)
		if got := e.NextAttemptAt.Sub(now); got != want {
			t.Errorf("attempt %d: delay = %v, want %v", i+1, got, want)
		}
		if e.Due(now) {
			t.Errorf("attempt %d: due before its delay", i+1)
		}
		if !e.Due(e.NextAttemptAt) {
			t.Errorf("attempt %d: not due after its delay", i+1)
		}
	}

	e.MarkAttempt(now)
	e.MarkFailed(errors.New("provider down"), now, base, maxDelay)
	if e.Status != outbox.StatusFailed || !e.IsTerminal() || e.CanRetry() {
		t.Errorf("exhausted entry = %+v", e)
	}
}

func TestEntry_Abandon(t *testing.T) {
	e := outbox.Entry{Status: outbox.StatusPending, MaxAttempts: 5}
	e.MarkAbandoned()
	if !e.IsTerminal() || e.CanRetry() {
		t.Errorf("abandoned entry = %+v", e)
	}
}

func TestEntry_MarkSuccess(t *testing.T) {
	e := outbox.Entry{Status: outbox.StatusRetrying, ErrorMessage: "x", MaxAttempts: 5}
	e.MarkSuccess("msg_123")
	if e.Status != outbox.StatusDone || e.ExternalID != "msg_123" || e.ErrorMessage != "" {
		t.Errorf("entry = %+v", e)
	}
}
