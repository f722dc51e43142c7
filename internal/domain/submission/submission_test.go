package submission_test

import (
	"errors"
	"sync"
	"testing"

	"dkl/internal/domain/submission"
)

func TestFlow_Lifecycle(t *testing.T) {
	var f submission.Flow
	if f.Status() != submission.Idle {
		t.Fatalf("zero Flow status = %v, want idle", f.Status())
	}
	if err := f.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := f.Begin(); !errors.Is(err, submission.ErrInFlight) {
		t.Fatalf("second Begin = %v, want ErrInFlight", err)
	}
	f.Fail("Er ging iets mis")
	if f.Status() != submission.Failed || f.Message() != "Er ging iets mis" {
		t.Errorf("after Fail: %v %q", f.Status(), f.Message())
	}
	if err := f.Begin(); err != nil {
		t.Fatalf("Begin after failure: %v", err)
	}
	if f.Message() != "" {
		t.Errorf("Begin did not clear message: %q", f.Message())
	}
	f.Succeed()
	if f.Status() != submission.Succeeded {
		t.Errorf("status = %v, want succeeded", f.Status())
	}
	f.Reset()
	if f.Status() != submission.Idle {
		t.Errorf("status = %v, want idle", f.Status())
	}
}

// TestGuard_Exclusive verifies only one of many concurrent acquirers wins.
func TestGuard_Exclusive(t *testing.T) {
	var g submission.Guard
	key := submission.Key("contact", " Jan@Example.nl ")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
		rels []func()
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, ok := g.Acquire(key)
			if ok {
				mu.Lock()
				wins++
				rels = append(rels, release)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}

	rels[0]()
	rels[0]() // second release is harmless
	release, ok := g.Acquire(submission.Key("contact", "jan@example.nl"))
	if !ok {
		t.Fatal("Acquire after release failed")
	}
	release()
}

func TestFieldErrors(t *testing.T) {
	fe := submission.FieldErrors{}
	if fe.Err() != nil {
		t.Fatal("empty FieldErrors should be nil error")
	}
	fe.Add("naam", "eerste")
	fe.Add("naam", "tweede")
	fe.Add("email", "fout")
	if fe["naam"] != "eerste" {
		t.Errorf("naam = %q, first error should win", fe["naam"])
	}
	if got := fe.Error(); got != "invalid fields: email, naam" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := errors.Join(errors.New("context"), fe.Err())
	got, ok := submission.AsFieldErrors(wrapped)
	if !ok || len(got) != 2 {
		t.Errorf("AsFieldErrors = %v, %v", got, ok)
	}
}
