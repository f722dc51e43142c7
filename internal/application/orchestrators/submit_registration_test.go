package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	outboxStore "dkl/internal/adapters/storage/outbox"
	registrationStore "dkl/internal/adapters/storage/registration"
	"dkl/internal/adapters/storage/storagetest"
	"dkl/internal/domain/event"
	domain "dkl/internal/domain/registration"
	"dkl/internal/domain/submission"
)

func newRegistrationDeps(t *testing.T, sender *fakeSender) (SubmitRegistrationDeps, *registrationStore.SQLiteStore) {
	t.Helper()
	db := storagetest.Open(t)
	store := registrationStore.NewSQLiteStore(db)
	return SubmitRegistrationDeps{
		RegistrationStore: store,
		Outbox:            outboxStore.NewSQLiteStore(db),
		EmailSender:       sender,
		Guard:             &submission.Guard{},
		Dates: event.Dates{
			Start:                testNow.Add(45 * 24 * time.Hour),
			RegistrationDeadline: testNow.Add(44 * 24 * time.Hour),
		},
		AdminEmail: "info@dekoninklijkeloop.nl",
		GenerateID: sequentialIDs(),
		Now:        fixedNow,
	}, store
}

var validRegistration = domain.Form{
	Naam:          "Anna Jansen",
	Email:         "anna@example.nl",
	Telefoon:      "06 1234 5678",
	Rol:           domain.RolDeelnemer,
	Afstand:       "10 KM",
	Ondersteuning: domain.OndersteuningNee,
	Terms:         true,
}

func TestExecuteSubmitRegistration_Success(t *testing.T) {
	sender := &fakeSender{}
	deps, store := newRegistrationDeps(t, sender)
	ctx := context.Background()

	res, err := ExecuteSubmitRegistration(ctx, validRegistration, deps)
	if err != nil {
		t.Fatalf("ExecuteSubmitRegistration: %v", err)
	}
	if !res.EmailSent || res.Message != MsgRegistrationSent {
		t.Errorf("result = %+v", res)
	}
	got, err := store.GetByID(ctx, res.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusPending || got.Telefoon != "0612345678" || !got.EmailVerzonden {
		t.Errorf("stored = %+v", got)
	}
	if reqs := sender.requests(); len(reqs) != 2 || reqs[0].To[0] != "anna@example.nl" {
		t.Errorf("sent = %+v", reqs)
	}
}

func TestExecuteSubmitRegistration_Duplicate(t *testing.T) {
	deps, _ := newRegistrationDeps(t, &fakeSender{})
	ctx := context.Background()
	if _, err := ExecuteSubmitRegistration(ctx, validRegistration, deps); err != nil {
		t.Fatal(err)
	}
	again := validRegistration
	again.Email = "ANNA@example.nl"
	_, err := ExecuteSubmitRegistration(ctx, again, deps)
	fe, ok := submission.AsFieldErrors(err)
	if !ok || fe["email"] != msgAlreadyRegistered {
		t.Fatalf("err = %v, want email field error", err)
	}
}

func TestExecuteSubmitRegistration_Closed(t *testing.T) {
	sender := &fakeSender{}
	deps, store := newRegistrationDeps(t, sender)
	deps.Dates.RegistrationDeadline = testNow.Add(-time.Minute)

	_, err := ExecuteSubmitRegistration(context.Background(), validRegistration, deps)
	if !errors.Is(err, domain.ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if n, _ := store.Count(context.Background()); n != 0 {
		t.Errorf("Count = %d after closed registration", n)
	}
}

func TestExecuteSubmitRegistration_EmailFailureKeepsRecord(t *testing.T) {
	sender := &fakeSender{err: errProvider}
	deps, store := newRegistrationDeps(t, sender)

	res, err := ExecuteSubmitRegistration(context.Background(), validRegistration, deps)
	if !errors.Is(err, ErrEmailNotSent) {
		t.Fatalf("err = %v, want ErrEmailNotSent", err)
	}
	got, err := store.GetByID(context.Background(), res.ID)
	if err != nil || got.EmailVerzonden {
		t.Errorf("stored = %+v, err = %v", got, err)
	}
}

func TestExecuteSubmitRegistration_Honeypot(t *testing.T) {
	sender := &fakeSender{}
	deps, store := newRegistrationDeps(t, sender)
	form := validRegistration
	form.Website = "x"
	res, err := ExecuteSubmitRegistration(context.Background(), form, deps)
	if err != nil || !res.Dropped {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
	if n, _ := store.Count(context.Background()); n != 0 || len(sender.requests()) != 0 {
		t.Error("honeypot submit had side effects")
	}
}
