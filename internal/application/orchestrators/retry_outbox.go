package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "dkl/internal/adapters/email"
	outboxStore "dkl/internal/adapters/storage/outbox"
	domain "dkl/internal/domain/outbox"
)

// OutboxProcessor retries queued actions with exponential backoff.
type OutboxProcessor struct {
	store     outboxStore.Store
	executors map[string]ActionExecutor
	now       func() time.Time
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the action with the given payload and returns the
	// provider's ID for it.
	Execute(ctx context.Context, entry domain.Entry) (string, error)
}

// NewOutboxProcessor creates a processor with a 30s base delay, a 1h cap and
// batches of 10.
func NewOutboxProcessor(store outboxStore.Store, executors map[string]ActionExecutor, now func() time.Time) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		now:       now,
		baseDelay: 30 * time.Second,
		maxDelay:  time.Hour,
		batchSize: 10,
	}
}

// ProcessPending attempts every due entry once.
// PRE: Context is valid
// POST: Due entries are done, rescheduled or failed; returns the number attempted
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (int, error) {
	entries, err := p.store.ListDue(ctx, p.now(), p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list due outbox entries: %w", err)
	}
	for _, entry := range entries {
		if err := p.attempt(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err)
		}
	}
	return len(entries), nil
}

func (p *OutboxProcessor) attempt(ctx context.Context, entry domain.Entry) error {
	now := p.now()
	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkAttempt(now)
		entry.Attempts = entry.MaxAttempts
		entry.MarkFailed(fmt.Errorf("no executor for action type %q", entry.ActionType), now, p.baseDelay, p.maxDelay)
		return p.store.Save(ctx, entry)
	}

	entry.MarkAttempt(now)
	externalID, err := executor.Execute(ctx, entry)
	if err != nil {
		entry.MarkFailed(err, now, p.baseDelay, p.maxDelay)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "status", entry.Status, "error", err)
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, entry)
}

// ProcessSingle retries one entry now, ignoring its schedule.
// PRE: entryID is non-empty
// POST: Entry attempted once and saved
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get outbox entry: %w", err)
	}
	if entry.IsTerminal() && entry.Status != domain.StatusFailed {
		return entry, domain.ErrNotRetryable
	}
	if entry.Status == domain.StatusFailed {
		// A manual retry gets one more attempt.
		entry.MaxAttempts = entry.Attempts + 1
	}
	if err := p.attempt(ctx, entry); err != nil {
		return entry, err
	}
	return p.store.GetByID(ctx, entryID)
}

// AbandonEntry stops all further attempts for an entry.
// PRE: entryID is non-empty
// POST: Entry status set to abandoned
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	entry.MarkAbandoned()
	slog.Info("outbox_entry_abandoned", "entry_id", entry.ID)
	return p.store.Save(ctx, entry)
}

// Run processes due entries every interval until ctx is cancelled.
// PRE: interval > 0
// POST: Returns when ctx is done
func (p *OutboxProcessor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox_worker_stopped")
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if _, err := p.ProcessPending(runCtx); err != nil {
				slog.Error("outbox_worker_failed", "error", err)
			}
			cancel()
		}
	}
}

// EmailExecutor replays queued emails through a Sender.
type EmailExecutor struct {
	Sender emailAdapter.Sender
}

// Execute sends the email stored in the entry.
// PRE: entry is an email entry
// POST: email accepted by the provider; returns its message ID
func (e *EmailExecutor) Execute(ctx context.Context, entry domain.Entry) (string, error) {
	p, err := entry.Email()
	if err != nil {
		return "", err
	}
	res, err := e.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      p.To,
		Subject: p.Subject,
		HTML:    p.HTML,
		ReplyTo: p.ReplyTo,
	})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}
