package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	outboxStore "dkl/internal/adapters/storage/outbox"
	"dkl/internal/domain/outbox"
)

// outboxEntryView is an entry as shown to organisers. The payload is left
// out; it holds visitor data.
type outboxEntryView struct {
	ID            string    `json:"id"`
	ActionType    string    `json:"actionType"`
	Status        string    `json:"status"`
	Attempts      int       `json:"attempts"`
	MaxAttempts   int       `json:"maxAttempts"`
	NextAttemptAt time.Time `json:"nextAttemptAt"`
	CreatedAt     time.Time `json:"createdAt"`
	Error         string    `json:"error,omitempty"`
}

func toEntryView(e outbox.Entry) outboxEntryView {
	return outboxEntryView{
		ID:            e.ID,
		ActionType:    e.ActionType,
		Status:        e.Status,
		Attempts:      e.Attempts,
		MaxAttempts:   e.MaxAttempts,
		NextAttemptAt: e.NextAttemptAt,
		CreatedAt:     e.CreatedAt,
		Error:         e.ErrorMessage,
	}
}

// handleAdminOutboxList serves GET /api/admin/outbox?status=failed|due&limit=N.
func (s *Server) handleAdminOutboxList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := 50
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	var (
		entries []outbox.Entry
		err     error
	)
	switch r.URL.Query().Get("status") {
	case "", outbox.StatusFailed:
		entries, err = s.deps.OutboxStore.ListFailed(ctx, limit)
	case "due":
		entries, err = s.deps.OutboxStore.ListDue(ctx, s.deps.Now(), limit)
	default:
		writeJSON(w, http.StatusBadRequest, apiError{Error: "status must be failed or due"})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	views := make([]outboxEntryView, len(entries))
	for i, e := range entries {
		views[i] = toEntryView(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": views})
}

// handleAdminOutboxAction serves POST /api/admin/outbox/{id}/retry and
// POST /api/admin/outbox/{id}/abandon.
func (s *Server) handleAdminOutboxAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	switch r.PathValue("action") {
	case "retry":
		entry, err := s.deps.Outbox.ProcessSingle(ctx, id)
		switch {
		case errors.Is(err, outboxStore.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, outbox.ErrNotRetryable):
			writeJSON(w, http.StatusConflict, apiError{Error: err.Error()})
		case err != nil:
			internalError(w, err)
		default:
			// A failed delivery is reported through the entry's status.
			writeJSON(w, http.StatusOK, toEntryView(entry))
		}

	case "abandon":
		err := s.deps.Outbox.AbandonEntry(ctx, id)
		switch {
		case errors.Is(err, outboxStore.ErrNotFound):
			http.NotFound(w, r)
		case err != nil:
			internalError(w, err)
		default:
			writeJSON(w, http.StatusOK, map[string]string{"status": outbox.StatusAbandoned})
		}

	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}
