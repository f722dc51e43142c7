package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"dkl/internal/application/orchestrators"
)

type emailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// handleSendContactEmail serves POST /api/email/send-contact. The checks run
// in a fixed order: configuration, preflight, method, fields, delivery.
func (s *Server) handleSendContactEmail(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.EmailConfigured || s.deps.Email == nil {
		slog.Error("email_not_configured", "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, emailResponse{Message: "Server configuration error"})
		return
	}

	if r.Method == http.MethodOptions {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.cfg.SiteOrigin)
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, emailResponse{Message: fmt.Sprintf("Method %s not allowed", r.Method)})
		return
	}

	var in orchestrators.SendContactEmailInput
	if err := strictDecode(w, r, &in); err != nil {
		slog.Warn("email_request_invalid", "error", err)
		writeJSON(w, http.StatusBadRequest, emailResponse{Message: "Verplichte velden ontbreken"})
		return
	}

	_, err := orchestrators.ExecuteSendContactEmail(r.Context(), in, orchestrators.SendContactEmailDeps{
		EmailSender: s.deps.Email,
	})
	switch {
	case errors.Is(err, orchestrators.ErrMissingFields):
		writeJSON(w, http.StatusBadRequest, emailResponse{Message: "Verplichte velden ontbreken"})
	case err != nil:
		slog.Error("email_send_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, emailResponse{
			Message: "Er ging iets mis bij het versturen van de email",
			Error:   err.Error(),
		})
	default:
		writeJSON(w, http.StatusOK, emailResponse{Success: true, Message: "Email is verstuurd"})
	}
}
