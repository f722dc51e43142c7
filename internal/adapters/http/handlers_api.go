package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dkl/internal/application/loader"
	"dkl/internal/application/orchestrators"
	"dkl/internal/application/projections"
	domainCTA "dkl/internal/domain/ctacard"
	domainFAQ "dkl/internal/domain/faq"
	domainPartner "dkl/internal/domain/partner"
	domainPhoto "dkl/internal/domain/photo"
	domainProgram "dkl/internal/domain/program"
	domainRadio "dkl/internal/domain/radio"
	domainSocial "dkl/internal/domain/socialembed"
	domainSponsor "dkl/internal/domain/sponsor"
	domainSteps "dkl/internal/domain/steps"
	domainTitle "dkl/internal/domain/titlesection"
	domainVideo "dkl/internal/domain/video"
)

const msgLeaderboard = "Kon het klassement niet laden."

func logFetchError(resource string, err error) {
	slog.Error("content_fetch_failed", "resource", resource, "error", err)
}

// handleHealth answers GET /api/.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "API is working",
		"timestamp": s.deps.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// serveList loads one content list through a loader and writes its state.
// A failed read answers 500 with the Dutch message in error and empty data.
func serveList[T any](w http.ResponseWriter, r *http.Request, name, msg string, fetch loader.FetchFunc[T]) {
	res := loader.New(name, msg, fetch)
	defer res.Close()
	st := res.Load(r.Context())
	status := http.StatusOK
	if st.Error != "" {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, st)
}

func (s *Server) handlePartners(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "partners", projections.MsgPartners, func(ctx context.Context) ([]domainPartner.Partner, error) {
		return projections.QueryPartners(ctx, s.deps.Content)
	})
}

func (s *Server) handleSponsors(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "sponsors", projections.MsgSponsors, func(ctx context.Context) ([]domainSponsor.Sponsor, error) {
		return projections.QuerySponsors(ctx, s.deps.Content)
	})
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "videos", projections.MsgVideos, func(ctx context.Context) ([]domainVideo.Video, error) {
		return projections.QueryVideos(ctx, s.deps.Content)
	})
}

func (s *Server) handleCTACards(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "cta_cards", projections.MsgCTACards, func(ctx context.Context) ([]domainCTA.Card, error) {
		return projections.QueryCTACards(ctx, s.deps.Content)
	})
}

func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "photos", projections.MsgPhotos, func(ctx context.Context) ([]domainPhoto.Photo, error) {
		return projections.QueryPhotos(ctx, s.deps.Content)
	})
}

func (s *Server) handleRadioRecordings(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "radio_recordings", projections.MsgRadio, func(ctx context.Context) ([]domainRadio.Recording, error) {
		return projections.QueryRadioRecordings(ctx, s.deps.Content)
	})
}

// handleFAQ serves the grouped questions, or with ?q= the assistant's answer
// to one question.
func (s *Server) handleFAQ(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		serveList(w, r, "faq", projections.MsgFAQ, func(ctx context.Context) ([]domainFAQ.Category, error) {
			return projections.QueryFAQ(ctx, s.deps.Content)
		})
		return
	}
	ans, err := projections.SearchFAQ(r.Context(), q, s.deps.Content)
	if err != nil {
		logFetchError("faq", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": projections.MsgFAQ})
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

// handleSocialEmbeds serves ?section=<name>, defaulting to the home section.
func (s *Server) handleSocialEmbeds(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")
	if section == "" {
		section = domainSocial.SectionHome
	}
	serveList(w, r, "social_embeds", projections.MsgSocialEmbeds, func(ctx context.Context) ([]domainSocial.Embed, error) {
		return projections.QuerySocialEmbeds(ctx, section, s.deps.Content)
	})
}

// programResponse is the list state plus the tab selection.
type programResponse struct {
	loader.State[domainProgram.Item]
	Tab    domainProgram.TabID           `json:"tab"`
	Tabs   []projections.ProgramTab      `json:"tabs"`
	Groups []domainProgram.CategoryGroup `json:"groups"`
}

// handleProgram serves ?tab=<id>; an unknown tab selects the first one.
func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryProgram(r.Context(), projections.ProgramQuery{Tab: r.URL.Query().Get("tab")}, s.deps.Content)
	if err != nil {
		logFetchError("program", err)
		writeJSON(w, http.StatusInternalServerError, programResponse{
			State: loader.State[domainProgram.Item]{Data: []domainProgram.Item{}, Error: projections.MsgProgram},
		})
		return
	}
	writeJSON(w, http.StatusOK, programResponse{
		State:  loader.State[domainProgram.Item]{Data: res.Items},
		Tab:    res.Tab,
		Tabs:   res.Tabs,
		Groups: res.Groups,
	})
}

type titleResponse struct {
	Data      *domainTitle.Section `json:"data"`
	IsLoading bool                 `json:"isLoading"`
	Error     string               `json:"error,omitempty"`
}

// handleTitleSection serves the single hero row; data is null when none is
// stored.
func (s *Server) handleTitleSection(w http.ResponseWriter, r *http.Request) {
	sec, err := projections.QueryTitleSection(r.Context(), s.deps.Content)
	if err != nil {
		logFetchError("title_section", err)
		writeJSON(w, http.StatusInternalServerError, titleResponse{Error: projections.MsgTitleSection})
		return
	}
	writeJSON(w, http.StatusOK, titleResponse{Data: sec})
}

// handleTotalSteps is the REST fallback for the live counter.
func (s *Server) handleTotalSteps(w http.ResponseWriter, r *http.Request) {
	total, err := s.deps.Content.Steps.Total(r.Context())
	if err != nil {
		jsonInternalError(w, err, "Kon het totaal aantal stappen niet laden.")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]int64{"total_steps": total})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "leaderboard", msgLeaderboard, func(ctx context.Context) ([]domainSteps.Entry, error) {
		return projections.QueryLeaderboard(ctx, s.deps.Content)
	})
}

type recordStepsResponse struct {
	Participant string `json:"participant"`
	Steps       int64  `json:"steps"`
	TotalSteps  int64  `json:"total_steps"`
}

// handleRecordSteps adds steps for a participant and pushes the new totals
// to live subscribers. Authentication is done by the route middleware.
func (s *Server) handleRecordSteps(w http.ResponseWriter, r *http.Request) {
	var in domainSteps.Increment
	if err := strictDecode(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Ongeldig verzoek"})
		return
	}
	res, err := orchestrators.ExecuteRecordSteps(r.Context(), in, orchestrators.RecordStepsDeps{
		StepsStore: s.deps.Steps,
		Publisher:  s.deps.Hub,
		Lock:       &s.stepsMu,
		Now:        s.deps.Now,
	})
	switch {
	case errors.Is(err, domainSteps.ErrEmptyParticipant), errors.Is(err, domainSteps.ErrInvalidDelta):
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	case err != nil:
		jsonInternalError(w, err, "Kon de stappen niet opslaan.")
		return
	}
	writeJSON(w, http.StatusOK, recordStepsResponse{
		Participant: res.Participant.Naam,
		Steps:       res.Participant.Steps,
		TotalSteps:  res.Total,
	})
}

// handlePerf serves request and query timings of the last ?minutes=N
// (default 60, at most one day).
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Perf == nil {
		http.NotFound(w, r)
		return
	}
	minutes := 60
	if n, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && n > 0 && n <= 24*60 {
		minutes = n
	}
	since := s.deps.Now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, s.deps.Perf.Snapshot(since, 10))
}
