package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/application"
)

type duplicateService interface {
	DetectDuplicates(ctx context.Context, params application.DetectDuplicatesParams) (application.DuplicateMatch, error)
}

type rankingService interface {
	RankCandidates(ctx context.Context, jobID string) ([]application.RankingEntry, error)
}

type analysisService interface {
	AnalyzeApplication(ctx context.Context, applicationID string) (application.Application, error)
}

// ScreeningHandler serves duplicate detection, candidate ranking and résumé analysis.
type ScreeningHandler struct {
	duplicates duplicateService
	rankings   rankingService
	analyses   analysisService
	logger     *slog.Logger
	responder  responder
}

// NewScreeningHandler wires the screening endpoints. Any service may be nil, in which case its
// endpoint answers 500.
func NewScreeningHandler(duplicates duplicateService, rankings rankingService, analyses analysisService, logger *slog.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		duplicates: duplicates,
		rankings:   rankings,
		analyses:   analyses,
		logger:     logger,
		responder:  newResponder(logger),
	}
}

func (h *ScreeningHandler) DetectDuplicates(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.duplicates == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req duplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	match, err := h.duplicates.DetectDuplicates(r.Context(), req.toParams())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "screening", "detect_duplicates").DebugContext(r.Context(),
		"duplicate check answered", "is_duplicate", match.IsDuplicate, "confidence", match.Confidence)

	h.responder.writeJSON(r.Context(), w, http.StatusOK, duplicateResponse{
		IsDuplicate:           match.IsDuplicate,
		MatchedApplicationIDs: nonNil(match.MatchedApplicationIDs),
		Confidence:            match.Confidence,
		MatchingFactors:       nonNil(match.MatchingFactors),
	})
}

func (h *ScreeningHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.rankings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	jobID, ok := JobIDFromContext(r.Context())
	if !ok || strings.TrimSpace(jobID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidJobID)
		return
	}

	entries, err := h.rankings.RankCandidates(r.Context(), jobID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	rankings := make([]rankingDTO, 0, len(entries))
	for _, entry := range entries {
		rankings = append(rankings, rankingDTO{
			ApplicationID:   entry.ApplicationID,
			FullName:        entry.FullName,
			CompositeScore:  entry.CompositeScore,
			Rank:            entry.Rank,
			MatchPercentage: entry.MatchPercentage,
			KeyStrengths:    nonNil(entry.KeyStrengths),
			Differentiators: nonNil(entry.Differentiators),
		})
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, rankingsResponse{JobID: jobID, Rankings: rankings})
}

func (h *ScreeningHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.analyses == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	applicationID, ok := ApplicationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(applicationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidApplicationID)
		return
	}

	app, err := h.analyses.AnalyzeApplication(r.Context(), applicationID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toApplicationDTO(app))
}

type duplicateRequest struct {
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	FullName             string `json:"full_name"`
	ResumeText           string `json:"resume_text"`
	JobID                string `json:"job_id"`
	ExcludeApplicationID string `json:"exclude_application_id"`
}

func (r duplicateRequest) toParams() application.DetectDuplicatesParams {
	return application.DetectDuplicatesParams{
		Identity: application.CandidateIdentity{
			Email:      strings.TrimSpace(r.Email),
			Phone:      strings.TrimSpace(r.Phone),
			FullName:   strings.TrimSpace(r.FullName),
			ResumeText: r.ResumeText,
		},
		JobID:                strings.TrimSpace(r.JobID),
		ExcludeApplicationID: strings.TrimSpace(r.ExcludeApplicationID),
	}
}

type duplicateResponse struct {
	IsDuplicate           bool     `json:"is_duplicate"`
	MatchedApplicationIDs []string `json:"matched_application_ids"`
	Confidence            int      `json:"confidence"`
	MatchingFactors       []string `json:"matching_factors"`
}

type rankingsResponse struct {
	JobID    string       `json:"job_id"`
	Rankings []rankingDTO `json:"rankings"`
}

type rankingDTO struct {
	ApplicationID   string   `json:"application_id"`
	FullName        string   `json:"full_name"`
	CompositeScore  int      `json:"composite_score"`
	Rank            int      `json:"rank"`
	MatchPercentage int      `json:"match_percentage"`
	KeyStrengths    []string `json:"key_strengths"`
	Differentiators []string `json:"differentiators"`
}

type applicationDTO struct {
	ID        string           `json:"id"`
	JobID     string           `json:"job_id"`
	FullName  string           `json:"full_name"`
	Email     string           `json:"email"`
	Status    string           `json:"status"`
	AIScore   *int             `json:"ai_score,omitempty"`
	Analysis  *analysis.Result `json:"analysis,omitempty"`
	UpdatedAt string           `json:"updated_at"`
}

func toApplicationDTO(app application.Application) applicationDTO {
	return applicationDTO{
		ID:        app.ID,
		JobID:     app.JobID,
		FullName:  app.FullName,
		Email:     app.Email,
		Status:    app.Status,
		AIScore:   app.AIScore,
		Analysis:  app.Analysis,
		UpdatedAt: app.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
