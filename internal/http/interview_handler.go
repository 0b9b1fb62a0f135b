package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/hiring-portal/internal/application"
)

// DefaultUpcomingDays is used when GET /interviews/upcoming has no days parameter.
const DefaultUpcomingDays = 7

type interviewService interface {
	AvailableSlots(ctx context.Context, params application.AvailableSlotsParams) ([]application.TimeWindow, error)
	ScheduleInterview(ctx context.Context, params application.ScheduleInterviewParams) (application.Interview, error)
	RescheduleInterview(ctx context.Context, params application.RescheduleInterviewParams) (application.Interview, error)
	CancelInterview(ctx context.Context, params application.CancelInterviewParams) error
	ConfirmInterview(ctx context.Context, interviewID string) (application.Interview, error)
	CompleteInterview(ctx context.Context, interviewID string) (application.Interview, error)
	GetInterview(ctx context.Context, interviewID string) (application.Interview, error)
	ListInterviews(ctx context.Context, applicationID string) ([]application.Interview, error)
	UpcomingInterviews(ctx context.Context, days int) ([]application.Interview, error)
}

// InterviewHandler serves slot lookup and the interview lifecycle.
type InterviewHandler struct {
	service   interviewService
	logger    *slog.Logger
	responder responder
}

func NewInterviewHandler(service interviewService, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{service: service, logger: logger, responder: newResponder(logger)}
}

func (h *InterviewHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	duration, err := parseIntParam(query.Get("duration"), 0)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDuration)
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), application.AvailableSlotsParams{
		Interviewer: application.Interviewer{
			Name:  strings.TrimSpace(query.Get("interviewer_name")),
			Email: strings.TrimSpace(query.Get("interviewer_email")),
		},
		DurationMinutes: duration,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]windowDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toWindowDTO(slot))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, slotsResponse{Slots: out})
}

func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req scheduleInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	start, err := parseTime(req.Start)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStart)
		return
	}

	interview, err := h.service.ScheduleInterview(r.Context(), req.toParams(start))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Location", "/interviews/"+interview.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toInterviewDTO(interview))
}

func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	interviews, err := h.service.ListInterviews(r.Context(), strings.TrimSpace(r.URL.Query().Get("application_id")))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listInterviewsResponse{Interviews: toInterviewDTOs(interviews)})
}

func (h *InterviewHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	days, err := parseIntParam(r.URL.Query().Get("days"), DefaultUpcomingDays)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDays)
		return
	}

	interviews, err := h.service.UpcomingInterviews(r.Context(), days)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listInterviewsResponse{Interviews: toInterviewDTOs(interviews)})
}

func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	interviewID, ok := h.interviewID(w, r)
	if !ok {
		return
	}

	interview, err := h.service.GetInterview(r.Context(), interviewID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toInterviewDTO(interview))
}

func (h *InterviewHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	interviewID, ok := h.interviewID(w, r)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	start, err := parseTime(req.Start)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStart)
		return
	}

	interview, err := h.service.RescheduleInterview(r.Context(), application.RescheduleInterviewParams{
		InterviewID: interviewID,
		Start:       start,
		Notes:       req.Notes,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toInterviewDTO(interview))
}

func (h *InterviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	interviewID, ok := h.interviewID(w, r)
	if !ok {
		return
	}

	// The body is optional; an empty body cancels without a reason.
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.CancelInterview(r.Context(), application.CancelInterviewParams{
		InterviewID: interviewID,
		Reason:      req.Reason,
	}); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "interview", "cancel", "interview_id", interviewID).
		InfoContext(r.Context(), "cancel request handled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *InterviewHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ConfirmInterview)
}

func (h *InterviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CompleteInterview)
}

func (h *InterviewHandler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, string) (application.Interview, error)) {
	interviewID, ok := h.interviewID(w, r)
	if !ok {
		return
	}

	interview, err := apply(r.Context(), interviewID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toInterviewDTO(interview))
}

func (h *InterviewHandler) interviewID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return "", false
	}
	interviewID, ok := InterviewIDFromContext(r.Context())
	if !ok || strings.TrimSpace(interviewID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidInterviewID)
		return "", false
	}
	return interviewID, true
}

type scheduleInterviewRequest struct {
	ApplicationID    string `json:"application_id"`
	InterviewerName  string `json:"interviewer_name"`
	InterviewerEmail string `json:"interviewer_email"`
	Start            string `json:"start"`
	DurationMinutes  int    `json:"duration_minutes"`
	Type             string `json:"type"`
	Location         string `json:"location"`
	MeetingLink      string `json:"meeting_link"`
	Notes            string `json:"notes"`
}

func (r scheduleInterviewRequest) toParams(start time.Time) application.ScheduleInterviewParams {
	return application.ScheduleInterviewParams{
		ApplicationID: strings.TrimSpace(r.ApplicationID),
		Interviewer: application.Interviewer{
			Name:  strings.TrimSpace(r.InterviewerName),
			Email: strings.TrimSpace(r.InterviewerEmail),
		},
		Start:           start,
		DurationMinutes: r.DurationMinutes,
		Type:            application.InterviewType(strings.TrimSpace(r.Type)),
		Location:        strings.TrimSpace(r.Location),
		MeetingLink:     strings.TrimSpace(r.MeetingLink),
		Notes:           r.Notes,
	}
}

type rescheduleRequest struct {
	Start string  `json:"start"`
	Notes *string `json:"notes"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type slotsResponse struct {
	Slots []windowDTO `json:"slots"`
}

type listInterviewsResponse struct {
	Interviews []interviewDTO `json:"interviews"`
}

type windowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toWindowDTO(window application.TimeWindow) windowDTO {
	return windowDTO{
		Start: window.Start.UTC().Format(time.RFC3339),
		End:   window.End.UTC().Format(time.RFC3339),
	}
}

type interviewDTO struct {
	ID               string  `json:"id"`
	ApplicationID    string  `json:"application_id"`
	InterviewerName  string  `json:"interviewer_name"`
	InterviewerEmail string  `json:"interviewer_email"`
	CandidateName    string  `json:"candidate_name"`
	CandidateEmail   string  `json:"candidate_email"`
	CandidatePhone   string  `json:"candidate_phone,omitempty"`
	Start            string  `json:"start"`
	End              string  `json:"end"`
	DurationMinutes  int     `json:"duration_minutes"`
	Type             string  `json:"type"`
	Location         *string `json:"location,omitempty"`
	MeetingLink      *string `json:"meeting_link,omitempty"`
	Status           string  `json:"status"`
	Notes            string  `json:"notes,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func toInterviewDTO(interview application.Interview) interviewDTO {
	window := toWindowDTO(interview.Window)
	return interviewDTO{
		ID:               interview.ID,
		ApplicationID:    interview.ApplicationID,
		InterviewerName:  interview.Interviewer.Name,
		InterviewerEmail: interview.Interviewer.Email,
		CandidateName:    interview.Candidate.Name,
		CandidateEmail:   interview.Candidate.Email,
		CandidatePhone:   interview.Candidate.Phone,
		Start:            window.Start,
		End:              window.End,
		DurationMinutes:  interview.DurationMinutes,
		Type:             string(interview.Type),
		Location:         interview.Location,
		MeetingLink:      interview.MeetingLink,
		Status:           string(interview.Status),
		Notes:            interview.Notes,
		CreatedAt:        interview.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:        interview.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toInterviewDTOs(interviews []application.Interview) []interviewDTO {
	out := make([]interviewDTO, 0, len(interviews))
	for _, interview := range interviews {
		out = append(out, toInterviewDTO(interview))
	}
	return out
}

// parseTime accepts RFC 3339 with or without fractional seconds. A blank value yields the zero
// time so the service reports the missing field.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func parseIntParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
