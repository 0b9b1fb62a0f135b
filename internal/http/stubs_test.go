package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/hiring-portal/internal/application"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var referenceStart = time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC)

type screeningStub struct {
	duplicateParams application.DetectDuplicatesParams
	match           application.DuplicateMatch
	rankJobID       string
	rankings        []application.RankingEntry
	analyzedID      string
	analyzed        application.Application
	err             error
}

func (s *screeningStub) DetectDuplicates(ctx context.Context, params application.DetectDuplicatesParams) (application.DuplicateMatch, error) {
	s.duplicateParams = params
	return s.match, s.err
}

func (s *screeningStub) RankCandidates(ctx context.Context, jobID string) ([]application.RankingEntry, error) {
	s.rankJobID = jobID
	return s.rankings, s.err
}

func (s *screeningStub) AnalyzeApplication(ctx context.Context, applicationID string) (application.Application, error) {
	s.analyzedID = applicationID
	return s.analyzed, s.err
}

type interviewServiceStub struct {
	slotsParams      application.AvailableSlotsParams
	slots            []application.TimeWindow
	scheduleParams   application.ScheduleInterviewParams
	rescheduleParams application.RescheduleInterviewParams
	cancelParams     application.CancelInterviewParams
	lastID           string
	lastAction       string
	listApplication  string
	upcomingDays     int
	interview        application.Interview
	interviews       []application.Interview
	err              error
}

func (s *interviewServiceStub) AvailableSlots(ctx context.Context, params application.AvailableSlotsParams) ([]application.TimeWindow, error) {
	s.slotsParams = params
	return s.slots, s.err
}

func (s *interviewServiceStub) ScheduleInterview(ctx context.Context, params application.ScheduleInterviewParams) (application.Interview, error) {
	s.scheduleParams = params
	return s.interview, s.err
}

func (s *interviewServiceStub) RescheduleInterview(ctx context.Context, params application.RescheduleInterviewParams) (application.Interview, error) {
	s.rescheduleParams = params
	return s.interview, s.err
}

func (s *interviewServiceStub) CancelInterview(ctx context.Context, params application.CancelInterviewParams) error {
	s.cancelParams = params
	return s.err
}

func (s *interviewServiceStub) ConfirmInterview(ctx context.Context, interviewID string) (application.Interview, error) {
	s.lastID, s.lastAction = interviewID, "confirm"
	return s.interview, s.err
}

func (s *interviewServiceStub) CompleteInterview(ctx context.Context, interviewID string) (application.Interview, error) {
	s.lastID, s.lastAction = interviewID, "complete"
	return s.interview, s.err
}

func (s *interviewServiceStub) GetInterview(ctx context.Context, interviewID string) (application.Interview, error) {
	s.lastID, s.lastAction = interviewID, "get"
	return s.interview, s.err
}

func (s *interviewServiceStub) ListInterviews(ctx context.Context, applicationID string) ([]application.Interview, error) {
	s.listApplication = applicationID
	return s.interviews, s.err
}

func (s *interviewServiceStub) UpcomingInterviews(ctx context.Context, days int) ([]application.Interview, error) {
	s.upcomingDays = days
	return s.interviews, s.err
}

func sampleInterview() application.Interview {
	link := "https://meet.example.com/abc"
	return application.Interview{
		ID:              "int-1",
		ApplicationID:   "app-1",
		Interviewer:     application.Interviewer{Name: "Ivy", Email: "ivy@example.com"},
		Candidate:       application.CandidateSnapshot{Name: "Jane Doe", Email: "jane@x.com"},
		Window:          application.TimeWindow{Start: referenceStart, End: referenceStart.Add(time.Hour)},
		DurationMinutes: 60,
		Type:            application.InterviewTypeVideo,
		MeetingLink:     &link,
		Status:          application.InterviewStatusScheduled,
		CreatedAt:       referenceStart.Add(-24 * time.Hour),
		UpdatedAt:       referenceStart.Add(-24 * time.Hour),
	}
}

func newTestRouter(screening *screeningStub, interviews *interviewServiceStub) http.Handler {
	logger := discardLogger()
	return NewRouter(RouterConfig{
		Screening:  NewScreeningHandler(screening, screening, screening, logger),
		Interviews: NewInterviewHandler(interviews, logger),
		Middleware: []func(http.Handler) http.Handler{RequestLogger(logger), Recoverer(logger)},
	})
}
