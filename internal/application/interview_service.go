package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/example/hiring-portal/internal/notify"
	"github.com/example/hiring-portal/internal/scheduler"
)

const (
	// MinInterviewMinutes and MaxInterviewMinutes bound interview durations.
	MinInterviewMinutes = 15
	MaxInterviewMinutes = 480
	// MaxUpcomingDays bounds the upcoming interview window.
	MaxUpcomingDays = 365
)

// NotificationPublisher accepts messages for asynchronous delivery.
type NotificationPublisher interface {
	Publish(ctx context.Context, msg notify.Message) error
}

// InterviewServiceConfig lists the collaborators of an InterviewService.
type InterviewServiceConfig struct {
	Interviews    InterviewRepository
	Applications  ApplicationRepository
	Notifications NotificationPublisher
	IDGenerator   func() string
	Now           func() time.Time
	// Location is the time zone slots are generated and notifications rendered in.
	Location *time.Location
	Logger   *slog.Logger
}

// InterviewService allocates interview slots and owns the interview lifecycle.
type InterviewService struct {
	interviews    InterviewRepository
	applications  ApplicationRepository
	notifications NotificationPublisher
	idGenerator   func() string
	now           func() time.Time
	location      *time.Location
	logger        *slog.Logger
	locks         *interviewerLocks
}

// NewInterviewService wires dependencies for interview operations.
func NewInterviewService(cfg InterviewServiceConfig) *InterviewService {
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = func() string { return "" }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &InterviewService{
		interviews:    cfg.Interviews,
		applications:  cfg.Applications,
		notifications: cfg.Notifications,
		idGenerator:   cfg.IDGenerator,
		now:           cfg.Now,
		location:      cfg.Location,
		logger:        defaultLogger(cfg.Logger),
		locks:         newInterviewerLocks(),
	}
}

// AvailableSlots lists the next free weekday slots of the interviewer. The result is computed
// from the current interview set on every call.
func (s *InterviewService) AvailableSlots(ctx context.Context, params AvailableSlotsParams) ([]TimeWindow, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	vErr := &ValidationError{}
	validateInterviewerEmail(params.Interviewer.Email, vErr)
	validateDuration(params.DurationMinutes, vErr)
	if vErr.HasErrors() {
		return nil, vErr
	}

	now := s.now()
	earliest := now.Add(-MaxInterviewMinutes * time.Minute)
	latest := now.AddDate(0, 0, scheduler.DefaultHorizonDays+1)
	existing, err := s.interviews.ListInterviews(ctx, InterviewFilter{
		InterviewerEmail: interviewerKey(params.Interviewer.Email),
		StartsAfter:      &earliest,
		StartsBefore:     &latest,
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	busy := make([]scheduler.TimeWindow, 0, len(existing))
	for _, interview := range existing {
		busy = append(busy, scheduler.TimeWindow{Start: interview.Window.Start, End: interview.Window.End})
	}

	generated := scheduler.GenerateSlots(now, busy, time.Duration(params.DurationMinutes)*time.Minute, scheduler.SlotOptions{Location: s.location})
	slots := make([]TimeWindow, 0, len(generated))
	for _, slot := range generated {
		slots = append(slots, TimeWindow{Start: slot.Start, End: slot.End})
	}
	return slots, nil
}

// ScheduleInterview creates an interview in the scheduled state after re-checking the window
// against the interviewer's other interviews. The application advances to the interview stage
// and both parties are notified once the interview is stored.
func (s *InterviewService) ScheduleInterview(ctx context.Context, params ScheduleInterviewParams) (Interview, error) {
	if err := s.ready(); err != nil {
		return Interview{}, err
	}
	if s.applications == nil {
		return Interview{}, fmt.Errorf("application repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "interview", "schedule",
		"application_id", params.ApplicationID,
		"interviewer_email", params.Interviewer.Email,
	)

	now := s.now()
	vErr := &ValidationError{}
	if strings.TrimSpace(params.ApplicationID) == "" {
		vErr.add("application_id", "application id is required")
	}
	validateInterviewer(params.Interviewer, vErr)
	validateDuration(params.DurationMinutes, vErr)
	validateStart(params.Start, now, vErr)
	validateFormat(params.Type, params.Location, params.MeetingLink, vErr)
	if vErr.HasErrors() {
		return Interview{}, vErr
	}

	app, err := s.applications.GetApplication(ctx, strings.TrimSpace(params.ApplicationID))
	if err != nil {
		err = mapRepoError(err)
		logger.WarnContext(ctx, "application lookup failed", "error", err, "error_kind", ErrorKind(err))
		return Interview{}, err
	}

	candidate := Interview{
		ID:            s.idGenerator(),
		ApplicationID: app.ID,
		Interviewer: Interviewer{
			Name:  strings.TrimSpace(params.Interviewer.Name),
			Email: interviewerKey(params.Interviewer.Email),
		},
		Candidate: CandidateSnapshot{Name: app.FullName, Email: app.Email, Phone: app.Phone},
		Window: TimeWindow{
			Start: params.Start,
			End:   params.Start.Add(time.Duration(params.DurationMinutes) * time.Minute),
		},
		DurationMinutes: params.DurationMinutes,
		Type:            params.Type,
		Location:        optionalString(params.Location),
		MeetingLink:     optionalString(params.MeetingLink),
		Status:          InterviewStatusScheduled,
		Notes:           strings.TrimSpace(params.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	persisted, err := s.commit(ctx, candidate, s.interviews.CreateInterview)
	if err != nil {
		logger.WarnContext(ctx, "interview not scheduled", "error", err, "error_kind", ErrorKind(err))
		return Interview{}, err
	}

	status := ApplicationStatusInterviewScheduled
	if _, err := s.applications.UpdateApplication(ctx, app.ID, ApplicationPatch{Status: &status, UpdatedAt: now}); err != nil {
		logger.ErrorContext(ctx, "failed to advance application status", "error", err, "error_kind", ErrorKind(err))
	}

	details := s.details(persisted)
	s.publish(ctx, logger, notify.CandidateInvitation(details), notify.InterviewerNotice(details))

	logger.InfoContext(ctx, "interview scheduled", "interview_id", persisted.ID, "start", persisted.Window.Start)
	return persisted, nil
}

// RescheduleInterview moves the interview to a new start time with the same duration. The
// interview's own window is ignored by the conflict check.
func (s *InterviewService) RescheduleInterview(ctx context.Context, params RescheduleInterviewParams) (Interview, error) {
	if err := s.ready(); err != nil {
		return Interview{}, err
	}

	logger := serviceLogger(ctx, s.logger, "interview", "reschedule", "interview_id", params.InterviewID)

	now := s.now()
	vErr := &ValidationError{}
	validateStart(params.Start, now, vErr)
	if vErr.HasErrors() {
		return Interview{}, vErr
	}

	existing, err := s.interviews.GetInterview(ctx, params.InterviewID)
	if err != nil {
		return Interview{}, mapRepoError(err)
	}

	unlock := s.locks.Lock(existing.Interviewer.Email)
	current, err := s.interviews.GetInterview(ctx, params.InterviewID)
	if err != nil {
		unlock()
		return Interview{}, mapRepoError(err)
	}
	if current.Status.Terminal() {
		unlock()
		return Interview{}, fmt.Errorf("%w: cannot reschedule a %s interview", ErrInvalidTransition, current.Status)
	}

	updated := current
	updated.Window = TimeWindow{
		Start: params.Start,
		End:   params.Start.Add(time.Duration(current.DurationMinutes) * time.Minute),
	}
	updated.Status = InterviewStatusRescheduled
	if params.Notes != nil {
		updated.Notes = strings.TrimSpace(*params.Notes)
	}
	updated.UpdatedAt = now

	persisted, err := s.commitLocked(ctx, updated, s.interviews.UpdateInterview)
	unlock()
	if err != nil {
		logger.WarnContext(ctx, "interview not rescheduled", "error", err, "error_kind", ErrorKind(err))
		return Interview{}, err
	}

	s.publish(ctx, logger, notify.RescheduleNotices(s.details(persisted), current.Window.Start.In(s.location))...)

	logger.InfoContext(ctx, "interview rescheduled", "previous_start", current.Window.Start, "start", persisted.Window.Start)
	return persisted, nil
}

// CancelInterview marks the interview cancelled and stores the reason in its notes. Cancelling
// an already cancelled interview is a no-op and sends no notifications.
func (s *InterviewService) CancelInterview(ctx context.Context, params CancelInterviewParams) error {
	if err := s.ready(); err != nil {
		return err
	}

	logger := serviceLogger(ctx, s.logger, "interview", "cancel", "interview_id", params.InterviewID)

	existing, err := s.interviews.GetInterview(ctx, params.InterviewID)
	if err != nil {
		return mapRepoError(err)
	}

	unlock := s.locks.Lock(existing.Interviewer.Email)
	current, err := s.interviews.GetInterview(ctx, params.InterviewID)
	if err != nil {
		unlock()
		return mapRepoError(err)
	}
	switch current.Status {
	case InterviewStatusCancelled:
		unlock()
		logger.DebugContext(ctx, "interview already cancelled")
		return nil
	case InterviewStatusCompleted:
		unlock()
		return fmt.Errorf("%w: cannot cancel a completed interview", ErrInvalidTransition)
	}

	updated := current
	updated.Status = InterviewStatusCancelled
	if reason := strings.TrimSpace(params.Reason); reason != "" {
		updated.Notes = reason
	}
	updated.UpdatedAt = s.now()

	persisted, err := s.interviews.UpdateInterview(ctx, updated)
	unlock()
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to cancel interview", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.publish(ctx, logger, notify.CancellationNotices(s.details(persisted), params.Reason)...)

	logger.InfoContext(ctx, "interview cancelled")
	return nil
}

// ConfirmInterview moves a scheduled or rescheduled interview to confirmed.
func (s *InterviewService) ConfirmInterview(ctx context.Context, interviewID string) (Interview, error) {
	return s.transition(ctx, interviewID, "confirm", InterviewStatusConfirmed,
		InterviewStatusScheduled, InterviewStatusRescheduled)
}

// CompleteInterview marks an interview as held.
func (s *InterviewService) CompleteInterview(ctx context.Context, interviewID string) (Interview, error) {
	return s.transition(ctx, interviewID, "complete", InterviewStatusCompleted,
		InterviewStatusScheduled, InterviewStatusConfirmed, InterviewStatusRescheduled)
}

// GetInterview returns a single interview.
func (s *InterviewService) GetInterview(ctx context.Context, interviewID string) (Interview, error) {
	if err := s.ready(); err != nil {
		return Interview{}, err
	}
	interview, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return Interview{}, mapRepoError(err)
	}
	return interview, nil
}

// ListInterviews returns every interview of the application, cancelled ones included,
// ascending by start time.
func (s *InterviewService) ListInterviews(ctx context.Context, applicationID string) ([]Interview, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, newValidationError("application_id", "application id is required")
	}
	if s.applications != nil {
		if _, err := s.applications.GetApplication(ctx, applicationID); err != nil {
			return nil, mapRepoError(err)
		}
	}

	interviews, err := s.interviews.ListInterviews(ctx, InterviewFilter{ApplicationID: applicationID})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sortByStart(interviews), nil
}

// UpcomingInterviews returns non-cancelled interviews starting within [now, now+days].
func (s *InterviewService) UpcomingInterviews(ctx context.Context, days int) ([]Interview, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if days < 0 || days > MaxUpcomingDays {
		return nil, newValidationError("days", fmt.Sprintf("days must be between 0 and %d", MaxUpcomingDays))
	}

	now := s.now()
	until := now.AddDate(0, 0, days)
	interviews, err := s.interviews.ListInterviews(ctx, InterviewFilter{
		StartsAfter:      &now,
		StartsBefore:     &until,
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sortByStart(interviews), nil
}

func (s *InterviewService) transition(ctx context.Context, interviewID, operation string, target InterviewStatus, allowed ...InterviewStatus) (Interview, error) {
	if err := s.ready(); err != nil {
		return Interview{}, err
	}

	logger := serviceLogger(ctx, s.logger, "interview", operation, "interview_id", interviewID)

	existing, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return Interview{}, mapRepoError(err)
	}

	unlock := s.locks.Lock(existing.Interviewer.Email)
	defer unlock()

	current, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return Interview{}, mapRepoError(err)
	}
	if current.Status == target {
		return current, nil
	}
	if !containsStatus(allowed, current.Status) {
		return Interview{}, fmt.Errorf("%w: cannot %s a %s interview", ErrInvalidTransition, operation, current.Status)
	}

	updated := current
	updated.Status = target
	updated.UpdatedAt = s.now()

	persisted, err := s.interviews.UpdateInterview(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update interview status", "error", err, "error_kind", ErrorKind(err))
		return Interview{}, err
	}

	logger.InfoContext(ctx, "interview status changed", "from", current.Status, "to", target)
	return persisted, nil
}

// commit runs the conflict check and the write while holding the interviewer's lock.
func (s *InterviewService) commit(ctx context.Context, candidate Interview, write func(context.Context, Interview) (Interview, error)) (Interview, error) {
	unlock := s.locks.Lock(candidate.Interviewer.Email)
	defer unlock()
	return s.commitLocked(ctx, candidate, write)
}

func (s *InterviewService) commitLocked(ctx context.Context, candidate Interview, write func(context.Context, Interview) (Interview, error)) (Interview, error) {
	if err := s.ensureNoConflict(ctx, candidate); err != nil {
		return Interview{}, err
	}
	persisted, err := write(ctx, candidate)
	if err != nil {
		return Interview{}, mapRepoError(err)
	}
	return persisted, nil
}

func (s *InterviewService) ensureNoConflict(ctx context.Context, candidate Interview) error {
	earliest := candidate.Window.Start.Add(-MaxInterviewMinutes * time.Minute)
	latest := candidate.Window.End
	existing, err := s.interviews.ListInterviews(ctx, InterviewFilter{
		InterviewerEmail: candidate.Interviewer.Email,
		StartsAfter:      &earliest,
		StartsBefore:     &latest,
		ExcludeCancelled: true,
	})
	if err != nil {
		return mapRepoError(err)
	}

	bookings := make([]scheduler.Booking, 0, len(existing))
	for _, interview := range existing {
		bookings = append(bookings, toBooking(interview))
	}

	conflicts := scheduler.DetectConflicts(bookings, toBooking(candidate))
	if len(conflicts) == 0 {
		return nil
	}
	return fmt.Errorf("%w: overlaps interview %s", ErrConflict, conflicts[0].WithBookingID)
}

func (s *InterviewService) publish(ctx context.Context, logger *slog.Logger, messages ...notify.Message) {
	if s.notifications == nil {
		return
	}
	for _, msg := range messages {
		if strings.TrimSpace(msg.To) == "" {
			continue
		}
		if err := s.notifications.Publish(ctx, msg); err != nil {
			logger.WarnContext(ctx, "notification not queued", "to", msg.To, "subject", msg.Subject, "error", err, "error_kind", ErrorKind(err))
		}
	}
}

func (s *InterviewService) details(interview Interview) notify.InterviewDetails {
	details := notify.InterviewDetails{
		CandidateName:    interview.Candidate.Name,
		CandidateEmail:   interview.Candidate.Email,
		InterviewerName:  interview.Interviewer.Name,
		InterviewerEmail: interview.Interviewer.Email,
		Start:            interview.Window.Start.In(s.location),
		End:              interview.Window.End.In(s.location),
		Type:             string(interview.Type),
	}
	if interview.Location != nil {
		details.Location = *interview.Location
	}
	if interview.MeetingLink != nil {
		details.MeetingLink = *interview.MeetingLink
	}
	return details
}

func (s *InterviewService) ready() error {
	if s == nil {
		return fmt.Errorf("InterviewService is nil")
	}
	if s.interviews == nil {
		return fmt.Errorf("interview repository not configured")
	}
	return nil
}

func toBooking(interview Interview) scheduler.Booking {
	return scheduler.Booking{
		ID:               interview.ID,
		InterviewerEmail: interview.Interviewer.Email,
		Window:           scheduler.TimeWindow{Start: interview.Window.Start, End: interview.Window.End},
		Cancelled:        interview.Status == InterviewStatusCancelled,
	}
}

func validateInterviewer(interviewer Interviewer, vErr *ValidationError) {
	if strings.TrimSpace(interviewer.Name) == "" {
		vErr.add("interviewer_name", "interviewer name is required")
	}
	validateInterviewerEmail(interviewer.Email, vErr)
}

func validateInterviewerEmail(email string, vErr *ValidationError) {
	email = strings.TrimSpace(email)
	if email == "" {
		vErr.add("interviewer_email", "interviewer email is required")
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		vErr.add("interviewer_email", "interviewer email is invalid")
	}
}

func validateDuration(minutes int, vErr *ValidationError) {
	if minutes < MinInterviewMinutes || minutes > MaxInterviewMinutes {
		vErr.add("duration", fmt.Sprintf("duration must be between %d and %d minutes", MinInterviewMinutes, MaxInterviewMinutes))
	}
}

func validateStart(start, now time.Time, vErr *ValidationError) {
	if start.IsZero() {
		vErr.add("start", "start is required")
		return
	}
	if !start.After(now) {
		vErr.add("start", "start must be in the future")
	}
}

func validateFormat(kind InterviewType, location, meetingLink string, vErr *ValidationError) {
	location = strings.TrimSpace(location)
	meetingLink = strings.TrimSpace(meetingLink)

	switch kind {
	case InterviewTypeVideo:
		if meetingLink == "" {
			vErr.add("meeting_link", "meeting link is required for video interviews")
		} else if !validURL(meetingLink) {
			vErr.add("meeting_link", "meeting link must be a valid URL")
		}
		if location != "" {
			vErr.add("location", "location is not allowed for video interviews")
		}
	case InterviewTypeInPerson:
		if location == "" {
			vErr.add("location", "location is required for in-person interviews")
		}
		if meetingLink != "" {
			vErr.add("meeting_link", "meeting link is not allowed for in-person interviews")
		}
	case InterviewTypePhone:
		if location != "" {
			vErr.add("location", "location is not allowed for phone interviews")
		}
		if meetingLink != "" {
			vErr.add("meeting_link", "meeting link is not allowed for phone interviews")
		}
	default:
		vErr.add("type", "type must be one of phone, video, in-person")
	}
}

func validURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func containsStatus(statuses []InterviewStatus, status InterviewStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func sortByStart(interviews []Interview) []Interview {
	ordered := make([]Interview, len(interviews))
	copy(ordered, interviews)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Window.Start.Equal(ordered[j].Window.Start) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Window.Start.Before(ordered[j].Window.Start)
	})
	return ordered
}
