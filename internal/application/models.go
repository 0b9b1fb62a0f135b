package application

import (
	"time"

	"github.com/example/hiring-portal/internal/analysis"
)

// ApplicationStatusInterviewScheduled marks applications that have reached the interview stage.
const ApplicationStatusInterviewScheduled = "interview_scheduled"

// CandidateIdentity carries the fields used to recognise a returning candidate.
type CandidateIdentity struct {
	Email      string
	Phone      string
	FullName   string
	ResumeText string
}

// Job is the posting an application belongs to.
type Job struct {
	ID           string
	Title        string
	Requirements string
}

// Application is a candidate's submission as seen by the services.
type Application struct {
	ID         string
	JobID      string
	Email      string
	Phone      string
	FullName   string
	ResumeText string
	Status     string
	Analysis   *analysis.Result
	AIScore    *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ApplicationPatch lists the application fields an update may change; nil fields are kept.
type ApplicationPatch struct {
	Status    *string
	Analysis  *analysis.Result
	AIScore   *int
	UpdatedAt time.Time
}

// DuplicateMatch is the outcome of a duplicate check. It is never persisted.
type DuplicateMatch struct {
	IsDuplicate           bool
	MatchedApplicationIDs []string
	Confidence            int
	MatchingFactors       []string
}

// DetectDuplicatesParams wraps the identity under test and the optional job scope.
type DetectDuplicatesParams struct {
	Identity CandidateIdentity
	JobID    string
	// ExcludeApplicationID skips the application being checked when it is already stored.
	ExcludeApplicationID string
}

// RankingEntry is one ranked application for a job.
type RankingEntry struct {
	ApplicationID   string
	FullName        string
	CompositeScore  int
	Rank            int
	MatchPercentage int
	KeyStrengths    []string
	Differentiators []string
}

// TimeWindow is a half-open [Start, End) interval.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Interviewer identifies who conducts an interview. Email is the scheduling key.
type Interviewer struct {
	Name  string
	Email string
}

// InterviewType describes the interview medium.
type InterviewType string

const (
	InterviewTypePhone    InterviewType = "phone"
	InterviewTypeVideo    InterviewType = "video"
	InterviewTypeInPerson InterviewType = "in-person"
)

// InterviewStatus is a state of the interview lifecycle.
type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "scheduled"
	InterviewStatusConfirmed   InterviewStatus = "confirmed"
	InterviewStatusRescheduled InterviewStatus = "rescheduled"
	InterviewStatusCancelled   InterviewStatus = "cancelled"
	InterviewStatusCompleted   InterviewStatus = "completed"
)

// Terminal reports whether no further transitions leave the status.
func (s InterviewStatus) Terminal() bool {
	return s == InterviewStatusCancelled || s == InterviewStatusCompleted
}

// CandidateSnapshot is the candidate identity copied onto an interview when it is scheduled.
type CandidateSnapshot struct {
	Name  string
	Email string
	Phone string
}

// Interview is a scheduled interview slot. Interviews are never deleted; cancellation is a status.
type Interview struct {
	ID              string
	ApplicationID   string
	Interviewer     Interviewer
	Candidate       CandidateSnapshot
	Window          TimeWindow
	DurationMinutes int
	Type            InterviewType
	Location        *string
	MeetingLink     *string
	Status          InterviewStatus
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AvailableSlotsParams identifies the interviewer and slot length to search for.
type AvailableSlotsParams struct {
	Interviewer     Interviewer
	DurationMinutes int
}

// ScheduleInterviewParams wraps the data required to schedule an interview.
type ScheduleInterviewParams struct {
	ApplicationID   string
	Interviewer     Interviewer
	Start           time.Time
	DurationMinutes int
	Type            InterviewType
	Location        string
	MeetingLink     string
	Notes           string
}

// RescheduleInterviewParams moves an interview to a new start time keeping its duration.
// A nil Notes keeps the existing notes.
type RescheduleInterviewParams struct {
	InterviewID string
	Start       time.Time
	Notes       *string
}

// CancelInterviewParams identifies the interview to cancel and an optional reason.
type CancelInterviewParams struct {
	InterviewID string
	Reason      string
}
