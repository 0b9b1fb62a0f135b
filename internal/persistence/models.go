package persistence

import (
	"strings"
	"time"

	"github.com/example/hiring-portal/internal/analysis"
)

// Job is a posted position that candidates apply to.
type Job struct {
	ID           string
	Title        string
	Requirements string
	CreatedAt    time.Time
}

// Application is a candidate's submission to a job.
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

// InterviewStatusCancelled marks interviews that no longer hold their interviewer's time.
const InterviewStatusCancelled = "cancelled"

// Interview is a committed interview slot.
type Interview struct {
	ID               string
	ApplicationID    string
	InterviewerName  string
	InterviewerEmail string
	CandidateName    string
	CandidateEmail   string
	CandidatePhone   string
	Start            time.Time
	End              time.Time
	DurationMinutes  int
	Type             string
	Location         *string
	MeetingLink      *string
	Status           string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Cancelled reports whether the interview has been cancelled.
func (i Interview) Cancelled() bool {
	return i.Status == InterviewStatusCancelled
}

// InterviewerKey is the form in which interviewer emails are stored and compared. Stores
// normalise with it on write and on lookup so that every backend folds case the same way.
func InterviewerKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
