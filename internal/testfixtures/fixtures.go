package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/persistence"
)

var (
	jobCounter         uint64
	applicationCounter uint64
	interviewCounter   uint64
)

// ----------------------------- Job fixtures -----------------------------

// JobFixture is a deterministic job posting.
type JobFixture struct {
	ID           string
	Title        string
	Requirements string
	CreatedAt    time.Time
}

// JobOption configures the generated job fixture.
type JobOption func(*JobFixture)

// NewJobFixture returns a job fixture with optional overrides.
func NewJobFixture(opts ...JobOption) JobFixture {
	idx := atomic.AddUint64(&jobCounter, 1)
	fixture := JobFixture{
		ID:           fmt.Sprintf("job-%03d", idx),
		Title:        fmt.Sprintf("Backend Engineer %03d", idx),
		Requirements: "Go, SQL, distributed systems",
		CreatedAt:    referenceTime.Add(-time.Duration(idx) * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithJobID overrides the generated job ID.
func WithJobID(id string) JobOption {
	return func(f *JobFixture) {
		f.ID = id
	}
}

// WithJobTitle overrides the generated title.
func WithJobTitle(title string) JobOption {
	return func(f *JobFixture) {
		f.Title = title
	}
}

// Persistence converts the fixture to its storage model.
func (f JobFixture) Persistence() persistence.Job {
	return persistence.Job{
		ID:           f.ID,
		Title:        f.Title,
		Requirements: f.Requirements,
		CreatedAt:    f.CreatedAt,
	}
}

// -------------------------- Application fixtures --------------------------

// ApplicationFixture is a deterministic candidate application.
type ApplicationFixture struct {
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

// ApplicationOption configures the generated application fixture.
type ApplicationOption func(*ApplicationFixture)

// NewApplicationFixture returns an application fixture with optional overrides.
func NewApplicationFixture(opts ...ApplicationOption) ApplicationFixture {
	idx := atomic.AddUint64(&applicationCounter, 1)
	id := fmt.Sprintf("app-%03d", idx)
	created := referenceTime.Add(-time.Duration(idx) * time.Minute)
	fixture := ApplicationFixture{
		ID:         id,
		JobID:      "job-001",
		Email:      fmt.Sprintf("%s@example.com", id),
		Phone:      fmt.Sprintf("+1-555-%04d", idx),
		FullName:   fmt.Sprintf("Candidate %03d", idx),
		ResumeText: "Five years of Go experience.",
		Status:     "submitted",
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithApplicationID overrides the generated application ID.
func WithApplicationID(id string) ApplicationOption {
	return func(f *ApplicationFixture) {
		f.ID = id
	}
}

// WithApplicationJob assigns the application to a job.
func WithApplicationJob(jobID string) ApplicationOption {
	return func(f *ApplicationFixture) {
		f.JobID = jobID
	}
}

// WithApplicationIdentity overrides the candidate's contact details.
func WithApplicationIdentity(fullName, email, phone string) ApplicationOption {
	return func(f *ApplicationFixture) {
		f.FullName = fullName
		f.Email = email
		f.Phone = phone
	}
}

// WithApplicationAnalysis attaches an evaluation and its rounded score.
func WithApplicationAnalysis(result analysis.Result, score int) ApplicationOption {
	return func(f *ApplicationFixture) {
		f.Analysis = &result
		f.AIScore = &score
	}
}

// Persistence converts the fixture to its storage model.
func (f ApplicationFixture) Persistence() persistence.Application {
	return persistence.Application{
		ID:         f.ID,
		JobID:      f.JobID,
		Email:      f.Email,
		Phone:      f.Phone,
		FullName:   f.FullName,
		ResumeText: f.ResumeText,
		Status:     f.Status,
		Analysis:   f.Analysis,
		AIScore:    f.AIScore,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// SampleAnalysis returns a fully populated evaluation with the given sub-scores.
func SampleAnalysis(overall, technical, cultural, leadership float64) analysis.Result {
	return analysis.Result{
		OverallScore:        overall,
		SkillsMatch:         []string{"Go", "SQL"},
		ExperienceLevel:     "senior",
		Strengths:           []string{"System design", "Mentoring", "Testing", "Communication"},
		Weaknesses:          []string{"Frontend"},
		CulturalFit:         cultural,
		TechnicalCompetency: technical,
		LeadershipPotential: leadership,
		SalaryRange:         analysis.SalaryRange{Min: 90000, Max: 120000},
		CompetencyBreakdown: analysis.CompetencyBreakdown{
			Technical:      technical,
			Communication:  70,
			ProblemSolving: 80,
			Teamwork:       75,
			Adaptability:   65,
		},
		InterviewQuestions: []string{"Describe a system you scaled."},
	}
}

// --------------------------- Interview fixtures ---------------------------

// InterviewFixture is a deterministic interview booking.
type InterviewFixture struct {
	ID               string
	ApplicationID    string
	InterviewerName  string
	InterviewerEmail string
	CandidateName    string
	CandidateEmail   string
	CandidatePhone   string
	Start            time.Time
	DurationMinutes  int
	Type             string
	Location         *string
	MeetingLink      *string
	Status           string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InterviewOption configures the generated interview fixture.
type InterviewOption func(*InterviewFixture)

// NewInterviewFixture returns a 60 minute video interview on the day after ReferenceTime at 10:00.
func NewInterviewFixture(opts ...InterviewOption) InterviewFixture {
	idx := atomic.AddUint64(&interviewCounter, 1)
	link := fmt.Sprintf("https://meet.example.com/int-%03d", idx)
	fixture := InterviewFixture{
		ID:               fmt.Sprintf("int-%03d", idx),
		ApplicationID:    "app-001",
		InterviewerName:  "Ivy Interviewer",
		InterviewerEmail: "ivy@example.com",
		CandidateName:    "Candidate 001",
		CandidateEmail:   "app-001@example.com",
		CandidatePhone:   "+1-555-0001",
		Start:            referenceTime.Add(26 * time.Hour),
		DurationMinutes:  60,
		Type:             "video",
		MeetingLink:      &link,
		Status:           "scheduled",
		CreatedAt:        referenceTime,
		UpdatedAt:        referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithInterviewID overrides the generated interview ID.
func WithInterviewID(id string) InterviewOption {
	return func(f *InterviewFixture) {
		f.ID = id
	}
}

// WithInterviewApplication assigns the interview to an application.
func WithInterviewApplication(applicationID string) InterviewOption {
	return func(f *InterviewFixture) {
		f.ApplicationID = applicationID
	}
}

// WithInterviewer overrides the interviewer.
func WithInterviewer(name, email string) InterviewOption {
	return func(f *InterviewFixture) {
		f.InterviewerName = name
		f.InterviewerEmail = email
	}
}

// WithInterviewWindow sets the start and duration.
func WithInterviewWindow(start time.Time, durationMinutes int) InterviewOption {
	return func(f *InterviewFixture) {
		f.Start = start
		f.DurationMinutes = durationMinutes
	}
}

// WithInterviewStatus overrides the status.
func WithInterviewStatus(status string) InterviewOption {
	return func(f *InterviewFixture) {
		f.Status = status
	}
}

// WithInterviewInPerson switches the interview to an in-person meeting at location.
func WithInterviewInPerson(location string) InterviewOption {
	return func(f *InterviewFixture) {
		f.Type = "in-person"
		f.Location = &location
		f.MeetingLink = nil
	}
}

// End returns the exclusive end of the interview window.
func (f InterviewFixture) End() time.Time {
	return f.Start.Add(time.Duration(f.DurationMinutes) * time.Minute)
}

// Persistence converts the fixture to its storage model.
func (f InterviewFixture) Persistence() persistence.Interview {
	return persistence.Interview{
		ID:               f.ID,
		ApplicationID:    f.ApplicationID,
		InterviewerName:  f.InterviewerName,
		InterviewerEmail: f.InterviewerEmail,
		CandidateName:    f.CandidateName,
		CandidateEmail:   f.CandidateEmail,
		CandidatePhone:   f.CandidatePhone,
		Start:            f.Start,
		End:              f.End(),
		DurationMinutes:  f.DurationMinutes,
		Type:             f.Type,
		Location:         f.Location,
		MeetingLink:      f.MeetingLink,
		Status:           f.Status,
		Notes:            f.Notes,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}
