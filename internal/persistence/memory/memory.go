// Package memory provides an in-process implementation of the persistence repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/persistence"
)

// Storage keeps jobs, applications and interviews in maps guarded by a single lock.
type Storage struct {
	mu               sync.RWMutex
	jobs             map[string]persistence.Job
	applications     map[string]persistence.Application
	applicationOrder []string
	interviews       map[string]persistence.Interview
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{
		jobs:         make(map[string]persistence.Job),
		applications: make(map[string]persistence.Application),
		interviews:   make(map[string]persistence.Interview),
	}
}

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error {
	return nil
}

// Migrate initialises the storage. No-op for the in-memory implementation.
func (s *Storage) Migrate(context.Context) error {
	return nil
}

// --- JobRepository implementation ---

// CreateJob stores a new job.
func (s *Storage) CreateJob(ctx context.Context, job persistence.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; ok {
		return fmt.Errorf("memory: job %s: %w", job.ID, persistence.ErrDuplicate)
	}
	s.jobs[job.ID] = job
	return nil
}

// GetJob retrieves a job by ID.
func (s *Storage) GetJob(ctx context.Context, id string) (persistence.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return persistence.Job{}, persistence.ErrNotFound
	}
	return job, nil
}

// --- ApplicationRepository implementation ---

// CreateApplication stores a new application for an existing job.
func (s *Storage) CreateApplication(ctx context.Context, application persistence.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[application.ID]; ok {
		return fmt.Errorf("memory: application %s: %w", application.ID, persistence.ErrDuplicate)
	}
	if _, ok := s.jobs[application.JobID]; !ok {
		return fmt.Errorf("memory: job %s does not exist: %w", application.JobID, persistence.ErrNotFound)
	}

	s.applications[application.ID] = cloneApplication(application)
	s.applicationOrder = append(s.applicationOrder, application.ID)
	return nil
}

// GetApplication retrieves an application by ID.
func (s *Storage) GetApplication(ctx context.Context, id string) (persistence.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	application, ok := s.applications[id]
	if !ok {
		return persistence.Application{}, persistence.ErrNotFound
	}
	return cloneApplication(application), nil
}

// ListApplications returns applications in insertion order.
func (s *Storage) ListApplications(ctx context.Context, filter persistence.ApplicationFilter) ([]persistence.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	applications := make([]persistence.Application, 0, len(s.applicationOrder))
	for _, id := range s.applicationOrder {
		application := s.applications[id]
		if filter.JobID != "" && application.JobID != filter.JobID {
			continue
		}
		applications = append(applications, cloneApplication(application))
	}
	return applications, nil
}

// UpdateApplication applies the non-nil patch fields.
func (s *Storage) UpdateApplication(ctx context.Context, id string, patch persistence.ApplicationPatch) (persistence.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	application, ok := s.applications[id]
	if !ok {
		return persistence.Application{}, persistence.ErrNotFound
	}

	if patch.Status != nil {
		application.Status = *patch.Status
	}
	if patch.Analysis != nil {
		result := cloneAnalysis(*patch.Analysis)
		application.Analysis = &result
	}
	if patch.AIScore != nil {
		score := *patch.AIScore
		application.AIScore = &score
	}
	if !patch.UpdatedAt.IsZero() {
		application.UpdatedAt = patch.UpdatedAt
	}

	s.applications[id] = application
	return cloneApplication(application), nil
}

// --- InterviewRepository implementation ---

// CreateInterview stores a new interview unless it double-books the interviewer.
func (s *Storage) CreateInterview(ctx context.Context, interview persistence.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.interviews[interview.ID]; ok {
		return fmt.Errorf("memory: interview %s: %w", interview.ID, persistence.ErrDuplicate)
	}
	if _, ok := s.applications[interview.ApplicationID]; !ok {
		return fmt.Errorf("memory: application %s does not exist: %w", interview.ApplicationID, persistence.ErrNotFound)
	}
	interview.InterviewerEmail = persistence.InterviewerKey(interview.InterviewerEmail)
	if err := s.ensureNoOverlapLocked(interview); err != nil {
		return err
	}

	s.interviews[interview.ID] = cloneInterview(interview)
	return nil
}

// UpdateInterview replaces an existing interview unless the new window double-books the interviewer.
func (s *Storage) UpdateInterview(ctx context.Context, interview persistence.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.interviews[interview.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	interview.InterviewerEmail = persistence.InterviewerKey(interview.InterviewerEmail)
	if err := s.ensureNoOverlapLocked(interview); err != nil {
		return err
	}

	interview.CreatedAt = existing.CreatedAt
	s.interviews[interview.ID] = cloneInterview(interview)
	return nil
}

// GetInterview retrieves an interview by ID.
func (s *Storage) GetInterview(ctx context.Context, id string) (persistence.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interview, ok := s.interviews[id]
	if !ok {
		return persistence.Interview{}, persistence.ErrNotFound
	}
	return cloneInterview(interview), nil
}

// ListInterviews returns interviews matching the filter ordered by start time.
func (s *Storage) ListInterviews(ctx context.Context, filter persistence.InterviewFilter) ([]persistence.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interviews := make([]persistence.Interview, 0)
	for _, interview := range s.interviews {
		if !matchesInterviewFilter(interview, filter) {
			continue
		}
		interviews = append(interviews, cloneInterview(interview))
	}

	sort.Slice(interviews, func(i, j int) bool {
		if interviews[i].Start.Equal(interviews[j].Start) {
			return interviews[i].ID < interviews[j].ID
		}
		return interviews[i].Start.Before(interviews[j].Start)
	})
	return interviews, nil
}

func (s *Storage) ensureNoOverlapLocked(candidate persistence.Interview) error {
	if candidate.Cancelled() {
		return nil
	}
	for id, existing := range s.interviews {
		if id == candidate.ID || existing.Cancelled() {
			continue
		}
		if existing.InterviewerEmail != candidate.InterviewerEmail {
			continue
		}
		if existing.Start.Before(candidate.End) && existing.End.After(candidate.Start) {
			return fmt.Errorf("memory: interview %s overlaps %s: %w", candidate.ID, id, persistence.ErrOverlap)
		}
	}
	return nil
}

func matchesInterviewFilter(interview persistence.Interview, filter persistence.InterviewFilter) bool {
	if filter.ApplicationID != "" && interview.ApplicationID != filter.ApplicationID {
		return false
	}
	if filter.InterviewerEmail != "" && interview.InterviewerEmail != persistence.InterviewerKey(filter.InterviewerEmail) {
		return false
	}
	if filter.ExcludeCancelled && interview.Cancelled() {
		return false
	}
	if filter.StartsAfter != nil && interview.Start.Before(*filter.StartsAfter) {
		return false
	}
	if filter.StartsBefore != nil && interview.Start.After(*filter.StartsBefore) {
		return false
	}
	return true
}

func cloneApplication(application persistence.Application) persistence.Application {
	if application.Analysis != nil {
		result := cloneAnalysis(*application.Analysis)
		application.Analysis = &result
	}
	if application.AIScore != nil {
		score := *application.AIScore
		application.AIScore = &score
	}
	return application
}

func cloneAnalysis(result analysis.Result) analysis.Result {
	result.SkillsMatch = append([]string(nil), result.SkillsMatch...)
	result.Strengths = append([]string(nil), result.Strengths...)
	result.Weaknesses = append([]string(nil), result.Weaknesses...)
	result.InterviewQuestions = append([]string(nil), result.InterviewQuestions...)
	return result
}

func cloneInterview(interview persistence.Interview) persistence.Interview {
	interview.Location = cloneString(interview.Location)
	interview.MeetingLink = cloneString(interview.MeetingLink)
	return interview
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
