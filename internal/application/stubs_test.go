package application

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/notify"
	"github.com/example/hiring-portal/internal/persistence"
	"github.com/example/hiring-portal/internal/testfixtures"
)

var referenceNow = testfixtures.ReferenceTime()

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type jobRepoStub struct {
	jobs map[string]Job
	err  error
}

func (s *jobRepoStub) GetJob(ctx context.Context, id string) (Job, error) {
	if s.err != nil {
		return Job{}, s.err
	}
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, persistence.ErrNotFound
	}
	return job, nil
}

type applicationRepoStub struct {
	mu        sync.Mutex
	apps      []Application
	listErr   error
	updateErr error
	patches   []ApplicationPatch
}

func (s *applicationRepoStub) GetApplication(ctx context.Context, id string) (Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, app := range s.apps {
		if app.ID == id {
			return app, nil
		}
	}
	return Application{}, persistence.ErrNotFound
}

func (s *applicationRepoStub) ListApplications(ctx context.Context, jobID string) ([]Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Application, 0, len(s.apps))
	for _, app := range s.apps {
		if jobID == "" || app.JobID == jobID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *applicationRepoStub) UpdateApplication(ctx context.Context, id string, patch ApplicationPatch) (Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return Application{}, s.updateErr
	}
	for i, app := range s.apps {
		if app.ID != id {
			continue
		}
		if patch.Status != nil {
			app.Status = *patch.Status
		}
		if patch.Analysis != nil {
			result := *patch.Analysis
			app.Analysis = &result
		}
		if patch.AIScore != nil {
			score := *patch.AIScore
			app.AIScore = &score
		}
		app.UpdatedAt = patch.UpdatedAt
		s.apps[i] = app
		s.patches = append(s.patches, patch)
		return app, nil
	}
	return Application{}, persistence.ErrNotFound
}

// interviewStoreStub mirrors the storage contract: writes are overlap guarded.
type interviewStoreStub struct {
	mu         sync.Mutex
	interviews map[string]Interview
	// listDelay widens the window between the service's conflict check and its write.
	listDelay time.Duration
	// skipListing hides existing interviews from listings so only the write guard can catch overlaps.
	skipListing bool
}

func newInterviewStoreStub() *interviewStoreStub {
	return &interviewStoreStub{interviews: make(map[string]Interview)}
}

func (s *interviewStoreStub) CreateInterview(ctx context.Context, interview Interview) (Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.interviews[interview.ID]; exists {
		return Interview{}, persistence.ErrDuplicate
	}
	if err := s.overlapLocked(interview); err != nil {
		return Interview{}, err
	}
	s.interviews[interview.ID] = interview
	return interview, nil
}

func (s *interviewStoreStub) UpdateInterview(ctx context.Context, interview Interview) (Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.interviews[interview.ID]
	if !ok {
		return Interview{}, persistence.ErrNotFound
	}
	if err := s.overlapLocked(interview); err != nil {
		return Interview{}, err
	}
	interview.CreatedAt = existing.CreatedAt
	s.interviews[interview.ID] = interview
	return interview, nil
}

func (s *interviewStoreStub) GetInterview(ctx context.Context, id string) (Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	interview, ok := s.interviews[id]
	if !ok {
		return Interview{}, persistence.ErrNotFound
	}
	return interview, nil
}

func (s *interviewStoreStub) ListInterviews(ctx context.Context, filter InterviewFilter) ([]Interview, error) {
	if s.listDelay > 0 {
		time.Sleep(s.listDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Interview, 0)
	if s.skipListing && filter.InterviewerEmail != "" {
		return out, nil
	}
	for _, interview := range s.interviews {
		if filter.ApplicationID != "" && interview.ApplicationID != filter.ApplicationID {
			continue
		}
		if filter.InterviewerEmail != "" && interview.Interviewer.Email != filter.InterviewerEmail {
			continue
		}
		if filter.ExcludeCancelled && interview.Status == InterviewStatusCancelled {
			continue
		}
		if filter.StartsAfter != nil && interview.Window.Start.Before(*filter.StartsAfter) {
			continue
		}
		if filter.StartsBefore != nil && interview.Window.Start.After(*filter.StartsBefore) {
			continue
		}
		out = append(out, interview)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.Start.Before(out[j].Window.Start) })
	return out, nil
}

func (s *interviewStoreStub) overlapLocked(candidate Interview) error {
	if candidate.Status == InterviewStatusCancelled {
		return nil
	}
	for id, existing := range s.interviews {
		if id == candidate.ID || existing.Status == InterviewStatusCancelled {
			continue
		}
		if existing.Interviewer.Email != candidate.Interviewer.Email {
			continue
		}
		if existing.Window.Start.Before(candidate.Window.End) && existing.Window.End.After(candidate.Window.Start) {
			return persistence.ErrOverlap
		}
	}
	return nil
}

type publisherStub struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (p *publisherStub) Publish(ctx context.Context, msg notify.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *publisherStub) published() []notify.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Message(nil), p.messages...)
}

type analyzerStub struct {
	mu          sync.Mutex
	result      analysis.Result
	comparison  analysis.ComparisonResult
	err         error
	requests    []analysis.Request
	comparisons []analysis.Comparison
}

func (a *analyzerStub) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)
	if a.err != nil {
		return analysis.Result{}, a.err
	}
	return a.result, nil
}

func (a *analyzerStub) CompareCandidates(ctx context.Context, cmp analysis.Comparison) (analysis.ComparisonResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.comparisons = append(a.comparisons, cmp)
	if a.err != nil {
		return analysis.ComparisonResult{}, a.err
	}
	return a.comparison, nil
}

func intPtr(v int) *int { return &v }

func stringPtr(v string) *string { return &v }
