package main

import (
	"context"
	"fmt"

	"github.com/example/hiring-portal/internal/application"
	"github.com/example/hiring-portal/internal/config"
	"github.com/example/hiring-portal/internal/persistence"
	"github.com/example/hiring-portal/internal/persistence/memory"
	"github.com/example/hiring-portal/internal/persistence/sqlite"
)

// store is the persistence backend selected by HIRING_STORAGE.
type store interface {
	persistence.JobRepository
	persistence.ApplicationRepository
	persistence.InterviewRepository
	Migrate(ctx context.Context) error
	Close() error
}

// openStore opens the configured backend and brings its schema up to date.
func openStore(ctx context.Context, cfg config.Config) (store, error) {
	var s store
	switch cfg.Storage {
	case config.StorageMemory:
		s = memory.New()
	case config.StorageSQLite, "":
		storage, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		s = storage
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return s, nil
}

type jobRepositoryAdapter struct {
	repo persistence.JobRepository
}

func newJobRepositoryAdapter(repo persistence.JobRepository) *jobRepositoryAdapter {
	return &jobRepositoryAdapter{repo: repo}
}

func (a *jobRepositoryAdapter) GetJob(ctx context.Context, id string) (application.Job, error) {
	stored, err := a.repo.GetJob(ctx, id)
	if err != nil {
		return application.Job{}, err
	}
	return application.Job{ID: stored.ID, Title: stored.Title, Requirements: stored.Requirements}, nil
}

type applicationRepositoryAdapter struct {
	repo persistence.ApplicationRepository
}

func newApplicationRepositoryAdapter(repo persistence.ApplicationRepository) *applicationRepositoryAdapter {
	return &applicationRepositoryAdapter{repo: repo}
}

func (a *applicationRepositoryAdapter) GetApplication(ctx context.Context, id string) (application.Application, error) {
	stored, err := a.repo.GetApplication(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	return toApplicationApplication(stored), nil
}

func (a *applicationRepositoryAdapter) ListApplications(ctx context.Context, jobID string) ([]application.Application, error) {
	models, err := a.repo.ListApplications(ctx, persistence.ApplicationFilter{JobID: jobID})
	if err != nil {
		return nil, err
	}
	applications := make([]application.Application, 0, len(models))
	for _, model := range models {
		applications = append(applications, toApplicationApplication(model))
	}
	return applications, nil
}

func (a *applicationRepositoryAdapter) UpdateApplication(ctx context.Context, id string, patch application.ApplicationPatch) (application.Application, error) {
	stored, err := a.repo.UpdateApplication(ctx, id, persistence.ApplicationPatch{
		Status:    patch.Status,
		Analysis:  patch.Analysis,
		AIScore:   patch.AIScore,
		UpdatedAt: patch.UpdatedAt,
	})
	if err != nil {
		return application.Application{}, err
	}
	return toApplicationApplication(stored), nil
}

type interviewRepositoryAdapter struct {
	repo persistence.InterviewRepository
}

func newInterviewRepositoryAdapter(repo persistence.InterviewRepository) *interviewRepositoryAdapter {
	return &interviewRepositoryAdapter{repo: repo}
}

func (a *interviewRepositoryAdapter) CreateInterview(ctx context.Context, interview application.Interview) (application.Interview, error) {
	if err := a.repo.CreateInterview(ctx, toPersistenceInterview(interview)); err != nil {
		return application.Interview{}, err
	}
	return a.GetInterview(ctx, interview.ID)
}

func (a *interviewRepositoryAdapter) UpdateInterview(ctx context.Context, interview application.Interview) (application.Interview, error) {
	if err := a.repo.UpdateInterview(ctx, toPersistenceInterview(interview)); err != nil {
		return application.Interview{}, err
	}
	return a.GetInterview(ctx, interview.ID)
}

func (a *interviewRepositoryAdapter) GetInterview(ctx context.Context, id string) (application.Interview, error) {
	stored, err := a.repo.GetInterview(ctx, id)
	if err != nil {
		return application.Interview{}, err
	}
	return toApplicationInterview(stored), nil
}

func (a *interviewRepositoryAdapter) ListInterviews(ctx context.Context, filter application.InterviewFilter) ([]application.Interview, error) {
	models, err := a.repo.ListInterviews(ctx, persistence.InterviewFilter{
		ApplicationID:    filter.ApplicationID,
		InterviewerEmail: filter.InterviewerEmail,
		StartsAfter:      filter.StartsAfter,
		StartsBefore:     filter.StartsBefore,
		ExcludeCancelled: filter.ExcludeCancelled,
	})
	if err != nil {
		return nil, err
	}
	interviews := make([]application.Interview, 0, len(models))
	for _, model := range models {
		interviews = append(interviews, toApplicationInterview(model))
	}
	return interviews, nil
}

func toApplicationApplication(model persistence.Application) application.Application {
	return application.Application{
		ID:         model.ID,
		JobID:      model.JobID,
		Email:      model.Email,
		Phone:      model.Phone,
		FullName:   model.FullName,
		ResumeText: model.ResumeText,
		Status:     model.Status,
		Analysis:   model.Analysis,
		AIScore:    model.AIScore,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toApplicationInterview(model persistence.Interview) application.Interview {
	return application.Interview{
		ID:            model.ID,
		ApplicationID: model.ApplicationID,
		Interviewer: application.Interviewer{
			Name:  model.InterviewerName,
			Email: model.InterviewerEmail,
		},
		Candidate: application.CandidateSnapshot{
			Name:  model.CandidateName,
			Email: model.CandidateEmail,
			Phone: model.CandidatePhone,
		},
		Window:          application.TimeWindow{Start: model.Start, End: model.End},
		DurationMinutes: model.DurationMinutes,
		Type:            application.InterviewType(model.Type),
		Location:        cloneString(model.Location),
		MeetingLink:     cloneString(model.MeetingLink),
		Status:          application.InterviewStatus(model.Status),
		Notes:           model.Notes,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceInterview(interview application.Interview) persistence.Interview {
	return persistence.Interview{
		ID:               interview.ID,
		ApplicationID:    interview.ApplicationID,
		InterviewerName:  interview.Interviewer.Name,
		InterviewerEmail: interview.Interviewer.Email,
		CandidateName:    interview.Candidate.Name,
		CandidateEmail:   interview.Candidate.Email,
		CandidatePhone:   interview.Candidate.Phone,
		Start:            interview.Window.Start,
		End:              interview.Window.End,
		DurationMinutes:  interview.DurationMinutes,
		Type:             string(interview.Type),
		Location:         cloneString(interview.Location),
		MeetingLink:      cloneString(interview.MeetingLink),
		Status:           string(interview.Status),
		Notes:            interview.Notes,
		CreatedAt:        interview.CreatedAt,
		UpdatedAt:        interview.UpdatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
