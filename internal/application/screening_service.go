package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/example/hiring-portal/internal/analysis"
)

// ApplicationAnalyzer produces the structured evaluation of a résumé against a job.
type ApplicationAnalyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error)
}

// RankingInvalidator is notified when an application of a job is re-scored.
type RankingInvalidator interface {
	Invalidate(jobID string)
}

// ScreeningService scores applications with the analysis service.
type ScreeningService struct {
	jobs         JobRepository
	applications ApplicationRepository
	analyzer     ApplicationAnalyzer
	rankings     RankingInvalidator
	now          func() time.Time
	logger       *slog.Logger
}

// NewScreeningService wires dependencies for application analysis. rankings may be nil.
func NewScreeningService(jobs JobRepository, applications ApplicationRepository, analyzer ApplicationAnalyzer, rankings RankingInvalidator, now func() time.Time, logger *slog.Logger) *ScreeningService {
	if now == nil {
		now = time.Now
	}
	return &ScreeningService{
		jobs:         jobs,
		applications: applications,
		analyzer:     analyzer,
		rankings:     rankings,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// AnalyzeApplication stores the analysis and AI score of the application. Analysis failures are
// logged and leave the application unscored; the unchanged application is returned without error.
func (s *ScreeningService) AnalyzeApplication(ctx context.Context, applicationID string) (Application, error) {
	if s == nil {
		return Application{}, fmt.Errorf("ScreeningService is nil")
	}
	if s.jobs == nil || s.applications == nil {
		return Application{}, fmt.Errorf("screening repositories not configured")
	}

	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return Application{}, newValidationError("application_id", "application id is required")
	}

	logger := serviceLogger(ctx, s.logger, "screening", "analyze", "application_id", applicationID)

	app, err := s.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return Application{}, mapRepoError(err)
	}
	job, err := s.jobs.GetJob(ctx, app.JobID)
	if err != nil {
		return Application{}, mapRepoError(err)
	}

	if s.analyzer == nil {
		logger.WarnContext(ctx, "analysis skipped", "reason", "analyzer not configured")
		return app, nil
	}

	result, err := s.analyzer.Analyze(ctx, analysis.Request{
		JobTitle:        job.Title,
		JobRequirements: job.Requirements,
		ResumeText:      app.ResumeText,
	})
	if err != nil {
		logger.WarnContext(ctx, "analysis failed, application left unscored", "error", err, "error_kind", ErrorKind(err))
		return app, nil
	}

	score := int(math.Round(analysis.Clamp(result.OverallScore)))
	updated, err := s.applications.UpdateApplication(ctx, app.ID, ApplicationPatch{
		Analysis:  &result,
		AIScore:   &score,
		UpdatedAt: s.now(),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to store analysis", "error", err, "error_kind", ErrorKind(err))
		return Application{}, mapRepoError(err)
	}

	if s.rankings != nil {
		s.rankings.Invalidate(app.JobID)
	}
	logger.InfoContext(ctx, "application analysed", "ai_score", score, "experience_level", result.ExperienceLevel)
	return updated, nil
}
