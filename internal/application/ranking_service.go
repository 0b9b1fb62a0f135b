package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/hiring-portal/internal/screening"
)

const keyStrengthCount = 3

// rankingCacheTTL bounds how long a ranking may lag behind application writes that bypass
// ScreeningService, such as `hiring seed` run against the same database.
const rankingCacheTTL = 30 * time.Second

// RankingService ranks the scored applications of a job by composite score.
type RankingService struct {
	jobs         JobRepository
	applications ApplicationRepository
	weights      screening.Weights
	cache        *rankingCache
	logger       *slog.Logger
}

// NewRankingService wires dependencies for ranking. Invalid weights fall back to the defaults.
func NewRankingService(jobs JobRepository, applications ApplicationRepository, weights screening.Weights, now func() time.Time, logger *slog.Logger) *RankingService {
	if err := weights.Validate(); err != nil {
		weights = screening.DefaultWeights()
	}
	return &RankingService{
		jobs:         jobs,
		applications: applications,
		weights:      weights,
		cache:        newRankingCache(rankingCacheTTL, 128, now),
		logger:       defaultLogger(logger),
	}
}

// RankCandidates returns the ranked applications of the job. Applications without both an AI
// score and an analysis are skipped.
func (s *RankingService) RankCandidates(ctx context.Context, jobID string) ([]RankingEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("RankingService is nil")
	}
	if s.jobs == nil || s.applications == nil {
		return nil, fmt.Errorf("ranking repositories not configured")
	}

	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, newValidationError("job_id", "job id is required")
	}

	if cached, ok := s.cache.Get(jobID); ok {
		return cached, nil
	}

	logger := serviceLogger(ctx, s.logger, "ranking", "rank", "job_id", jobID)

	if _, err := s.jobs.GetJob(ctx, jobID); err != nil {
		err = mapRepoError(err)
		logger.WarnContext(ctx, "job lookup failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	applications, err := s.applications.ListApplications(ctx, jobID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list applications", "error", err, "error_kind", ErrorKind(err))
		return nil, mapRepoError(err)
	}

	byID := make(map[string]Application, len(applications))
	scored := make([]screening.Scored, 0, len(applications))
	for _, app := range applications {
		if app.AIScore == nil || app.Analysis == nil {
			continue
		}
		byID[app.ID] = app
		scored = append(scored, screening.Scored{
			ID:    app.ID,
			Score: screening.CompositeScore(subScores(app), s.weights),
		})
	}

	ranked := screening.Rank(scored)
	entries := make([]RankingEntry, 0, len(ranked))
	for i, item := range ranked {
		app := byID[item.ID]
		entries = append(entries, RankingEntry{
			ApplicationID:   app.ID,
			FullName:        app.FullName,
			CompositeScore:  item.Score,
			Rank:            i + 1,
			MatchPercentage: item.Score,
			KeyStrengths:    firstN(app.Analysis.Strengths, keyStrengthCount),
			Differentiators: screening.Differentiators(subScores(app)),
		})
	}

	logger.DebugContext(ctx, "ranked applications", "ranked", len(entries), "skipped", len(applications)-len(entries))
	s.cache.Store(jobID, entries)
	return entries, nil
}

// Invalidate drops the cached ranking for the job.
func (s *RankingService) Invalidate(jobID string) {
	if s == nil {
		return
	}
	s.cache.Invalidate(jobID)
}

func subScores(app Application) screening.SubScores {
	result := app.Analysis
	return screening.SubScores{
		Technical:       result.TechnicalCompetency,
		ExperienceLevel: result.ExperienceLevel,
		CulturalFit:     result.CulturalFit,
		Leadership:      result.LeadershipPotential,
		ProblemSolving:  result.CompetencyBreakdown.ProblemSolving,
	}
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		values = values[:n]
	}
	return append([]string{}, values...)
}
