package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/testfixtures"
)

type invalidatorStub struct {
	jobs []string
}

func (i *invalidatorStub) Invalidate(jobID string) {
	i.jobs = append(i.jobs, jobID)
}

func screeningFixtures() (*jobRepoStub, *applicationRepoStub) {
	jobs := &jobRepoStub{jobs: map[string]Job{"J1": {ID: "J1", Title: "Backend Engineer", Requirements: "Go, SQL"}}}
	apps := &applicationRepoStub{apps: []Application{{ID: "app-1", JobID: "J1", FullName: "Jane Doe", ResumeText: "Go developer"}}}
	return jobs, apps
}

func TestScreeningService_AnalyzeApplicationStoresScore(t *testing.T) {
	t.Parallel()

	jobs, apps := screeningFixtures()
	analyzer := &analyzerStub{result: analysis.Result{OverallScore: 87.6, ExperienceLevel: "senior", Strengths: []string{"Go"}}}
	rankings := &invalidatorStub{}
	svc := NewScreeningService(jobs, apps, analyzer, rankings, testfixtures.NewClock(referenceNow).NowFunc(), discardLogger())

	updated, err := svc.AnalyzeApplication(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("AnalyzeApplication returned error: %v", err)
	}

	if updated.AIScore == nil || *updated.AIScore != 88 {
		t.Fatalf("expected ai score 88, got %v", updated.AIScore)
	}
	if updated.Analysis == nil || updated.Analysis.ExperienceLevel != "senior" {
		t.Fatalf("expected analysis to be stored, got %#v", updated.Analysis)
	}
	if !updated.UpdatedAt.Equal(referenceNow) {
		t.Fatalf("expected updated timestamp %v, got %v", referenceNow, updated.UpdatedAt)
	}

	req := analyzer.requests[0]
	if req.JobTitle != "Backend Engineer" || req.JobRequirements != "Go, SQL" || req.ResumeText != "Go developer" {
		t.Fatalf("unexpected analysis request: %#v", req)
	}
	if len(rankings.jobs) != 1 || rankings.jobs[0] != "J1" {
		t.Fatalf("expected ranking invalidation for J1, got %v", rankings.jobs)
	}
}

func TestScreeningService_AnalysisFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	jobs, apps := screeningFixtures()
	analyzer := &analyzerStub{err: fmt.Errorf("%w: timed out", analysis.ErrAnalysisFailed)}
	svc := NewScreeningService(jobs, apps, analyzer, nil, testfixtures.NewClock(referenceNow).NowFunc(), discardLogger())

	app, err := svc.AnalyzeApplication(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("expected analysis failure to be swallowed, got %v", err)
	}
	if app.AIScore != nil || app.Analysis != nil {
		t.Fatalf("expected application to stay unscored, got %#v", app)
	}
	if len(apps.patches) != 0 {
		t.Fatalf("expected no update on failure, got %d", len(apps.patches))
	}

	noAnalyzer := NewScreeningService(jobs, apps, nil, nil, testfixtures.NewClock(referenceNow).NowFunc(), discardLogger())
	if _, err := noAnalyzer.AnalyzeApplication(context.Background(), "app-1"); err != nil {
		t.Fatalf("expected missing analyzer to be non-fatal, got %v", err)
	}
}

func TestScreeningService_Errors(t *testing.T) {
	t.Parallel()

	jobs, apps := screeningFixtures()
	svc := NewScreeningService(jobs, apps, &analyzerStub{}, nil, testfixtures.NewClock(referenceNow).NowFunc(), discardLogger())

	if _, err := svc.AnalyzeApplication(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var vErr *ValidationError
	if _, err := svc.AnalyzeApplication(context.Background(), ""); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	apps.updateErr = errors.New("disk full")
	if _, err := svc.AnalyzeApplication(context.Background(), "app-1"); err == nil {
		t.Fatalf("expected storage failure to surface")
	}
}
