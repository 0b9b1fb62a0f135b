package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type stubGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	block    bool
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

const fullAnalysis = "```json\n" + `{
  "overallScore": 130,
  "skillsMatch": ["Go", "go", " Kubernetes ", ""],
  "experienceLevel": " Senior ",
  "strengths": ["Distributed systems", "Mentoring"],
  "weaknesses": ["Frontend"],
  "culturalFit": 82.5,
  "technicalCompetency": -4,
  "leadershipPotential": 77,
  "salaryRange": {"min": 150000, "max": 120000},
  "competencyBreakdown": {"technical": 101, "communication": 70, "problemSolving": 88, "teamwork": 65, "adaptability": 72},
  "interviewQuestions": ["q1","q2","q3","q4","q5","q6","q7","q8","q9","q10","q11"]
}` + "\n```"

func TestGatewayAnalyze_NormalisesResponse(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: fullAnalysis}
	gw := NewGateway(gen)

	result, err := gw.Analyze(context.Background(), Request{JobTitle: "Platform Engineer", JobRequirements: "Go, Kubernetes", ResumeText: "Ten years of Go"})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.OverallScore != 100 {
		t.Fatalf("expected overall score clamped to 100, got %v", result.OverallScore)
	}
	if result.TechnicalCompetency != 0 {
		t.Fatalf("expected technical competency clamped to 0, got %v", result.TechnicalCompetency)
	}
	if result.CompetencyBreakdown.Technical != 100 || result.CompetencyBreakdown.ProblemSolving != 88 {
		t.Fatalf("unexpected competency breakdown %+v", result.CompetencyBreakdown)
	}
	if result.ExperienceLevel != "senior" {
		t.Fatalf("expected normalised experience level, got %q", result.ExperienceLevel)
	}
	if len(result.SkillsMatch) != 2 {
		t.Fatalf("expected deduplicated skills, got %v", result.SkillsMatch)
	}
	if result.SalaryRange.Min != 120000 || result.SalaryRange.Max != 150000 {
		t.Fatalf("expected inverted salary range to be swapped, got %+v", result.SalaryRange)
	}
	if len(result.InterviewQuestions) != MaxInterviewQuestions {
		t.Fatalf("expected questions truncated to %d, got %d", MaxInterviewQuestions, len(result.InterviewQuestions))
	}

	prompt := gen.prompts[0]
	for _, want := range []string{"Platform Engineer", "Go, Kubernetes", "Ten years of Go", "interviewQuestions"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
}

func TestGatewayAnalyze_DefaultsMissingCollections(t *testing.T) {
	t.Parallel()

	gw := NewGateway(&stubGenerator{response: `{"overallScore": 55}`})
	result, err := gw.Analyze(context.Background(), Request{ResumeText: "resume"})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.SkillsMatch == nil || result.Strengths == nil || result.Weaknesses == nil || result.InterviewQuestions == nil {
		t.Fatalf("expected empty collections, got %+v", result)
	}
}

func TestGatewayAnalyze_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		gen  Generator
		req  Request
	}{
		{name: "generator error", gen: &stubGenerator{err: errors.New("boom")}, req: Request{ResumeText: "r"}},
		{name: "unparsable", gen: &stubGenerator{response: "I think the candidate is great"}, req: Request{ResumeText: "r"}},
		{name: "missing overall score", gen: &stubGenerator{response: `{"culturalFit": 10}`}, req: Request{ResumeText: "r"}},
		{name: "wrong field type", gen: &stubGenerator{response: `{"overallScore": "high"}`}, req: Request{ResumeText: "r"}},
		{name: "no generator", gen: nil, req: Request{ResumeText: "r"}},
		{name: "blank resume", gen: &stubGenerator{response: `{"overallScore": 1}`}, req: Request{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gw := NewGateway(tc.gen)
			if _, err := gw.Analyze(context.Background(), tc.req); !errors.Is(err, ErrAnalysisFailed) {
				t.Fatalf("expected ErrAnalysisFailed, got %v", err)
			}
		})
	}
}

func TestGatewayAnalyze_Timeout(t *testing.T) {
	t.Parallel()

	gw := NewGateway(&stubGenerator{block: true}, WithTimeout(20*time.Millisecond))

	started := time.Now()
	_, err := gw.Analyze(context.Background(), Request{ResumeText: "r"})
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout to be reported, got %v", err)
	}
	if time.Since(started) > 5*time.Second {
		t.Fatalf("timeout was not enforced")
	}
}

func TestGatewayAnalyze_CachesByContent(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: `{"overallScore": 70, "strengths": ["a"]}`}
	gw := NewGateway(gen)
	req := Request{JobTitle: "t", JobRequirements: "r", ResumeText: "resume"}

	first, err := gw.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	first.Strengths[0] = "mutated"

	second, err := gw.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if gen.calls() != 1 {
		t.Fatalf("expected cached result, generator called %d times", gen.calls())
	}
	if second.Strengths[0] != "a" {
		t.Fatalf("expected cache to be isolated from caller mutation")
	}

	if _, err := gw.Analyze(context.Background(), Request{JobTitle: "t", JobRequirements: "r", ResumeText: "other"}); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if gen.calls() != 2 {
		t.Fatalf("expected different resume to miss the cache")
	}
}

func TestGatewayCompareCandidates(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: `{"isDuplicate": true, "duplicateApplicationIds": ["app-1", "app-1"], "confidence": 140, "matchingFactors": ["Same employer history"]}`}
	gw := NewGateway(gen)

	result, err := gw.CompareCandidates(context.Background(), Comparison{
		NewCandidate: CandidateSummary{FullName: "Jane Doe", Email: "jane@x.com", ResumeExcerpt: strings.Repeat("x", 2000)},
		Existing:     []CandidateSummary{{ApplicationID: "app-1", FullName: "Jane Doe", Email: "jane@x.com"}},
	})
	if err != nil {
		t.Fatalf("CompareCandidates returned error: %v", err)
	}
	if !result.IsDuplicate || result.Confidence != 100 || len(result.DuplicateApplicationIDs) != 1 {
		t.Fatalf("unexpected comparison result %+v", result)
	}
	if strings.Contains(gen.prompts[0], strings.Repeat("x", resumeExcerptRunes+1)) {
		t.Fatalf("expected resume excerpt to be truncated in prompt")
	}

	gw = NewGateway(&stubGenerator{response: `{"confidence": 10}`})
	if _, err := gw.CompareCandidates(context.Background(), Comparison{Existing: []CandidateSummary{{ApplicationID: "a"}}}); !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected malformed comparison to fail, got %v", err)
	}
}
