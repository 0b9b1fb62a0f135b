// Package analysis talks to the external natural-language analysis service. It builds the
// evaluation and duplicate comparison prompts, decodes the replies against a strict schema and
// clamps every score into [0,100].
package analysis

import (
	"context"
	"errors"
)

// ErrAnalysisFailed wraps every generator error, timeout, or malformed reply. Callers treat it
// as non-fatal.
var ErrAnalysisFailed = errors.New("analysis: failed")

// Generator sends a prompt to a language model and returns its textual reply.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Request carries the job and résumé being evaluated.
type Request struct {
	JobTitle        string
	JobRequirements string
	ResumeText      string
}

// SalaryRange is the suggested compensation band.
type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CompetencyBreakdown scores individual competencies.
type CompetencyBreakdown struct {
	Technical      float64 `json:"technical"`
	Communication  float64 `json:"communication"`
	ProblemSolving float64 `json:"problemSolving"`
	Teamwork       float64 `json:"teamwork"`
	Adaptability   float64 `json:"adaptability"`
}

// Result is a normalised evaluation of a candidate for a job.
type Result struct {
	OverallScore        float64             `json:"overallScore"`
	SkillsMatch         []string            `json:"skillsMatch"`
	ExperienceLevel     string              `json:"experienceLevel"`
	Strengths           []string            `json:"strengths"`
	Weaknesses          []string            `json:"weaknesses"`
	CulturalFit         float64             `json:"culturalFit"`
	TechnicalCompetency float64             `json:"technicalCompetency"`
	LeadershipPotential float64             `json:"leadershipPotential"`
	SalaryRange         SalaryRange         `json:"salaryRange"`
	CompetencyBreakdown CompetencyBreakdown `json:"competencyBreakdown"`
	InterviewQuestions  []string            `json:"interviewQuestions"`
}

// CandidateSummary is the condensed view of a candidate sent for duplicate comparison.
type CandidateSummary struct {
	ApplicationID string `json:"applicationId,omitempty"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	JobID         string `json:"jobId,omitempty"`
	ResumeExcerpt string `json:"resumeExcerpt,omitempty"`
}

// Comparison asks whether a new candidate duplicates any existing application.
type Comparison struct {
	NewCandidate CandidateSummary
	Existing     []CandidateSummary
}

// ComparisonResult is the normalised verdict of a duplicate comparison.
type ComparisonResult struct {
	IsDuplicate             bool     `json:"isDuplicate"`
	DuplicateApplicationIDs []string `json:"duplicateApplicationIds"`
	Confidence              float64  `json:"confidence"`
	MatchingFactors         []string `json:"matchingFactors"`
}
