package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

type analysisPayload struct {
	OverallScore        *float64 `json:"overallScore"`
	SkillsMatch         []string `json:"skillsMatch"`
	ExperienceLevel     string   `json:"experienceLevel"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	CulturalFit         *float64 `json:"culturalFit"`
	TechnicalCompetency *float64 `json:"technicalCompetency"`
	LeadershipPotential *float64 `json:"leadershipPotential"`
	SalaryRange         *struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"salaryRange"`
	CompetencyBreakdown *struct {
		Technical      float64 `json:"technical"`
		Communication  float64 `json:"communication"`
		ProblemSolving float64 `json:"problemSolving"`
		Teamwork       float64 `json:"teamwork"`
		Adaptability   float64 `json:"adaptability"`
	} `json:"competencyBreakdown"`
	InterviewQuestions []string `json:"interviewQuestions"`
}

type comparisonPayload struct {
	IsDuplicate             *bool    `json:"isDuplicate"`
	DuplicateApplicationIDs []string `json:"duplicateApplicationIds"`
	Confidence              *float64 `json:"confidence"`
	MatchingFactors         []string `json:"matchingFactors"`
}

func parseAnalysis(raw string) (Result, error) {
	var payload analysisPayload
	if err := decodeStrictJSON(raw, &payload); err != nil {
		return Result{}, err
	}
	if payload.OverallScore == nil {
		return Result{}, errors.New("malformed analysis: overallScore is missing")
	}

	result := Result{
		OverallScore:        Clamp(*payload.OverallScore),
		SkillsMatch:         uniqueNonBlank(payload.SkillsMatch),
		ExperienceLevel:     strings.ToLower(strings.TrimSpace(payload.ExperienceLevel)),
		Strengths:           nonBlank(payload.Strengths),
		Weaknesses:          nonBlank(payload.Weaknesses),
		CulturalFit:         clampPtr(payload.CulturalFit),
		TechnicalCompetency: clampPtr(payload.TechnicalCompetency),
		LeadershipPotential: clampPtr(payload.LeadershipPotential),
		InterviewQuestions:  nonBlank(payload.InterviewQuestions),
	}

	if len(result.InterviewQuestions) > MaxInterviewQuestions {
		result.InterviewQuestions = result.InterviewQuestions[:MaxInterviewQuestions]
	}

	if payload.SalaryRange != nil {
		result.SalaryRange = normalizeSalary(payload.SalaryRange.Min, payload.SalaryRange.Max)
	}

	if cb := payload.CompetencyBreakdown; cb != nil {
		result.CompetencyBreakdown = CompetencyBreakdown{
			Technical:      Clamp(cb.Technical),
			Communication:  Clamp(cb.Communication),
			ProblemSolving: Clamp(cb.ProblemSolving),
			Teamwork:       Clamp(cb.Teamwork),
			Adaptability:   Clamp(cb.Adaptability),
		}
	}

	return result, nil
}

func parseComparison(raw string) (ComparisonResult, error) {
	var payload comparisonPayload
	if err := decodeStrictJSON(raw, &payload); err != nil {
		return ComparisonResult{}, err
	}
	if payload.IsDuplicate == nil {
		return ComparisonResult{}, errors.New("malformed comparison: isDuplicate is missing")
	}

	return ComparisonResult{
		IsDuplicate:             *payload.IsDuplicate,
		DuplicateApplicationIDs: uniqueNonBlank(payload.DuplicateApplicationIDs),
		Confidence:              clampPtr(payload.Confidence),
		MatchingFactors:         nonBlank(payload.MatchingFactors),
	}, nil
}

// decodeStrictJSON decodes a single JSON object, tolerating markdown fences around it.
func decodeStrictJSON(raw string, dst any) error {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return errors.New("malformed response: empty body")
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	if decoder.More() {
		return errors.New("malformed response: trailing data after JSON object")
	}
	return nil
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

// Clamp bounds a score to [0,100]; NaN becomes 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func clampPtr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return Clamp(*v)
}

func normalizeSalary(lo, hi float64) SalaryRange {
	if math.IsNaN(lo) || lo < 0 {
		lo = 0
	}
	if math.IsNaN(hi) || hi < 0 {
		hi = 0
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return SalaryRange{Min: lo, Max: hi}
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func uniqueNonBlank(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
