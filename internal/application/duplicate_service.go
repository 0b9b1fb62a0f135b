package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/screening"
)

const (
	// DefaultCompareLimit bounds how many matched applications are sent for comparison.
	DefaultCompareLimit = 5
	// RuleMatchConfidence is reported when deterministic rules alone decide a duplicate.
	RuleMatchConfidence = 95

	resumeExcerptLimit = 1500
)

// CandidateComparer escalates ambiguous duplicates to the analysis service.
type CandidateComparer interface {
	CompareCandidates(ctx context.Context, cmp analysis.Comparison) (analysis.ComparisonResult, error)
}

// DuplicateService decides whether a candidate identity already applied.
type DuplicateService struct {
	applications ApplicationRepository
	comparer     CandidateComparer
	compareLimit int
	logger       *slog.Logger
}

// NewDuplicateService wires dependencies for duplicate detection. A nil comparer disables escalation.
func NewDuplicateService(applications ApplicationRepository, comparer CandidateComparer, compareLimit int, logger *slog.Logger) *DuplicateService {
	if compareLimit <= 0 {
		compareLimit = DefaultCompareLimit
	}
	return &DuplicateService{
		applications: applications,
		comparer:     comparer,
		compareLimit: compareLimit,
		logger:       defaultLogger(logger),
	}
}

type candidateMatch struct {
	application Application
	rules       []screening.MatchRule
}

// DetectDuplicates scans stored applications for the identity. Rule matches are escalated to the
// comparer when a résumé is supplied; a failed escalation falls back to the rule-based verdict.
func (s *DuplicateService) DetectDuplicates(ctx context.Context, params DetectDuplicatesParams) (DuplicateMatch, error) {
	if s == nil {
		return DuplicateMatch{}, fmt.Errorf("DuplicateService is nil")
	}
	if s.applications == nil {
		return DuplicateMatch{}, fmt.Errorf("application repository not configured")
	}

	identity := params.Identity
	if strings.TrimSpace(identity.Email) == "" && strings.TrimSpace(identity.Phone) == "" && strings.TrimSpace(identity.FullName) == "" {
		return DuplicateMatch{}, newValidationError("identity", "email, phone or name is required")
	}

	logger := serviceLogger(ctx, s.logger, "duplicate", "detect", "job_id", params.JobID)

	applications, err := s.applications.ListApplications(ctx, strings.TrimSpace(params.JobID))
	if err != nil {
		logger.ErrorContext(ctx, "failed to list applications", "error", err, "error_kind", ErrorKind(err))
		return DuplicateMatch{}, mapRepoError(err)
	}

	query := screening.Identity{Email: identity.Email, Phone: identity.Phone, FullName: identity.FullName}
	matches := make([]candidateMatch, 0)
	for _, app := range applications {
		if params.ExcludeApplicationID != "" && app.ID == params.ExcludeApplicationID {
			continue
		}
		rules := screening.MatchIdentity(query, screening.Identity{Email: app.Email, Phone: app.Phone, FullName: app.FullName})
		if len(rules) == 0 {
			continue
		}
		matches = append(matches, candidateMatch{application: app, rules: rules})
	}

	if len(matches) == 0 {
		return DuplicateMatch{MatchedApplicationIDs: []string{}, MatchingFactors: []string{}}, nil
	}

	if strings.TrimSpace(identity.ResumeText) != "" && s.comparer != nil {
		result, err := s.escalate(ctx, identity, params.JobID, matches)
		if err == nil {
			logger.InfoContext(ctx, "duplicate check escalated", "matches", len(matches), "is_duplicate", result.IsDuplicate)
			return result, nil
		}
		logger.WarnContext(ctx, "duplicate escalation failed, using rule match", "error", err, "error_kind", ErrorKind(err))
	}

	return ruleMatch(matches), nil
}

func (s *DuplicateService) escalate(ctx context.Context, identity CandidateIdentity, jobID string, matches []candidateMatch) (DuplicateMatch, error) {
	cmp := analysis.Comparison{
		NewCandidate: analysis.CandidateSummary{
			FullName:      identity.FullName,
			Email:         identity.Email,
			Phone:         identity.Phone,
			JobID:         jobID,
			ResumeExcerpt: excerpt(identity.ResumeText, resumeExcerptLimit),
		},
	}
	for _, match := range matches {
		if len(cmp.Existing) == s.compareLimit {
			break
		}
		app := match.application
		cmp.Existing = append(cmp.Existing, analysis.CandidateSummary{
			ApplicationID: app.ID,
			FullName:      app.FullName,
			Email:         app.Email,
			Phone:         app.Phone,
			JobID:         app.JobID,
			ResumeExcerpt: excerpt(app.ResumeText, resumeExcerptLimit),
		})
	}

	result, err := s.comparer.CompareCandidates(ctx, cmp)
	if err != nil {
		return DuplicateMatch{}, err
	}

	candidates := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		candidates[match.application.ID] = struct{}{}
	}

	out := DuplicateMatch{
		IsDuplicate:           result.IsDuplicate,
		MatchedApplicationIDs: []string{},
		Confidence:            int(math.Round(analysis.Clamp(result.Confidence))),
		MatchingFactors:       append([]string{}, result.MatchingFactors...),
	}
	if !result.IsDuplicate {
		return out, nil
	}

	seen := make(map[string]struct{}, len(result.DuplicateApplicationIDs))
	for _, id := range result.DuplicateApplicationIDs {
		if _, ok := candidates[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.MatchedApplicationIDs = append(out.MatchedApplicationIDs, id)
	}
	if len(out.MatchedApplicationIDs) == 0 {
		out.MatchedApplicationIDs = matchIDs(matches)
	}
	return out, nil
}

func ruleMatch(matches []candidateMatch) DuplicateMatch {
	fired := make([][]screening.MatchRule, 0, len(matches))
	for _, match := range matches {
		fired = append(fired, match.rules)
	}
	return DuplicateMatch{
		IsDuplicate:           true,
		MatchedApplicationIDs: matchIDs(matches),
		Confidence:            RuleMatchConfidence,
		MatchingFactors:       screening.MatchingFactors(fired),
	}
}

func matchIDs(matches []candidateMatch) []string {
	ids := make([]string, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.application.ID)
	}
	return ids
}

func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
