package analysis

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

const (
	// DefaultTimeout bounds every call to the analysis service.
	DefaultTimeout = 30 * time.Second
	// MaxInterviewQuestions caps the questions kept from a reply.
	MaxInterviewQuestions = 10

	defaultCacheSize   = 256
	resumeExcerptRunes = 600
	logPreviewRunes    = 200
)

//go:embed analysis_prompt.md
var analysisPromptTemplate string

//go:embed comparison_prompt.md
var comparisonPromptTemplate string

// Gateway builds analysis requests, calls the generator under a timeout and normalises replies.
type Gateway struct {
	generator Generator
	timeout   time.Duration
	logger    *slog.Logger

	cacheMu   sync.Mutex
	cache     map[[blake2b.Size256]byte]Result
	cacheSize int
}

// Option customises a Gateway.
type Option func(*Gateway)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithCacheSize bounds the number of cached analyses; zero disables caching.
func WithCacheSize(size int) Option {
	return func(g *Gateway) {
		if size >= 0 {
			g.cacheSize = size
		}
	}
}

// NewGateway returns a gateway backed by generator. A nil generator yields a gateway whose
// calls always fail with ErrAnalysisFailed.
func NewGateway(generator Generator, opts ...Option) *Gateway {
	g := &Gateway{
		generator: generator,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		cacheSize: defaultCacheSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cache = make(map[[blake2b.Size256]byte]Result)
	return g
}

// Enabled reports whether a generator is configured.
func (g *Gateway) Enabled() bool {
	return g != nil && g.generator != nil
}

// Analyze evaluates a résumé against a job.
func (g *Gateway) Analyze(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return Result{}, fmt.Errorf("%w: resume text is required", ErrAnalysisFailed)
	}

	key := cacheKey(req)
	if cached, ok := g.cached(key); ok {
		return cached, nil
	}

	prompt := buildAnalysisPrompt(req)
	raw, err := g.generate(ctx, "analyze", prompt)
	if err != nil {
		return Result{}, err
	}

	result, err := parseAnalysis(raw)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	g.store(key, result)
	return result, nil
}

// CompareCandidates asks the service whether the new candidate duplicates an existing one.
func (g *Gateway) CompareCandidates(ctx context.Context, cmp Comparison) (ComparisonResult, error) {
	if len(cmp.Existing) == 0 {
		return ComparisonResult{}, fmt.Errorf("%w: no existing candidates to compare", ErrAnalysisFailed)
	}

	prompt, err := buildComparisonPrompt(cmp)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	raw, err := g.generate(ctx, "compare", prompt)
	if err != nil {
		return ComparisonResult{}, err
	}

	result, err := parseComparison(raw)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	return result, nil
}

func (g *Gateway) generate(ctx context.Context, operation, prompt string) (string, error) {
	if !g.Enabled() {
		return "", fmt.Errorf("%w: analysis service not configured", ErrAnalysisFailed)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	logger := g.logger.With("component", "analysis", "operation", operation)
	logger.DebugContext(ctx, "analysis request",
		"prompt_length", utf8.RuneCountInString(prompt),
		"prompt_preview", truncateForLog(prompt, logPreviewRunes),
	)

	started := time.Now()
	raw, err := g.generator.GenerateContent(callCtx, prompt)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out after %s: %w", ErrAnalysisFailed, g.timeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	logger.DebugContext(ctx, "analysis response",
		"duration", time.Since(started),
		"response_length", utf8.RuneCountInString(raw),
		"response_preview", truncateForLog(raw, logPreviewRunes),
	)
	return raw, nil
}

func (g *Gateway) cached(key [blake2b.Size256]byte) (Result, bool) {
	if g.cacheSize == 0 {
		return Result{}, false
	}
	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()
	result, ok := g.cache[key]
	if !ok {
		return Result{}, false
	}
	return cloneResult(result), true
}

func (g *Gateway) store(key [blake2b.Size256]byte, result Result) {
	if g.cacheSize == 0 {
		return
	}
	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()
	if len(g.cache) >= g.cacheSize {
		// full: start over
		g.cache = make(map[[blake2b.Size256]byte]Result)
	}
	g.cache[key] = cloneResult(result)
}

func cacheKey(req Request) [blake2b.Size256]byte {
	payload := strings.Join([]string{
		strings.TrimSpace(req.JobTitle),
		strings.TrimSpace(req.JobRequirements),
		strings.TrimSpace(req.ResumeText),
	}, "\x00")
	return blake2b.Sum256([]byte(payload))
}

func buildAnalysisPrompt(req Request) string {
	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", strings.TrimSpace(req.JobTitle),
		"{{JOB_REQUIREMENTS}}", strings.TrimSpace(req.JobRequirements),
		"{{RESUME}}", strings.TrimSpace(req.ResumeText),
	)
	return replacer.Replace(analysisPromptTemplate)
}

func buildComparisonPrompt(cmp Comparison) (string, error) {
	newCandidate := cmp.NewCandidate
	newCandidate.ResumeExcerpt = excerpt(newCandidate.ResumeExcerpt, resumeExcerptRunes)
	newJSON, err := json.MarshalIndent(newCandidate, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal new candidate: %w", err)
	}

	existing := make([]CandidateSummary, len(cmp.Existing))
	for i, summary := range cmp.Existing {
		summary.ResumeExcerpt = excerpt(summary.ResumeExcerpt, resumeExcerptRunes)
		existing[i] = summary
	}
	existingJSON, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal existing candidates: %w", err)
	}

	replacer := strings.NewReplacer(
		"{{NEW_CANDIDATE}}", string(newJSON),
		"{{EXISTING}}", string(existingJSON),
	)
	return replacer.Replace(comparisonPromptTemplate), nil
}

func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func truncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func cloneResult(r Result) Result {
	r.SkillsMatch = append([]string(nil), r.SkillsMatch...)
	r.Strengths = append([]string(nil), r.Strengths...)
	r.Weaknesses = append([]string(nil), r.Weaknesses...)
	r.InterviewQuestions = append([]string(nil), r.InterviewQuestions...)
	if r.SkillsMatch == nil {
		r.SkillsMatch = []string{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
	if r.InterviewQuestions == nil {
		r.InterviewQuestions = []string{}
	}
	return r
}
