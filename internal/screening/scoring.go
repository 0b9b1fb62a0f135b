package screening

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// Experience levels reported by the analysis service.
const (
	LevelEntry     = "entry"
	LevelMid       = "mid"
	LevelSenior    = "senior"
	LevelLead      = "lead"
	LevelExecutive = "executive"
)

// UnknownExperienceScore is used for levels missing from the table.
const UnknownExperienceScore = 70

// ExperienceScores maps an experience level to its ordinal sub-score.
var ExperienceScores = map[string]float64{
	LevelEntry:     60,
	LevelMid:       75,
	LevelSenior:    85,
	LevelLead:      90,
	LevelExecutive: 95,
}

// Differentiator thresholds; a sub-score strictly above the threshold earns the label.
const (
	LeadershipThreshold     = 80
	TechnicalThreshold      = 90
	CulturalFitThreshold    = 85
	ProblemSolvingThreshold = 85
)

// Weights controls how sub-scores blend into the composite score.
type Weights struct {
	Technical  float64
	Experience float64
	Cultural   float64
	Leadership float64
}

// DefaultWeights returns the standard ranking weights.
func DefaultWeights() Weights {
	return Weights{Technical: 0.4, Experience: 0.3, Cultural: 0.2, Leadership: 0.1}
}

// Validate checks that weights are non-negative and sum to one.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Technical, w.Experience, w.Cultural, w.Leadership} {
		if v < 0 {
			return errors.New("screening: weights must not be negative")
		}
	}
	if math.Abs(w.Technical+w.Experience+w.Cultural+w.Leadership-1) > 1e-6 {
		return errors.New("screening: weights must sum to 1")
	}
	return nil
}

// SubScores are the analysis fields feeding the composite score.
type SubScores struct {
	Technical       float64
	ExperienceLevel string
	CulturalFit     float64
	Leadership      float64
	ProblemSolving  float64
}

// ExperienceScore looks up the ordinal score for a level.
func ExperienceScore(level string) float64 {
	if score, ok := ExperienceScores[strings.ToLower(strings.TrimSpace(level))]; ok {
		return score
	}
	return UnknownExperienceScore
}

// CompositeScore blends the sub-scores with the weights and rounds half away from zero.
func CompositeScore(s SubScores, w Weights) int {
	total := w.Technical*s.Technical +
		w.Experience*ExperienceScore(s.ExperienceLevel) +
		w.Cultural*s.CulturalFit +
		w.Leadership*s.Leadership
	// trim float noise so x.5 composites round up consistently
	total = math.Round(total*1e6) / 1e6
	return int(math.Round(total))
}

// Differentiators lists the threshold labels the sub-scores earn, in fixed check order.
func Differentiators(s SubScores) []string {
	out := make([]string, 0, 4)
	if s.Leadership > LeadershipThreshold {
		out = append(out, "Strong leadership potential")
	}
	if s.Technical > TechnicalThreshold {
		out = append(out, "Exceptional technical skills")
	}
	if s.CulturalFit > CulturalFitThreshold {
		out = append(out, "Excellent cultural fit")
	}
	if s.ProblemSolving > ProblemSolvingThreshold {
		out = append(out, "Outstanding problem-solving abilities")
	}
	return out
}

// Scored is an item awaiting ranking.
type Scored struct {
	ID    string
	Score int
}

// Rank orders items by descending score, keeping input order for ties. The 1-based rank of
// an item is its index in the result plus one.
func Rank(items []Scored) []Scored {
	ordered := make([]Scored, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	return ordered
}
