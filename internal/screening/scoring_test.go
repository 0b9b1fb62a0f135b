package screening

import (
	"reflect"
	"testing"
)

func TestCompositeScore(t *testing.T) {
	t.Parallel()

	got := CompositeScore(SubScores{Technical: 90, ExperienceLevel: "senior", CulturalFit: 80, Leadership: 60}, DefaultWeights())
	if got != 84 {
		t.Fatalf("expected composite 84, got %d", got)
	}
}

func TestExperienceScore(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"entry":     60,
		"Mid":       75,
		" senior ":  85,
		"lead":      90,
		"executive": 95,
		"wizard":    UnknownExperienceScore,
		"":          UnknownExperienceScore,
	}
	for level, want := range cases {
		if got := ExperienceScore(level); got != want {
			t.Fatalf("ExperienceScore(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("expected default weights to be valid, got %v", err)
	}
	if err := (Weights{Technical: 0.5, Experience: 0.5, Cultural: 0.5}).Validate(); err == nil {
		t.Fatalf("expected error for weights summing above 1")
	}
	if err := (Weights{Technical: 1.2, Experience: -0.2}).Validate(); err == nil {
		t.Fatalf("expected error for negative weight")
	}
}

func TestDifferentiators(t *testing.T) {
	t.Parallel()

	got := Differentiators(SubScores{Technical: 95, CulturalFit: 90, Leadership: 85, ProblemSolving: 90})
	want := []string{
		"Strong leadership potential",
		"Exceptional technical skills",
		"Excellent cultural fit",
		"Outstanding problem-solving abilities",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected differentiators %v", got)
	}

	if got := Differentiators(SubScores{Technical: 90, CulturalFit: 85, Leadership: 80, ProblemSolving: 85}); len(got) != 0 {
		t.Fatalf("expected thresholds to be exclusive, got %v", got)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	t.Parallel()

	ordered := Rank([]Scored{{ID: "a", Score: 70}, {ID: "b", Score: 90}, {ID: "c", Score: 70}, {ID: "d", Score: 90}})
	ids := make([]string, len(ordered))
	for i, item := range ordered {
		ids[i] = item.ID
	}
	if !reflect.DeepEqual(ids, []string{"b", "d", "a", "c"}) {
		t.Fatalf("unexpected order %v", ids)
	}
}
