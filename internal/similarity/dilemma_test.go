package similarity

import (
	"testing"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

func testDilemma() *models.Dilemma {
	return &models.Dilemma{
		Title:       "Disclose a terminal diagnosis",
		Description: "A physician must decide whether to tell a fragile patient the full truth about a terminal diagnosis against the family's wishes.",
		Situation: &models.Situation{
			Parameters: map[string]any{
				"setting":  "hospital",
				"severity": float64(0.9),
				"minor":    false,
			},
		},
		ContextualFactors: []models.ContextualFactor{
			{Factor: "reversibility", Value: "low"},
			{Factor: "time_pressure", Value: "high"},
		},
		Actions: []models.Action{
			{ID: "disclose", Name: "Disclose the full diagnosis"},
			{ID: "withhold", Name: "Withhold the diagnosis for now"},
		},
	}
}

func TestDilemma_SelfSimilarity(t *testing.T) {
	s := NewService(nil)

	d := testDilemma()
	got := s.Dilemma(d, d)
	if got < 0.999 {
		t.Errorf("self-similarity should be ~1, got %v", got)
	}
}

func TestDilemma_NilOperands(t *testing.T) {
	s := NewService(nil)

	if got := s.Dilemma(nil, testDilemma()); got != 0 {
		t.Errorf("nil left: expected 0, got %v", got)
	}
	if got := s.Dilemma(testDilemma(), nil); got != 0 {
		t.Errorf("nil right: expected 0, got %v", got)
	}
}

func TestDilemma_NoComparableDimensions(t *testing.T) {
	s := NewService(nil)

	a := &models.Dilemma{Title: "Only a title"}
	b := &models.Dilemma{Description: "Only a description"}
	if got := s.Dilemma(a, b); got != 0.1 {
		t.Errorf("no shared dimension: expected fallback 0.1, got %v", got)
	}
}

func TestDilemma_MissingDimensionsAreDroppedNotZeroed(t *testing.T) {
	s := NewService(nil)

	full := testDilemma()
	titleOnly := &models.Dilemma{Title: full.Title}

	// Only the title dimension is shared and it matches exactly, so the
	// renormalized score must be 1 rather than title-weight × 1.
	if got := s.Dilemma(full, titleOnly); got != 1 {
		t.Errorf("expected renormalized score 1, got %v", got)
	}
}

func TestDilemma_StructuredSituation(t *testing.T) {
	s := NewService(nil)

	a := &models.Dilemma{
		Title:     "Allocation",
		Situation: &models.Situation{Parameters: map[string]any{"beds": float64(4), "ward": "icu"}},
	}
	b := &models.Dilemma{
		Title:     "Allocation",
		Situation: &models.Situation{Parameters: map[string]any{"beds": float64(4), "ward": "icu"}},
	}
	if got := s.Dilemma(a, b); got < 0.999 {
		t.Errorf("matching structured situations: expected ~1, got %v", got)
	}

	// Text vs structured situation is not comparable; the dimension drops
	// and the identical titles carry the whole score.
	c := &models.Dilemma{
		Title:     "Allocation",
		Situation: &models.Situation{Text: "four beds left in the icu"},
	}
	if got := s.Dilemma(a, c); got != 1 {
		t.Errorf("mixed situation shapes should drop the dimension, got %v", got)
	}
}

func TestDilemma_FactorNameMatchingIsCaseInsensitive(t *testing.T) {
	s := NewService(nil)

	a := &models.Dilemma{
		Title:             "T",
		ContextualFactors: []models.ContextualFactor{{Factor: "Reversibility", Value: "low"}},
	}
	b := &models.Dilemma{
		Title:             "T",
		ContextualFactors: []models.ContextualFactor{{Factor: "reversibility", Value: "low"}},
	}

	if got := s.Dilemma(a, b); got < 0.999 {
		t.Errorf("case-insensitive factor match: expected ~1, got %v", got)
	}
}

func TestDilemma_MoreAlikeScoresHigher(t *testing.T) {
	s := NewService(nil)

	base := testDilemma()

	near := testDilemma()
	near.Description = "A doctor must decide whether to tell a fragile patient the whole truth about a terminal diagnosis against the family's wishes."

	far := &models.Dilemma{
		Title:       "Route a delivery drone",
		Description: "An operator chooses between a fast route over a school and a slow route over empty fields.",
	}

	if s.Dilemma(base, near) <= s.Dilemma(base, far) {
		t.Error("expected the near-duplicate dilemma to outscore the unrelated one")
	}
}
