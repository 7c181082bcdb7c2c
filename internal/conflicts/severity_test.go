package conflicts

import (
	"testing"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

func TestSeveritySteps_Saturate(t *testing.T) {
	if got := IncreaseSeverity(SeverityHigh); got != SeverityHigh {
		t.Errorf("increase(high): expected high, got %s", got)
	}
	if got := DecreaseSeverity(SeverityLow); got != SeverityLow {
		t.Errorf("decrease(low): expected low, got %s", got)
	}
	if got := IncreaseSeverity(SeverityLow); got != SeverityMedium {
		t.Errorf("increase(low): expected medium, got %s", got)
	}
	if got := DecreaseSeverity(SeverityHigh); got != SeverityMedium {
		t.Errorf("decrease(high): expected medium, got %s", got)
	}
}

func TestInitialSeverity(t *testing.T) {
	cases := []struct {
		conflictType Type
		want         Severity
	}{
		{TypePriority, SeverityMedium},
		{TypeValue, SeverityMedium},
		{TypePrinciple, SeverityHigh},
		{TypeFactual, SeverityHigh},
		{TypeMethod, SeverityLow},
		{Type("unknown"), SeverityMedium},
	}

	for _, tc := range cases {
		if got := InitialSeverity(tc.conflictType); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.conflictType, tc.want, got)
		}
	}
}

func TestCalculateSeverity_AlwaysWithinScale(t *testing.T) {
	allTypes := []Type{
		TypePriority, TypeValue, TypeFactual, TypeMethod, TypePrinciple,
		TypeCrossActionValue, TypeCrossActionPrinciple, TypeCircularDependency, TypeAction,
	}
	relevances := []float64{0, 0.2, 0.5, 0.8, 1}
	importances := []float64{0, 0.2, 0.5, 0.8, 1}

	for _, conflictType := range allTypes {
		for _, rel := range relevances {
			for _, imp := range importances {
				c := Conflict{Type: conflictType, Framework1: "F1", Framework2: "F2", Action: "act"}
				elements := []models.GranularElement{
					{ID: "e1", Framework: "F1", Action: "act", Relevance: rel, Strength: models.StrengthStrong},
					{ID: "e2", Framework: "F2", Action: "act", Relevance: rel, Strength: models.StrengthStrong},
				}
				importance := func(string, *models.Dilemma) float64 { return imp }

				got := CalculateSeverity(&c, elements, nil, importance)
				if got != SeverityLow && got != SeverityMedium && got != SeverityHigh {
					t.Errorf("%s rel=%v imp=%v: severity %s outside the scale", conflictType, rel, imp, got)
				}
			}
		}
	}
}

func TestCalculateSeverity_RelevanceEscalates(t *testing.T) {
	c := Conflict{Type: TypePriority, Framework1: "F1", Framework2: "F2", Action: "act"}
	elements := []models.GranularElement{
		{ID: "e1", Framework: "F1", Action: "act", Relevance: 0.9},
		{ID: "e2", Framework: "F2", Action: "act", Relevance: 0.9},
	}

	got := CalculateSeverity(&c, elements, nil, nil)
	if got != SeverityHigh {
		t.Errorf("relevance 0.9 should escalate medium to high, got %s", got)
	}
}

func TestCalculateSeverity_RelevanceDeescalates(t *testing.T) {
	c := Conflict{Type: TypePriority, Framework1: "F1", Framework2: "F2", Action: "act"}
	elements := []models.GranularElement{
		{ID: "e1", Framework: "F1", Action: "act", Relevance: 0.1},
		{ID: "e2", Framework: "F2", Action: "act", Relevance: 0.1},
	}

	got := CalculateSeverity(&c, elements, nil, nil)
	if got != SeverityLow {
		t.Errorf("relevance 0.1 should de-escalate medium to low, got %s", got)
	}
}

func TestCalculateSeverity_StrengthAdjustment(t *testing.T) {
	strong := []models.GranularElement{
		{ID: "e1", Framework: "F1", Action: "act", Relevance: 0.5, Strength: models.StrengthStrong},
		{ID: "e2", Framework: "F2", Action: "act", Relevance: 0.5, Strength: models.StrengthStrong},
	}
	weak := []models.GranularElement{
		{ID: "e1", Framework: "F1", Action: "act", Relevance: 0.5, Strength: models.StrengthWeak},
		{ID: "e2", Framework: "F2", Action: "act", Relevance: 0.5, Strength: models.StrengthWeak},
	}
	mixed := []models.GranularElement{
		{ID: "e1", Framework: "F1", Action: "act", Relevance: 0.5, Strength: models.StrengthStrong},
		{ID: "e2", Framework: "F2", Action: "act", Relevance: 0.5, Strength: models.StrengthWeak},
	}

	c := Conflict{Type: TypePriority, Framework1: "F1", Framework2: "F2", Action: "act"}

	if got := CalculateSeverity(&c, strong, nil, nil); got != SeverityHigh {
		t.Errorf("strong/strong should escalate, got %s", got)
	}
	if got := CalculateSeverity(&c, weak, nil, nil); got != SeverityLow {
		t.Errorf("weak/weak should de-escalate, got %s", got)
	}
	if got := CalculateSeverity(&c, mixed, nil, nil); got != SeverityMedium {
		t.Errorf("mixed strengths should not move severity, got %s", got)
	}
}

func TestCalculateSeverity_NoElementsNoImportance(t *testing.T) {
	c := Conflict{Type: TypeFactual, Framework1: "F1", Framework2: "F2"}
	if got := CalculateSeverity(&c, nil, nil, nil); got != SeverityHigh {
		t.Errorf("bare factual conflict keeps its initial severity, got %s", got)
	}
}

func TestSuggestResolutionStrategies(t *testing.T) {
	got := SuggestResolutionStrategies(TypePriority, SeverityHigh)
	if len(got) != 3 {
		t.Fatalf("expected 2 family strategies plus 1 severity strategy, got %d", len(got))
	}
	if got[len(got)-1].Name != "pluralistic" {
		t.Errorf("high severity appends pluralistic, got %q", got[len(got)-1].Name)
	}

	got = SuggestResolutionStrategies(TypeValue, SeverityMedium)
	if got[len(got)-1].Name != "balance" {
		t.Errorf("medium severity appends balance, got %q", got[len(got)-1].Name)
	}

	got = SuggestResolutionStrategies(TypeMethod, SeverityLow)
	if got[len(got)-1].Name != "simple_weighting" {
		t.Errorf("low severity appends simple_weighting, got %q", got[len(got)-1].Name)
	}

	// Types without a family table still get the severity strategy.
	got = SuggestResolutionStrategies(TypeCircularDependency, SeverityHigh)
	if len(got) != 1 || got[0].Name != "pluralistic" {
		t.Errorf("expected only the severity strategy, got %+v", got)
	}
}
