package conflicts

import (
	"strings"
	"testing"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

func TestGranular_OneDirectionalReference(t *testing.T) {
	d := newTestDetector()

	elements := []models.GranularElement{
		{
			ID: "e1", Type: models.ElementPrinciple, Framework: "F1", Action: "disclose",
			Content:               "always tell the truth",
			ConflictingPrinciples: []string{"protect from harmful knowledge"},
		},
		{
			ID: "e2", Type: models.ElementPrinciple, Framework: "F1", Action: "disclose",
			Content: "protect from harmful knowledge",
		},
	}

	conflicts := d.DetectGranularConflicts(elements)
	if len(conflicts) != 1 {
		t.Fatalf("one-directional reference: expected exactly 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Type != TypePrinciple {
		t.Errorf("expected principle conflict, got %s", conflicts[0].Type)
	}
}

func TestGranular_ReciprocalReferenceYieldsTwo(t *testing.T) {
	d := newTestDetector()

	elements := []models.GranularElement{
		{
			ID: "e1", Type: models.ElementPrinciple, Framework: "F1", Action: "disclose",
			Content:               "always tell the truth",
			ConflictingPrinciples: []string{"protect from harmful knowledge"},
		},
		{
			ID: "e2", Type: models.ElementPrinciple, Framework: "F1", Action: "disclose",
			Content:               "protect from harmful knowledge",
			ConflictingPrinciples: []string{"always tell the truth"},
		},
	}

	conflicts := d.DetectGranularConflicts(elements)
	if len(conflicts) != 2 {
		t.Fatalf("reciprocal references: expected exactly 2 conflicts, got %d", len(conflicts))
	}
}

func TestGranular_UnresolvedReferenceSynthesizesPlaceholder(t *testing.T) {
	d := newTestDetector()

	elements := []models.GranularElement{
		{
			ID: "e1", Type: models.ElementPrinciple, Framework: "F1", Action: "disclose",
			Content:               "always tell the truth",
			ConflictingPrinciples: []string{"a principle nobody recorded"},
		},
	}

	conflicts := d.DetectGranularConflicts(elements)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict against a placeholder, got %d", len(conflicts))
	}
	// The placeholder inherits the source's framework.
	if conflicts[0].Framework2 != "F1" {
		t.Errorf("placeholder framework: expected F1, got %q", conflicts[0].Framework2)
	}
	if !strings.Contains(conflicts[0].Description, "a principle nobody recorded") {
		t.Errorf("conflict should name the unresolved principle: %q", conflicts[0].Description)
	}
}

func TestGranular_IgnoresNonPrincipleElements(t *testing.T) {
	d := newTestDetector()

	elements := []models.GranularElement{
		{
			ID: "e1", Type: models.ElementObjection, Framework: "F1", Action: "disclose",
			Content:               "this cannot work",
			ConflictingPrinciples: []string{"always tell the truth"},
		},
	}

	if got := d.DetectGranularConflicts(elements); len(got) != 0 {
		t.Errorf("objection elements should not produce principle conflicts, got %d", len(got))
	}
}

func TestCrossAction_ValueAndPrincipleConflicts(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{
			ID: "p1", Framework: "Utilitarianism", Action: "disclose",
			SourceElements: []models.GranularElement{
				{
					ID: "e1", Type: models.ElementPrinciple, Framework: "Utilitarianism", Action: "disclose",
					Content:               "minimize total suffering",
					ConflictingPrinciples: []string{"honor individual consent"},
				},
			},
		},
		{
			ID: "p2", Framework: "Deontology", Action: "withhold",
			SourceElements: []models.GranularElement{
				{
					ID: "e2", Type: models.ElementPrinciple, Framework: "Deontology", Action: "withhold",
					Content: "honor individual consent",
				},
			},
		},
	}

	conflicts := d.DetectCrossActionConflicts(paths)

	var values, principles int
	for _, c := range conflicts {
		switch c.Type {
		case TypeCrossActionValue:
			values++
			if c.Severity != SeverityMedium {
				t.Errorf("cross-action value severity: expected medium, got %s", c.Severity)
			}
		case TypeCrossActionPrinciple:
			principles++
			if c.Severity != SeverityHigh {
				t.Errorf("cross-action principle severity: expected high, got %s", c.Severity)
			}
		}
	}
	if values != 1 || principles != 1 {
		t.Errorf("expected 1 value and 1 principle conflict, got %d and %d", values, principles)
	}
}

func TestCrossAction_SkipsReconciledPairs(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{ID: "p1", Framework: "A", Action: "x", Source: models.SourceReconciled},
		{ID: "p2", Framework: "B", Action: "y", Source: models.SourceReconciled},
	}

	if got := d.DetectCrossActionConflicts(paths); len(got) != 0 {
		t.Errorf("both reconciled: expected no conflicts, got %d", len(got))
	}
}

func TestCircular_MutualDependencyReportedOnce(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{ID: "p1", Framework: "A", Conclusion: "x", DependsOn: "p2"},
		{ID: "p2", Framework: "B", Conclusion: "x", DependsOn: "p1"},
	}

	conflicts := d.DetectCircularDependencies(paths)
	if len(conflicts) != 1 {
		t.Fatalf("mutual dependency: expected exactly 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.Type != TypeCircularDependency || c.Severity != SeverityHigh {
		t.Errorf("unexpected conflict classification: %+v", c)
	}
	named := c.Framework1 == "A" && c.Framework2 == "B" || c.Framework1 == "B" && c.Framework2 == "A"
	if !named {
		t.Errorf("conflict should reference both paths, got %q and %q", c.Framework1, c.Framework2)
	}
}

func TestCircular_LongCycleNamesImmediateSuccessorOnly(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{ID: "p1", Framework: "A", Conclusion: "x", DependsOn: "p2"},
		{ID: "p2", Framework: "B", Conclusion: "x", DependsOn: "p3"},
		{ID: "p3", Framework: "C", Conclusion: "x", DependsOn: "p1"},
	}

	conflicts := d.DetectCircularDependencies(paths)
	if len(conflicts) == 0 {
		t.Fatal("expected the cycle to be detected")
	}
	for _, c := range conflicts {
		if !strings.Contains(c.Details, "->") {
			t.Errorf("conflict should name origin and immediate successor: %q", c.Details)
		}
	}
}

func TestCircular_NoCycleNoConflict(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{ID: "p1", Framework: "A", Conclusion: "x", DependsOn: "p2"},
		{ID: "p2", Framework: "B", Conclusion: "x"},
		{ID: "p3", Framework: "C", Conclusion: "x", DependsOn: "missing"},
	}

	if got := d.DetectCircularDependencies(paths); len(got) != 0 {
		t.Errorf("acyclic chain: expected no conflicts, got %d", len(got))
	}
}

func TestDetectAllConflicts_Buckets(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{ID: "p1", Framework: "A", Action: "disclose", DependsOn: "p2"},
		{ID: "p2", Framework: "B", Action: "withhold", DependsOn: "p1"},
	}
	elements := []models.GranularElement{
		{
			ID: "e1", Type: models.ElementPrinciple, Framework: "A", Action: "disclose",
			Content:               "tell the truth",
			ConflictingPrinciples: []string{"spare the patient"},
		},
	}

	set := d.DetectAllConflicts(paths, elements)

	if len(set.SameAction) != 1 {
		t.Errorf("expected 1 circular conflict, got %d", len(set.SameAction))
	}
	if len(set.CrossAction) != 1 {
		t.Errorf("expected 1 cross-action conflict, got %d", len(set.CrossAction))
	}
	if len(set.Granular) != 1 {
		t.Errorf("expected 1 granular conflict, got %d", len(set.Granular))
	}
	if len(set.All) != len(set.SameAction)+len(set.CrossAction)+len(set.Granular) {
		t.Errorf("All must union the buckets: got %d", len(set.All))
	}
}
