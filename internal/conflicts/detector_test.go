package conflicts

import (
	"testing"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

func newTestDetector() *Detector {
	return NewDetector(DefaultTables(), nil)
}

func TestPriorityConflict_WelfareVersusRights(t *testing.T) {
	d := newTestDetector()

	p1 := models.ReasoningPath{
		ID: "p1", Framework: "Utilitarianism", Conclusion: "disclose",
		Argument: "Maximizing overall utility and welfare demands full disclosure.",
	}
	p2 := models.ReasoningPath{
		ID: "p2", Framework: "Deontology", Conclusion: "disclose",
		Argument: "The patient's right to know and their autonomy require disclosure.",
	}

	c := d.CheckPathConflict(&p1, &p2)
	if c == nil {
		t.Fatal("expected a conflict")
	}
	if c.Type != TypePriority {
		t.Fatalf("expected priority conflict, got %s", c.Type)
	}
	if c.Severity != SeverityHigh {
		t.Errorf("welfare vs rights is antagonistic: expected high severity, got %s", c.Severity)
	}
	if c.Details != "priorities: welfare vs rights" {
		t.Errorf("unexpected details: %q", c.Details)
	}
}

func TestPrimaryPriority_ListOrderWins(t *testing.T) {
	d := newTestDetector()

	// "virtue" appears before "benefit" in the text, but welfare comes
	// first in the category list.
	got := d.PrimaryPriority("Acting with virtue brings benefit to all.")
	if got != "welfare" {
		t.Errorf("expected welfare by category order, got %q", got)
	}

	if got := d.PrimaryPriority("nothing relevant here"); got != "" {
		t.Errorf("expected no priority, got %q", got)
	}
}

func TestValueConflict_OpposingPairEitherOrientation(t *testing.T) {
	d := newTestDetector()

	privacy := models.ReasoningPath{
		ID: "a", Framework: "F1", Conclusion: "withhold",
		Argument: "Privacy of the affected parties comes before anything else.",
	}
	transparency := models.ReasoningPath{
		ID: "b", Framework: "F2", Conclusion: "withhold",
		Argument: "Transparency toward the public cannot be sacrificed.",
	}

	c1 := d.valueMismatch(&privacy, &transparency)
	c2 := d.valueMismatch(&transparency, &privacy)
	if c1 == nil || c2 == nil {
		t.Fatal("expected a value conflict in both orientations")
	}
	if c1.Type != TypeValue || c2.Type != TypeValue {
		t.Errorf("expected value conflicts, got %s and %s", c1.Type, c2.Type)
	}
}

func TestFactualConflict_PolarityAndSeverity(t *testing.T) {
	d := newTestDetector()

	p1 := models.ReasoningPath{
		ID: "a", Framework: "F1", Conclusion: "approve",
		Argument: "The study shows the treatment will increase survival.",
	}
	p2 := models.ReasoningPath{
		ID: "b", Framework: "F2", Conclusion: "approve",
		Argument: "The evidence shows survival will decrease under the treatment.",
	}

	c := d.factualMismatch(&p1, &p2)
	if c == nil {
		t.Fatal("expected a factual conflict")
	}
	if c.Severity != SeverityHigh {
		t.Errorf("factual conflicts are always high, got %s", c.Severity)
	}

	// Opposing polarity words outside fact-bearing sentences do not
	// count.
	p3 := models.ReasoningPath{
		ID: "c", Framework: "F3", Conclusion: "approve",
		Argument: "We should increase our attention here.",
	}
	p4 := models.ReasoningPath{
		ID: "d", Framework: "F4", Conclusion: "approve",
		Argument: "We should decrease our attention here.",
	}
	if c := d.factualMismatch(&p3, &p4); c != nil {
		t.Errorf("no fact indicators present, expected nil, got %+v", c)
	}
}

func TestMethodConflict_DifferentFrameworksAlone(t *testing.T) {
	d := newTestDetector()

	p1 := models.ReasoningPath{ID: "a", Framework: "Utilitarianism", Conclusion: "x", Argument: "plain text"}
	p2 := models.ReasoningPath{ID: "b", Framework: "Care Ethics", Conclusion: "x", Argument: "plain text"}

	c := d.methodMismatch(&p1, &p2)
	if c == nil {
		t.Fatal("different frameworks alone should be a method conflict")
	}
	if c.Severity != SeverityLow {
		t.Errorf("method conflicts are low severity, got %s", c.Severity)
	}

	same := models.ReasoningPath{ID: "c", Framework: "Utilitarianism", Conclusion: "x", Argument: "plain text"}
	if c := d.methodMismatch(&p1, &same); c != nil {
		t.Errorf("same framework, no method vocabulary: expected nil, got %+v", c)
	}
}

func TestDetectConflicts_OnePerFrameworkPair(t *testing.T) {
	d := newTestDetector()

	// Two path pairs over two actions, same framework pair each time.
	paths := []models.ReasoningPath{
		{ID: "1", Framework: "A", Conclusion: "act1", Argument: "welfare and utility matter most"},
		{ID: "2", Framework: "B", Conclusion: "act1", Argument: "rights and autonomy matter most"},
		{ID: "3", Framework: "A", Conclusion: "act2", Argument: "privacy above everything"},
		{ID: "4", Framework: "B", Conclusion: "act2", Argument: "transparency above everything"},
	}

	conflicts := d.DetectConflicts(paths)

	pairs := make(map[string]int)
	for _, c := range conflicts {
		pairs[frameworkPairKey(c.Framework1, c.Framework2)]++
	}
	for pair, n := range pairs {
		if n > 1 {
			t.Errorf("framework pair %q reported %d conflicts, want at most 1", pair, n)
		}
	}
	if len(conflicts) != 1 {
		t.Errorf("expected exactly 1 deduped conflict, got %d", len(conflicts))
	}
}

func TestDetectConflicts_SkipsReconciledPairs(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{ID: "1", Framework: "A", Conclusion: "x", Argument: "welfare first", Source: models.SourceReconciled},
		{ID: "2", Framework: "B", Conclusion: "x", Argument: "rights first", Source: models.SourceReconciled},
	}

	if got := d.DetectConflicts(paths); len(got) != 0 {
		t.Errorf("both paths reconciled: expected no conflicts, got %d", len(got))
	}
}

func TestDetectConflicts_SkipsMissingFramework(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{ID: "1", Framework: "", Conclusion: "x", Argument: "welfare first"},
		{ID: "2", Framework: "B", Conclusion: "x", Argument: "rights first"},
	}

	if got := d.DetectConflicts(paths); len(got) != 0 {
		t.Errorf("malformed path should be skipped, got %d conflicts", len(got))
	}
}

func TestDetectPathConflicts_NoDedupAndStrategiesAttached(t *testing.T) {
	d := newTestDetector()

	paths := []models.ReasoningPath{
		{ID: "1", Framework: "A", Conclusion: "act1", Argument: "welfare and utility matter most"},
		{ID: "2", Framework: "B", Conclusion: "act1", Argument: "rights and autonomy matter most"},
		{ID: "3", Framework: "A", Conclusion: "act2", Argument: "welfare and utility matter most"},
		{ID: "4", Framework: "B", Conclusion: "act2", Argument: "rights and autonomy matter most"},
	}

	conflicts := d.DetectPathConflicts(paths)
	if len(conflicts) != 2 {
		t.Fatalf("expected a conflict per same-conclusion pair, got %d", len(conflicts))
	}
	for _, c := range conflicts {
		if len(c.ResolutionStrategies) == 0 {
			t.Errorf("conflict %s has no resolution strategies", c.Description)
		}
	}
}

func TestCheckPathConflict_FixedOrder(t *testing.T) {
	d := newTestDetector()

	// Arguments that qualify as both priority and factual conflicts
	// must classify as priority, the earlier check.
	p1 := models.ReasoningPath{
		ID: "a", Framework: "F1", Conclusion: "x",
		Argument: "Welfare matters. The data shows harm will increase.",
	}
	p2 := models.ReasoningPath{
		ID: "b", Framework: "F2", Conclusion: "x",
		Argument: "Rights matter. The data shows harm will decrease.",
	}

	c := d.CheckPathConflict(&p1, &p2)
	if c == nil || c.Type != TypePriority {
		t.Fatalf("expected priority to win the classification order, got %+v", c)
	}
}
