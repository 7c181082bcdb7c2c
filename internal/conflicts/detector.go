package conflicts

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// Detector scans reasoning paths and granular elements for
// disagreements. All scans are pairwise or groupwise over in-memory
// records; malformed individual records are logged and skipped rather
// than failing the batch.
type Detector struct {
	tables Tables
	logger *log.Logger
}

// NewDetector creates a detector using the given heuristic tables.
// Zero-value tables fall back to DefaultTables.
func NewDetector(tables Tables, logger *log.Logger) *Detector {
	if len(tables.Priorities) == 0 {
		tables = DefaultTables()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Detector{tables: tables, logger: logger}
}

// DetectConflicts is the baseline same-action scan. It compares every
// pair of paths that argue about the same action, skips pairs where
// both sides are reconciled, and reports at most one conflict per
// unordered framework-name pair for the whole call. The first matching
// classification wins: priority, then value, then an argument-level
// contradiction between different frameworks.
//
// The framework-pair dedup trades completeness for a concise summary.
// Callers that need exhaustive pair-level conflicts should use
// DetectPathConflicts.
func (d *Detector) DetectConflicts(paths []models.ReasoningPath) []Conflict {
	var conflicts []Conflict
	seen := make(map[string]bool)

	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			p1, p2 := &paths[i], &paths[j]

			if p1.ConclusionOrAction() != p2.ConclusionOrAction() {
				continue
			}
			if p1.IsReconciled() && p2.IsReconciled() {
				continue
			}
			if p1.Framework == "" || p2.Framework == "" {
				d.logger.Printf("conflicts: skipping path pair %q/%q: missing framework", p1.ID, p2.ID)
				continue
			}

			pairKey := frameworkPairKey(p1.Framework, p2.Framework)
			if seen[pairKey] {
				continue
			}

			c := d.priorityMismatch(p1, p2)
			if c == nil {
				c = d.valueMismatch(p1, p2)
			}
			if c == nil && p1.Framework != p2.Framework {
				c = d.argumentContradiction(p1, p2)
			}
			if c == nil {
				continue
			}

			seen[pairKey] = true
			conflicts = append(conflicts, *c)
		}
	}

	return conflicts
}

// DetectPathConflicts compares every pair of paths with the same
// conclusion, with no framework dedup, and attaches resolution
// strategies to each conflict found.
func (d *Detector) DetectPathConflicts(paths []models.ReasoningPath) []Conflict {
	var conflicts []Conflict

	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			p1, p2 := &paths[i], &paths[j]
			if p1.ConclusionOrAction() != p2.ConclusionOrAction() {
				continue
			}

			c := d.CheckPathConflict(p1, p2)
			if c == nil {
				continue
			}
			c.ResolutionStrategies = SuggestResolutionStrategies(c.Type, c.Severity)
			conflicts = append(conflicts, *c)
		}
	}

	return conflicts
}

// CheckPathConflict classifies the disagreement between two paths,
// trying priority, value, factual, and method conflicts in that fixed
// order and returning the first match, or nil when the paths agree.
func (d *Detector) CheckPathConflict(p1, p2 *models.ReasoningPath) *Conflict {
	if p1 == nil || p2 == nil {
		return nil
	}
	if p1.Framework == "" || p2.Framework == "" {
		d.logger.Printf("conflicts: skipping path pair %q/%q: missing framework", p1.ID, p2.ID)
		return nil
	}

	if c := d.priorityMismatch(p1, p2); c != nil {
		return c
	}
	if c := d.valueMismatch(p1, p2); c != nil {
		return c
	}
	if c := d.factualMismatch(p1, p2); c != nil {
		return c
	}
	return d.methodMismatch(p1, p2)
}

// PrimaryPriority returns the first priority category, in table order,
// with a keyword hit in the argument text, or "" when none match.
func (d *Detector) PrimaryPriority(argument string) string {
	text := strings.ToLower(argument)
	for _, cat := range d.tables.Priorities {
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				return cat.Name
			}
		}
	}
	return ""
}

// priorityMismatch flags a conflict when two paths lead with different
// primary priorities. Antagonistic priority pairs escalate severity to
// high; all other mismatches are medium.
func (d *Detector) priorityMismatch(p1, p2 *models.ReasoningPath) *Conflict {
	pr1 := d.PrimaryPriority(p1.Argument)
	pr2 := d.PrimaryPriority(p2.Argument)
	if pr1 == "" || pr2 == "" || pr1 == pr2 {
		return nil
	}

	severity := SeverityMedium
	if d.antagonistic(pr1, pr2) {
		severity = SeverityHigh
	}

	return &Conflict{
		Type:       TypePriority,
		Framework1: p1.Framework,
		Framework2: p2.Framework,
		Action:     p1.ConclusionOrAction(),
		Severity:   severity,
		Description: fmt.Sprintf("%s prioritizes %s while %s prioritizes %s",
			p1.Framework, pr1, p2.Framework, pr2),
		Details: fmt.Sprintf("priorities: %s vs %s", pr1, pr2),
	}
}

func (d *Detector) antagonistic(a, b string) bool {
	for _, pair := range d.tables.Antagonisms {
		if (pair.A == a && pair.B == b) || (pair.A == b && pair.B == a) {
			return true
		}
	}
	return false
}

// valueMismatch flags a conflict when the two arguments mention
// opposite sides of a known opposing value pair, in either orientation.
func (d *Detector) valueMismatch(p1, p2 *models.ReasoningPath) *Conflict {
	v1 := d.extractValues(p1.Argument)
	v2 := d.extractValues(p2.Argument)
	if len(v1) == 0 || len(v2) == 0 {
		return nil
	}

	for _, pair := range d.tables.OpposingValues {
		forward := v1[pair.A] && v2[pair.B]
		reverse := v1[pair.B] && v2[pair.A]
		if !forward && !reverse {
			continue
		}

		left, right := pair.A, pair.B
		if reverse && !forward {
			left, right = pair.B, pair.A
		}
		return &Conflict{
			Type:       TypeValue,
			Framework1: p1.Framework,
			Framework2: p2.Framework,
			Action:     p1.ConclusionOrAction(),
			Severity:   SeverityMedium,
			Description: fmt.Sprintf("%s appeals to %s while %s appeals to %s",
				p1.Framework, left, p2.Framework, right),
			Details: fmt.Sprintf("opposing values: %s vs %s", left, right),
		}
	}

	return nil
}

func (d *Detector) extractValues(argument string) map[string]bool {
	text := strings.ToLower(argument)
	values := make(map[string]bool)
	for _, term := range d.tables.ValueTerms {
		if strings.Contains(text, term) {
			values[term] = true
		}
	}
	return values
}

// factualMismatch compares the fact-bearing sentences of the two
// arguments against the polarity patterns. A hit on a pattern's
// positive form on one side and its negative form on the other is a
// factual conflict, always high severity.
func (d *Detector) factualMismatch(p1, p2 *models.ReasoningPath) *Conflict {
	facts1 := d.factSentences(p1.Argument)
	facts2 := d.factSentences(p2.Argument)
	if facts1 == "" || facts2 == "" {
		return nil
	}

	for _, pat := range d.tables.Polarities {
		forward := pat.Positive.MatchString(facts1) && pat.Negative.MatchString(facts2)
		reverse := pat.Negative.MatchString(facts1) && pat.Positive.MatchString(facts2)
		if !forward && !reverse {
			continue
		}

		return &Conflict{
			Type:       TypeFactual,
			Framework1: p1.Framework,
			Framework2: p2.Framework,
			Action:     p1.ConclusionOrAction(),
			Severity:   SeverityHigh,
			Description: fmt.Sprintf("%s and %s make opposing factual claims (%s)",
				p1.Framework, p2.Framework, pat.Name),
			Details: fmt.Sprintf("polarity: %s", pat.Name),
		}
	}

	return nil
}

// factSentences joins the lowercase sentences of an argument that
// contain a fact indicator.
func (d *Detector) factSentences(argument string) string {
	var facts []string
	for _, sentence := range splitSentences(strings.ToLower(argument)) {
		for _, ind := range d.tables.FactIndicators {
			if strings.Contains(sentence, ind) {
				facts = append(facts, sentence)
				break
			}
		}
	}
	return strings.Join(facts, " ")
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == ';'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// methodMismatch flags a low-severity conflict when the paths come from
// different frameworks, or when same-framework arguments are dominated
// by different reasoning-method vocabularies.
func (d *Detector) methodMismatch(p1, p2 *models.ReasoningPath) *Conflict {
	m1 := d.dominantMethod(p1.Argument)
	m2 := d.dominantMethod(p2.Argument)

	differentFrameworks := p1.Framework != p2.Framework
	differentMethods := m1 != "" && m2 != "" && m1 != m2
	if !differentFrameworks && !differentMethods {
		return nil
	}

	details := "different frameworks"
	if differentMethods {
		details = fmt.Sprintf("methods: %s vs %s", m1, m2)
	}

	return &Conflict{
		Type:       TypeMethod,
		Framework1: p1.Framework,
		Framework2: p2.Framework,
		Action:     p1.ConclusionOrAction(),
		Severity:   SeverityLow,
		Description: fmt.Sprintf("%s and %s reach the same conclusion by different methods",
			p1.Framework, p2.Framework),
		Details: details,
	}
}

// dominantMethod returns the method category with the highest keyword
// count in the argument, breaking ties by table order.
func (d *Detector) dominantMethod(argument string) string {
	text := strings.ToLower(argument)

	best, bestCount := "", 0
	for _, cat := range d.tables.Methods {
		count := 0
		for _, kw := range cat.Keywords {
			count += strings.Count(text, kw)
		}
		if count > bestCount {
			best, bestCount = cat.Name, count
		}
	}
	return best
}

// argumentContradiction is the baseline detector's last resort: a
// keyword-opposition scan over the two argument texts, reported only
// for paths from different frameworks.
func (d *Detector) argumentContradiction(p1, p2 *models.ReasoningPath) *Conflict {
	a1 := strings.ToLower(p1.Argument)
	a2 := strings.ToLower(p2.Argument)

	for _, pair := range d.tables.Contradictions {
		// Checking the negated phrase first keeps "should" from
		// matching inside "should not".
		forward := containsOpposition(a1, pair.A, pair.B) && strings.Contains(a2, pair.B)
		reverse := containsOpposition(a2, pair.A, pair.B) && strings.Contains(a1, pair.B)
		if !forward && !reverse {
			continue
		}

		return &Conflict{
			Type:       TypeAction,
			Framework1: p1.Framework,
			Framework2: p2.Framework,
			Action:     p1.ConclusionOrAction(),
			Severity:   SeverityMedium,
			Description: fmt.Sprintf("%s and %s contradict each other over %q",
				p1.Framework, p2.Framework, p1.ConclusionOrAction()),
			Details: fmt.Sprintf("opposition: %s vs %s", pair.A, pair.B),
		}
	}

	return nil
}

// containsOpposition reports whether text contains the positive term
// without also containing the negative phrase that embeds it.
func containsOpposition(text, positive, negative string) bool {
	return strings.Contains(text, positive) && !strings.Contains(text, negative)
}

func frameworkPairKey(f1, f2 string) string {
	pair := []string{f1, f2}
	sort.Strings(pair)
	return pair[0] + "\x1f" + pair[1]
}
