package conflicts

import (
	"strings"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// FrameworkImportance rates how much weight a framework deserves for a
// given dilemma, in [0,1]. Supplied by the caller; the severity model
// only averages and thresholds it.
type FrameworkImportance func(framework string, dilemma *models.Dilemma) float64

const (
	escalateThreshold   = 0.7
	deescalateThreshold = 0.3
)

// InitialSeverity maps a conflict type to its starting severity.
func InitialSeverity(t Type) Severity {
	switch t {
	case TypePriority, TypeValue:
		return SeverityMedium
	case TypePrinciple, TypeFactual:
		return SeverityHigh
	case TypeMethod:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// IncreaseSeverity steps severity up one level, saturating at high.
func IncreaseSeverity(s Severity) Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	default:
		return SeverityHigh
	}
}

// DecreaseSeverity steps severity down one level, saturating at low.
func DecreaseSeverity(s Severity) Severity {
	switch s {
	case SeverityHigh:
		return SeverityMedium
	case SeverityMedium:
		return SeverityLow
	default:
		return SeverityLow
	}
}

// CalculateSeverity refines a conflict's severity from its type
// default. Element relevance, framework importance, and element
// strength each move the result at most one step; the final value is
// always low, medium, or high.
func CalculateSeverity(c *Conflict, elements []models.GranularElement, dilemma *models.Dilemma, importance FrameworkImportance) Severity {
	severity := InitialSeverity(c.Type)

	linked := linkedElements(c, elements)

	if avg, ok := averageRelevance(linked); ok {
		severity = applyThreshold(severity, avg)
	}

	if importance != nil {
		if avg, ok := averageImportance(c, dilemma, importance); ok {
			severity = applyThreshold(severity, avg)
		}
	}

	s1 := sideStrength(linked, c.Framework1)
	s2 := sideStrength(linked, c.Framework2)
	switch {
	case s1 == models.StrengthStrong && s2 == models.StrengthStrong:
		severity = IncreaseSeverity(severity)
	case s1 == models.StrengthWeak && s2 == models.StrengthWeak:
		severity = DecreaseSeverity(severity)
	}

	return severity
}

func applyThreshold(s Severity, avg float64) Severity {
	if avg > escalateThreshold {
		return IncreaseSeverity(s)
	}
	if avg < deescalateThreshold {
		return DecreaseSeverity(s)
	}
	return s
}

// linkedElements selects the elements that share an action or a
// framework with the conflict.
func linkedElements(c *Conflict, elements []models.GranularElement) []*models.GranularElement {
	actions := map[string]bool{}
	for _, a := range []string{c.Action, c.Action1, c.Action2} {
		if a != "" {
			actions[a] = true
		}
	}
	frameworks := map[string]bool{}
	for _, f := range append([]string{c.Framework1, c.Framework2}, c.Frameworks...) {
		if f != "" {
			frameworks[f] = true
		}
	}

	var linked []*models.GranularElement
	for i := range elements {
		e := &elements[i]
		if actions[e.Action] || frameworks[e.Framework] {
			linked = append(linked, e)
		}
	}
	return linked
}

func averageRelevance(elements []*models.GranularElement) (float64, bool) {
	if len(elements) == 0 {
		return 0, false
	}
	var sum float64
	for _, e := range elements {
		sum += e.Relevance
	}
	return sum / float64(len(elements)), true
}

func averageImportance(c *Conflict, dilemma *models.Dilemma, importance FrameworkImportance) (float64, bool) {
	var frameworks []string
	for _, f := range append([]string{c.Framework1, c.Framework2}, c.Frameworks...) {
		if f != "" {
			frameworks = append(frameworks, f)
		}
	}
	if len(frameworks) == 0 {
		return 0, false
	}

	var sum float64
	for _, f := range frameworks {
		sum += importance(f, dilemma)
	}
	return sum / float64(len(frameworks)), true
}

// sideStrength returns the first explicit strength among the linked
// elements of one framework.
func sideStrength(linked []*models.GranularElement, framework string) string {
	if framework == "" {
		return ""
	}
	for _, e := range linked {
		if e.Framework == framework && e.Strength != "" {
			return strings.ToLower(e.Strength)
		}
	}
	return ""
}

// SuggestResolutionStrategies maps a conflict's type and severity to an
// ordered list of candidate strategies. The type picks the family; the
// severity appends one general fallback.
func SuggestResolutionStrategies(t Type, s Severity) []Strategy {
	var strategies []Strategy

	switch t {
	case TypePriority:
		strategies = append(strategies,
			Strategy{Name: "stakeholder_analysis", Description: "weigh how each prioritized good affects the stakeholders involved"},
			Strategy{Name: "priority_balancing", Description: "look for an action that partially satisfies both priorities"},
		)
	case TypeValue, TypeCrossActionValue:
		strategies = append(strategies,
			Strategy{Name: "compromise", Description: "seek a middle position between the opposing values"},
			Strategy{Name: "conditional_application", Description: "apply each value within the conditions where it dominates"},
		)
	case TypeFactual:
		strategies = append(strategies,
			Strategy{Name: "epistemic_review", Description: "re-examine the evidential basis of both factual claims"},
			Strategy{Name: "evidence_gathering", Description: "collect further evidence to settle the disputed claim"},
		)
	case TypeMethod:
		strategies = append(strategies,
			Strategy{Name: "hybrid_approach", Description: "combine the methods where their recommendations agree"},
			Strategy{Name: "pluralistic_framework", Description: "treat the methods as complementary perspectives"},
		)
	}

	switch s {
	case SeverityHigh, SeverityCritical:
		strategies = append(strategies, Strategy{Name: "pluralistic", Description: "present all positions with their reasoning instead of forcing one"})
	case SeverityMedium:
		strategies = append(strategies, Strategy{Name: "balance", Description: "balance the competing considerations case by case"})
	default:
		strategies = append(strategies, Strategy{Name: "simple_weighting", Description: "rank the considerations and follow the heavier one"})
	}

	return strategies
}
