package conflicts

import (
	"fmt"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// DetectGranularConflicts scans the element pool for principle-level
// disagreements in two passes. The first resolves each principle's
// declared conflicting principles against elements of other
// framework/action groups, synthesizing a placeholder element when a
// declared principle matches nothing in the pool. The second compares
// principle pairs within the same framework and action, emitting one
// conflict per reference direction found.
func (d *Detector) DetectGranularConflicts(elements []models.GranularElement) []Conflict {
	principles := make([]*models.GranularElement, 0, len(elements))
	for i := range elements {
		if elements[i].Type != models.ElementPrinciple {
			continue
		}
		if elements[i].Framework == "" {
			d.logger.Printf("conflicts: skipping element %q: missing framework", elements[i].ID)
			continue
		}
		principles = append(principles, &elements[i])
	}

	var conflicts []Conflict
	recorded := make(map[string]bool)

	// Declared references to principles of other groups.
	for _, src := range principles {
		for _, declared := range src.ConflictingPrinciples {
			target := findByContent(principles, declared)
			if target != nil && sameGroup(src, target) {
				// Same-group references are handled by the pair scan
				// below.
				continue
			}
			if target == nil {
				target = placeholderElement(src, declared)
			}
			conflicts = append(conflicts, principleConflict(src, target))
			recorded[directedKey(src.ID, target.ID)] = true
		}
	}

	// Same-framework, same-action principle pairs.
	for i := 0; i < len(principles); i++ {
		for j := i + 1; j < len(principles); j++ {
			e1, e2 := principles[i], principles[j]
			if !sameGroup(e1, e2) {
				continue
			}

			if listsConflict(e1, e2.Content) {
				conflicts = append(conflicts, principleConflict(e1, e2))
				recorded[directedKey(e1.ID, e2.ID)] = true
			}
			if listsConflict(e2, e1.Content) && !recorded[directedKey(e2.ID, e1.ID)] {
				conflicts = append(conflicts, principleConflict(e2, e1))
				recorded[directedKey(e2.ID, e1.ID)] = true
			}
		}
	}

	return conflicts
}

func principleConflict(src, target *models.GranularElement) Conflict {
	return Conflict{
		Type:       TypePrinciple,
		Framework1: src.Framework,
		Framework2: target.Framework,
		Action:     src.Action,
		Severity:   SeverityHigh,
		Description: fmt.Sprintf("principle %q conflicts with principle %q",
			src.Content, target.Content),
		Details: fmt.Sprintf("declared by element %s against %s", src.ID, target.ID),
	}
}

func findByContent(principles []*models.GranularElement, content string) *models.GranularElement {
	if content == "" {
		return nil
	}
	for _, e := range principles {
		if e.Content == content {
			return e
		}
	}
	return nil
}

// placeholderElement stands in for a declared conflicting principle
// that matches no element in the pool. It inherits the source's
// framework so the conflict record stays attributable.
func placeholderElement(src *models.GranularElement, content string) *models.GranularElement {
	return &models.GranularElement{
		ID:        "placeholder:" + content,
		Type:      models.ElementPrinciple,
		Framework: src.Framework,
		Action:    src.Action,
		Content:   content,
	}
}

func sameGroup(a, b *models.GranularElement) bool {
	return a.Framework == b.Framework && a.Action == b.Action
}

func directedKey(from, to string) string {
	return from + "->" + to
}
