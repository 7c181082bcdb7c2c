package conflicts

import (
	"fmt"
	"sort"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// DetectCrossActionConflicts groups paths by the action they recommend
// and compares every path pair across every pair of different actions.
// Paths from different frameworks recommending different actions are a
// value conflict; paths whose principle elements explicitly name each
// other as conflicting are a principle conflict.
func (d *Detector) DetectCrossActionConflicts(paths []models.ReasoningPath) []Conflict {
	groups := make(map[string][]*models.ReasoningPath)
	for i := range paths {
		action := paths[i].ConclusionOrAction()
		if action == "" {
			d.logger.Printf("conflicts: skipping path %q: no conclusion or action", paths[i].ID)
			continue
		}
		groups[action] = append(groups[action], &paths[i])
	}

	actions := make([]string, 0, len(groups))
	for a := range groups {
		actions = append(actions, a)
	}
	sort.Strings(actions)

	var conflicts []Conflict
	for i := 0; i < len(actions); i++ {
		for j := i + 1; j < len(actions); j++ {
			a1, a2 := actions[i], actions[j]
			for _, p1 := range groups[a1] {
				for _, p2 := range groups[a2] {
					if p1.IsReconciled() && p2.IsReconciled() {
						continue
					}
					conflicts = append(conflicts, d.crossActionPair(p1, p2, a1, a2)...)
				}
			}
		}
	}

	return conflicts
}

func (d *Detector) crossActionPair(p1, p2 *models.ReasoningPath, a1, a2 string) []Conflict {
	var conflicts []Conflict

	if p1.Framework != p2.Framework {
		conflicts = append(conflicts, Conflict{
			Type:       TypeCrossActionValue,
			Framework1: p1.Framework,
			Framework2: p2.Framework,
			Action1:    a1,
			Action2:    a2,
			Severity:   SeverityMedium,
			Description: fmt.Sprintf("%s recommends %q while %s recommends %q",
				p1.Framework, a1, p2.Framework, a2),
		})
	}

	if pr1, pr2, ok := opposedPrinciples(p1, p2); ok {
		conflicts = append(conflicts, Conflict{
			Type:       TypeCrossActionPrinciple,
			Framework1: p1.Framework,
			Framework2: p2.Framework,
			Action1:    a1,
			Action2:    a2,
			Severity:   SeverityHigh,
			Description: fmt.Sprintf("principle behind %q explicitly conflicts with principle behind %q",
				a1, a2),
			Details: fmt.Sprintf("principles: %q vs %q", pr1, pr2),
		})
	}

	return conflicts
}

// opposedPrinciples reports whether either path carries a principle
// element that lists one of the other path's principle contents among
// its conflicting principles.
func opposedPrinciples(p1, p2 *models.ReasoningPath) (string, string, bool) {
	for _, e1 := range principleElements(p1) {
		for _, e2 := range principleElements(p2) {
			if listsConflict(e1, e2.Content) {
				return e1.Content, e2.Content, true
			}
			if listsConflict(e2, e1.Content) {
				return e2.Content, e1.Content, true
			}
		}
	}
	return "", "", false
}

func principleElements(p *models.ReasoningPath) []*models.GranularElement {
	var out []*models.GranularElement
	for i := range p.SourceElements {
		if p.SourceElements[i].Type == models.ElementPrinciple {
			out = append(out, &p.SourceElements[i])
		}
	}
	return out
}

func listsConflict(e *models.GranularElement, content string) bool {
	if content == "" {
		return false
	}
	for _, c := range e.ConflictingPrinciples {
		if c == content {
			return true
		}
	}
	return false
}
