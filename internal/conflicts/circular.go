package conflicts

import (
	"fmt"
	"sort"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// DetectCircularDependencies walks each path's depends_on chain and
// reports a conflict when the chain returns to its origin. The conflict
// names only the origin and its immediate successor, not the full cycle
// membership, and an unordered origin/successor pair is reported once
// even when both ends of a mutual dependency start a walk.
func (d *Detector) DetectCircularDependencies(paths []models.ReasoningPath) []Conflict {
	next := make(map[string]*models.ReasoningPath, len(paths))
	for i := range paths {
		if paths[i].ID != "" {
			next[paths[i].ID] = &paths[i]
		}
	}

	var conflicts []Conflict
	seen := make(map[string]bool)

	for i := range paths {
		origin := &paths[i]
		if origin.ID == "" || origin.DependsOn == "" {
			continue
		}

		successor, ok := next[origin.DependsOn]
		if !ok {
			continue
		}

		if !d.walkReturnsToOrigin(origin, next, len(paths)) {
			continue
		}

		pairKey := idPairKey(origin.ID, successor.ID)
		if seen[pairKey] {
			continue
		}
		seen[pairKey] = true

		conflicts = append(conflicts, Conflict{
			Type:       TypeCircularDependency,
			Framework1: origin.Framework,
			Framework2: successor.Framework,
			Action:     origin.ConclusionOrAction(),
			Severity:   SeverityHigh,
			Description: fmt.Sprintf("reasoning path %s depends on %s, which leads back to it",
				origin.ID, successor.ID),
			Details: fmt.Sprintf("cycle entered at %s -> %s", origin.ID, successor.ID),
		})
	}

	return conflicts
}

// walkReturnsToOrigin follows depends_on edges from the origin. The
// walk is bounded by the path count, so a cycle that never revisits the
// origin terminates without reporting.
func (d *Detector) walkReturnsToOrigin(origin *models.ReasoningPath, next map[string]*models.ReasoningPath, limit int) bool {
	current := origin.DependsOn
	for steps := 0; steps < limit && current != ""; steps++ {
		if current == origin.ID {
			return true
		}
		node, ok := next[current]
		if !ok {
			return false
		}
		current = node.DependsOn
	}
	return false
}

func idPairKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "\x1f" + pair[1]
}
