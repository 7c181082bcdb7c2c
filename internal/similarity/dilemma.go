package similarity

import (
	"strings"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// Per-field weights for dilemma comparison. Dimensions absent from
// either record are dropped and the remaining weights renormalized, so a
// sparse precedent is not punished for fields it never had.
const (
	titleWeight       = 0.1
	descriptionWeight = 0.4
	situationWeight   = 0.2
	factorsWeight     = 0.2
	actionsWeight     = 0.1

	// Returned when no dimension could be evaluated on both sides.
	noDimensionScore = 0.1
)

// Dilemma scores two dilemma-shaped records in [0,1] as a weighted sum
// over the dimensions present in both.
func (s *Service) Dilemma(a, b *models.Dilemma) float64 {
	if a == nil || b == nil {
		return 0
	}

	var total, weightSum float64

	if a.Title != "" && b.Title != "" {
		total += titleWeight * s.Text(a.Title, b.Title)
		weightSum += titleWeight
	}

	if a.Description != "" && b.Description != "" {
		total += descriptionWeight * s.Text(a.Description, b.Description)
		weightSum += descriptionWeight
	}

	if score, ok := s.situationSimilarity(a.Situation, b.Situation); ok {
		total += situationWeight * score
		weightSum += situationWeight
	}

	if len(a.ContextualFactors) > 0 && len(b.ContextualFactors) > 0 {
		total += factorsWeight * s.factorsSimilarity(a.ContextualFactors, b.ContextualFactors)
		weightSum += factorsWeight
	}

	if len(a.Actions) > 0 && len(b.Actions) > 0 {
		total += actionsWeight * s.actionsSimilarity(a.Actions, b.Actions)
		weightSum += actionsWeight
	}

	if weightSum == 0 {
		return noDimensionScore
	}
	return total / weightSum
}

// situationSimilarity compares situations text-to-text or, when both are
// structured, as keyed records of their parameters. A text/structured
// mismatch drops the dimension.
func (s *Service) situationSimilarity(a, b *models.Situation) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}

	if a.IsStructured() && b.IsStructured() {
		ra := FromAny(anyMap(a.Parameters))
		rb := FromAny(anyMap(b.Parameters))
		return s.Value(ra, rb), true
	}

	if a.Text != "" && b.Text != "" {
		return s.Text(a.Text, b.Text), true
	}

	return 0, false
}

func anyMap(m map[string]any) map[string]any { return m }

// factorsSimilarity matches factors by case-insensitive exact name,
// averages the similarity of matched values, and scales by matched count
// over the union of factor names. Unmatched names dilute the score
// rather than zeroing it.
func (s *Service) factorsSimilarity(a, b []models.ContextualFactor) float64 {
	byName := make(map[string]models.ContextualFactor, len(b))
	for _, f := range b {
		byName[strings.ToLower(f.Factor)] = f
	}

	names := make(map[string]struct{}, len(a)+len(b))
	for _, f := range a {
		names[strings.ToLower(f.Factor)] = struct{}{}
	}
	for _, f := range b {
		names[strings.ToLower(f.Factor)] = struct{}{}
	}

	matched := 0
	var sum float64
	for _, f := range a {
		other, ok := byName[strings.ToLower(f.Factor)]
		if !ok {
			continue
		}
		matched++
		sum += s.Value(FromAny(f.Value), FromAny(other.Value))
	}

	if matched == 0 || len(names) == 0 {
		return 0
	}
	return (sum / float64(matched)) * (float64(matched) / float64(len(names)))
}

// actionsSimilarity takes, for each of a's actions, the best textual
// match among b's actions, and averages over a's actions.
func (s *Service) actionsSimilarity(a, b []models.Action) float64 {
	var sum float64
	for i := range a {
		textA := actionText(&a[i])
		best := 0.0
		for j := range b {
			if score := s.Text(textA, actionText(&b[j])); score > best {
				best = score
			}
		}
		sum += best
	}
	return sum / float64(len(a))
}

// actionText builds the comparable text of an action from its display
// name and description.
func actionText(a *models.Action) string {
	name := a.DisplayName()
	if a.Description == "" {
		return name
	}
	return strings.TrimSpace(name + " " + a.Description)
}
