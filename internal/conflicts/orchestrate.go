package conflicts

import "github.com/arbiterlab/dilemma-analyzer/pkg/models"

// DetectAllConflicts runs the granular, cross-action, and circular-
// dependency detectors over one dilemma's reasoning material and
// buckets the results. Severity refinement is a separate pass; every
// conflict here carries only its detector's type-default severity.
func (d *Detector) DetectAllConflicts(paths []models.ReasoningPath, elements []models.GranularElement) ConflictSet {
	set := ConflictSet{
		SameAction:  d.DetectCircularDependencies(paths),
		CrossAction: d.DetectCrossActionConflicts(paths),
		Granular:    d.DetectGranularConflicts(elements),
	}

	set.All = make([]Conflict, 0, len(set.SameAction)+len(set.CrossAction)+len(set.Granular))
	set.All = append(set.All, set.Granular...)
	set.All = append(set.All, set.CrossAction...)
	set.All = append(set.All, set.SameAction...)

	return set
}
