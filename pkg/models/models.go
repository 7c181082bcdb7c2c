package models

// Situation describes the circumstances of a dilemma. It is either free
// text or a structured record with named parameters; when both dilemmas
// carry structured parameters they are compared field by field.
type Situation struct {
	Text       string         `json:"text,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// IsStructured reports whether the situation carries structured parameters.
func (s *Situation) IsStructured() bool {
	return s != nil && len(s.Parameters) > 0
}

// ContextualFactor is a named aspect of a dilemma's context, e.g.
// {Factor: "reversibility", Value: "low"}.
type ContextualFactor struct {
	Factor string `json:"factor"`
	Value  any    `json:"value"`
}

// Action is a possible course of action in a dilemma.
type Action struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Action      string `json:"action,omitempty"`
	Description string `json:"description,omitempty"`
}

// DisplayName resolves the action's display name through the ordered
// fallback chain name → action → id.
func (a *Action) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Action != "" {
		return a.Action
	}
	return a.ID
}

// Dilemma is a recorded ethical dilemma. Immutable input to the analysis
// engines.
type Dilemma struct {
	ID                string             `json:"id,omitempty"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Situation         *Situation         `json:"situation,omitempty"`
	ContextualFactors []ContextualFactor `json:"contextual_factors,omitempty"`
	Actions           []Action           `json:"possible_actions,omitempty"`
	Frameworks        []string           `json:"frameworks,omitempty"`
}

// Precedent is a previously analyzed dilemma with its reasoning paths
// attached, used as an analogy source. A precedent is only retrievable if
// it has a title and at least one reasoning path.
type Precedent struct {
	Dilemma
	ReasoningPaths []ReasoningPath `json:"reasoning_paths"`
}

// Path strength vocabulary.
const (
	StrengthWeak     = "weak"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)

// SourceReconciled tags paths produced by a reconciliation pass; pairs of
// reconciled paths are excluded from same-action comparison.
const SourceReconciled = "reconciled"

// ReasoningPath is one framework's conclusion and argument for a dilemma.
type ReasoningPath struct {
	ID                string             `json:"id"`
	Framework         string             `json:"framework"`
	FrameworkID       string             `json:"framework_id,omitempty"`
	Conclusion        string             `json:"conclusion,omitempty"`
	Action            string             `json:"action,omitempty"`
	Strength          string             `json:"strength,omitempty"`
	Argument          string             `json:"argument"`
	SourceElements    []GranularElement  `json:"source_elements,omitempty"`
	Priority          string             `json:"priority,omitempty"`
	StakeholderScores map[string]float64 `json:"stakeholder_scores,omitempty"`
	DependsOn         string             `json:"depends_on,omitempty"`
	Source            string             `json:"source,omitempty"`
}

// ConclusionOrAction resolves the path's recommended action through the
// ordered fallback chain conclusion → action.
func (p *ReasoningPath) ConclusionOrAction() string {
	if p.Conclusion != "" {
		return p.Conclusion
	}
	return p.Action
}

// IsReconciled reports whether the path came from a reconciliation pass.
func (p *ReasoningPath) IsReconciled() bool {
	return p.Source == SourceReconciled
}

// Granular element types.
const (
	ElementPrinciple     = "principle"
	ElementJustification = "justification"
	ElementObjection     = "objection"
	ElementResponse      = "response"
	ElementConclusion    = "conclusion"
)

// GranularElement is a decomposed unit of a reasoning path. Elements
// reference each other through ConflictingPrinciples by content string,
// not by id.
type GranularElement struct {
	ID                    string   `json:"id"`
	Type                  string   `json:"type"`
	Framework             string   `json:"framework"`
	Action                string   `json:"action,omitempty"`
	Content               string   `json:"content"`
	Strength              string   `json:"strength,omitempty"`
	Relevance             float64  `json:"relevance"`
	ConflictingPrinciples []string `json:"conflicting_principles,omitempty"`
}
