package conflicts

// Type classifies a detected conflict between reasoning paths or
// granular elements.
type Type string

const (
	TypePriority             Type = "priority"
	TypeValue                Type = "value"
	TypeFactual              Type = "factual"
	TypeMethod               Type = "method"
	TypePrinciple            Type = "principle"
	TypeCrossActionValue     Type = "cross_action_value"
	TypeCrossActionPrinciple Type = "cross_action_principle"
	TypeCircularDependency   Type = "circular_dependency"

	// TypeAction is emitted by the baseline detector when two paths from
	// different frameworks contradict each other at the argument level
	// without a cleaner priority or value classification.
	TypeAction Type = "action"
)

// Severity is the qualitative magnitude of a conflict.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"

	// SeverityCritical is part of the vocabulary for downstream
	// consumers but no detector or escalation rule produces it.
	SeverityCritical Severity = "critical"
)

// Conflict is one detected disagreement. Pairwise detectors fill
// Framework1/Framework2; group-level detectors fill Frameworks. Same-
// action conflicts carry Action; cross-action conflicts carry Action1
// and Action2.
type Conflict struct {
	Type        Type     `json:"type"`
	Framework1  string   `json:"framework1,omitempty"`
	Framework2  string   `json:"framework2,omitempty"`
	Frameworks  []string `json:"frameworks,omitempty"`
	Action      string   `json:"action,omitempty"`
	Action1     string   `json:"action1,omitempty"`
	Action2     string   `json:"action2,omitempty"`
	Severity    Severity `json:"severity,omitempty"`
	Description string   `json:"description"`
	Details     string   `json:"details,omitempty"`

	ResolutionStrategies []Strategy `json:"resolution_strategies,omitempty"`
}

// Strategy names one candidate way of resolving a conflict.
type Strategy struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ConflictSet is the output of a full detection pass over one
// dilemma's reasoning paths.
type ConflictSet struct {
	All         []Conflict `json:"all"`
	SameAction  []Conflict `json:"same_action"`
	CrossAction []Conflict `json:"cross_action"`
	Granular    []Conflict `json:"granular"`
}
