package conflicts

import "regexp"

// PriorityCategory is one named moral-priority bucket with the keywords
// that signal it in an argument text.
type PriorityCategory struct {
	Name     string
	Keywords []string
}

// PolarityPattern pairs a positive and a negative claim pattern. Two
// paths whose factual sentences match opposite sides of the same
// pattern are in factual conflict.
type PolarityPattern struct {
	Name     string
	Positive *regexp.Regexp
	Negative *regexp.Regexp
}

// OpposingPair names two value terms that pull in opposite directions.
type OpposingPair struct {
	A string
	B string
}

// MethodCategory is one named reasoning-method bucket with its
// signalling keywords.
type MethodCategory struct {
	Name     string
	Keywords []string
}

// Tables holds every keyword and pattern table the detectors consult.
// Keeping them as data rather than inline logic lets classification
// rules be tuned and tested apart from the traversal code.
type Tables struct {
	// Priorities are checked in slice order; the first category with a
	// keyword hit becomes a path's primary priority.
	Priorities []PriorityCategory

	// Antagonisms lists unordered priority-name pairs whose clash
	// escalates a priority conflict to high severity.
	Antagonisms []OpposingPair

	// ValueTerms is the pool of ethical-value words scanned for in
	// arguments; OpposingValues pairs the ones that conflict.
	ValueTerms     []string
	OpposingValues []OpposingPair

	// FactIndicators mark a sentence as a factual claim.
	FactIndicators []string
	Polarities     []PolarityPattern

	Methods []MethodCategory

	// Contradictions are argument-level keyword oppositions used by the
	// baseline detector's last-resort scan.
	Contradictions []OpposingPair
}

// DefaultTables returns the standard heuristic tables.
func DefaultTables() Tables {
	return Tables{
		Priorities: []PriorityCategory{
			{Name: "welfare", Keywords: []string{"welfare", "well-being", "wellbeing", "utility", "happiness", "benefit", "outcome", "consequence"}},
			{Name: "rights", Keywords: []string{"right", "rights", "autonomy", "consent", "dignity", "duty", "obligation"}},
			{Name: "virtue", Keywords: []string{"virtue", "character", "integrity", "honesty", "courage", "wisdom"}},
			{Name: "care", Keywords: []string{"care", "caring", "compassion", "empathy", "relationship", "vulnerable"}},
			{Name: "community", Keywords: []string{"community", "society", "social", "collective", "common good", "tradition"}},
		},
		Antagonisms: []OpposingPair{
			{A: "welfare", B: "rights"},
			{A: "welfare", B: "community"},
			{A: "rights", B: "community"},
		},
		ValueTerms: []string{
			"freedom", "liberty", "security", "safety", "autonomy", "welfare",
			"well-being", "individual", "community", "efficiency", "equality",
			"fairness", "privacy", "transparency", "honesty", "loyalty",
			"justice", "dignity", "respect", "trust", "responsibility",
			"compassion", "care", "duty", "rights", "utility", "happiness",
			"integrity", "solidarity", "tolerance",
		},
		OpposingValues: []OpposingPair{
			{A: "freedom", B: "security"},
			{A: "autonomy", B: "welfare"},
			{A: "individual", B: "community"},
			{A: "efficiency", B: "equality"},
			{A: "privacy", B: "transparency"},
		},
		FactIndicators: []string{"fact", "evidence", "data", "study", "research"},
		Polarities: []PolarityPattern{
			{
				Name:     "direction",
				Positive: regexp.MustCompile(`\bincreas\w*`),
				Negative: regexp.MustCompile(`\bdecreas\w*`),
			},
			{
				Name:     "frequency",
				Positive: regexp.MustCompile(`\balways\b`),
				Negative: regexp.MustCompile(`\bnever\b`),
			},
			{
				Name:     "certainty",
				Positive: regexp.MustCompile(`\bcertain\w*`),
				Negative: regexp.MustCompile(`\buncertain\w*`),
			},
		},
		Methods: []MethodCategory{
			{Name: "consequentialist", Keywords: []string{"consequence", "outcome", "result", "maximize", "utility", "cost", "benefit"}},
			{Name: "deontological", Keywords: []string{"duty", "rule", "obligation", "principle", "imperative", "universal"}},
			{Name: "virtue_based", Keywords: []string{"virtue", "character", "flourish", "excellence", "habit"}},
			{Name: "care_based", Keywords: []string{"care", "relationship", "empathy", "context", "particular"}},
			{Name: "contractual", Keywords: []string{"agreement", "contract", "consent", "fair", "procedure", "rational"}},
		},
		Contradictions: []OpposingPair{
			{A: "should", B: "should not"},
			{A: "must", B: "must not"},
			{A: "permissible", B: "impermissible"},
			{A: "obligatory", B: "forbidden"},
			{A: "justified", B: "unjustified"},
		},
	}
}
