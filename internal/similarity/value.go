package similarity

import (
	"math"
)

// Fallback scores for values that cannot be compared variant-to-variant.
// A kind mismatch gets partial credit rather than zero so that loosely
// structured records still register as weak matches.
const (
	nilScore          = 0.0
	kindMismatchScore = 0.1
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNumber Kind = iota + 1
	KindString
	KindSequence
	KindRecord
	KindBool
)

// Value is an untyped comparand: a number, string, ordered sequence,
// keyed record, or boolean. Values have no identity and are compared
// structurally.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Seq  []*Value
	Rec  map[string]*Value
	Bool bool
}

// Number wraps a float in a Value.
func Number(f float64) *Value { return &Value{Kind: KindNumber, Num: f} }

// String wraps a string in a Value.
func String(s string) *Value { return &Value{Kind: KindString, Str: s} }

// Sequence wraps an ordered list in a Value.
func Sequence(vs ...*Value) *Value { return &Value{Kind: KindSequence, Seq: vs} }

// Record wraps a keyed map in a Value.
func Record(m map[string]*Value) *Value { return &Value{Kind: KindRecord, Rec: m} }

// Bool wraps a boolean in a Value.
func Bool(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

// FromAny converts a JSON-decoded value into the closed Value union.
// Unsupported shapes and nil convert to nil, which compares as 0.
func FromAny(v any) *Value {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case []any:
		seq := make([]*Value, len(x))
		for i, item := range x {
			seq[i] = FromAny(item)
		}
		return &Value{Kind: KindSequence, Seq: seq}
	case map[string]any:
		rec := make(map[string]*Value, len(x))
		for k, item := range x {
			rec[k] = FromAny(item)
		}
		return &Value{Kind: KindRecord, Rec: rec}
	default:
		return nil
	}
}

// Value compares two values of possibly mismatched shape and returns a
// score in [0,1]. Nil on either side scores 0; a kind mismatch scores
// 0.1; same-kind values dispatch to the per-variant comparison.
func (s *Service) Value(a, b *Value) float64 {
	if a == nil || b == nil {
		return nilScore
	}
	if a.Kind != b.Kind {
		return kindMismatchScore
	}

	switch a.Kind {
	case KindNumber:
		return numberSimilarity(a.Num, b.Num)
	case KindString:
		return s.Text(a.Str, b.Str)
	case KindBool:
		if a.Bool == b.Bool {
			return 1
		}
		return 0
	case KindSequence:
		return s.sequenceSimilarity(a.Seq, b.Seq)
	case KindRecord:
		return s.recordSimilarity(a.Rec, b.Rec)
	default:
		return nilScore
	}
}

// numberSimilarity scores two numbers by relative difference, raised to
// the 1.5 power so divergence is penalized faster than linearly.
func numberSimilarity(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	if a == b {
		return 1
	}

	maxAbs := math.Max(math.Abs(a), math.Abs(b))
	relDiff := math.Abs(a-b) / maxAbs
	if relDiff > 1 {
		relDiff = 1
	}
	return math.Pow(1-relDiff, 1.5)
}

// sequenceSimilarity pairs elements positionally over the shorter length,
// averages their similarity, and scales by shorter/longer to penalize
// length mismatch.
func (s *Service) sequenceSimilarity(a, b []*Value) float64 {
	la, lb := len(a), len(b)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	shorter, longer := la, lb
	if lb < la {
		shorter, longer = lb, la
	}

	var sum float64
	for i := 0; i < shorter; i++ {
		sum += s.Value(a[i], b[i])
	}
	return (sum / float64(shorter)) * (float64(shorter) / float64(longer))
}

// recordSimilarity averages similarity over keys common to both records,
// scaled by |common|/|union|. Two empty records are identical; one empty
// record matches nothing; disjoint key sets get the mismatch score.
func (s *Service) recordSimilarity(a, b map[string]*Value) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	common := 0
	var sum float64
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			continue
		}
		common++
		sum += s.Value(av, bv)
	}

	if common == 0 {
		return kindMismatchScore
	}

	union := len(a) + len(b) - common
	return (sum / float64(common)) * (float64(common) / float64(union))
}
