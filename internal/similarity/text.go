package similarity

import (
	"strings"
	"unicode"
)

const (
	// Normalized strings shorter than this use the edit-distance metric,
	// which behaves better for names and short phrases than the lexical
	// overlap blend.
	shortStringThreshold = 10

	// Inputs longer than this skip the exact Levenshtein DP in favor of
	// a sampled approximation.
	levenshteinExactLimit = 1000

	levenshteinSampleStep = 10
	levenshteinMaxSamples = 100
)

// Text similarity blend weights.
const (
	editWeight     = 0.3
	semanticWeight = 0.7

	jaccardWeight     = 0.5
	containmentWeight = 0.3
	bigramWeight      = 0.2
)

// Service computes value, text, and dilemma similarity, memoizing text
// scores in a caller-owned cache.
type Service struct {
	cache *Cache
}

// NewService creates a similarity service backed by the given cache.
// A nil cache gets a private one.
func NewService(cache *Cache) *Service {
	if cache == nil {
		cache = NewCache()
	}
	return &Service{cache: cache}
}

// CacheStats exposes the underlying cache counters.
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// ClearCache drops all memoized scores.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// Text scores two strings in [0,1]. Identical strings score 1 and empty
// strings score 0 without touching the cache. Short strings use a pure
// edit-distance metric; longer strings blend edit distance with a
// word-overlap approximation of semantic similarity.
func (s *Service) Text(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	if score, ok := s.cache.Get(a, b); ok {
		return score
	}

	na, nb := normalizeText(a), normalizeText(b)

	var score float64
	if len(na) < shortStringThreshold || len(nb) < shortStringThreshold {
		score = shortStringSimilarity(na, nb)
	} else {
		lev := normalizedLevenshtein(na, nb)
		sem := semanticApproximation(na, nb)
		score = editWeight*(1-lev) + semanticWeight*sem
	}

	s.cache.Put(a, b, score)
	return score
}

// normalizeText lowercases, turns non-word characters into spaces, and
// collapses runs of whitespace.
func normalizeText(text string) string {
	text = strings.ToLower(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// shortStringSimilarity scores short normalized strings by edit distance
// alone.
func shortStringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return 1 - normalizedLevenshtein(a, b)
}

// normalizedLevenshtein returns edit distance divided by the longer
// length, in [0,1]. Inputs over levenshteinExactLimit characters use a
// deliberately lossy sampled approximation instead of the full DP.
func normalizedLevenshtein(a, b string) float64 {
	if a == b {
		return 0
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 1
	}

	if la > levenshteinExactLimit || lb > levenshteinExactLimit {
		return approximateDistance(a, b)
	}

	dist := levenshtein(a, b)
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return float64(dist) / float64(maxLen)
}

// levenshtein is the classic two-row dynamic-programming edit distance.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// approximateDistance estimates a normalized edit distance for long
// inputs from the length ratio and a sparse character sample: every 10th
// character, capped at 100 samples. Cheap and explicitly inexact.
func approximateDistance(a, b string) float64 {
	la, lb := len(a), len(b)
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	minLen := la
	if lb < minLen {
		minLen = lb
	}

	lengthRatioDiff := float64(maxLen-minLen) / float64(maxLen)

	samples, matches := 0, 0
	for i := 0; i < minLen && samples < levenshteinMaxSamples; i += levenshteinSampleStep {
		samples++
		if a[i] == b[i] {
			matches++
		}
	}

	matchRate := 0.0
	if samples > 0 {
		matchRate = float64(matches) / float64(samples)
	}

	return 0.7*lengthRatioDiff + 0.3*(1-matchRate)
}

// semanticApproximation blends Jaccard overlap, containment, and bigram
// sequence overlap over words longer than one character.
func semanticApproximation(a, b string) float64 {
	wordsA := tokenize(a)
	wordsB := tokenize(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := toSet(wordsA)
	setB := toSet(wordsB)

	shared := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared

	jaccard := 0.0
	if union > 0 {
		jaccard = float64(shared) / float64(union)
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	containment := 0.0
	if smaller > 0 {
		containment = float64(shared) / float64(smaller)
	}

	bigram := bigramOverlap(wordsA, wordsB)

	return jaccardWeight*jaccard + containmentWeight*containment + bigramWeight*bigram
}

// bigramOverlap measures shared consecutive word pairs over the union of
// pairs from both token lists.
func bigramOverlap(wordsA, wordsB []string) float64 {
	bigramsA := toBigramSet(wordsA)
	bigramsB := toBigramSet(wordsB)
	if len(bigramsA) == 0 && len(bigramsB) == 0 {
		return 0
	}

	shared := 0
	for bg := range bigramsA {
		if _, ok := bigramsB[bg]; ok {
			shared++
		}
	}
	union := len(bigramsA) + len(bigramsB) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			words = append(words, f)
		}
	}
	return words
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func toBigramSet(words []string) map[string]struct{} {
	set := make(map[string]struct{})
	for i := 0; i+1 < len(words); i++ {
		set[words[i]+" "+words[i+1]] = struct{}{}
	}
	return set
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
