package relevance

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// neutralScore is returned when there is not enough text to compare.
const neutralScore = 0.5

// Embedder produces a vector for a text. Satisfied by the embeddings
// client and its cached wrapper.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Scorer rates candidate actions against a dilemma/precedent pair by
// embedding both and comparing directions.
type Scorer struct {
	embedder Embedder
	logger   *log.Logger
}

// NewScorer creates a scorer backed by the given embedder.
func NewScorer(embedder Embedder, logger *log.Logger) *Scorer {
	if logger == nil {
		logger = log.Default()
	}
	return &Scorer{embedder: embedder, logger: logger}
}

// ScoreAction returns how pertinent the action is to the combined
// dilemma and precedent context, in [0,1]. Missing text degrades to
// the neutral score; embedder failures surface as errors for the
// caller's default policy.
func (s *Scorer) ScoreAction(ctx context.Context, dilemmaText, action, precedentText string) (float64, error) {
	if action == "" {
		return neutralScore, nil
	}
	contextText := strings.TrimSpace(dilemmaText + " " + precedentText)
	if contextText == "" {
		return neutralScore, nil
	}

	contextVec, err := s.embedder.EmbedText(ctx, contextText)
	if err != nil {
		return 0, fmt.Errorf("embed context: %w", err)
	}
	actionVec, err := s.embedder.EmbedText(ctx, action)
	if err != nil {
		return 0, fmt.Errorf("embed action: %w", err)
	}

	cos := CosineSimilarity(contextVec, actionVec)

	// Map [-1,1] onto [0,1] and clamp against float drift.
	score := (cos + 1) / 2
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors
// in [-1,1]. Mismatched or empty vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	af := make([]float64, len(a))
	bf := make([]float64, len(b))
	for i := range a {
		af[i] = float64(a[i])
		bf[i] = float64(b[i])
	}

	dot := floats.Dot(af, bf)
	magA := math.Sqrt(floats.Dot(af, af))
	magB := math.Sqrt(floats.Dot(bf, bf))
	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (magA * magB)
}
