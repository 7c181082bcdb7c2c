package precedent

import (
	"context"
	"log"
	"sort"

	"github.com/arbiterlab/dilemma-analyzer/internal/similarity"
	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// ActionRelevanceScorer rates how pertinent a candidate action is to a
// dilemma/precedent pair, in [0,1]. Supplied by the caller; typically
// backed by an embedding model.
type ActionRelevanceScorer func(ctx context.Context, dilemmaText, action, precedentText string) (float64, error)

// neutralScore stands in whenever an action cannot be scored: scorer
// missing, text missing, or scorer failure.
const neutralScore = 0.5

// Options control filtering, weighting, and truncation of a retrieval
// pass.
type Options struct {
	Threshold         float64
	MaxResults        int
	DescriptionWeight float64
	TitleWeight       float64
	ActionWeight      float64

	// UseMaxActionScore aggregates per-action relevance by max instead
	// of mean.
	UseMaxActionScore bool
}

// DefaultOptions returns the standard retrieval parameters.
func DefaultOptions() Options {
	return Options{
		Threshold:         0.3,
		MaxResults:        5,
		DescriptionWeight: 0.4,
		TitleWeight:       0.2,
		ActionWeight:      0.4,
	}
}

// ScoreBreakdown records how a precedent's total score was composed.
type ScoreBreakdown struct {
	Description     float64 `json:"description"`
	Title           float64 `json:"title"`
	ActionRelevance float64 `json:"action_relevance"`
	Total           float64 `json:"total"`
}

// RankedPrecedent is one retrieval hit with its score breakdown.
type RankedPrecedent struct {
	Precedent *models.Precedent `json:"precedent"`
	Breakdown ScoreBreakdown    `json:"breakdown"`
}

// Retriever ranks a precedent collection against a query dilemma.
type Retriever struct {
	sim    *similarity.Service
	scorer ActionRelevanceScorer
	opts   Options
	logger *log.Logger
}

// NewRetriever creates a retriever. A nil scorer is allowed; every
// action then receives the neutral score.
func NewRetriever(sim *similarity.Service, scorer ActionRelevanceScorer, opts Options, logger *log.Logger) *Retriever {
	if sim == nil {
		sim = similarity.NewService(nil)
	}
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Retriever{sim: sim, scorer: scorer, opts: opts, logger: logger}
}

// FindRelevantPrecedents scores, filters, ranks, and truncates the
// collection for the query dilemma. Invalid input degrades to an empty
// result rather than an error. Precedents without a title or without
// reasoning paths are excluded regardless of textual similarity.
func (r *Retriever) FindRelevantPrecedents(ctx context.Context, dilemma *models.Dilemma, precedents []*models.Precedent) []RankedPrecedent {
	if dilemma == nil || precedents == nil {
		return []RankedPrecedent{}
	}
	if dilemma.Title == "" && dilemma.Description == "" {
		return []RankedPrecedent{}
	}

	ranked := make([]RankedPrecedent, 0, len(precedents))
	for _, p := range precedents {
		if p == nil || p.Title == "" || len(p.ReasoningPaths) == 0 {
			continue
		}

		breakdown := ScoreBreakdown{
			Description:     r.sim.Text(dilemma.Description, p.Description),
			Title:           r.sim.Text(dilemma.Title, p.Title),
			ActionRelevance: r.actionRelevance(ctx, dilemma, p),
		}
		breakdown.Total = r.opts.DescriptionWeight*breakdown.Description +
			r.opts.TitleWeight*breakdown.Title +
			r.opts.ActionWeight*breakdown.ActionRelevance

		if breakdown.Total < r.opts.Threshold {
			continue
		}
		ranked = append(ranked, RankedPrecedent{Precedent: p, Breakdown: breakdown})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.Total > ranked[j].Breakdown.Total
	})

	if r.opts.MaxResults > 0 && len(ranked) > r.opts.MaxResults {
		ranked = ranked[:r.opts.MaxResults]
	}
	return ranked
}

// actionRelevance scores each of the dilemma's actions against the
// precedent and aggregates by mean or max. A scorer failure on one
// action defaults that action to the neutral score and continues; it
// never aborts the precedent.
func (r *Retriever) actionRelevance(ctx context.Context, dilemma *models.Dilemma, p *models.Precedent) float64 {
	if r.scorer == nil || len(dilemma.Actions) == 0 {
		return neutralScore
	}

	dilemmaText := comparableText(dilemma)
	precedentText := comparableText(&p.Dilemma)
	if dilemmaText == "" || precedentText == "" {
		return neutralScore
	}

	var sum, max float64
	for i := range dilemma.Actions {
		action := dilemma.Actions[i].DisplayName()

		score, err := r.scorer(ctx, dilemmaText, action, precedentText)
		if err != nil {
			r.logger.Printf("precedent: scoring action %q against %q: %v", action, p.Title, err)
			score = neutralScore
		}

		sum += score
		if score > max {
			max = score
		}
	}

	if r.opts.UseMaxActionScore {
		return max
	}
	return sum / float64(len(dilemma.Actions))
}

// comparableText is the description, falling back to the title.
func comparableText(d *models.Dilemma) string {
	if d.Description != "" {
		return d.Description
	}
	return d.Title
}
