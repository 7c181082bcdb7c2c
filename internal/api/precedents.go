package api

import (
	"encoding/json"
	"net/http"

	"github.com/pgvector/pgvector-go"

	"github.com/arbiterlab/dilemma-analyzer/internal/storage"
	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// PrecedentRequest represents a precedent creation request
type PrecedentRequest struct {
	Dilemma        models.Dilemma         `json:"dilemma"`
	ReasoningPaths []models.ReasoningPath `json:"reasoning_paths"`
}

// PrecedentResponse represents a stored precedent in API responses
type PrecedentResponse struct {
	ID        string           `json:"id"`
	Precedent models.Precedent `json:"precedent"`
}

// RankedPrecedentResponse is one retrieval hit
type RankedPrecedentResponse struct {
	ID        string           `json:"id"`
	Precedent models.Precedent `json:"precedent"`
	Breakdown map[string]any   `json:"breakdown"`
}

// handleCreatePrecedent stores a solved dilemma with its reasoning
// paths as a precedent, embedding its text when the embedding client
// is configured.
func (s *Server) handleCreatePrecedent(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req PrecedentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Dilemma.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.ReasoningPaths) == 0 {
		respondError(w, http.StatusBadRequest, "reasoning_paths is required")
		return
	}

	record := &storage.PrecedentRecord{
		UserID: uid,
		Precedent: models.Precedent{
			Dilemma:        req.Dilemma,
			ReasoningPaths: req.ReasoningPaths,
		},
	}

	if s.embeddingClient != nil {
		text := req.Dilemma.Title + " " + req.Dilemma.Description
		vec, err := s.embeddingClient.EmbedText(r.Context(), text)
		if err != nil {
			s.logger.Printf("api: embedding precedent %q: %v", req.Dilemma.Title, err)
		} else {
			record.Embedding = pgvector.NewVector(vec)
		}
	}

	if err := s.precedentRepo.Create(r.Context(), record); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create precedent")
		return
	}
	record.Precedent.ID = record.ID.String()

	respondJSON(w, http.StatusCreated, PrecedentResponse{
		ID:        record.ID.String(),
		Precedent: record.Precedent,
	})
}

// handleListPrecedents returns all precedents for the authenticated user
func (s *Server) handleListPrecedents(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authenticatedUserID(w, r)
	if !ok {
		return
	}

	records, err := s.precedentRepo.GetByUserID(r.Context(), uid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch precedents")
		return
	}

	response := make([]PrecedentResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, PrecedentResponse{
			ID:        rec.ID.String(),
			Precedent: rec.Precedent,
		})
	}

	respondJSON(w, http.StatusOK, response)
}

// handleFindPrecedents ranks the user's precedent collection against
// the dilemma in the URL and returns the most relevant ones with their
// score breakdowns.
func (s *Server) handleFindPrecedents(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedDilemma(w, r)
	if !ok {
		return
	}

	records, err := s.precedentRepo.GetByUserID(r.Context(), record.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch precedents")
		return
	}

	candidates := make([]*models.Precedent, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, &rec.Precedent)
	}

	ranked := s.retriever.FindRelevantPrecedents(r.Context(), &record.Dilemma, candidates)

	response := make([]RankedPrecedentResponse, 0, len(ranked))
	for _, hit := range ranked {
		id := hit.Precedent.ID
		response = append(response, RankedPrecedentResponse{
			ID:        id,
			Precedent: *hit.Precedent,
			Breakdown: map[string]any{
				"description":      hit.Breakdown.Description,
				"title":            hit.Breakdown.Title,
				"action_relevance": hit.Breakdown.ActionRelevance,
				"total":            hit.Breakdown.Total,
			},
		})
	}

	respondJSON(w, http.StatusOK, response)
}
