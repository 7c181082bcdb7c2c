package api

import (
	"encoding/json"
	"net/http"

	"github.com/arbiterlab/dilemma-analyzer/internal/conflicts"
	"github.com/arbiterlab/dilemma-analyzer/internal/storage"
	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// AnalyzeRequest carries the reasoning material to scan for conflicts.
// Reasoning paths are produced by external framework engines; granular
// elements are optional decompositions of those paths.
type AnalyzeRequest struct {
	ReasoningPaths   []models.ReasoningPath   `json:"reasoning_paths"`
	GranularElements []models.GranularElement `json:"granular_elements,omitempty"`
}

// ConflictResponse is one detected conflict in API responses
type ConflictResponse struct {
	Bucket   string             `json:"bucket"`
	Conflict conflicts.Conflict `json:"conflict"`
}

// AnalyzeResponse summarizes one analysis run
type AnalyzeResponse struct {
	DilemmaID string             `json:"dilemma_id"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// handleAnalyzeDilemma runs conflict detection over the submitted
// reasoning paths, refines severities, attaches resolution strategies,
// and replaces the dilemma's recorded conflicts.
func (s *Server) handleAnalyzeDilemma(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedDilemma(w, r)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ReasoningPaths) == 0 {
		respondError(w, http.StatusBadRequest, "reasoning_paths is required")
		return
	}

	set := s.detector.DetectAllConflicts(req.ReasoningPaths, req.GranularElements)

	buckets := []struct {
		name      string
		conflicts []conflicts.Conflict
	}{
		{storage.BucketSameAction, set.SameAction},
		{storage.BucketCrossAction, set.CrossAction},
		{storage.BucketGranular, set.Granular},
	}

	var stored []*storage.ConflictRecord
	var response []ConflictResponse
	for _, bucket := range buckets {
		for _, c := range bucket.conflicts {
			c.Severity = conflicts.CalculateSeverity(&c, req.GranularElements, &record.Dilemma, nil)
			c.ResolutionStrategies = conflicts.SuggestResolutionStrategies(c.Type, c.Severity)

			stored = append(stored, &storage.ConflictRecord{
				DilemmaID: record.ID,
				Bucket:    bucket.name,
				Conflict:  c,
			})
			response = append(response, ConflictResponse{Bucket: bucket.name, Conflict: c})
		}
	}

	// Replace previous results so re-analysis never accumulates.
	if err := s.conflictRepo.DeleteByDilemmaID(r.Context(), record.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear previous conflicts")
		return
	}
	if err := s.conflictRepo.CreateBatch(r.Context(), stored); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store conflicts")
		return
	}

	if response == nil {
		response = []ConflictResponse{}
	}
	respondJSON(w, http.StatusOK, AnalyzeResponse{
		DilemmaID: record.ID.String(),
		Conflicts: response,
	})
}

// handleGetConflicts returns the conflicts recorded by the last
// analysis run for a dilemma.
func (s *Server) handleGetConflicts(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedDilemma(w, r)
	if !ok {
		return
	}

	records, err := s.conflictRepo.GetByDilemmaID(r.Context(), record.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch conflicts")
		return
	}

	response := make([]ConflictResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, ConflictResponse{Bucket: rec.Bucket, Conflict: rec.Conflict})
	}

	respondJSON(w, http.StatusOK, response)
}
