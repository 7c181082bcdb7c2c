package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/arbiterlab/dilemma-analyzer/internal/conflicts"
	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// SimilarDilemmaResponse is one hit from a dilemma similarity scan
type SimilarDilemmaResponse struct {
	ID         string         `json:"id"`
	Dilemma    models.Dilemma `json:"dilemma"`
	Similarity float64        `json:"similarity"`
}

// handleSimilarDilemmas scores the dilemma against the user's other
// dilemmas with the structural similarity engine and returns them in
// descending order.
func (s *Server) handleSimilarDilemmas(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedDilemma(w, r)
	if !ok {
		return
	}

	records, err := s.dilemmaRepo.GetByUserID(r.Context(), record.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch dilemmas")
		return
	}

	response := make([]SimilarDilemmaResponse, 0, len(records))
	for _, other := range records {
		if other.ID == record.ID {
			continue
		}
		response = append(response, SimilarDilemmaResponse{
			ID:         other.ID.String(),
			Dilemma:    other.Dilemma,
			Similarity: s.similarityService.Dilemma(&record.Dilemma, &other.Dilemma),
		})
	}

	sort.SliceStable(response, func(i, j int) bool {
		return response[i].Similarity > response[j].Similarity
	})

	respondJSON(w, http.StatusOK, response)
}

// handlePathConflicts runs the pairwise same-action detectors over the
// submitted reasoning paths without persisting anything. The default is
// the deduplicated summary scan; exhaustive=true compares every
// same-conclusion pair.
func (s *Server) handlePathConflicts(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.ownedDilemma(w, r); !ok {
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

	exhaustive, _ := strconv.ParseBool(r.URL.Query().Get("exhaustive"))

	var found []conflicts.Conflict
	if exhaustive {
		found = s.detector.DetectPathConflicts(req.ReasoningPaths)
	} else {
		found = s.detector.DetectConflicts(req.ReasoningPaths)
	}
	if found == nil {
		found = []conflicts.Conflict{}
	}

	respondJSON(w, http.StatusOK, found)
}
