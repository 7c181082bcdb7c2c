package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arbiterlab/dilemma-analyzer/internal/auth"
	"github.com/arbiterlab/dilemma-analyzer/internal/storage"
	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// DilemmaRequest represents a dilemma create/update request
type DilemmaRequest struct {
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Situation         *models.Situation         `json:"situation,omitempty"`
	ContextualFactors []models.ContextualFactor `json:"contextual_factors,omitempty"`
	Actions           []models.Action           `json:"possible_actions,omitempty"`
	Frameworks        []string                  `json:"frameworks,omitempty"`
}

// DilemmaResponse represents a dilemma in API responses
type DilemmaResponse struct {
	ID        string         `json:"id"`
	Dilemma   models.Dilemma `json:"dilemma"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

func dilemmaResponse(record *storage.DilemmaRecord) DilemmaResponse {
	return DilemmaResponse{
		ID:        record.ID.String(),
		Dilemma:   record.Dilemma,
		CreatedAt: record.CreatedAt.Format(time.RFC3339),
		UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
	}
}

func (r DilemmaRequest) toModel() models.Dilemma {
	return models.Dilemma{
		Title:             r.Title,
		Description:       r.Description,
		Situation:         r.Situation,
		ContextualFactors: r.ContextualFactors,
		Actions:           r.Actions,
		Frameworks:        r.Frameworks,
	}
}

// handleListDilemmas returns all dilemmas for the authenticated user
func (s *Server) handleListDilemmas(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authenticatedUserID(w, r)
	if !ok {
		return
	}

	records, err := s.dilemmaRepo.GetByUserID(r.Context(), uid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch dilemmas")
		return
	}

	response := make([]DilemmaResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, dilemmaResponse(rec))
	}

	respondJSON(w, http.StatusOK, response)
}

// handleCreateDilemma creates a new dilemma
func (s *Server) handleCreateDilemma(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req DilemmaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" && req.Description == "" {
		respondError(w, http.StatusBadRequest, "title or description is required")
		return
	}

	record := &storage.DilemmaRecord{
		UserID:  uid,
		Dilemma: req.toModel(),
	}

	if err := s.dilemmaRepo.Create(r.Context(), record); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create dilemma")
		return
	}
	record.Dilemma.ID = record.ID.String()

	respondJSON(w, http.StatusCreated, dilemmaResponse(record))
}

// handleGetDilemma returns a specific dilemma
func (s *Server) handleGetDilemma(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedDilemma(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, dilemmaResponse(record))
}

// handleUpdateDilemma replaces the content of a dilemma
func (s *Server) handleUpdateDilemma(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedDilemma(w, r)
	if !ok {
		return
	}

	var req DilemmaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" && req.Description == "" {
		respondError(w, http.StatusBadRequest, "title or description is required")
		return
	}

	record.Dilemma = req.toModel()
	record.Dilemma.ID = record.ID.String()

	if err := s.dilemmaRepo.Update(r.Context(), record); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update dilemma")
		return
	}

	respondJSON(w, http.StatusOK, dilemmaResponse(record))
}

// handleDeleteDilemma deletes a dilemma and its recorded conflicts
func (s *Server) handleDeleteDilemma(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedDilemma(w, r)
	if !ok {
		return
	}

	if err := s.conflictRepo.DeleteByDilemmaID(r.Context(), record.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete conflicts")
		return
	}
	if err := s.dilemmaRepo.Delete(r.Context(), record.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete dilemma")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// authenticatedUserID pulls the caller's user ID from the auth claims.
func (s *Server) authenticatedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}

	return uid, true
}

// ownedDilemma loads the dilemma from the URL and verifies ownership.
func (s *Server) ownedDilemma(w http.ResponseWriter, r *http.Request) (*storage.DilemmaRecord, bool) {
	uid, ok := s.authenticatedUserID(w, r)
	if !ok {
		return nil, false
	}

	dilemmaID := chi.URLParam(r, "dilemmaID")
	id, err := uuid.Parse(dilemmaID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid dilemma id")
		return nil, false
	}

	record, err := s.dilemmaRepo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch dilemma")
		return nil, false
	}
	if record == nil {
		respondError(w, http.StatusNotFound, "dilemma not found")
		return nil, false
	}
	if record.UserID != uid {
		respondError(w, http.StatusForbidden, "access denied")
		return nil, false
	}

	return record, true
}
