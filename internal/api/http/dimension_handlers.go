package http

import (
	"encoding/json"
	"net/http"

	"github.com/velles/review-cycle-service/internal/domain"
)

type dimensionDTO struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Position    int      `json:"position"`
	IsActive    bool     `json:"is_active"`
	Roles       []string `json:"roles,omitempty"`
}

func (d dimensionDTO) toDomain() domain.ReviewDimension {
	roles := make([]domain.EvaluatorRole, 0, len(d.Roles))
	for _, r := range d.Roles {
		roles = append(roles, domain.EvaluatorRole(r))
	}
	return domain.ReviewDimension{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Position:    d.Position,
		IsActive:    d.IsActive,
		Roles:       roles,
	}
}

func dimensionToDTO(d domain.ReviewDimension) dimensionDTO {
	roles := make([]string, 0, len(d.Roles))
	for _, r := range d.Roles {
		roles = append(roles, string(r))
	}
	return dimensionDTO{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Position:    d.Position,
		IsActive:    d.IsActive,
		Roles:       roles,
	}
}

type listDimensionsResponse struct {
	Dimensions []dimensionDTO `json:"dimensions"`
}

func (s *Server) HandleDimensionList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeValidation, "user_id is required")
		return
	}

	dims, err := s.app.Dimension.List(r.Context(), userID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := listDimensionsResponse{
		Dimensions: make([]dimensionDTO, 0, len(dims)),
	}
	for _, d := range dims {
		resp.Dimensions = append(resp.Dimensions, dimensionToDTO(d))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type upsertDimensionRequest struct {
	UserID    string       `json:"user_id"`
	Dimension dimensionDTO `json:"dimension"`
}

type dimensionResponse struct {
	Dimension dimensionDTO `json:"dimension"`
}

func (s *Server) HandleDimensionCreate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req upsertDimensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeValidation, "invalid JSON body")
		return
	}

	created, err := s.app.Dimension.Create(r.Context(), req.UserID, req.Dimension.toDomain())
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, dimensionResponse{
		Dimension: dimensionToDTO(*created),
	})
}

func (s *Server) HandleDimensionUpdate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req upsertDimensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeValidation, "invalid JSON body")
		return
	}

	updated, err := s.app.Dimension.Update(r.Context(), req.UserID, req.Dimension.toDomain())
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dimensionResponse{
		Dimension: dimensionToDTO(*updated),
	})
}
