package http

import (
	"encoding/json"
	"net/http"

	"github.com/velles/review-cycle-service/internal/domain"
)

type scoreDTO struct {
	DimensionID string `json:"dimension_id"`
	Value       string `json:"value"`
}

type submitEvaluationRequest struct {
	UserID  string     `json:"user_id"`
	CycleID string     `json:"cycle_id"`
	Scores  []scoreDTO `json:"scores"`
}

type submitEvaluationResponse struct {
	EvaluationID string `json:"evaluation_id"`
}

func (s *Server) HandleEvaluationSubmit(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req submitEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeValidation, "invalid JSON body")
		return
	}

	scores := make([]domain.DimensionScore, 0, len(req.Scores))
	for _, sc := range req.Scores {
		scores = append(scores, domain.DimensionScore{
			DimensionID: sc.DimensionID,
			Value:       domain.ScoreValue(sc.Value),
		})
	}

	evaluationID, err := s.app.Evaluation.Submit(r.Context(), req.UserID, req.CycleID, scores)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, submitEvaluationResponse{
		EvaluationID: evaluationID,
	})
}
