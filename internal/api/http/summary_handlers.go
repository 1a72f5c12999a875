package http

import (
	"net/http"
	"time"

	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/service"
)

type dimensionSummaryDTO struct {
	DimensionID string   `json:"dimension_id"`
	Name        string   `json:"name"`
	Average     *float64 `json:"average"`
	Count       int      `json:"count"`
	Confidence  string   `json:"confidence"`
}

type divergenceFlagDTO struct {
	DimensionID   string  `json:"dimension_id"`
	DimensionName string  `json:"dimension_name"`
	RoleA         string  `json:"role_a"`
	RoleB         string  `json:"role_b"`
	AverageA      float64 `json:"average_a"`
	AverageB      float64 `json:"average_b"`
	Difference    float64 `json:"difference"`
}

type cycleSummaryResponse struct {
	CycleID        string                `json:"cycle_id"`
	CardID         string                `json:"card_id"`
	CycleNumber    int                   `json:"cycle_number"`
	OpenedAt       time.Time             `json:"opened_at"`
	ClosedAt       *time.Time            `json:"closed_at,omitempty"`
	IsFinal        bool                  `json:"is_final"`
	Locked         bool                  `json:"locked"`
	Evaluations    int                   `json:"evaluations"`
	Dimensions     []dimensionSummaryDTO `json:"dimensions"`
	OverallAverage *float64              `json:"overall_average"`
	Tier           string                `json:"tier"`
	Divergence     []divergenceFlagDTO   `json:"divergence"`
}

func dimensionSummariesToDTO(in []service.DimensionSummary) []dimensionSummaryDTO {
	out := make([]dimensionSummaryDTO, 0, len(in))
	for _, d := range in {
		out = append(out, dimensionSummaryDTO{
			DimensionID: d.DimensionID,
			Name:        d.Name,
			Average:     d.Average,
			Count:       d.Count,
			Confidence:  string(d.Confidence),
		})
	}
	return out
}

func divergenceToDTO(in []domain.DivergenceFlag) []divergenceFlagDTO {
	out := make([]divergenceFlagDTO, 0, len(in))
	for _, f := range in {
		out = append(out, divergenceFlagDTO{
			DimensionID:   f.DimensionID,
			DimensionName: f.DimensionName,
			RoleA:         string(f.RoleA),
			RoleB:         string(f.RoleB),
			AverageA:      f.AverageA,
			AverageB:      f.AverageB,
			Difference:    f.Difference,
		})
	}
	return out
}

func (s *Server) HandleCycleSummary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	cycleID := r.URL.Query().Get("cycle_id")
	if userID == "" || cycleID == "" {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeValidation, "user_id and cycle_id are required")
		return
	}

	summary, err := s.app.Summary.CycleSummary(r.Context(), userID, cycleID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, cycleSummaryResponse{
		CycleID:        summary.CycleID,
		CardID:         summary.CardID,
		CycleNumber:    summary.CycleNumber,
		OpenedAt:       summary.OpenedAt,
		ClosedAt:       summary.ClosedAt,
		IsFinal:        summary.IsFinal,
		Locked:         summary.Locked,
		Evaluations:    summary.Evaluations,
		Dimensions:     dimensionSummariesToDTO(summary.Dimensions),
		OverallAverage: summary.OverallAverage,
		Tier:           string(summary.Tier),
		Divergence:     divergenceToDTO(summary.Divergence),
	})
}

type projectSummaryResponse struct {
	ProjectID           string                `json:"project_id"`
	CardsWithFinalCycle int                   `json:"cards_with_final_cycle"`
	TierDistribution    map[string]int        `json:"tier_distribution"`
	Dimensions          []dimensionSummaryDTO `json:"dimensions"`
	AverageCyclesToDone *float64              `json:"average_cycles_to_done"`
	HighChurnCycles     int                   `json:"high_churn_cycles"`
	HighChurnCards      int                   `json:"high_churn_cards"`
	ChurnRate           float64               `json:"churn_rate"`
}

func (s *Server) HandleProjectSummary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	projectID := r.URL.Query().Get("project_id")
	if userID == "" {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeValidation, "user_id is required")
		return
	}

	summary, err := s.app.Summary.ProjectSummary(r.Context(), userID, projectID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	tiers := make(map[string]int, len(summary.TierDistribution))
	for tier, n := range summary.TierDistribution {
		tiers[string(tier)] = n
	}

	s.writeJSON(w, http.StatusOK, projectSummaryResponse{
		ProjectID:           summary.ProjectID,
		CardsWithFinalCycle: summary.CardsWithFinalCycle,
		TierDistribution:    tiers,
		Dimensions:          dimensionSummariesToDTO(summary.Dimensions),
		AverageCyclesToDone: summary.AverageCyclesToDone,
		HighChurnCycles:     summary.HighChurnCycles,
		HighChurnCards:      summary.HighChurnCards,
		ChurnRate:           summary.ChurnRate,
	})
}
