package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/service"
)

type listRefDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phase    string `json:"phase,omitempty"`
	ViewType string `json:"view_type"`
}

func (d listRefDTO) toDomain() domain.ListRef {
	return domain.ListRef{
		ID:       d.ID,
		Name:     d.Name,
		Phase:    domain.ListPhase(d.Phase),
		ViewType: domain.ListViewType(d.ViewType),
	}
}

type cardTransitionRequest struct {
	CardID        string     `json:"card_id"`
	ProjectID     string     `json:"project_id"`
	From          listRefDTO `json:"from"`
	To            listRefDTO `json:"to"`
	ReviewListIDs []string   `json:"review_list_ids,omitempty"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
}

type cardTransitionResponse struct {
	EnteredReview    bool `json:"entered_review"`
	LeftReview       bool `json:"left_review"`
	MovedToDone      bool `json:"moved_to_done"`
	ReopenedFromDone bool `json:"reopened_from_done"`

	CycleOpened      bool `json:"cycle_opened"`
	CycleClosed      bool `json:"cycle_closed"`
	TransientDeleted bool `json:"transient_deleted"`
	Locked           bool `json:"locked"`
	Unlocked         bool `json:"unlocked"`

	OpenedCycleID string `json:"opened_cycle_id,omitempty"`
	ClosedCycleID string `json:"closed_cycle_id,omitempty"`
	FinalCycleID  string `json:"final_cycle_id,omitempty"`
}

func (s *Server) HandleCardTransition(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req cardTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeValidation, "invalid JSON body")
		return
	}

	ev := service.TransitionEvent{
		CardID:        req.CardID,
		ProjectID:     req.ProjectID,
		From:          req.From.toDomain(),
		To:            req.To.toDomain(),
		BoardSettings: domain.BoardSettings{ReviewListIDs: req.ReviewListIDs},
		Now:           req.OccurredAt,
	}

	res, err := s.app.Lifecycle.ApplyTransition(r.Context(), ev)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, cardTransitionResponse{
		EnteredReview:    res.EnteredReview,
		LeftReview:       res.LeftReview,
		MovedToDone:      res.MovedToDone,
		ReopenedFromDone: res.ReopenedFromDone,
		CycleOpened:      res.CycleOpened,
		CycleClosed:      res.CycleClosed,
		TransientDeleted: res.TransientDeleted,
		Locked:           res.Locked,
		Unlocked:         res.Unlocked,
		OpenedCycleID:    res.OpenedCycleID,
		ClosedCycleID:    res.ClosedCycleID,
		FinalCycleID:     res.FinalCycleID,
	})
}
