package mocks

import (
	"context"

	"github.com/velles/review-cycle-service/internal/domain"
)

type MockEvaluationRepository struct {
	GetCycleResult *domain.ReviewCycle
	GetCycleErr    error
	UpsertID       string
	UpsertErr      error
	LastUpsert     *domain.Evaluation
}

func (m *MockEvaluationRepository) GetCycle(ctx context.Context, cycleID string) (*domain.ReviewCycle, error) {
	return m.GetCycleResult, m.GetCycleErr
}

func (m *MockEvaluationRepository) Upsert(ctx context.Context, eval domain.Evaluation) (string, error) {
	if m.UpsertErr != nil {
		return "", m.UpsertErr
	}
	m.LastUpsert = &eval
	if m.UpsertID != "" {
		return m.UpsertID, nil
	}
	return eval.ID, nil
}
