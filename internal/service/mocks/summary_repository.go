package mocks

import (
	"context"

	"github.com/velles/review-cycle-service/internal/domain"
)

type MockSummaryRepository struct {
	GetCycleResult     *domain.ReviewCycle
	GetCycleErr        error
	EvaluationsResult  []domain.Evaluation
	EvaluationsErr     error
	RoleNamesResult    map[string][]string
	RoleNamesErr       error
	FinalCyclesResult  []domain.ReviewCycle
	FinalCyclesErr     error
	EvalsByCycleResult map[string][]domain.Evaluation
	EvalsByCycleErr    error
	CycleCountsResult  map[string]int
	CycleCountsErr     error
}

func (m *MockSummaryRepository) GetCycle(ctx context.Context, cycleID string) (*domain.ReviewCycle, error) {
	return m.GetCycleResult, m.GetCycleErr
}

func (m *MockSummaryRepository) ListEvaluations(ctx context.Context, cycleID string) ([]domain.Evaluation, error) {
	return m.EvaluationsResult, m.EvaluationsErr
}

func (m *MockSummaryRepository) ListReviewerRoleNames(ctx context.Context, reviewerIDs []string) (map[string][]string, error) {
	return m.RoleNamesResult, m.RoleNamesErr
}

func (m *MockSummaryRepository) ListFinalCycles(ctx context.Context, projectID string) ([]domain.ReviewCycle, error) {
	return m.FinalCyclesResult, m.FinalCyclesErr
}

func (m *MockSummaryRepository) ListEvaluationsForCycles(ctx context.Context, cycleIDs []string) (map[string][]domain.Evaluation, error) {
	return m.EvalsByCycleResult, m.EvalsByCycleErr
}

func (m *MockSummaryRepository) CycleCountsByCard(ctx context.Context, projectID string) (map[string]int, error) {
	return m.CycleCountsResult, m.CycleCountsErr
}
