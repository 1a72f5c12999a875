package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/metrics"
)

type EvaluationRepository interface {
	GetCycle(ctx context.Context, cycleID string) (*domain.ReviewCycle, error)
	// Upsert stores the evaluation keyed by (cycle, reviewer), replacing any
	// previous scores in the same transaction. It returns the stored
	// evaluation id, which is the existing one on resubmission.
	Upsert(ctx context.Context, eval domain.Evaluation) (string, error)
}

type EvaluationDimensionRepository interface {
	ListActive(ctx context.Context) ([]domain.ReviewDimension, error)
}

// EvaluationService validates and stores rater submissions.
type EvaluationService struct {
	access      *AccessService
	evaluations EvaluationRepository
	dimensions  EvaluationDimensionRepository
	metrics     *metrics.Metrics
}

func NewEvaluationService(
	access *AccessService,
	evaluations EvaluationRepository,
	dimensions EvaluationDimensionRepository,
	m *metrics.Metrics,
) *EvaluationService {
	return &EvaluationService{
		access:      access,
		evaluations: evaluations,
		dimensions:  dimensions,
		metrics:     m,
	}
}

// Submit stores one reviewer's scores for a cycle. Resubmission replaces the
// previous scores (last-write-wins).
func (s *EvaluationService) Submit(ctx context.Context, userID, cycleID string, scores []domain.DimensionScore) (string, error) {
	accessCtx, err := s.access.Resolve(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := domain.RequireEvaluator(accessCtx); err != nil {
		return "", err
	}

	if cycleID == "" {
		return "", domain.NewDomainError(domain.ErrorCodeValidation, "cycle id is required")
	}
	if len(scores) == 0 {
		return "", domain.NewDomainError(domain.ErrorCodeValidation, "at least one score is required")
	}

	cycle, err := s.evaluations.GetCycle(ctx, cycleID)
	if err != nil {
		return "", fmt.Errorf("get cycle: %w", err)
	}
	if cycle == nil {
		return "", domain.NewDomainError(domain.ErrorCodeNotFound, "review cycle not found")
	}
	if cycle.IsLocked() {
		return "", domain.NewDomainError(domain.ErrorCodeCycleLocked, "cycle is locked, scores are immutable")
	}

	dims, err := s.dimensions.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("list dimensions: %w", err)
	}
	if err := validateScores(scores, dims, accessCtx); err != nil {
		return "", err
	}

	id, err := s.evaluations.Upsert(ctx, domain.Evaluation{
		ID:         uuid.NewString(),
		CycleID:    cycleID,
		ReviewerID: accessCtx.UserID,
		Scores:     scores,
	})
	if err != nil {
		return "", fmt.Errorf("upsert evaluation: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordEvaluation()
	}

	return id, nil
}

// validateScores checks every submitted value against the closed score set,
// the active dimension catalog and the rater's dimension visibility.
// NOT_APPLICABLE is accepted for any active dimension regardless of role
// restrictions.
func validateScores(scores []domain.DimensionScore, dims []domain.ReviewDimension, accessCtx domain.AccessContext) error {
	byID := make(map[string]domain.ReviewDimension, len(dims))
	for _, d := range dims {
		byID[d.ID] = d
	}

	seen := make(map[string]bool, len(scores))
	for _, score := range scores {
		if score.DimensionID == "" {
			return domain.NewDomainError(domain.ErrorCodeValidation, "score dimension id is required")
		}
		if seen[score.DimensionID] {
			return domain.NewDomainError(domain.ErrorCodeValidation,
				fmt.Sprintf("duplicate score for dimension %s", score.DimensionID))
		}
		seen[score.DimensionID] = true

		if !score.Value.Valid() {
			return domain.NewDomainError(domain.ErrorCodeValidation,
				fmt.Sprintf("unknown score value %q", score.Value))
		}

		dim, ok := byID[score.DimensionID]
		if !ok {
			return domain.NewDomainError(domain.ErrorCodeNotFound,
				fmt.Sprintf("dimension %s not found", score.DimensionID))
		}
		if score.Value != domain.ScoreNotApplicable && !domain.DimensionVisibleTo(dim, accessCtx) {
			return domain.NewDomainError(domain.ErrorCodeValidation,
				fmt.Sprintf("dimension %s is not available to the submitting rater", score.DimensionID))
		}
	}
	return nil
}
