package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/velles/review-cycle-service/internal/domain"
)

type SummaryRepository interface {
	GetCycle(ctx context.Context, cycleID string) (*domain.ReviewCycle, error)
	ListEvaluations(ctx context.Context, cycleID string) ([]domain.Evaluation, error)
	// ListReviewerRoleNames returns the stored organizational role names for
	// the given reviewers, keyed by reviewer id.
	ListReviewerRoleNames(ctx context.Context, reviewerIDs []string) (map[string][]string, error)
	// ListFinalCycles returns every cycle marked final across the project's
	// cards.
	ListFinalCycles(ctx context.Context, projectID string) ([]domain.ReviewCycle, error)
	ListEvaluationsForCycles(ctx context.Context, cycleIDs []string) (map[string][]domain.Evaluation, error)
	// CycleCountsByCard returns the total cycle count per card for a project.
	CycleCountsByCard(ctx context.Context, projectID string) (map[string]int, error)
}

// DimensionSummary is one dimension's aggregate inside a summary read model.
type DimensionSummary struct {
	DimensionID string
	Name        string
	Average     *float64
	Count       int
	Confidence  domain.Confidence
}

// CycleSummary is the full read model for one review cycle.
type CycleSummary struct {
	CycleID        string
	CardID         string
	CycleNumber    int
	OpenedAt       time.Time
	ClosedAt       *time.Time
	IsFinal        bool
	Locked         bool
	Evaluations    int
	Dimensions     []DimensionSummary
	OverallAverage *float64
	Tier           domain.QualityTier
	Divergence     []domain.DivergenceFlag
}

// ProjectSummary aggregates across every card's final cycle in a project.
type ProjectSummary struct {
	ProjectID           string
	CardsWithFinalCycle int
	TierDistribution    map[domain.QualityTier]int
	Dimensions          []DimensionSummary
	AverageCyclesToDone *float64
	HighChurnCycles     int
	HighChurnCards      int
	ChurnRate           float64
}

// SummaryService composes the aggregation engine, the divergence detector
// and the access gate into cycle- and project-level read models. Reads are
// lock-free and may observe a slightly stale cycle set.
type SummaryService struct {
	access              *AccessService
	summaries           SummaryRepository
	dimensions          EvaluationDimensionRepository
	divergenceThreshold float64
	highChurnCycles     int
}

func NewSummaryService(
	access *AccessService,
	summaries SummaryRepository,
	dimensions EvaluationDimensionRepository,
	divergenceThreshold float64,
	highChurnCycles int,
) *SummaryService {
	return &SummaryService{
		access:              access,
		summaries:           summaries,
		dimensions:          dimensions,
		divergenceThreshold: divergenceThreshold,
		highChurnCycles:     highChurnCycles,
	}
}

// CycleSummary builds the anonymized read model for one cycle.
func (s *SummaryService) CycleSummary(ctx context.Context, userID, cycleID string) (*CycleSummary, error) {
	accessCtx, err := s.access.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireSummaryViewer(accessCtx); err != nil {
		return nil, err
	}

	cycle, err := s.summaries.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("get cycle: %w", err)
	}
	if cycle == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeNotFound, "review cycle not found")
	}

	evals, err := s.summaries.ListEvaluations(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	dims, err := s.orderedDimensions(ctx)
	if err != nil {
		return nil, err
	}

	flat := flattenScores(evals)
	dimSummaries, overall := summarizeDimensions(dims, flat)

	divergence, err := s.detectCycleDivergence(ctx, evals, dims)
	if err != nil {
		return nil, err
	}

	return &CycleSummary{
		CycleID:        cycle.ID,
		CardID:         cycle.CardID,
		CycleNumber:    cycle.CycleNumber,
		OpenedAt:       cycle.OpenedAt,
		ClosedAt:       cycle.ClosedAt,
		IsFinal:        cycle.IsFinal,
		Locked:         cycle.IsLocked(),
		Evaluations:    len(evals),
		Dimensions:     dimSummaries,
		OverallAverage: overall,
		Tier:           domain.QualityTierFromAverage(overall),
		Divergence:     divergence,
	}, nil
}

// ProjectSummary builds the project-wide read model across final cycles.
func (s *SummaryService) ProjectSummary(ctx context.Context, userID, projectID string) (*ProjectSummary, error) {
	accessCtx, err := s.access.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireSummaryViewer(accessCtx); err != nil {
		return nil, err
	}
	if projectID == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidation, "project id is required")
	}

	finalCycles, err := s.summaries.ListFinalCycles(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list final cycles: %w", err)
	}

	summary := &ProjectSummary{
		ProjectID:           projectID,
		CardsWithFinalCycle: len(finalCycles),
		TierDistribution:    make(map[domain.QualityTier]int),
		HighChurnCycles:     s.highChurnCycles,
	}

	dims, err := s.orderedDimensions(ctx)
	if err != nil {
		return nil, err
	}

	cycleIDs := make([]string, 0, len(finalCycles))
	for _, c := range finalCycles {
		cycleIDs = append(cycleIDs, c.ID)
	}

	evalsByCycle := map[string][]domain.Evaluation{}
	if len(cycleIDs) > 0 {
		evalsByCycle, err = s.summaries.ListEvaluationsForCycles(ctx, cycleIDs)
		if err != nil {
			return nil, fmt.Errorf("list evaluations for cycles: %w", err)
		}
	}

	var allScores []domain.DimensionScore
	for _, c := range finalCycles {
		flat := flattenScores(evalsByCycle[c.ID])
		allScores = append(allScores, flat...)

		_, overall := summarizeDimensions(dims, flat)
		summary.TierDistribution[domain.QualityTierFromAverage(overall)]++
	}

	summary.Dimensions, _ = summarizeDimensions(dims, allScores)

	counts, err := s.summaries.CycleCountsByCard(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("cycle counts by card: %w", err)
	}

	var cycleSum, doneCards int
	for _, c := range finalCycles {
		n, ok := counts[c.CardID]
		if !ok {
			continue
		}
		cycleSum += n
		doneCards++
		if n >= s.highChurnCycles {
			summary.HighChurnCards++
		}
	}
	if doneCards > 0 {
		avg := float64(cycleSum) / float64(doneCards)
		summary.AverageCyclesToDone = &avg
		summary.ChurnRate = float64(summary.HighChurnCards) / float64(doneCards)
	}

	return summary, nil
}

func (s *SummaryService) orderedDimensions(ctx context.Context) ([]domain.ReviewDimension, error) {
	dims, err := s.dimensions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dimensions: %w", err)
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].Position < dims[j].Position })
	return dims, nil
}

// detectCycleDivergence buckets every individual score by (dimension,
// evaluator role) and runs the divergence detector over the per-role
// averages. A reviewer holding several roles contributes to each of them.
func (s *SummaryService) detectCycleDivergence(ctx context.Context, evals []domain.Evaluation, dims []domain.ReviewDimension) ([]domain.DivergenceFlag, error) {
	if len(evals) == 0 {
		return nil, nil
	}

	reviewerIDs := make([]string, 0, len(evals))
	for _, e := range evals {
		reviewerIDs = append(reviewerIDs, e.ReviewerID)
	}
	roleNames, err := s.summaries.ListReviewerRoleNames(ctx, reviewerIDs)
	if err != nil {
		return nil, fmt.Errorf("list reviewer role names: %w", err)
	}

	type bucket struct {
		sum   float64
		count int
	}
	type key struct {
		dimensionID string
		role        domain.EvaluatorRole
	}
	buckets := make(map[key]*bucket)

	for _, e := range evals {
		roles := s.access.ResolveRoles(roleNames[e.ReviewerID])
		if len(roles) == 0 {
			continue
		}
		for _, score := range e.Scores {
			v, applicable := score.Value.Numeric()
			if !applicable {
				continue
			}
			for _, role := range roles {
				k := key{dimensionID: score.DimensionID, role: role}
				b, ok := buckets[k]
				if !ok {
					b = &bucket{}
					buckets[k] = b
				}
				b.sum += v
				b.count++
			}
		}
	}

	names := make(map[string]string, len(dims))
	var entries []domain.RoleDimensionAverage
	for _, d := range dims {
		names[d.ID] = d.Name
		for _, role := range domain.AllEvaluatorRoles {
			b, ok := buckets[key{dimensionID: d.ID, role: role}]
			if !ok || b.count == 0 {
				continue
			}
			avg := b.sum / float64(b.count)
			entries = append(entries, domain.RoleDimensionAverage{
				DimensionID: d.ID,
				Role:        role,
				Average:     &avg,
				Count:       b.count,
			})
		}
	}

	flags := domain.DetectDivergence(entries, s.divergenceThreshold)
	for i := range flags {
		flags[i].DimensionName = names[flags[i].DimensionID]
	}
	return flags, nil
}

func flattenScores(evals []domain.Evaluation) []domain.DimensionScore {
	var flat []domain.DimensionScore
	for _, e := range evals {
		flat = append(flat, e.Scores...)
	}
	return flat
}

// summarizeDimensions runs the aggregation engine over the flat score list
// and lays the results out in dimension display order. Dimensions without
// scores still appear, unscored.
func summarizeDimensions(dims []domain.ReviewDimension, scores []domain.DimensionScore) ([]DimensionSummary, *float64) {
	aggs := domain.AggregateDimensionScores(scores)

	summaries := make([]DimensionSummary, 0, len(dims))
	averages := make([]*float64, 0, len(dims))
	for _, d := range dims {
		agg, ok := aggs[d.ID]
		if !ok {
			agg = domain.DimensionAggregate{
				DimensionID: d.ID,
				Confidence:  domain.ConfidenceFromSampleSize(0),
			}
		}
		summaries = append(summaries, DimensionSummary{
			DimensionID: d.ID,
			Name:        d.Name,
			Average:     agg.Average,
			Count:       agg.Count,
			Confidence:  agg.Confidence,
		})
		averages = append(averages, agg.Average)
	}

	return summaries, domain.ComputeOverallAverage(averages)
}
