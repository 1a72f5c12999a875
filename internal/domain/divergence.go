package domain

import "math"

// DefaultDivergenceThreshold is the minimal absolute difference between two
// role averages, on the 1-3 scale, that raises a flag.
const DefaultDivergenceThreshold = 2.0

// RoleDimensionAverage is one role's pre-aggregated average for one
// dimension. A nil average or zero count means the role never scored the
// dimension and is skipped, not treated as zero.
type RoleDimensionAverage struct {
	DimensionID string
	Role        EvaluatorRole
	Average     *float64
	Count       int
}

// DivergenceFlag signals that two evaluator roles scored the same dimension
// very differently. DimensionName is filled by the summary builder.
type DivergenceFlag struct {
	DimensionID   string
	DimensionName string
	RoleA         EvaluatorRole
	RoleB         EvaluatorRole
	AverageA      float64
	AverageB      float64
	Difference    float64
}

// DetectDivergence compares per-role averages pairwise per dimension and
// flags every unordered role pair whose averages differ by at least
// threshold. Dimensions keep their first-seen order; pairs follow the
// canonical role order.
func DetectDivergence(entries []RoleDimensionAverage, threshold float64) []DivergenceFlag {
	byDimension := make(map[string]map[EvaluatorRole]RoleDimensionAverage)
	var dimensionOrder []string

	for _, e := range entries {
		if e.Average == nil || e.Count <= 0 {
			continue
		}
		roles, ok := byDimension[e.DimensionID]
		if !ok {
			roles = make(map[EvaluatorRole]RoleDimensionAverage, len(AllEvaluatorRoles))
			byDimension[e.DimensionID] = roles
			dimensionOrder = append(dimensionOrder, e.DimensionID)
		}
		roles[e.Role] = e
	}

	var flags []DivergenceFlag
	for _, dimID := range dimensionOrder {
		roles := byDimension[dimID]
		for i := 0; i < len(AllEvaluatorRoles); i++ {
			for j := i + 1; j < len(AllEvaluatorRoles); j++ {
				a, okA := roles[AllEvaluatorRoles[i]]
				b, okB := roles[AllEvaluatorRoles[j]]
				if !okA || !okB {
					continue
				}
				diff := math.Abs(*a.Average - *b.Average)
				if diff < threshold {
					continue
				}
				flags = append(flags, DivergenceFlag{
					DimensionID: dimID,
					RoleA:       a.Role,
					RoleB:       b.Role,
					AverageA:    *a.Average,
					AverageB:    *b.Average,
					Difference:  diff,
				})
			}
		}
	}
	return flags
}
