package domain

// Sample-size boundaries for confidence buckets.
const (
	amberSampleSize = 5
	greenSampleSize = 20
)

// Quality tier boundaries on the 1-3 scale, closed below.
const (
	tierHighFloor   = 2.5
	tierMediumFloor = 1.5
)

// ConfidenceFromSampleSize buckets a sample size into RED (<5),
// AMBER (5-19) or GREEN (>=20).
func ConfidenceFromSampleSize(n int) Confidence {
	switch {
	case n >= greenSampleSize:
		return ConfidenceGreen
	case n >= amberSampleSize:
		return ConfidenceAmber
	default:
		return ConfidenceRed
	}
}

// DimensionAggregate is the numeric summary of one dimension's scores.
// Average is nil when no applicable scores exist, which is distinct from an
// average of low scores.
type DimensionAggregate struct {
	DimensionID string
	Average     *float64
	Count       int
	Confidence  Confidence
}

// AggregateDimensionScores groups raw scores by dimension and averages them
// on the 1-3 scale. NOT_APPLICABLE answers are excluded, so a dimension
// scored only NOT_APPLICABLE aggregates to a nil average with count 0.
// Malformed score values are skipped rather than failing the whole summary.
func AggregateDimensionScores(scores []DimensionScore) map[string]DimensionAggregate {
	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[string]*acc)

	for _, s := range scores {
		if s.DimensionID == "" {
			continue
		}
		a, ok := sums[s.DimensionID]
		if !ok {
			a = &acc{}
			sums[s.DimensionID] = a
		}
		if v, applicable := s.Value.Numeric(); applicable {
			a.sum += v
			a.count++
		}
	}

	out := make(map[string]DimensionAggregate, len(sums))
	for id, a := range sums {
		agg := DimensionAggregate{
			DimensionID: id,
			Count:       a.count,
			Confidence:  ConfidenceFromSampleSize(a.count),
		}
		if a.count > 0 {
			avg := a.sum / float64(a.count)
			agg.Average = &avg
		}
		out[id] = agg
	}
	return out
}

// ComputeOverallAverage returns the unweighted mean of the non-nil dimension
// averages, or nil when none are present.
func ComputeOverallAverage(averages []*float64) *float64 {
	var sum float64
	var count int
	for _, avg := range averages {
		if avg == nil {
			continue
		}
		sum += *avg
		count++
	}
	if count == 0 {
		return nil
	}
	overall := sum / float64(count)
	return &overall
}

// QualityTierFromAverage classifies an overall average. Boundaries are
// closed below: exactly 2.5 is HIGH, exactly 1.5 is MEDIUM.
func QualityTierFromAverage(avg *float64) QualityTier {
	switch {
	case avg == nil:
		return TierUnscored
	case *avg >= tierHighFloor:
		return TierHigh
	case *avg >= tierMediumFloor:
		return TierMedium
	default:
		return TierLow
	}
}
