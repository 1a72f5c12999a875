package domain

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestConfidenceFromSampleSize(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want Confidence
	}{
		{name: "ноль", n: 0, want: ConfidenceRed},
		{name: "граница RED сверху", n: 4, want: ConfidenceRed},
		{name: "граница AMBER снизу", n: 5, want: ConfidenceAmber},
		{name: "граница AMBER сверху", n: 19, want: ConfidenceAmber},
		{name: "граница GREEN снизу", n: 20, want: ConfidenceGreen},
		{name: "большая выборка", n: 1000, want: ConfidenceGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfidenceFromSampleSize(tt.n); got != tt.want {
				t.Errorf("ConfidenceFromSampleSize(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestAggregateDimensionScores(t *testing.T) {
	scores := []DimensionScore{
		{DimensionID: "d1", Value: ScoreHigh},
		{DimensionID: "d1", Value: ScoreLow},
		{DimensionID: "d1", Value: ScoreNotApplicable},
		{DimensionID: "d2", Value: ScoreNotApplicable},
		{DimensionID: "d3", Value: ScoreMedium},
	}

	aggs := AggregateDimensionScores(scores)

	d1 := aggs["d1"]
	if d1.Count != 2 {
		t.Errorf("d1.Count = %d, want 2", d1.Count)
	}
	if d1.Average == nil || *d1.Average != 2 {
		t.Errorf("d1.Average = %v, want 2", d1.Average)
	}
	if d1.Confidence != ConfidenceRed {
		t.Errorf("d1.Confidence = %v, want RED", d1.Confidence)
	}

	// Только NOT_APPLICABLE: average = nil, count = 0.
	d2 := aggs["d2"]
	if d2.Count != 0 {
		t.Errorf("d2.Count = %d, want 0", d2.Count)
	}
	if d2.Average != nil {
		t.Errorf("d2.Average = %v, want nil", *d2.Average)
	}

	d3 := aggs["d3"]
	if d3.Average == nil || *d3.Average != 2 {
		t.Errorf("d3.Average = %v, want 2", d3.Average)
	}

	for id, agg := range aggs {
		if agg.Average != nil && (*agg.Average < 1 || *agg.Average > 3) {
			t.Errorf("average for %s out of [1,3]: %v", id, *agg.Average)
		}
	}
}

func TestAggregateDimensionScores_MalformedValuesSkipped(t *testing.T) {
	aggs := AggregateDimensionScores([]DimensionScore{
		{DimensionID: "d1", Value: ScoreValue("BOGUS")},
		{DimensionID: "d1", Value: ScoreHigh},
	})

	d1 := aggs["d1"]
	if d1.Count != 1 {
		t.Errorf("d1.Count = %d, want 1", d1.Count)
	}
	if d1.Average == nil || *d1.Average != 3 {
		t.Errorf("d1.Average = %v, want 3", d1.Average)
	}
}

func TestComputeOverallAverage(t *testing.T) {
	tests := []struct {
		name     string
		averages []*float64
		want     *float64
	}{
		{
			name:     "среднее непустых значений",
			averages: []*float64{floatPtr(1), floatPtr(3), nil, floatPtr(2)},
			want:     floatPtr(2),
		},
		{
			name:     "все nil",
			averages: []*float64{nil, nil},
			want:     nil,
		},
		{
			name:     "пустой вход",
			averages: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOverallAverage(tt.averages)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ComputeOverallAverage() = %v, want %v", got, tt.want)
			}
			if got != nil {
				if math.IsNaN(*got) {
					t.Fatal("ComputeOverallAverage() returned NaN")
				}
				if *got != *tt.want {
					t.Errorf("ComputeOverallAverage() = %v, want %v", *got, *tt.want)
				}
			}
		})
	}
}

func TestQualityTierFromAverage(t *testing.T) {
	tests := []struct {
		name string
		avg  *float64
		want QualityTier
	}{
		{name: "nil — UNSCORED", avg: nil, want: TierUnscored},
		{name: "ровно 2.5 — HIGH", avg: floatPtr(2.5), want: TierHigh},
		{name: "максимум", avg: floatPtr(3), want: TierHigh},
		{name: "ровно 1.5 — MEDIUM", avg: floatPtr(1.5), want: TierMedium},
		{name: "чуть ниже 2.5 — MEDIUM", avg: floatPtr(2.49), want: TierMedium},
		{name: "ниже 1.5 — LOW", avg: floatPtr(1.2), want: TierLow},
		{name: "минимум", avg: floatPtr(1), want: TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QualityTierFromAverage(tt.avg); got != tt.want {
				t.Errorf("QualityTierFromAverage(%v) = %v, want %v", tt.avg, got, tt.want)
			}
		})
	}
}
