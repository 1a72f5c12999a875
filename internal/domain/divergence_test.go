package domain

import "testing"

func TestDetectDivergence(t *testing.T) {
	tests := []struct {
		name      string
		entries   []RoleDimensionAverage
		threshold float64
		wantFlags int
		check     func(t *testing.T, flags []DivergenceFlag)
	}{
		{
			name: "расхождение ровно на пороге флагуется",
			entries: []RoleDimensionAverage{
				{DimensionID: "d1", Role: RoleLead, Average: floatPtr(3), Count: 1},
				{DimensionID: "d1", Role: RoleProductOwner, Average: floatPtr(1), Count: 2},
			},
			threshold: 2,
			wantFlags: 1,
			check: func(t *testing.T, flags []DivergenceFlag) {
				f := flags[0]
				if f.RoleA != RoleLead || f.RoleB != RoleProductOwner {
					t.Errorf("unexpected role pair: %v vs %v", f.RoleA, f.RoleB)
				}
				if f.Difference != 2 {
					t.Errorf("Difference = %v, want 2", f.Difference)
				}
				if f.AverageA != 3 || f.AverageB != 1 {
					t.Errorf("averages = %v/%v, want 3/1", f.AverageA, f.AverageB)
				}
			},
		},
		{
			name: "расхождение ниже порога не флагуется",
			entries: []RoleDimensionAverage{
				{DimensionID: "d1", Role: RoleLead, Average: floatPtr(2), Count: 3},
				{DimensionID: "d1", Role: RoleProductOwner, Average: floatPtr(1.2), Count: 2},
			},
			threshold: 2,
			wantFlags: 0,
		},
		{
			name: "роль без оценок пропускается, не ноль",
			entries: []RoleDimensionAverage{
				{DimensionID: "d1", Role: RoleLead, Average: floatPtr(3), Count: 5},
				{DimensionID: "d1", Role: RoleProductOwner, Average: nil, Count: 0},
			},
			threshold: 2,
			wantFlags: 0,
		},
		{
			name: "нулевой count пропускается даже с average",
			entries: []RoleDimensionAverage{
				{DimensionID: "d1", Role: RoleLead, Average: floatPtr(3), Count: 1},
				{DimensionID: "d1", Role: RoleHeadOfDepartment, Average: floatPtr(1), Count: 0},
			},
			threshold: 2,
			wantFlags: 0,
		},
		{
			name: "все три пары одной размерности",
			entries: []RoleDimensionAverage{
				{DimensionID: "d1", Role: RoleLead, Average: floatPtr(3), Count: 1},
				{DimensionID: "d1", Role: RoleProductOwner, Average: floatPtr(1), Count: 1},
				{DimensionID: "d1", Role: RoleHeadOfDepartment, Average: floatPtr(1), Count: 1},
			},
			threshold: 2,
			wantFlags: 2,
		},
		{
			name: "разные размерности не сравниваются между собой",
			entries: []RoleDimensionAverage{
				{DimensionID: "d1", Role: RoleLead, Average: floatPtr(3), Count: 1},
				{DimensionID: "d2", Role: RoleProductOwner, Average: floatPtr(1), Count: 1},
			},
			threshold: 2,
			wantFlags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := DetectDivergence(tt.entries, tt.threshold)
			if len(flags) != tt.wantFlags {
				t.Fatalf("got %d flags, want %d: %+v", len(flags), tt.wantFlags, flags)
			}
			if tt.check != nil {
				tt.check(t, flags)
			}
		})
	}
}
