package domain

import "testing"

func TestIsReviewList(t *testing.T) {
	policy := DefaultListNamePolicy()

	tests := []struct {
		name          string
		list          ListRef
		reviewListIDs []string
		want          bool
	}{
		{
			name: "имя содержит review",
			list: ListRef{ID: "l1", Name: "Code Review", ViewType: ListViewTypeTasks},
			want: true,
		},
		{
			name: "имя без подсказок",
			list: ListRef{ID: "l1", Name: "In Progress", ViewType: ListViewTypeTasks},
			want: false,
		},
		{
			name: "не task-tracking список",
			list: ListRef{ID: "l1", Name: "Review", ViewType: ListViewTypeTimeline},
			want: false,
		},
		{
			name:          "явный override решает положительно",
			list:          ListRef{ID: "l2", Name: "QA", ViewType: ListViewTypeTasks},
			reviewListIDs: []string{"l2", "l3"},
			want:          true,
		},
		{
			name:          "явный override решает отрицательно, имя игнорируется",
			list:          ListRef{ID: "l1", Name: "Review", ViewType: ListViewTypeTasks},
			reviewListIDs: []string{"l2"},
			want:          false,
		},
		{
			name:          "override не распространяется на другие виды списков",
			list:          ListRef{ID: "l2", Name: "QA", ViewType: ListViewTypeNotes},
			reviewListIDs: []string{"l2"},
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsReviewList(tt.list, tt.reviewListIDs, policy)
			if got != tt.want {
				t.Errorf("IsReviewList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDoneList(t *testing.T) {
	policy := DefaultListNamePolicy()

	tests := []struct {
		name string
		list ListRef
		want bool
	}{
		{
			name: "фаза DONE",
			list: ListRef{ID: "l1", Name: "Sprint 3", Phase: ListPhaseDone, ViewType: ListViewTypeTasks},
			want: true,
		},
		{
			name: "имя Done",
			list: ListRef{ID: "l1", Name: "Done", ViewType: ListViewTypeTasks},
			want: true,
		},
		{
			name: "имя Completed",
			list: ListRef{ID: "l1", Name: "Completed tasks", ViewType: ListViewTypeTasks},
			want: true,
		},
		{
			name: "имя Finished",
			list: ListRef{ID: "l1", Name: "FINISHED", ViewType: ListViewTypeTasks},
			want: true,
		},
		{
			name: "обычный список",
			list: ListRef{ID: "l1", Name: "Backlog", ViewType: ListViewTypeTasks},
			want: false,
		},
		{
			name: "не task-tracking список с фазой DONE",
			list: ListRef{ID: "l1", Name: "Done", Phase: ListPhaseDone, ViewType: ListViewTypeTimeline},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsDoneList(tt.list, policy)
			if got != tt.want {
				t.Errorf("IsDoneList() = %v, want %v", got, tt.want)
			}
		})
	}
}
