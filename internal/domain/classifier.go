package domain

import "strings"

// ListNamePolicy is the fallback classification policy for boards whose
// owners never configure explicit review lists. It is deliberately a single
// value rather than loose string matching so the heuristic stays in one
// place and can be swapped in tests.
type ListNamePolicy struct {
	ReviewHints []string
	DoneHints   []string
}

// DefaultListNamePolicy returns the stock name heuristics.
func DefaultListNamePolicy() ListNamePolicy {
	return ListNamePolicy{
		ReviewHints: []string{"review"},
		DoneHints:   []string{"done", "complete", "completed", "finished"},
	}
}

// IsReviewList reports whether list is a review stage. A non-empty explicit
// override set decides exclusively; the name heuristic applies only when no
// override is configured. Non-task-tracking lists are never review lists.
func IsReviewList(list ListRef, reviewListIDs []string, policy ListNamePolicy) bool {
	if list.ViewType != ListViewTypeTasks {
		return false
	}

	if len(reviewListIDs) > 0 {
		for _, id := range reviewListIDs {
			if id == list.ID {
				return true
			}
		}
		return false
	}

	return nameContainsAny(list.Name, policy.ReviewHints)
}

// IsDoneList reports whether list is a done stage: either its phase tag is
// the canonical done phase or its name matches the done heuristics.
func IsDoneList(list ListRef, policy ListNamePolicy) bool {
	if list.ViewType != ListViewTypeTasks {
		return false
	}

	if list.Phase == ListPhaseDone {
		return true
	}

	return nameContainsAny(list.Name, policy.DoneHints)
}

func nameContainsAny(name string, hints []string) bool {
	lower := strings.ToLower(name)
	for _, hint := range hints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
