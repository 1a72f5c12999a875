package domain

import "time"

// ListViewType distinguishes task-tracking lists from other board views
// (timelines, dashboards). Only task-tracking lists take part in
// review/done classification.
type ListViewType string

const (
	ListViewTypeTasks    ListViewType = "TASKS"
	ListViewTypeTimeline ListViewType = "TIMELINE"
	ListViewTypeNotes    ListViewType = "NOTES"
)

// ListPhase is an optional workflow tag the board layer attaches to a list.
type ListPhase string

const (
	ListPhaseNone ListPhase = ""
	ListPhaseDone ListPhase = "DONE"
)

// ListRef is the read-only projection of a board list the engine receives
// inside a card-transition event. Lists are owned by the board layer.
type ListRef struct {
	ID       string
	Name     string
	Phase    ListPhase
	ViewType ListViewType
}

// BoardSettings carries the board-level configuration relevant to the engine.
// ReviewListIDs, when non-empty, decides review classification exclusively.
type BoardSettings struct {
	ReviewListIDs []string
}

// ReviewCycle is one open-to-closed span during which a card sits in a
// review list and collects evaluations.
type ReviewCycle struct {
	ID          string
	CardID      string
	ProjectID   string
	CycleNumber int
	OpenedAt    time.Time
	ClosedAt    *time.Time
	IsFinal     bool
	LockedAt    *time.Time
}

// IsOpen reports whether the cycle is still collecting evaluations.
func (c ReviewCycle) IsOpen() bool {
	return c.ClosedAt == nil
}

// IsLocked reports whether the cycle's scores are currently immutable.
func (c ReviewCycle) IsLocked() bool {
	return c.LockedAt != nil
}

// Evaluation is one reviewer's submission for one cycle. A reviewer has at
// most one evaluation per cycle; resubmission replaces the previous scores.
type Evaluation struct {
	ID         string
	CycleID    string
	ReviewerID string
	Scores     []DimensionScore
}

// DimensionScore is a single ordinal answer for one dimension.
type DimensionScore struct {
	DimensionID string
	Value       ScoreValue
}

// ScoreValue is the closed set of ordinal answers a rater may give.
type ScoreValue string

const (
	ScoreLow           ScoreValue = "LOW"
	ScoreMedium        ScoreValue = "MEDIUM"
	ScoreHigh          ScoreValue = "HIGH"
	ScoreNotApplicable ScoreValue = "NOT_APPLICABLE"
)

// Valid reports whether v is one of the allowed score values.
func (v ScoreValue) Valid() bool {
	switch v {
	case ScoreLow, ScoreMedium, ScoreHigh, ScoreNotApplicable:
		return true
	}
	return false
}

// Numeric maps an ordinal value onto the 1-3 scale. NOT_APPLICABLE carries
// no numeric weight and is excluded from every aggregate.
func (v ScoreValue) Numeric() (float64, bool) {
	switch v {
	case ScoreLow:
		return 1, true
	case ScoreMedium:
		return 2, true
	case ScoreHigh:
		return 3, true
	}
	return 0, false
}

// ReviewDimension is one scored axis of quality. An empty Roles set means the
// dimension is visible to every evaluator role.
type ReviewDimension struct {
	ID          string
	Name        string
	Description string
	Position    int
	IsActive    bool
	Roles       []EvaluatorRole
}

// EvaluatorRole is a coarse rater category derived from organizational role
// names. Roles are computed, never stored on the user.
type EvaluatorRole string

const (
	RoleLead             EvaluatorRole = "LEAD"
	RoleProductOwner     EvaluatorRole = "PRODUCT_OWNER"
	RoleHeadOfDepartment EvaluatorRole = "HEAD_OF_DEPARTMENT"
)

// AllEvaluatorRoles lists the closed role set in canonical order.
var AllEvaluatorRoles = []EvaluatorRole{RoleLead, RoleProductOwner, RoleHeadOfDepartment}

// ValidEvaluatorRole reports whether r belongs to the closed role set.
func ValidEvaluatorRole(r EvaluatorRole) bool {
	switch r {
	case RoleLead, RoleProductOwner, RoleHeadOfDepartment:
		return true
	}
	return false
}

// Permission is the board permission ladder, ascending.
type Permission string

const (
	PermissionViewer     Permission = "VIEWER"
	PermissionMember     Permission = "MEMBER"
	PermissionAdmin      Permission = "ADMIN"
	PermissionSuperAdmin Permission = "SUPER_ADMIN"
)

var permissionRank = map[Permission]int{
	PermissionViewer:     0,
	PermissionMember:     1,
	PermissionAdmin:      2,
	PermissionSuperAdmin: 3,
}

// Valid reports whether p is a known permission level.
func (p Permission) Valid() bool {
	_, ok := permissionRank[p]
	return ok
}

// AtLeast reports whether p grants at least the level of other.
func (p Permission) AtLeast(other Permission) bool {
	return permissionRank[p] >= permissionRank[other]
}

// BoardUser is the engine's projection of a board member: identity,
// permission level and the free-text organizational role names evaluator
// roles are resolved from.
type BoardUser struct {
	ID         string
	Username   string
	Permission Permission
	RoleNames  []string
}

// Confidence is the sample-size reliability bucket of an aggregate.
type Confidence string

const (
	ConfidenceRed   Confidence = "RED"
	ConfidenceAmber Confidence = "AMBER"
	ConfidenceGreen Confidence = "GREEN"
)

// QualityTier is the coarse classification of an overall average.
type QualityTier string

const (
	TierUnscored QualityTier = "UNSCORED"
	TierLow      QualityTier = "LOW"
	TierMedium   QualityTier = "MEDIUM"
	TierHigh     QualityTier = "HIGH"
)

// TransitionResult reports what a single card-list move did to the card's
// cycle chain. The classification booleans and the applied effects are
// independent; several may combine in one move.
type TransitionResult struct {
	EnteredReview    bool
	LeftReview       bool
	MovedToDone      bool
	ReopenedFromDone bool

	CycleOpened      bool
	CycleClosed      bool
	TransientDeleted bool
	Locked           bool
	Unlocked         bool

	OpenedCycleID string
	ClosedCycleID string
	FinalCycleID  string
}
