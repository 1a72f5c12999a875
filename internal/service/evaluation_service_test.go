package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/service"
	"github.com/velles/review-cycle-service/internal/service/mocks"
)

func newAccessService(users map[string]*domain.BoardUser) *service.AccessService {
	return service.NewAccessService(&mocks.MockUserRepository{Users: users}, domain.DefaultRoleHints())
}

func requireDomainCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var de *domain.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError with code %s, got %v", code, err)
	}
	if de.Code != code {
		t.Errorf("code = %s, want %s", de.Code, code)
	}
}

func TestEvaluationService_Submit(t *testing.T) {
	lead := &domain.BoardUser{
		ID:         "u-lead",
		Username:   "lead",
		Permission: domain.PermissionMember,
		RoleNames:  []string{"Lead Artist"},
	}
	noRole := &domain.BoardUser{
		ID:         "u-member",
		Username:   "member",
		Permission: domain.PermissionMember,
		RoleNames:  []string{"Artist"},
	}
	users := map[string]*domain.BoardUser{"u-lead": lead, "u-member": noRole}

	openCycle := &domain.ReviewCycle{ID: "cycle-1", CardID: "card-1", CycleNumber: 1, OpenedAt: time.Unix(1000, 0)}
	lockedAt := time.Unix(2000, 0)
	lockedCycle := &domain.ReviewCycle{ID: "cycle-2", CardID: "card-1", CycleNumber: 2, OpenedAt: time.Unix(1000, 0), LockedAt: &lockedAt}

	dims := []domain.ReviewDimension{
		{ID: "d-open", Name: "Technical execution", Position: 1, IsActive: true},
		{ID: "d-po", Name: "Delivery fit", Position: 2, IsActive: true, Roles: []domain.EvaluatorRole{domain.RoleProductOwner}},
	}

	tests := []struct {
		name        string
		userID      string
		cycleID     string
		cycle       *domain.ReviewCycle
		scores      []domain.DimensionScore
		wantErrCode domain.ErrorCode
	}{
		{
			name:    "успешная отправка оценки",
			userID:  "u-lead",
			cycleID: "cycle-1",
			cycle:   openCycle,
			scores:  []domain.DimensionScore{{DimensionID: "d-open", Value: domain.ScoreHigh}},
		},
		{
			name:        "пользователь без роли оценщика",
			userID:      "u-member",
			cycleID:     "cycle-1",
			cycle:       openCycle,
			scores:      []domain.DimensionScore{{DimensionID: "d-open", Value: domain.ScoreHigh}},
			wantErrCode: domain.ErrorCodeRoleRequired,
		},
		{
			name:        "пользователь не найден",
			userID:      "u-ghost",
			cycleID:     "cycle-1",
			cycle:       openCycle,
			scores:      []domain.DimensionScore{{DimensionID: "d-open", Value: domain.ScoreHigh}},
			wantErrCode: domain.ErrorCodeNotFound,
		},
		{
			name:        "цикл не найден",
			userID:      "u-lead",
			cycleID:     "cycle-x",
			cycle:       nil,
			scores:      []domain.DimensionScore{{DimensionID: "d-open", Value: domain.ScoreHigh}},
			wantErrCode: domain.ErrorCodeNotFound,
		},
		{
			name:        "заблокированный цикл",
			userID:      "u-lead",
			cycleID:     "cycle-2",
			cycle:       lockedCycle,
			scores:      []domain.DimensionScore{{DimensionID: "d-open", Value: domain.ScoreHigh}},
			wantErrCode: domain.ErrorCodeCycleLocked,
		},
		{
			name:        "неизвестное значение оценки",
			userID:      "u-lead",
			cycleID:     "cycle-1",
			cycle:       openCycle,
			scores:      []domain.DimensionScore{{DimensionID: "d-open", Value: "GREAT"}},
			wantErrCode: domain.ErrorCodeValidation,
		},
		{
			name:        "неизвестная размерность",
			userID:      "u-lead",
			cycleID:     "cycle-1",
			cycle:       openCycle,
			scores:      []domain.DimensionScore{{DimensionID: "d-ghost", Value: domain.ScoreHigh}},
			wantErrCode: domain.ErrorCodeNotFound,
		},
		{
			name:        "недоступная по роли размерность",
			userID:      "u-lead",
			cycleID:     "cycle-1",
			cycle:       openCycle,
			scores:      []domain.DimensionScore{{DimensionID: "d-po", Value: domain.ScoreHigh}},
			wantErrCode: domain.ErrorCodeValidation,
		},
		{
			name:    "NOT_APPLICABLE допустим для чужой размерности",
			userID:  "u-lead",
			cycleID: "cycle-1",
			cycle:   openCycle,
			scores:  []domain.DimensionScore{{DimensionID: "d-po", Value: domain.ScoreNotApplicable}},
		},
		{
			name:    "дубликат размерности",
			userID:  "u-lead",
			cycleID: "cycle-1",
			cycle:   openCycle,
			scores: []domain.DimensionScore{
				{DimensionID: "d-open", Value: domain.ScoreHigh},
				{DimensionID: "d-open", Value: domain.ScoreLow},
			},
			wantErrCode: domain.ErrorCodeValidation,
		},
		{
			name:        "пустой список оценок",
			userID:      "u-lead",
			cycleID:     "cycle-1",
			cycle:       openCycle,
			scores:      nil,
			wantErrCode: domain.ErrorCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalRepo := &mocks.MockEvaluationRepository{GetCycleResult: tt.cycle}
			dimRepo := &mocks.MockDimensionRepository{ListActiveResult: dims}
			svc := service.NewEvaluationService(newAccessService(users), evalRepo, dimRepo, nil)

			id, err := svc.Submit(context.Background(), tt.userID, tt.cycleID, tt.scores)

			if tt.wantErrCode != "" {
				requireDomainCode(t, err, tt.wantErrCode)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id == "" {
				t.Error("expected non-empty evaluation id")
			}
			if evalRepo.LastUpsert == nil {
				t.Fatal("expected evaluation to be stored")
			}
			if evalRepo.LastUpsert.ReviewerID != tt.userID {
				t.Errorf("ReviewerID = %s, want %s", evalRepo.LastUpsert.ReviewerID, tt.userID)
			}
			if evalRepo.LastUpsert.CycleID != tt.cycleID {
				t.Errorf("CycleID = %s, want %s", evalRepo.LastUpsert.CycleID, tt.cycleID)
			}
		})
	}
}

func TestEvaluationService_SubmitStoreError(t *testing.T) {
	users := map[string]*domain.BoardUser{
		"u-lead": {ID: "u-lead", Permission: domain.PermissionMember, RoleNames: []string{"Lead"}},
	}
	evalRepo := &mocks.MockEvaluationRepository{
		GetCycleResult: &domain.ReviewCycle{ID: "cycle-1", CycleNumber: 1, OpenedAt: time.Unix(1000, 0)},
		UpsertErr:      errors.New("connection reset"),
	}
	dimRepo := &mocks.MockDimensionRepository{
		ListActiveResult: []domain.ReviewDimension{{ID: "d1", Name: "D1", IsActive: true}},
	}
	svc := service.NewEvaluationService(newAccessService(users), evalRepo, dimRepo, nil)

	_, err := svc.Submit(context.Background(), "u-lead", "cycle-1",
		[]domain.DimensionScore{{DimensionID: "d1", Value: domain.ScoreMedium}})
	if err == nil {
		t.Fatal("expected error")
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		t.Errorf("store errors must not surface as domain errors, got %v", de)
	}
}
