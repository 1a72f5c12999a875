package service_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/service"
	"github.com/velles/review-cycle-service/internal/service/mocks"
)

func TestAccessService_Resolve(t *testing.T) {
	repo := &mocks.MockUserRepository{
		Users: map[string]*domain.BoardUser{
			"u1": {
				ID:         "u1",
				Username:   "anna",
				Permission: domain.PermissionMember,
				RoleNames:  []string{"Lead Artist", "PO."},
			},
		},
	}
	svc := service.NewAccessService(repo, domain.DefaultRoleHints())

	t.Run("роли вычисляются из имён ролей", func(t *testing.T) {
		got, err := svc.Resolve(context.Background(), "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := domain.AccessContext{
			UserID:     "u1",
			Permission: domain.PermissionMember,
			Roles:      []domain.EvaluatorRole{domain.RoleLead, domain.RoleProductOwner},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Resolve() = %+v, want %+v", got, want)
		}
	})

	t.Run("пустой id пользователя", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), "")
		requireDomainCode(t, err, domain.ErrorCodeValidation)
	})

	t.Run("неизвестный пользователь", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), "ghost")
		requireDomainCode(t, err, domain.ErrorCodeNotFound)
	})
}

func TestAccessService_UpsertUsers(t *testing.T) {
	t.Run("валидные пользователи сохраняются", func(t *testing.T) {
		repo := &mocks.MockUserRepository{}
		svc := service.NewAccessService(repo, domain.DefaultRoleHints())

		users := []domain.BoardUser{
			{ID: "u1", Username: "anna", Permission: domain.PermissionAdmin},
			{ID: "u2", Username: "boris", Permission: domain.PermissionViewer},
		}
		if err := svc.UpsertUsers(context.Background(), users); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.UpsertedUsers) != 2 {
			t.Fatalf("expected 2 upserted users, got %d", len(repo.UpsertedUsers))
		}
	})

	t.Run("пользователь без id отклоняется", func(t *testing.T) {
		repo := &mocks.MockUserRepository{}
		svc := service.NewAccessService(repo, domain.DefaultRoleHints())

		err := svc.UpsertUsers(context.Background(), []domain.BoardUser{
			{Username: "anna", Permission: domain.PermissionAdmin},
		})
		requireDomainCode(t, err, domain.ErrorCodeValidation)
		if len(repo.UpsertedUsers) != 0 {
			t.Fatalf("expected no upserts, got %d", len(repo.UpsertedUsers))
		}
	})

	t.Run("неизвестный уровень доступа отклоняется", func(t *testing.T) {
		repo := &mocks.MockUserRepository{}
		svc := service.NewAccessService(repo, domain.DefaultRoleHints())

		err := svc.UpsertUsers(context.Background(), []domain.BoardUser{
			{ID: "u1", Permission: domain.Permission("OWNER")},
		})
		requireDomainCode(t, err, domain.ErrorCodeValidation)
	})
}
