package service

import (
	"context"
	"fmt"

	"github.com/velles/review-cycle-service/internal/domain"
)

type AccessUserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BoardUser, error)
	UpsertAll(ctx context.Context, users []domain.BoardUser) error
}

// AccessService resolves a user id into the access context every gate
// decision runs against. Evaluator roles are computed from the stored role
// names on every resolution, never persisted.
type AccessService struct {
	users AccessUserRepository
	hints domain.RoleHints
}

func NewAccessService(users AccessUserRepository, hints domain.RoleHints) *AccessService {
	return &AccessService{
		users: users,
		hints: hints,
	}
}

func (s *AccessService) Resolve(ctx context.Context, userID string) (domain.AccessContext, error) {
	if userID == "" {
		return domain.AccessContext{}, domain.NewDomainError(domain.ErrorCodeValidation, "user id is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.AccessContext{}, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return domain.AccessContext{}, domain.NewDomainError(domain.ErrorCodeNotFound, "user not found")
	}

	return domain.AccessContext{
		UserID:     user.ID,
		Permission: user.Permission,
		Roles:      s.hints.Resolve(user.RoleNames),
	}, nil
}

// ResolveRoles maps stored role names for several users at once; used by the
// summary builder to bucket scores per evaluator role.
func (s *AccessService) ResolveRoles(roleNames []string) []domain.EvaluatorRole {
	return s.hints.Resolve(roleNames)
}

// UpsertUsers refreshes the engine's projection of board members. The board
// layer is trusted to push only committed user state.
func (s *AccessService) UpsertUsers(ctx context.Context, users []domain.BoardUser) error {
	for _, u := range users {
		if u.ID == "" {
			return domain.NewDomainError(domain.ErrorCodeValidation, "user id is required")
		}
		if !u.Permission.Valid() {
			return domain.NewDomainError(domain.ErrorCodeValidation, fmt.Sprintf("unknown permission %q", u.Permission))
		}
	}

	if err := s.users.UpsertAll(ctx, users); err != nil {
		return fmt.Errorf("upsert users: %w", err)
	}
	return nil
}
