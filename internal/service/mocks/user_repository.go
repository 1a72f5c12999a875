package mocks

import (
	"context"

	"github.com/velles/review-cycle-service/internal/domain"
)

type MockUserRepository struct {
	Users         map[string]*domain.BoardUser
	GetByIDErr    error
	UpsertAllErr  error
	UpsertedUsers []domain.BoardUser
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.BoardUser, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) UpsertAll(ctx context.Context, users []domain.BoardUser) error {
	if m.UpsertAllErr != nil {
		return m.UpsertAllErr
	}
	m.UpsertedUsers = append(m.UpsertedUsers, users...)
	return nil
}
