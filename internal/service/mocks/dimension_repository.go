package mocks

import (
	"context"

	"github.com/velles/review-cycle-service/internal/domain"
)

type MockDimensionRepository struct {
	ListActiveResult []domain.ReviewDimension
	ListActiveErr    error
	ListAllResult    []domain.ReviewDimension
	ListAllErr       error
	GetByIDResult    *domain.ReviewDimension
	GetByIDErr       error
	CreateErr        error
	UpdateErr        error
	Created          *domain.ReviewDimension
	Updated          *domain.ReviewDimension
}

func (m *MockDimensionRepository) ListActive(ctx context.Context) ([]domain.ReviewDimension, error) {
	return m.ListActiveResult, m.ListActiveErr
}

func (m *MockDimensionRepository) ListAll(ctx context.Context) ([]domain.ReviewDimension, error) {
	return m.ListAllResult, m.ListAllErr
}

func (m *MockDimensionRepository) GetByID(ctx context.Context, id string) (*domain.ReviewDimension, error) {
	return m.GetByIDResult, m.GetByIDErr
}

func (m *MockDimensionRepository) Create(ctx context.Context, dim domain.ReviewDimension) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = &dim
	return nil
}

func (m *MockDimensionRepository) Update(ctx context.Context, dim domain.ReviewDimension) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = &dim
	return nil
}
