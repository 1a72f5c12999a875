package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/velles/review-cycle-service/internal/domain"
)

type DimensionRepository interface {
	ListActive(ctx context.Context) ([]domain.ReviewDimension, error)
	ListAll(ctx context.Context) ([]domain.ReviewDimension, error)
	GetByID(ctx context.Context, id string) (*domain.ReviewDimension, error)
	Create(ctx context.Context, dim domain.ReviewDimension) error
	Update(ctx context.Context, dim domain.ReviewDimension) error
}

// DimensionService manages the dimension catalog. Reads are open to any
// non-viewer and filtered by role visibility; writes are SUPER_ADMIN only.
type DimensionService struct {
	access     *AccessService
	dimensions DimensionRepository
}

func NewDimensionService(access *AccessService, dimensions DimensionRepository) *DimensionService {
	return &DimensionService{
		access:     access,
		dimensions: dimensions,
	}
}

// List returns the active dimensions visible to the caller, in display order.
func (s *DimensionService) List(ctx context.Context, userID string) ([]domain.ReviewDimension, error) {
	accessCtx, err := s.access.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireNonViewer(accessCtx); err != nil {
		return nil, err
	}

	dims, err := s.dimensions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dimensions: %w", err)
	}
	return domain.VisibleDimensions(dims, accessCtx), nil
}

// Create adds a dimension to the catalog.
func (s *DimensionService) Create(ctx context.Context, userID string, dim domain.ReviewDimension) (*domain.ReviewDimension, error) {
	accessCtx, err := s.access.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireSuperAdmin(accessCtx); err != nil {
		return nil, err
	}
	if err := validateDimension(dim); err != nil {
		return nil, err
	}

	dim.ID = uuid.NewString()
	if err := s.dimensions.Create(ctx, dim); err != nil {
		return nil, fmt.Errorf("create dimension: %w", err)
	}
	return &dim, nil
}

// Update replaces a dimension's configuration, including role restrictions
// and the active flag.
func (s *DimensionService) Update(ctx context.Context, userID string, dim domain.ReviewDimension) (*domain.ReviewDimension, error) {
	accessCtx, err := s.access.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireSuperAdmin(accessCtx); err != nil {
		return nil, err
	}
	if dim.ID == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidation, "dimension id is required")
	}
	if err := validateDimension(dim); err != nil {
		return nil, err
	}

	existing, err := s.dimensions.GetByID(ctx, dim.ID)
	if err != nil {
		return nil, fmt.Errorf("get dimension: %w", err)
	}
	if existing == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeNotFound, "dimension not found")
	}

	if err := s.dimensions.Update(ctx, dim); err != nil {
		return nil, fmt.Errorf("update dimension: %w", err)
	}
	return &dim, nil
}

func validateDimension(dim domain.ReviewDimension) error {
	if dim.Name == "" {
		return domain.NewDomainError(domain.ErrorCodeValidation, "dimension name is required")
	}
	if dim.Position < 0 {
		return domain.NewDomainError(domain.ErrorCodeValidation, "dimension position must not be negative")
	}
	for _, r := range dim.Roles {
		if !domain.ValidEvaluatorRole(r) {
			return domain.NewDomainError(domain.ErrorCodeValidation, fmt.Sprintf("unknown evaluator role %q", r))
		}
	}
	return nil
}
