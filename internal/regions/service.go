package regions

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
)

// CreateInput carries the fields for a new region.
type CreateInput struct {
	Name string
	Code *string
}

// UpdateInput carries optional region changes; nil fields are untouched.
type UpdateInput struct {
	Name     *string
	Code     *string
	IsActive *bool
}

// Service defines admin-facing region management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Region, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Region, error)
	List(ctx context.Context, activeOnly bool) ([]models.Region, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Region, error)
}

type service struct {
	repo Repository
}

// NewService builds a region management service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("regions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Region, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "region name is required")
	}
	region := &models.Region{
		Name:     name,
		Code:     input.Code,
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, region)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create region")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	region, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "region not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load region")
	}
	return region, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Region, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list regions")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Region, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "region name is required")
		}
		updates["name"] = name
	}
	if input.Code != nil {
		updates["code"] = *input.Code
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update region")
	}
	return s.Get(ctx, id)
}
