package settings

import (
	"context"
	"fmt"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
	"github.com/gprf24/pickUpLivery/pkg/enums"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
)

// UpdateInput carries optional settings changes; nil fields are untouched.
type UpdateInput struct {
	AllowedPickupsPerDay        *int
	RequirePickupLocationGlobal *bool
	MinRequiredPhotos           *int
	PhotoSourceMode             *string
}

// Service exposes the singleton settings row to admins and to the
// pickup flow.
type Service interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, input UpdateInput) (*models.AppSettings, error)
}

type service struct {
	repo Repository
}

// NewService builds a settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context) (*models.AppSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	return settings, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.AppSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.AllowedPickupsPerDay != nil {
		if *input.AllowedPickupsPerDay < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "allowed pickups per day must be at least 1")
		}
		settings.AllowedPickupsPerDay = *input.AllowedPickupsPerDay
	}
	if input.RequirePickupLocationGlobal != nil {
		settings.RequirePickupLocationGlobal = *input.RequirePickupLocationGlobal
	}
	if input.MinRequiredPhotos != nil {
		if *input.MinRequiredPhotos < 0 || *input.MinRequiredPhotos > 4 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min required photos must be between 0 and 4")
		}
		settings.MinRequiredPhotos = *input.MinRequiredPhotos
	}
	if input.PhotoSourceMode != nil {
		mode, err := enums.ParsePhotoSourceMode(*input.PhotoSourceMode)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown photo source mode")
		}
		settings.PhotoSourceMode = mode
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save settings")
	}
	return settings, nil
}
