package users

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/config"
	"github.com/gprf24/pickUpLivery/pkg/db/models"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/security"
)

const minPasswordLength = 8

// Service defines admin-facing account management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Response, error)
	Get(ctx context.Context, id uuid.UUID) (*Response, error)
	List(ctx context.Context, filters ListFilters) ([]Response, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Response, error)
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// NewService builds a user management service.
func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Response, error) {
	login := strings.TrimSpace(strings.ToLower(input.Login))
	if login == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "login is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if _, err := s.repo.FindByLogin(ctx, login); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "login already taken")
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check login")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Login:                 login,
		PasswordHash:          hash,
		FullName:              input.FullName,
		Role:                  input.Role,
		IsActive:              true,
		RequirePickupLocation: input.RequirePickupLocation,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	resp := ToResponse(created)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	resp := ToResponse(user)
	return &resp, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]Response, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]Response, 0, len(rows))
	for i := range rows {
		out = append(out, ToResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Response, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	updates := map[string]any{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}
	if input.ClearLocationOverride {
		updates["require_pickup_location"] = gorm.Expr("NULL")
	} else if input.RequirePickupLocation != nil {
		updates["require_pickup_location"] = *input.RequirePickupLocation
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return s.Get(ctx, id)
}

// ReaderFor adapts the repository to lookups by ID only.
func ReaderFor(repo Repository) FindUserFunc {
	return func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return repo.FindByID(ctx, id)
	}
}

// FindUserFunc adapts a lookup function to the pickup service's
// user reader dependency.
type FindUserFunc func(ctx context.Context, id uuid.UUID) (*models.User, error)

// FindUser implements the single-method reader interface.
func (f FindUserFunc) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f(ctx, id)
}

// ActiveCheckerFor adapts the repository to per-request account checks
// in the auth middleware. An unknown user counts as inactive.
func ActiveCheckerFor(repo Repository) ActiveCheckFunc {
	return func(ctx context.Context, id uuid.UUID) (bool, error) {
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		return user.IsActive, nil
	}
}

// ActiveCheckFunc adapts a lookup function to the middleware's account
// checker dependency.
type ActiveCheckFunc func(ctx context.Context, id uuid.UUID) (bool, error)

// IsAccountActive implements the single-method checker interface.
func (f ActiveCheckFunc) IsAccountActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return f(ctx, id)
}
