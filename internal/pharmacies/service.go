package pharmacies

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
	"github.com/gprf24/pickUpLivery/pkg/enums"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/types"
)

// defaultCutoff is applied Monday through Friday when a pharmacy is
// created without an explicit schedule.
var defaultCutoff = types.LocalTime{Hour: 15, Minute: 50}

var defaultScheduleDays = []enums.Weekday{
	enums.WeekdayMonday,
	enums.WeekdayTuesday,
	enums.WeekdayWednesday,
	enums.WeekdayThursday,
	enums.WeekdayFriday,
}

// CreateInput carries the fields for a new pharmacy. Schedule maps
// weekday names to "HH:MM" strings; nil applies the weekday default.
type CreateInput struct {
	Name     string
	RegionID *uuid.UUID
	Address  *string
	Schedule map[string]string
}

// UpdateInput carries optional pharmacy changes; nil fields are untouched.
type UpdateInput struct {
	Name     *string
	RegionID *uuid.UUID
	Address  *string
	IsActive *bool
}

// Service defines admin-facing pharmacy management plus the reads the
// pickup flow depends on.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Pharmacy, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error)
	List(ctx context.Context, filters ListFilters) ([]models.Pharmacy, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Pharmacy, error)
	SetSchedule(ctx context.Context, id uuid.UUID, schedule map[string]string) (*models.Pharmacy, error)
	AssignDriver(ctx context.Context, userID, pharmacyID uuid.UUID) error
	UnassignDriver(ctx context.Context, userID, pharmacyID uuid.UUID) error
	ListForDriver(ctx context.Context, userID uuid.UUID) ([]models.Pharmacy, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo  Repository
	users userReader
}

// NewService builds a pharmacy management service.
func NewService(repo Repository, users userReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pharmacies repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader required")
	}
	return &service{repo: repo, users: users}, nil
}

// DefaultSchedule returns the Monday through Friday default cutoff map.
func DefaultSchedule() types.WeeklySchedule {
	schedule := types.WeeklySchedule{}
	for _, day := range defaultScheduleDays {
		schedule.Set(day, defaultCutoff)
	}
	return schedule
}

// ParseSchedule converts a weekday-to-"HH:MM" map into a weekly
// schedule. Unknown weekdays and malformed times are validation errors.
// An empty string clears the weekday.
func ParseSchedule(raw map[string]string) (types.WeeklySchedule, error) {
	schedule := types.WeeklySchedule{}
	for key, value := range raw {
		day, err := enums.ParseWeekday(strings.ToLower(strings.TrimSpace(key)))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown weekday %q", key))
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		lt, err := types.ParseLocalTime(value)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("invalid cutoff time %q for %s, expected HH:MM", value, day))
		}
		schedule.Set(day, lt)
	}
	return schedule, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Pharmacy, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy name is required")
	}

	schedule := DefaultSchedule()
	if input.Schedule != nil {
		parsed, err := ParseSchedule(input.Schedule)
		if err != nil {
			return nil, err
		}
		schedule = parsed
	}

	pharmacy := &models.Pharmacy{
		Name:           name,
		RegionID:       input.RegionID,
		Address:        input.Address,
		IsActive:       true,
		CutoffSchedule: schedule,
	}
	created, err := s.repo.Create(ctx, pharmacy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pharmacy")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error) {
	pharmacy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pharmacy")
	}
	return pharmacy, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Pharmacy, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pharmacies")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Pharmacy, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy name is required")
		}
		updates["name"] = name
	}
	if input.RegionID != nil {
		updates["region_id"] = *input.RegionID
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update pharmacy")
	}
	return s.Get(ctx, id)
}

// SetSchedule replaces a pharmacy's weekly cutoff schedule. Existing
// pickups keep the cutoff that was frozen when they were recorded.
func (s *service) SetSchedule(ctx context.Context, id uuid.UUID, raw map[string]string) (*models.Pharmacy, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	schedule, err := ParseSchedule(raw)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"cutoff_schedule": schedule}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update schedule")
	}
	return s.Get(ctx, id)
}

func (s *service) AssignDriver(ctx context.Context, userID, pharmacyID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user.Role != enums.UserRoleDriver {
		return pkgerrors.New(pkgerrors.CodeValidation, "only drivers can be assigned to pharmacies")
	}
	if _, err := s.Get(ctx, pharmacyID); err != nil {
		return err
	}
	if err := s.repo.Link(ctx, userID, pharmacyID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create assignment")
	}
	return nil
}

func (s *service) UnassignDriver(ctx context.Context, userID, pharmacyID uuid.UUID) error {
	if err := s.repo.Unlink(ctx, userID, pharmacyID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove assignment")
	}
	return nil
}

func (s *service) ListForDriver(ctx context.Context, userID uuid.UUID) ([]models.Pharmacy, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list assigned pharmacies")
	}
	return rows, nil
}

// Reader adapts the repository to the pickup flow's read-only needs.
type Reader struct {
	repo Repository
}

// NewReader wraps a repository for pickup-side lookups.
func NewReader(repo Repository) *Reader {
	return &Reader{repo: repo}
}

// FindPharmacy loads a pharmacy by ID.
func (r *Reader) FindPharmacy(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error) {
	return r.repo.FindByID(ctx, id)
}

// IsUserLinked reports whether a driver is assigned to a pharmacy.
func (r *Reader) IsUserLinked(ctx context.Context, userID, pharmacyID uuid.UUID) (bool, error) {
	return r.repo.IsLinked(ctx, userID, pharmacyID)
}
