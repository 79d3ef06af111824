package pickups

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/config"
	"github.com/gprf24/pickUpLivery/pkg/db/models"
	"github.com/gprf24/pickUpLivery/pkg/enums"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/logger"
	"github.com/gprf24/pickUpLivery/pkg/metrics"
)

// Service defines pickup-level operations beyond repository reads.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	RequiresLocation(ctx context.Context, userID uuid.UUID) (bool, error)
	GetPickup(ctx context.Context, actor Actor, id uuid.UUID) (*models.Pickup, error)
	GetPhoto(ctx context.Context, actor Actor, pickupID uuid.UUID, slot int) (*models.PickupPhoto, error)
	History(ctx context.Context, actor Actor, filters HistoryFilters) (*HistoryResult, error)
	DuplicatePreview(ctx context.Context, actor Actor, pharmacyID uuid.UUID) ([]DuplicateCandidate, error)
	DuplicateReport(ctx context.Context, actor Actor, dayUTC time.Time) ([]DuplicateGroup, error)
}

type service struct {
	repo       Repository
	pharmacies PharmacyReader
	settings   SettingsReader
	users      UserReader
	tx         txRunner
	normalizer PhotoNormalizer
	loc        *time.Location
	logg       *logger.Logger
	metrics    *metrics.PickupMetrics
	now        func() time.Time
}

// duplicateLookback bounds how far back the duplicate preview scans.
const duplicateLookback = 2 * time.Hour

// historyDefaultLimit caps unbounded history queries.
const historyDefaultLimit = 500

// NewService builds a pickup service with the required dependencies.
func NewService(
	repo Repository,
	pharmacies PharmacyReader,
	settings SettingsReader,
	users UserReader,
	tx txRunner,
	cfg config.PickupConfig,
	logg *logger.Logger,
	m *metrics.PickupMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pickups repository required")
	}
	if pharmacies == nil {
		return nil, fmt.Errorf("pharmacy reader required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return &service{
		repo:       repo,
		pharmacies: pharmacies,
		settings:   settings,
		users:      users,
		tx:         tx,
		normalizer: PhotoNormalizer{
			MaxWidth:  cfg.ImageMaxWidth,
			MaxHeight: cfg.ImageMaxHeight,
			Quality:   cfg.ImageQuality,
		},
		loc:     loc,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}, nil
}

// RequiresLocation reports whether the given user must attach GPS
// coordinates to a pickup. A per-user override, when set, wins over
// the global setting.
func (s *service) RequiresLocation(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user.RequirePickupLocation != nil {
		return *user.RequirePickupLocation, nil
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	return settings.RequirePickupLocationGlobal, nil
}

// Submit validates and records a pickup. Checks run in a fixed order
// so the client always sees the most specific rejection: account
// status, pharmacy existence, access, photo count, GPS, then quota.
// The cutoff and timing classification are frozen into the row before
// the insert.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	result, err := s.submit(ctx, input)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			s.metrics.ObserveRejected(string(appErr.Code()))
		}
		return nil, err
	}
	s.metrics.ObserveAccepted(result.TimingStatus.String(), result.PhotosSaved)
	return result, nil
}

func (s *service) submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	ctx = s.logg.WithPharmacyID(ctx, input.PharmacyID.String())

	user, err := s.users.FindUser(ctx, input.Actor.UserID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	pharmacy, err := s.pharmacies.FindPharmacy(ctx, input.PharmacyID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pharmacy")
	}
	if !pharmacy.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found")
	}

	linked, err := s.pharmacies.IsUserLinked(ctx, input.Actor.UserID, input.PharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check assignment")
	}
	if err := EnsureCanAccess(input.Actor.Role, linked, AccessIntentWrite); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}

	// Empty slots are ignored, only slots with content count.
	uploads := make([]PhotoUpload, 0, len(input.Photos))
	for _, p := range input.Photos {
		if len(p.Bytes) > 0 {
			uploads = append(uploads, p)
		}
	}
	if err := validatePhotos(uploads, settings.MinRequiredPhotos); err != nil {
		return nil, err
	}

	requiresGPS := settings.RequirePickupLocationGlobal
	if user.RequirePickupLocation != nil {
		requiresGPS = *user.RequirePickupLocation
	}
	if requiresGPS && (input.Latitude == nil || input.Longitude == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "GPS coordinates are required for this pickup")
	}
	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := s.repo.CountForUserAndPharmacyBetween(ctx, input.Actor.UserID, input.PharmacyID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count pickups")
	}
	limit := settings.AllowedPickupsPerDay
	if limit < 1 {
		limit = 1
	}
	if count >= int64(limit) {
		return nil, pkgerrors.New(pkgerrors.CodeQuotaExceeded, "daily pickup quota reached").
			WithDetails(map[string]any{
				"limit": limit,
				"used":  count,
			})
	}

	cutoff := ResolveCutoff(pharmacy.CutoffSchedule, now, s.loc)
	timing := ClassifyTiming(now, cutoff)

	pickup := &models.Pickup{
		UserID:       input.Actor.UserID,
		PharmacyID:   input.PharmacyID,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Comment:      input.Comment,
		Status:       "completed",
		CutoffAtUTC:  cutoff,
		TimingStatus: timing,
		CreatedAt:    now,
	}

	photos := make([]models.PickupPhoto, 0, len(uploads))
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreatePickup(ctx, pickup)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pickup")
		}
		for _, upload := range uploads {
			data, contentType, ok := s.normalizer.Normalize(upload.Bytes, upload.ContentType)
			if !ok {
				// unreadable image, drop this photo and keep the rest
				s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
					"slot": upload.Slot,
				}), "skipping unprocessable photo")
				continue
			}
			photo := models.PickupPhoto{
				PickupID:    created.ID,
				Slot:        upload.Slot,
				ImageBytes:  data,
				ContentType: contentType,
			}
			if upload.FileName != "" {
				name := upload.FileName
				photo.FileName = &name
			}
			photos = append(photos, photo)
		}
		if len(photos) == 0 && settings.MinRequiredPhotos > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no uploaded photo could be processed")
		}
		if err := repo.CreatePhotos(ctx, photos); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save photos")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"pickup_id":     pickup.ID.String(),
		"timing_status": timing.String(),
		"photos":        len(photos),
	}), "pickup recorded")

	return &SubmitResult{
		Pickup:       pickup,
		TimingStatus: timing,
		CutoffAtUTC:  cutoff,
		PhotosSaved:  len(photos),
	}, nil
}

func (s *service) GetPickup(ctx context.Context, actor Actor, id uuid.UUID) (*models.Pickup, error) {
	pickup, err := s.repo.FindPickup(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pickup not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pickup")
	}
	if err := s.ensureCanView(ctx, actor, pickup); err != nil {
		return nil, err
	}
	return pickup, nil
}

func (s *service) GetPhoto(ctx context.Context, actor Actor, pickupID uuid.UUID, slot int) (*models.PickupPhoto, error) {
	if slot < 1 || slot > 4 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "photo slot must be between 1 and 4")
	}
	pickup, err := s.repo.FindPickup(ctx, pickupID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pickup not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pickup")
	}
	if err := s.ensureCanView(ctx, actor, pickup); err != nil {
		return nil, err
	}
	photo, err := s.repo.FindPhoto(ctx, pickupID, slot)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load photo")
	}
	return photo, nil
}

// History lists pickups grouped by UTC day. Drivers only ever see
// their own rows. Malformed or contradictory filters degrade to soft
// warnings instead of failing the whole request.
func (s *service) History(ctx context.Context, actor Actor, filters HistoryFilters) (*HistoryResult, error) {
	warnings := make([]string, 0, 2)

	switch actor.Role {
	case enums.UserRoleDriver:
		own := actor.UserID
		if filters.UserID != nil && *filters.UserID != own {
			warnings = append(warnings, "user filter ignored: drivers can only view their own pickups")
		}
		filters.UserID = &own
	case enums.UserRoleAdmin, enums.UserRoleHistory:
		// full visibility
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}

	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		warnings = append(warnings, "date range is inverted, swapping bounds")
		filters.From, filters.To = filters.To, filters.From
	}
	if filters.Limit <= 0 || filters.Limit > historyDefaultLimit {
		filters.Limit = historyDefaultLimit
	}

	rows, err := s.repo.ListHistory(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list history")
	}

	return &HistoryResult{
		Days:     groupByDay(rows),
		Total:    len(rows),
		Warnings: warnings,
	}, nil
}

// DuplicatePreview lists the caller's recent pickups at a pharmacy so
// the client can warn before a likely double submission. It is a read
// and never blocks the actual submit.
func (s *service) DuplicatePreview(ctx context.Context, actor Actor, pharmacyID uuid.UUID) ([]DuplicateCandidate, error) {
	linked, err := s.pharmacies.IsUserLinked(ctx, actor.UserID, pharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check assignment")
	}
	if err := EnsureCanAccess(actor.Role, linked, AccessIntentRead); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rows, err := s.repo.FindRecentByUserAndPharmacy(ctx, actor.UserID, pharmacyID, now.Add(-duplicateLookback))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent pickups")
	}

	candidates := make([]DuplicateCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, DuplicateCandidate{
			PickupID:     row.ID,
			CreatedAt:    row.CreatedAt,
			TimingStatus: row.TimingStatus,
			MinutesAgo:   int(now.Sub(row.CreatedAt) / time.Minute),
		})
	}
	return candidates, nil
}

// DuplicateReport groups one UTC day's pickups by driver and pharmacy
// and returns the pairs that logged more than one pickup that day.
func (s *service) DuplicateReport(ctx context.Context, actor Actor, dayUTC time.Time) ([]DuplicateGroup, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	day := dayUTC.UTC()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	keys, err := s.repo.ListDuplicateGroups(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "group pickups")
	}

	// ListHistory treats To as inclusive, so stop just short of midnight.
	endOfDay := to.Add(-time.Nanosecond)

	groups := make([]DuplicateGroup, 0, len(keys))
	for _, key := range keys {
		userID := key.UserID
		pharmacyID := key.PharmacyID
		rows, err := s.repo.ListHistory(ctx, HistoryFilters{
			UserID:     &userID,
			PharmacyID: &pharmacyID,
			From:       &from,
			To:         &endOfDay,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load duplicate group")
		}
		groups = append(groups, DuplicateGroup{
			UserID:     key.UserID,
			PharmacyID: key.PharmacyID,
			Day:        from.Format("2006-01-02"),
			Count:      int(key.Count),
			Pickups:    rows,
		})
	}
	return groups, nil
}

func (s *service) ensureCanView(ctx context.Context, actor Actor, pickup *models.Pickup) error {
	switch actor.Role {
	case enums.UserRoleAdmin, enums.UserRoleHistory:
		return nil
	case enums.UserRoleDriver:
		if pickup.UserID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "pickup belongs to another driver")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
}

func validatePhotos(photos []PhotoUpload, minRequired int) error {
	if len(photos) < minRequired {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("need at least %d photo(s), got %d", minRequired, len(photos)))
	}
	if len(photos) > 4 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at most 4 photos allowed")
	}
	seen := make(map[int]struct{}, len(photos))
	for _, p := range photos {
		if p.Slot < 1 || p.Slot > 4 {
			return pkgerrors.New(pkgerrors.CodeValidation, "photo slot must be between 1 and 4")
		}
		if _, dup := seen[p.Slot]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate photo slot %d", p.Slot))
		}
		seen[p.Slot] = struct{}{}
	}
	return nil
}

func validateCoordinates(lat, lng *float64) error {
	if lat == nil && lng == nil {
		return nil
	}
	if (lat == nil) != (lng == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "latitude and longitude must be provided together")
	}
	if *lat < -90 || *lat > 90 {
		return pkgerrors.New(pkgerrors.CodeValidation, "latitude out of range")
	}
	if *lng < -180 || *lng > 180 {
		return pkgerrors.New(pkgerrors.CodeValidation, "longitude out of range")
	}
	return nil
}

func groupByDay(rows []models.Pickup) []HistoryDay {
	days := make([]HistoryDay, 0)
	index := make(map[string]int)
	for _, row := range rows {
		key := row.CreatedAt.UTC().Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, HistoryDay{Date: key})
		}
		days[i].Pickups = append(days[i].Pickups, row)
	}
	return days
}
