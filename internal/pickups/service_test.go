package pickups

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/config"
	"github.com/gprf24/pickUpLivery/pkg/db/models"
	"github.com/gprf24/pickUpLivery/pkg/enums"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/logger"
	"github.com/gprf24/pickUpLivery/pkg/types"
)

type stubPickupsRepo struct {
	created      *models.Pickup
	photos       []models.PickupPhoto
	countToday   int64
	countCalls   []time.Time
	recent       []models.Pickup
	historyRows  []models.Pickup
	lastFilters  HistoryFilters
	groupKeys    []DuplicateGroupKey
	createPickup func(ctx context.Context, pickup *models.Pickup) (*models.Pickup, error)
}

func (s *stubPickupsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPickupsRepo) CreatePickup(ctx context.Context, pickup *models.Pickup) (*models.Pickup, error) {
	if s.createPickup != nil {
		return s.createPickup(ctx, pickup)
	}
	if pickup.ID == uuid.Nil {
		pickup.ID = uuid.New()
	}
	s.created = pickup
	return pickup, nil
}

func (s *stubPickupsRepo) CreatePhotos(ctx context.Context, photos []models.PickupPhoto) error {
	s.photos = append(s.photos, photos...)
	return nil
}

func (s *stubPickupsRepo) FindPickup(ctx context.Context, id uuid.UUID) (*models.Pickup, error) {
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPickupsRepo) FindPhoto(ctx context.Context, pickupID uuid.UUID, slot int) (*models.PickupPhoto, error) {
	for i := range s.photos {
		if s.photos[i].PickupID == pickupID && s.photos[i].Slot == slot {
			return &s.photos[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPickupsRepo) CountForUserAndPharmacyBetween(ctx context.Context, userID, pharmacyID uuid.UUID, from, to time.Time) (int64, error) {
	s.countCalls = append(s.countCalls, from, to)
	return s.countToday, nil
}

func (s *stubPickupsRepo) ListHistory(ctx context.Context, filters HistoryFilters) ([]models.Pickup, error) {
	s.lastFilters = filters
	return s.historyRows, nil
}

func (s *stubPickupsRepo) FindRecentByUserAndPharmacy(ctx context.Context, userID, pharmacyID uuid.UUID, since time.Time) ([]models.Pickup, error) {
	return s.recent, nil
}

func (s *stubPickupsRepo) ListDuplicateGroups(ctx context.Context, from, to time.Time) ([]DuplicateGroupKey, error) {
	return s.groupKeys, nil
}

type stubPharmacyReader struct {
	pharmacy *models.Pharmacy
	linked   bool
}

func (s *stubPharmacyReader) FindPharmacy(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error) {
	if s.pharmacy == nil || s.pharmacy.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.pharmacy, nil
}

func (s *stubPharmacyReader) IsUserLinked(ctx context.Context, userID, pharmacyID uuid.UUID) (bool, error) {
	return s.linked, nil
}

type stubSettingsReader struct {
	settings models.AppSettings
}

func (s *stubSettingsReader) Get(ctx context.Context) (*models.AppSettings, error) {
	out := s.settings
	return &out, nil
}

type stubUserReader struct {
	user *models.User
}

func (s *stubUserReader) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type serviceFixture struct {
	svc        *service
	repo       *stubPickupsRepo
	pharmacies *stubPharmacyReader
	settings   *stubSettingsReader
	users      *stubUserReader
	driver     models.User
	pharmacy   models.Pharmacy
	now        time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	driver := models.User{
		ID:       uuid.New(),
		Login:    "driver1",
		Role:     enums.UserRoleDriver,
		IsActive: true,
	}
	pharmacy := models.Pharmacy{
		ID:       uuid.New(),
		Name:     "Stadt Apotheke",
		IsActive: true,
		CutoffSchedule: types.WeeklySchedule{
			enums.WeekdayMonday: {Hour: 15, Minute: 50},
		},
	}

	repo := &stubPickupsRepo{}
	pharmacies := &stubPharmacyReader{pharmacy: &pharmacy, linked: true}
	settings := &stubSettingsReader{settings: models.AppSettings{
		ID:                          models.AppSettingsRowID,
		AllowedPickupsPerDay:        5,
		RequirePickupLocationGlobal: false,
		MinRequiredPhotos:           1,
		PhotoSourceMode:             enums.PhotoSourceModeCameraOrUpload,
	}}
	users := &stubUserReader{user: &driver}

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})

	svc, err := NewService(repo, pharmacies, settings, users, stubTxRunner{}, config.PickupConfig{
		Timezone:       "Europe/Berlin",
		MaxPhotoSlots:  4,
		ImageMaxWidth:  1920,
		ImageMaxHeight: 1920,
		ImageQuality:   80,
	}, logg, nil)
	require.NoError(t, err)

	impl := svc.(*service)
	// 2026-01-05 is a Monday. 14:00 UTC is 15:00 in Berlin, before the
	// 15:50 cutoff.
	now := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)
	impl.now = func() time.Time { return now }

	return &serviceFixture{
		svc:        impl,
		repo:       repo,
		pharmacies: pharmacies,
		settings:   settings,
		users:      users,
		driver:     driver,
		pharmacy:   pharmacy,
		now:        now,
	}
}

// tinyJPEG returns a minimal decodable photo payload.
func tinyJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (f *serviceFixture) submitInput() SubmitInput {
	return SubmitInput{
		Actor:      Actor{UserID: f.driver.ID, Role: enums.UserRoleDriver},
		PharmacyID: f.pharmacy.ID,
		Photos: []PhotoUpload{
			{Slot: 1, Bytes: tinyJPEG(), ContentType: "image/jpeg"},
		},
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestSubmitFreezesCutoffAndTiming(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.Submit(context.Background(), f.submitInput())
	require.NoError(t, err)

	assert.Equal(t, enums.TimingStatusOnTime, result.TimingStatus)
	require.NotNil(t, result.CutoffAtUTC)

	loc, _ := time.LoadLocation("Europe/Berlin")
	want := time.Date(2026, 1, 5, 15, 50, 0, 0, loc).UTC()
	assert.True(t, result.CutoffAtUTC.Equal(want))

	require.NotNil(t, f.repo.created)
	assert.Equal(t, enums.TimingStatusOnTime, f.repo.created.TimingStatus)
	require.NotNil(t, f.repo.created.CutoffAtUTC)
	assert.True(t, f.repo.created.CutoffAtUTC.Equal(want))
	assert.Equal(t, 1, result.PhotosSaved)
}

func TestSubmitAfterCutoffIsLate(t *testing.T) {
	f := newServiceFixture(t)
	// 15:00 UTC is 16:00 Berlin, past the 15:50 cutoff.
	f.svc.now = func() time.Time { return time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC) }

	result, err := f.svc.Submit(context.Background(), f.submitInput())
	require.NoError(t, err)
	assert.Equal(t, enums.TimingStatusLate, result.TimingStatus)
}

func TestSubmitDayWithoutCutoff(t *testing.T) {
	f := newServiceFixture(t)
	// 2026-01-06 is a Tuesday, which has no schedule entry.
	f.svc.now = func() time.Time { return time.Date(2026, 1, 6, 14, 0, 0, 0, time.UTC) }

	result, err := f.svc.Submit(context.Background(), f.submitInput())
	require.NoError(t, err)
	assert.Equal(t, enums.TimingStatusNoCutoff, result.TimingStatus)
	assert.Nil(t, result.CutoffAtUTC)
	assert.Nil(t, f.repo.created.CutoffAtUTC)
}

func TestSubmitUnknownPharmacy(t *testing.T) {
	f := newServiceFixture(t)
	input := f.submitInput()
	input.PharmacyID = uuid.New()

	_, err := f.svc.Submit(context.Background(), input)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmitInactivePharmacyHiddenAsNotFound(t *testing.T) {
	f := newServiceFixture(t)
	f.pharmacies.pharmacy.IsActive = false

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmitDeactivatedDriverForbidden(t *testing.T) {
	f := newServiceFixture(t)
	f.users.user.IsActive = false

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	requireCode(t, err, pkgerrors.CodeForbidden)
	assert.Nil(t, f.repo.created)
}

func TestSubmitUnlinkedDriverForbidden(t *testing.T) {
	f := newServiceFixture(t)
	f.pharmacies.linked = false

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestSubmitNotFoundBeatsForbidden(t *testing.T) {
	f := newServiceFixture(t)
	f.pharmacies.linked = false
	input := f.submitInput()
	input.PharmacyID = uuid.New()

	_, err := f.svc.Submit(context.Background(), input)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmitHistoryRoleForbidden(t *testing.T) {
	f := newServiceFixture(t)
	input := f.submitInput()
	input.Actor.Role = enums.UserRoleHistory

	_, err := f.svc.Submit(context.Background(), input)
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestSubmitTooFewPhotos(t *testing.T) {
	f := newServiceFixture(t)
	f.settings.settings.MinRequiredPhotos = 2

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitIgnoresEmptyPhotoSlots(t *testing.T) {
	f := newServiceFixture(t)
	input := f.submitInput()
	input.Photos = append(input.Photos, PhotoUpload{Slot: 2, Bytes: nil, ContentType: "image/jpeg"})

	result, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, result.PhotosSaved)

	f = newServiceFixture(t)
	f.settings.settings.MinRequiredPhotos = 2
	input = f.submitInput()
	input.Photos = append(input.Photos, PhotoUpload{Slot: 2, Bytes: nil, ContentType: "image/jpeg"})

	// the empty slot does not count toward the minimum
	_, err = f.svc.Submit(context.Background(), input)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitDuplicatePhotoSlot(t *testing.T) {
	f := newServiceFixture(t)
	input := f.submitInput()
	input.Photos = append(input.Photos, PhotoUpload{Slot: 1, Bytes: []byte("x"), ContentType: "image/jpeg"})

	_, err := f.svc.Submit(context.Background(), input)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitSkipsUnprocessablePhoto(t *testing.T) {
	f := newServiceFixture(t)
	input := f.submitInput()
	input.Photos = append(input.Photos, PhotoUpload{Slot: 2, Bytes: []byte("not-an-image"), ContentType: "image/jpeg"})

	result, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, result.PhotosSaved, "bad photo dropped, good one kept")
}

func TestSubmitAllPhotosUnprocessable(t *testing.T) {
	f := newServiceFixture(t)
	input := f.submitInput()
	input.Photos = []PhotoUpload{
		{Slot: 1, Bytes: []byte("junk one"), ContentType: "image/jpeg"},
		{Slot: 2, Bytes: []byte("junk two"), ContentType: "image/jpeg"},
	}

	_, err := f.svc.Submit(context.Background(), input)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitGPSRequiredGlobally(t *testing.T) {
	f := newServiceFixture(t)
	f.settings.settings.RequirePickupLocationGlobal = true

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	requireCode(t, err, pkgerrors.CodeValidation)

	input := f.submitInput()
	lat, lng := 52.52, 13.405
	input.Latitude, input.Longitude = &lat, &lng
	_, err = f.svc.Submit(context.Background(), input)
	assert.NoError(t, err)
}

func TestSubmitUserOverrideWinsOverGlobal(t *testing.T) {
	f := newServiceFixture(t)
	f.settings.settings.RequirePickupLocationGlobal = true
	noGPS := false
	f.users.user.RequirePickupLocation = &noGPS

	// Override off: submission without coordinates passes.
	_, err := f.svc.Submit(context.Background(), f.submitInput())
	assert.NoError(t, err)

	// Override on with global off: coordinates become mandatory.
	f.settings.settings.RequirePickupLocationGlobal = false
	needGPS := true
	f.users.user.RequirePickupLocation = &needGPS
	f.repo.created = nil

	_, err = f.svc.Submit(context.Background(), f.submitInput())
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitCoordinateRange(t *testing.T) {
	f := newServiceFixture(t)
	input := f.submitInput()
	lat, lng := 95.0, 13.4
	input.Latitude, input.Longitude = &lat, &lng

	_, err := f.svc.Submit(context.Background(), input)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitQuota(t *testing.T) {
	f := newServiceFixture(t)
	f.settings.settings.AllowedPickupsPerDay = 3

	f.repo.countToday = 2
	_, err := f.svc.Submit(context.Background(), f.submitInput())
	assert.NoError(t, err, "under quota must pass")

	f.repo.countToday = 3
	_, err = f.svc.Submit(context.Background(), f.submitInput())
	requireCode(t, err, pkgerrors.CodeQuotaExceeded)
}

func TestSubmitQuotaLimitClampedToOne(t *testing.T) {
	f := newServiceFixture(t)
	f.settings.settings.AllowedPickupsPerDay = 0

	f.repo.countToday = 0
	_, err := f.svc.Submit(context.Background(), f.submitInput())
	assert.NoError(t, err, "a zero limit still allows one pickup")

	f.repo.countToday = 1
	_, err = f.svc.Submit(context.Background(), f.submitInput())
	requireCode(t, err, pkgerrors.CodeQuotaExceeded)
}

func TestSubmitQuotaWindowIsUTCDay(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	require.NoError(t, err)

	require.Len(t, f.repo.countCalls, 2)
	from, to := f.repo.countCalls[0], f.repo.countCalls[1]
	assert.True(t, from.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.True(t, to.Equal(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))
}

func TestRequiresLocationPrecedence(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.settings.settings.RequirePickupLocationGlobal = true
	got, err := f.svc.RequiresLocation(ctx, f.driver.ID)
	require.NoError(t, err)
	assert.True(t, got, "global default applies when no override")

	off := false
	f.users.user.RequirePickupLocation = &off
	got, err = f.svc.RequiresLocation(ctx, f.driver.ID)
	require.NoError(t, err)
	assert.False(t, got, "per-user override wins")
}

func TestHistoryDriverScopedToSelf(t *testing.T) {
	f := newServiceFixture(t)
	other := uuid.New()

	result, err := f.svc.History(context.Background(), Actor{UserID: f.driver.ID, Role: enums.UserRoleDriver}, HistoryFilters{UserID: &other})
	require.NoError(t, err)

	require.NotNil(t, f.repo.lastFilters.UserID)
	assert.Equal(t, f.driver.ID, *f.repo.lastFilters.UserID)
	assert.NotEmpty(t, result.Warnings)
}

func TestHistoryInvertedRangeSwapped(t *testing.T) {
	f := newServiceFixture(t)
	from := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	result, err := f.svc.History(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}, HistoryFilters{From: &from, To: &to})
	require.NoError(t, err)

	assert.True(t, f.repo.lastFilters.From.Before(*f.repo.lastFilters.To))
	assert.NotEmpty(t, result.Warnings)
}

func TestHistoryGroupsByUTCDay(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.historyRows = []models.Pickup{
		{ID: uuid.New(), CreatedAt: time.Date(2026, 1, 5, 23, 50, 0, 0, time.UTC)},
		{ID: uuid.New(), CreatedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), CreatedAt: time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)},
	}

	result, err := f.svc.History(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleHistory}, HistoryFilters{})
	require.NoError(t, err)

	require.Len(t, result.Days, 2)
	assert.Equal(t, "2026-01-05", result.Days[0].Date)
	assert.Len(t, result.Days[0].Pickups, 2)
	assert.Equal(t, "2026-01-04", result.Days[1].Date)
	assert.Equal(t, 3, result.Total)
}

func TestGetPickupOwnership(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.Submit(context.Background(), f.submitInput())
	require.NoError(t, err)

	_, err = f.svc.GetPickup(context.Background(), Actor{UserID: f.driver.ID, Role: enums.UserRoleDriver}, result.Pickup.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetPickup(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleDriver}, result.Pickup.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = f.svc.GetPickup(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleHistory}, result.Pickup.ID)
	assert.NoError(t, err, "history role reads any pickup")
}

func TestGetPhotoSlotBounds(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.GetPhoto(context.Background(), Actor{UserID: f.driver.ID, Role: enums.UserRoleDriver}, uuid.New(), 0)
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.GetPhoto(context.Background(), Actor{UserID: f.driver.ID, Role: enums.UserRoleDriver}, uuid.New(), 5)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestDuplicatePreview(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.recent = []models.Pickup{
		{ID: uuid.New(), CreatedAt: f.now.Add(-10 * time.Minute), TimingStatus: enums.TimingStatusOnTime},
	}

	candidates, err := f.svc.DuplicatePreview(context.Background(), Actor{UserID: f.driver.ID, Role: enums.UserRoleDriver}, f.pharmacy.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 10, candidates[0].MinutesAgo)
}

func TestDuplicatePreviewUnlinkedDriver(t *testing.T) {
	f := newServiceFixture(t)
	f.pharmacies.linked = false

	_, err := f.svc.DuplicatePreview(context.Background(), Actor{UserID: f.driver.ID, Role: enums.UserRoleDriver}, f.pharmacy.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestDuplicateReport(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.groupKeys = []DuplicateGroupKey{
		{UserID: f.driver.ID, PharmacyID: f.pharmacy.ID, Count: 2},
	}
	f.repo.historyRows = []models.Pickup{
		{ID: uuid.New(), UserID: f.driver.ID, PharmacyID: f.pharmacy.ID, CreatedAt: f.now.Add(-3 * time.Hour)},
		{ID: uuid.New(), UserID: f.driver.ID, PharmacyID: f.pharmacy.ID, CreatedAt: f.now.Add(-1 * time.Hour)},
	}

	groups, err := f.svc.DuplicateReport(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}, f.now)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, f.driver.ID, groups[0].UserID)
	assert.Equal(t, f.pharmacy.ID, groups[0].PharmacyID)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, f.now.UTC().Format("2006-01-02"), groups[0].Day)
	assert.Len(t, groups[0].Pickups, 2)

	require.NotNil(t, f.repo.lastFilters.From)
	require.NotNil(t, f.repo.lastFilters.To)
	assert.Equal(t, 0, f.repo.lastFilters.From.Hour())
	assert.True(t, f.repo.lastFilters.To.Before(f.repo.lastFilters.From.Add(24*time.Hour)))
}

func TestDuplicateReportNonAdmin(t *testing.T) {
	f := newServiceFixture(t)

	for _, role := range []enums.UserRole{enums.UserRoleDriver, enums.UserRoleHistory} {
		_, err := f.svc.DuplicateReport(context.Background(), Actor{UserID: f.driver.ID, Role: role}, f.now)
		requireCode(t, err, pkgerrors.CodeForbidden)
	}
}
