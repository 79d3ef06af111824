package settings

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
)

// Repository persists the singleton application settings row.
type Repository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Save(ctx context.Context, settings *models.AppSettings) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Get loads the settings row, creating the default row if the table is
// empty.
func (r *repository) Get(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", models.AppSettingsRowID).
		First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = defaultSettings()
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) Save(ctx context.Context, settings *models.AppSettings) error {
	settings.ID = models.AppSettingsRowID
	settings.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(settings).Error
}

func defaultSettings() models.AppSettings {
	return models.AppSettings{
		ID:                          models.AppSettingsRowID,
		AllowedPickupsPerDay:        100,
		RequirePickupLocationGlobal: true,
		MinRequiredPhotos:           1,
		PhotoSourceMode:             "camera_or_upload",
	}
}
