package models

import (
	"time"

	"github.com/gprf24/pickUpLivery/pkg/enums"
)

// AppSettings is the singleton settings row (id is always 1).
type AppSettings struct {
	ID                          int16                 `gorm:"column:id;primaryKey"`
	AllowedPickupsPerDay        int                   `gorm:"column:allowed_pickups_per_day;not null;default:100"`
	RequirePickupLocationGlobal bool                  `gorm:"column:require_pickup_location_global;not null;default:true"`
	MinRequiredPhotos           int                   `gorm:"column:min_required_photos;not null;default:1"`
	PhotoSourceMode             enums.PhotoSourceMode `gorm:"column:photo_source_mode;type:photo_source_mode;not null;default:camera_or_upload"`
	UpdatedAt                   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (AppSettings) TableName() string { return "app_settings" }

// AppSettingsRowID is the only valid primary key for app_settings.
const AppSettingsRowID int16 = 1
