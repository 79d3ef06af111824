package pickups

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
)

// Repository defines persistence operations for pickups and their photos.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePickup(ctx context.Context, pickup *models.Pickup) (*models.Pickup, error)
	CreatePhotos(ctx context.Context, photos []models.PickupPhoto) error
	FindPickup(ctx context.Context, id uuid.UUID) (*models.Pickup, error)
	FindPhoto(ctx context.Context, pickupID uuid.UUID, slot int) (*models.PickupPhoto, error)
	CountForUserAndPharmacyBetween(ctx context.Context, userID, pharmacyID uuid.UUID, from, to time.Time) (int64, error)
	ListHistory(ctx context.Context, filters HistoryFilters) ([]models.Pickup, error)
	FindRecentByUserAndPharmacy(ctx context.Context, userID, pharmacyID uuid.UUID, since time.Time) ([]models.Pickup, error)
	ListDuplicateGroups(ctx context.Context, from, to time.Time) ([]DuplicateGroupKey, error)
}

// PharmacyReader resolves pharmacies and driver assignment links.
type PharmacyReader interface {
	FindPharmacy(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error)
	IsUserLinked(ctx context.Context, userID, pharmacyID uuid.UUID) (bool, error)
}

// SettingsReader loads the singleton application settings row.
type SettingsReader interface {
	Get(ctx context.Context) (*models.AppSettings, error)
}

// UserReader resolves users for GPS override lookups.
type UserReader interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
