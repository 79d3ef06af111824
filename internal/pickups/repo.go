package pickups

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pickups repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePickup(ctx context.Context, pickup *models.Pickup) (*models.Pickup, error) {
	if pickup.ID == uuid.Nil {
		pickup.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(pickup).Error; err != nil {
		return nil, err
	}
	return pickup, nil
}

func (r *repository) CreatePhotos(ctx context.Context, photos []models.PickupPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	for i := range photos {
		if photos[i].ID == uuid.Nil {
			photos[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&photos).Error
}

func (r *repository) FindPickup(ctx context.Context, id uuid.UUID) (*models.Pickup, error) {
	var pickup models.Pickup
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "pickup_id", "slot", "content_type", "file_name", "created_at").Order("slot ASC")
		}).
		Where("id = ?", id).
		First(&pickup).Error
	if err != nil {
		return nil, err
	}
	return &pickup, nil
}

func (r *repository) FindPhoto(ctx context.Context, pickupID uuid.UUID, slot int) (*models.PickupPhoto, error) {
	var photo models.PickupPhoto
	err := r.db.WithContext(ctx).
		Where("pickup_id = ? AND slot = ?", pickupID, slot).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// CountForUserAndPharmacyBetween counts one driver's pickups at one
// pharmacy created in [from, to). The quota window is the UTC calendar
// day regardless of the cutoff timezone.
func (r *repository) CountForUserAndPharmacyBetween(ctx context.Context, userID, pharmacyID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pickup{}).
		Where("user_id = ? AND pharmacy_id = ? AND created_at >= ? AND created_at < ?", userID, pharmacyID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListHistory(ctx context.Context, filters HistoryFilters) ([]models.Pickup, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Pickup{}).
		Preload("User").
		Preload("Pharmacy").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "pickup_id", "slot", "content_type", "file_name", "created_at").Order("slot ASC")
		})

	if filters.UserID != nil {
		q = q.Where("user_id = ?", *filters.UserID)
	}
	if filters.PharmacyID != nil {
		q = q.Where("pharmacy_id = ?", *filters.PharmacyID)
	}
	if filters.RegionID != nil {
		q = q.Joins("JOIN pharmacies ON pharmacies.id = pickups.pharmacy_id").
			Where("pharmacies.region_id = ?", *filters.RegionID)
	}
	if filters.From != nil {
		q = q.Where("pickups.created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		q = q.Where("pickups.created_at <= ?", *filters.To)
	}
	if filters.TimingStatus != nil {
		q = q.Where("timing_status = ?", *filters.TimingStatus)
	}
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}

	var pickups []models.Pickup
	if err := q.Order("pickups.created_at DESC").Find(&pickups).Error; err != nil {
		return nil, err
	}
	return pickups, nil
}

func (r *repository) FindRecentByUserAndPharmacy(ctx context.Context, userID, pharmacyID uuid.UUID, since time.Time) ([]models.Pickup, error) {
	var pickups []models.Pickup
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND pharmacy_id = ? AND created_at >= ?", userID, pharmacyID, since).
		Order("created_at DESC").
		Find(&pickups).Error
	if err != nil {
		return nil, err
	}
	return pickups, nil
}

func (r *repository) ListDuplicateGroups(ctx context.Context, from, to time.Time) ([]DuplicateGroupKey, error) {
	var keys []DuplicateGroupKey
	err := r.db.WithContext(ctx).
		Model(&models.Pickup{}).
		Select("user_id, pharmacy_id, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("user_id, pharmacy_id").
		Having("COUNT(*) > 1").
		Order("count DESC").
		Scan(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
