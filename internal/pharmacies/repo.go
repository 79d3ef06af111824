package pharmacies

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
)

// Repository defines persistence operations for pharmacies and driver
// assignment links.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pharmacy *models.Pharmacy) (*models.Pharmacy, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error)
	List(ctx context.Context, filters ListFilters) ([]models.Pharmacy, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Link(ctx context.Context, userID, pharmacyID uuid.UUID) error
	Unlink(ctx context.Context, userID, pharmacyID uuid.UUID) error
	IsLinked(ctx context.Context, userID, pharmacyID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Pharmacy, error)
}

// ListFilters narrows a pharmacy listing.
type ListFilters struct {
	RegionID   *uuid.UUID
	ActiveOnly bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pharmacies repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, pharmacy *models.Pharmacy) (*models.Pharmacy, error) {
	if pharmacy.ID == uuid.Nil {
		pharmacy.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(pharmacy).Error; err != nil {
		return nil, err
	}
	return pharmacy, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error) {
	var pharmacy models.Pharmacy
	err := r.db.WithContext(ctx).
		Preload("Region").
		Where("id = ?", id).
		First(&pharmacy).Error
	if err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Pharmacy, error) {
	q := r.db.WithContext(ctx).Model(&models.Pharmacy{}).Preload("Region")
	if filters.RegionID != nil {
		q = q.Where("region_id = ?", *filters.RegionID)
	}
	if filters.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	var pharmacies []models.Pharmacy
	if err := q.Order("name ASC").Find(&pharmacies).Error; err != nil {
		return nil, err
	}
	return pharmacies, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Pharmacy{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Link(ctx context.Context, userID, pharmacyID uuid.UUID) error {
	link := models.UserPharmacyLink{UserID: userID, PharmacyID: pharmacyID}
	err := r.db.WithContext(ctx).Create(&link).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

func (r *repository) Unlink(ctx context.Context, userID, pharmacyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND pharmacy_id = ?", userID, pharmacyID).
		Delete(&models.UserPharmacyLink{}).Error
}

func (r *repository) IsLinked(ctx context.Context, userID, pharmacyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserPharmacyLink{}).
		Where("user_id = ? AND pharmacy_id = ?", userID, pharmacyID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Pharmacy, error) {
	var pharmacies []models.Pharmacy
	err := r.db.WithContext(ctx).
		Joins("JOIN user_pharmacy_links ON user_pharmacy_links.pharmacy_id = pharmacies.id").
		Where("user_pharmacy_links.user_id = ? AND pharmacies.is_active = ?", userID, true).
		Order("pharmacies.name ASC").
		Find(&pharmacies).Error
	if err != nil {
		return nil, err
	}
	return pharmacies, nil
}

func isDuplicateKey(err error) bool {
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}
