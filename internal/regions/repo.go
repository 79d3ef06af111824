package regions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
)

// Repository defines persistence operations for regions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, region *models.Region) (*models.Region, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Region, error)
	List(ctx context.Context, activeOnly bool) ([]models.Region, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a regions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, region *models.Region) (*models.Region, error) {
	if region.ID == uuid.Nil {
		region.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(region).Error; err != nil {
		return nil, err
	}
	return region, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	var region models.Region
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&region).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]models.Region, error) {
	q := r.db.WithContext(ctx).Model(&models.Region{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var regions []models.Region
	if err := q.Order("name ASC").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Region{}).
		Where("id = ?", id).
		Updates(updates).Error
}
