package models

import (
	"time"

	"github.com/google/uuid"
)

// UserPharmacyLink assigns a driver to a pharmacy. Drivers may only
// record pickups at pharmacies they are linked to.
type UserPharmacyLink struct {
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	PharmacyID uuid.UUID `gorm:"column:pharmacy_id;type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserPharmacyLink) TableName() string { return "user_pharmacy_links" }
