package models

import (
	"time"

	"github.com/google/uuid"
)

// PickupPhoto is one proof photo attached to a pickup. Slot numbers
// run 1 through 4 and are unique within a pickup.
type PickupPhoto struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PickupID    uuid.UUID `gorm:"column:pickup_id;type:uuid;not null;index;uniqueIndex:uq_pickup_photos_pickup_slot"`
	Slot        int       `gorm:"column:slot;not null;uniqueIndex:uq_pickup_photos_pickup_slot"`
	ImageBytes  []byte    `gorm:"column:image_bytes;not null"`
	ContentType string    `gorm:"column:content_type;not null"`
	FileName    *string   `gorm:"column:file_name"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PickupPhoto) TableName() string { return "pickup_photos" }
