package models

import (
	"time"

	"github.com/google/uuid"
)

// Region groups pharmacies for filtering and reporting.
type Region struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;index"`
	Code      *string   `gorm:"column:code"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
