package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/pkg/types"
)

// Pharmacy is a pickup location with a weekly cutoff schedule.
//
// CutoffSchedule holds local wall-clock cutoff times keyed by weekday.
// A missing weekday means no cutoff applies on that day.
type Pharmacy struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string               `gorm:"column:name;not null;index"`
	RegionID       *uuid.UUID           `gorm:"column:region_id;type:uuid;index"`
	Address        *string              `gorm:"column:address"`
	IsActive       bool                 `gorm:"column:is_active;not null;default:true"`
	CutoffSchedule types.WeeklySchedule `gorm:"column:cutoff_schedule;type:jsonb;not null;default:'{}'"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`

	Region *Region `gorm:"foreignKey:RegionID"`
}
