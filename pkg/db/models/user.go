package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/pkg/enums"
)

// User is an operator account: an admin, a driver, or a read-only
// history reviewer.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Login        string         `gorm:"column:login;type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FullName     *string        `gorm:"column:full_name"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null;default:driver"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`

	// RequirePickupLocation overrides the global GPS requirement when
	// set. Nil means "follow the global setting".
	RequirePickupLocation *bool `gorm:"column:require_pickup_location"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
