package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/pkg/enums"
)

// Pickup is one recorded pickup event.
//
// CutoffAtUTC and TimingStatus are frozen at submission time: they
// capture the cutoff and classification that applied at the moment the
// pickup was created. Editing a pharmacy schedule later never changes
// historical rows.
type Pickup struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	PharmacyID uuid.UUID `gorm:"column:pharmacy_id;type:uuid;not null;index"`
	Latitude   *float64  `gorm:"column:latitude"`
	Longitude  *float64  `gorm:"column:longitude"`
	Comment    *string   `gorm:"column:comment"`
	Status     string    `gorm:"column:status;not null;default:completed"`

	CutoffAtUTC  *time.Time         `gorm:"column:cutoff_at_utc"`
	TimingStatus enums.TimingStatus `gorm:"column:timing_status;type:timing_status;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`

	User     *User         `gorm:"foreignKey:UserID"`
	Pharmacy *Pharmacy     `gorm:"foreignKey:PharmacyID"`
	Photos   []PickupPhoto `gorm:"foreignKey:PickupID"`
}
