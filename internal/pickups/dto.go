package pickups

import (
	"time"

	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
	"github.com/gprf24/pickUpLivery/pkg/enums"
)

// Actor identifies the authenticated caller of a pickup operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// PhotoUpload is one decoded proof photo from the submission form.
// Slot numbers run 1 through 4.
type PhotoUpload struct {
	Slot        int
	Bytes       []byte
	ContentType string
	FileName    string
}

// SubmitInput carries everything needed to record a pickup.
type SubmitInput struct {
	Actor      Actor
	PharmacyID uuid.UUID
	Latitude   *float64
	Longitude  *float64
	Comment    *string
	Photos     []PhotoUpload
}

// SubmitResult reports the frozen outcome of an accepted pickup.
type SubmitResult struct {
	Pickup       *models.Pickup
	TimingStatus enums.TimingStatus
	CutoffAtUTC  *time.Time
	PhotosSaved  int
}

// HistoryFilters narrows a pickup history query. Zero values mean "no
// filter". From and To are interpreted as inclusive UTC instants.
type HistoryFilters struct {
	UserID       *uuid.UUID
	PharmacyID   *uuid.UUID
	RegionID     *uuid.UUID
	From         *time.Time
	To           *time.Time
	TimingStatus *enums.TimingStatus
	Limit        int
}

// HistoryDay groups pickups by UTC calendar day for the history view.
type HistoryDay struct {
	Date    string          `json:"date"`
	Pickups []models.Pickup `json:"pickups"`
}

// HistoryResult is a day-grouped listing plus any soft warnings raised
// while interpreting the filters.
type HistoryResult struct {
	Days     []HistoryDay `json:"days"`
	Total    int          `json:"total"`
	Warnings []string     `json:"warnings,omitempty"`
}

// DuplicateGroupKey identifies one driver+pharmacy pair with its pickup
// count inside a report window.
type DuplicateGroupKey struct {
	UserID     uuid.UUID `gorm:"column:user_id"`
	PharmacyID uuid.UUID `gorm:"column:pharmacy_id"`
	Count      int64     `gorm:"column:count"`
}

// DuplicateGroup collects the pickups one driver logged at one pharmacy
// within a single UTC day. Only groups with more than one pickup are
// reported.
type DuplicateGroup struct {
	UserID     uuid.UUID       `json:"user_id"`
	PharmacyID uuid.UUID       `json:"pharmacy_id"`
	Day        string          `json:"day"`
	Count      int             `json:"count"`
	Pickups    []models.Pickup `json:"pickups"`
}

// DuplicateCandidate is a recent pickup at the same pharmacy that a
// new submission may be repeating.
type DuplicateCandidate struct {
	PickupID     uuid.UUID          `json:"pickup_id"`
	CreatedAt    time.Time          `json:"created_at"`
	TimingStatus enums.TimingStatus `json:"timing_status"`
	MinutesAgo   int                `json:"minutes_ago"`
}
