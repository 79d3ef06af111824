package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/pkg/db/models"
	"github.com/gprf24/pickUpLivery/pkg/enums"
)

// CreateInput carries the fields an admin supplies when creating an account.
type CreateInput struct {
	Login                 string
	Password              string
	FullName              *string
	Role                  enums.UserRole
	RequirePickupLocation *bool
}

// UpdateInput carries optional account changes; nil fields are untouched.
type UpdateInput struct {
	FullName              *string
	Password              *string
	IsActive              *bool
	RequirePickupLocation *bool
	ClearLocationOverride bool
}

// Response is the public view of a user account.
type Response struct {
	ID                    uuid.UUID      `json:"id"`
	Login                 string         `json:"login"`
	FullName              *string        `json:"full_name,omitempty"`
	Role                  enums.UserRole `json:"role"`
	IsActive              bool           `json:"is_active"`
	RequirePickupLocation *bool          `json:"require_pickup_location,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
}

// ToResponse maps a user row onto its public view.
func ToResponse(user *models.User) Response {
	return Response{
		ID:                    user.ID,
		Login:                 user.Login,
		FullName:              user.FullName,
		Role:                  user.Role,
		IsActive:              user.IsActive,
		RequirePickupLocation: user.RequirePickupLocation,
		CreatedAt:             user.CreatedAt,
	}
}
