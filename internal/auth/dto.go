package auth

import (
	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/pkg/enums"
)

// LoginRequest carries submitted credentials.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the access token plus the caller's identity.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	UserID      uuid.UUID      `json:"user_id"`
	Login       string         `json:"login"`
	Role        enums.UserRole `json:"role"`
	FullName    *string        `json:"full_name,omitempty"`
}
