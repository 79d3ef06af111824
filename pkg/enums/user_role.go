package enums

import "fmt"

// UserRole is the closed set of application roles.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleDriver  UserRole = "driver"
	UserRoleHistory UserRole = "history"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleDriver,
	UserRoleHistory,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanWrite reports whether the role is allowed on mutation paths at all.
// The history role is read-only everywhere.
func (r UserRole) CanWrite() bool {
	switch r {
	case UserRoleAdmin, UserRoleDriver:
		return true
	case UserRoleHistory:
		return false
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
