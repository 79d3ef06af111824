package pickups

import (
	"github.com/gprf24/pickUpLivery/pkg/enums"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
)

// AccessIntent distinguishes read access from write access when gating
// a pharmacy operation.
type AccessIntent string

const (
	AccessIntentRead  AccessIntent = "read"
	AccessIntentWrite AccessIntent = "write"
)

// EnsureCanAccess decides whether an actor may perform an operation
// against a pharmacy. Admins always pass. Drivers must hold an
// assignment link to the pharmacy. History accounts may read anything
// but never write. Unknown roles are rejected outright.
func EnsureCanAccess(role enums.UserRole, linked bool, intent AccessIntent) error {
	switch role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleDriver:
		if !linked {
			return pkgerrors.New(pkgerrors.CodeForbidden, "driver is not assigned to this pharmacy")
		}
		return nil
	case enums.UserRoleHistory:
		if intent == AccessIntentWrite {
			return pkgerrors.New(pkgerrors.CodeForbidden, "history accounts are read only")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
}
