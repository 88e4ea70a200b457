package types

import (
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	"github.com/google/uuid"
)

// Actor identifies the authenticated user performing a request.
type Actor struct {
	UserID   uuid.UUID
	CampusID string
	Role     enums.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}
