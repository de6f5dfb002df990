package auth

import (
	"github.com/labstack/echo/v4"

	"taskboard/internal/model"
)

// ContextKey is where the session middleware stores the request's Identity.
const ContextKey = "identity"

// Identity is the authenticated actor for the current session.
type Identity struct {
	UserID   uint       `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// IsAdmin reports whether the actor holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// IdentityFromUser builds the session identity for a freshly authenticated user.
func IdentityFromUser(u *model.User) *Identity {
	return &Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// FromContext returns the identity loaded by the session middleware, or nil
// for anonymous requests. Only handlers call this; services receive the
// identity as an argument.
func FromContext(c echo.Context) *Identity {
	id, _ := c.Get(ContextKey).(*Identity)
	return id
}
