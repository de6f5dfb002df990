package service

import (
	"taskboard/internal/auth"
	"taskboard/internal/policy"
)

// Caller is who issued a request and where a denial should send them back
// to. A nil Identity is an anonymous caller.
type Caller struct {
	Identity *auth.Identity
	Referer  string
}

// authorize runs the policy for the caller and converts a denial into an
// *errors.AuthorizationError.
func (c Caller) authorize(action policy.Action, target policy.Target) error {
	target.Referer = c.Referer
	return policy.Authorize(c.Identity, action, target).Err(c.Identity)
}

func (c Caller) username() string {
	if c.Identity == nil {
		return ""
	}
	return c.Identity.Username
}
