// Package authz evaluates role-membership and resource-ownership rules
// against a resolved identity. Policy checks are pure: they never touch
// storage, so callers must load the target resource first (existence is
// always checked before ownership).
package authz

import (
	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/server/models"
)

// RequireRole fails with Forbidden unless the identity holds one of the
// allowed roles.
func RequireRole(id models.Identity, allowedRoles ...string) error {
	for _, role := range allowedRoles {
		if id.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("insufficient role")
}

// RequireOwnerOrRole fails with Forbidden unless the identity owns the
// resource or holds one of the override roles. This is the core check behind
// every content mutation: authors may always modify their own content, and
// privileged roles may override.
func RequireOwnerOrRole(id models.Identity, resourceOwnerID string, overrideRoles ...string) error {
	if id.UserID == resourceOwnerID {
		return nil
	}
	for _, role := range overrideRoles {
		if id.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("not allowed to modify this resource")
}
