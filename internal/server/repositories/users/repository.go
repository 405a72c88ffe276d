// Package users provides storage for user identity records.
package users

import (
	"context"

	"github.com/inkwell-app/inkwell/internal/server/models"
)

// Repository is the store abstraction for user records. Implementations must
// make Create atomic with respect to the username/email uniqueness check.
type Repository interface {
	// Create inserts a new user. Collisions on username or email yield an
	// apperr.KindDuplicate error. A missing ID is generated.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user or an apperr.KindNotFound error.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByIdentifier looks a user up by username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// Update persists profile fields (username, bio, avatar) of an existing
	// user. Username collisions yield an apperr.KindDuplicate error.
	Update(ctx context.Context, user *models.User) (*models.User, error)

	// SetActive flips the active flag. Users are never physically deleted.
	SetActive(ctx context.Context, id string, active bool) error
}
