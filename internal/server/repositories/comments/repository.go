// Package comments provides storage for threaded article comments. Comments
// are kept as flat records keyed by id; the parent/child relationship is an
// id reference, never an embedded object, so the reply graph cannot cycle
// through live pointers.
package comments

import (
	"context"

	"github.com/inkwell-app/inkwell/internal/server/models"
)

// Repository is the store abstraction for comments.
type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)

	// GetByID returns the comment or an apperr.KindNotFound error.
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// ListByArticle returns every comment on the article, newest first.
	// Callers assemble the one-level reply forest from the flat list.
	ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error)

	// DeleteWithReplies removes the comment and its reply subtree in one
	// atomic operation.
	DeleteWithReplies(ctx context.Context, id string) error

	// DeleteByArticle removes every comment on the article.
	DeleteByArticle(ctx context.Context, articleID string) error
}
