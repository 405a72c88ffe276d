// Package articles provides storage for authored content items.
package articles

import (
	"context"

	"github.com/inkwell-app/inkwell/internal/server/models"
)

// Filter narrows List results. Page is 1-based; Limit caps the page size.
type Filter struct {
	Status string
	Page   int
	Limit  int
}

// Repository is the store abstraction for articles. The view-count increment
// must be atomic per record under concurrent readers.
type Repository interface {
	Create(ctx context.Context, article *models.Article) (*models.Article, error)

	// GetByID returns the article or an apperr.KindNotFound error.
	GetByID(ctx context.Context, id string) (*models.Article, error)

	Update(ctx context.Context, article *models.Article) (*models.Article, error)

	Delete(ctx context.Context, id string) error

	// List returns one page ordered most-recent-first plus the total count
	// matching the same filter.
	List(ctx context.Context, f Filter) ([]*models.Article, int64, error)

	ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error)

	// IncrementViewCount atomically bumps the view count and returns the
	// updated article. Concurrent increments must not be lost.
	IncrementViewCount(ctx context.Context, id string) (*models.Article, error)
}
