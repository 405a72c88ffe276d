package articles

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/server/models"
)

// InMemoryRepository is a mutex-guarded article store for development and
// tests. The view-count increment runs entirely under the write lock.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Article
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*models.Article)}
}

func clone(a *models.Article) *models.Article {
	c := *a
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, article *models.Article) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(article)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.byID[stored.ID] = stored
	return clone(stored), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("article not found")
	}
	return clone(a), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, article *models.Article) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[article.ID]
	if !ok {
		return nil, apperr.NotFound("article not found")
	}

	stored.Title = article.Title
	stored.Content = article.Content
	stored.Summary = article.Summary
	stored.Cover = article.Cover
	stored.Status = article.Status
	stored.UpdatedAt = time.Now().UTC()

	return clone(stored), nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("article not found")
	}
	delete(r.byID, id)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, f Filter) ([]*models.Article, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Article
	for _, a := range r.byID {
		if f.Status == "" || a.Status == f.Status {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]*models.Article, 0, end-start)
	for _, a := range matched[start:end] {
		page = append(page, clone(a))
	}
	return page, total, nil
}

func (r *InMemoryRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Article
	for _, a := range r.byID {
		if a.AuthorID == authorID {
			result = append(result, clone(a))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) IncrementViewCount(ctx context.Context, id string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("article not found")
	}
	a.ViewCount++
	return clone(a), nil
}
