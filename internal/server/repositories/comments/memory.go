package comments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/server/models"
)

// InMemoryRepository is a mutex-guarded comment store for development and
// tests. Records are kept in an arena keyed by id with index maps for
// article and parent lookups.
type InMemoryRepository struct {
	mu        sync.RWMutex
	byID      map[string]*models.Comment
	byArticle map[string][]string
	byParent  map[string][]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:      make(map[string]*models.Comment),
		byArticle: make(map[string][]string),
		byParent:  make(map[string][]string),
	}
}

func clone(c *models.Comment) *models.Comment {
	cp := *c
	if c.ParentID != nil {
		pid := *c.ParentID
		cp.ParentID = &pid
	}
	return &cp
}

func (r *InMemoryRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(comment)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.byID[stored.ID] = stored
	r.byArticle[stored.ArticleID] = append(r.byArticle[stored.ArticleID], stored.ID)
	if stored.ParentID != nil {
		r.byParent[*stored.ParentID] = append(r.byParent[*stored.ParentID], stored.ID)
	}

	return clone(stored), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("comment not found")
	}
	return clone(c), nil
}

func (r *InMemoryRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byArticle[articleID]
	result := make([]*models.Comment, 0, len(ids))
	for _, id := range ids {
		result = append(result, clone(r.byID[id]))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) DeleteWithReplies(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("comment not found")
	}

	// collect the whole reply subtree; replies to replies go too
	victims := []string{id}
	for i := 0; i < len(victims); i++ {
		victims = append(victims, r.byParent[victims[i]]...)
	}
	for _, v := range victims {
		r.removeLocked(v)
	}
	return nil
}

func (r *InMemoryRepository) DeleteByArticle(ctx context.Context, articleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range append([]string(nil), r.byArticle[articleID]...) {
		r.removeLocked(id)
	}
	delete(r.byArticle, articleID)
	return nil
}

// removeLocked deletes one comment and unlinks it from the indexes. The
// caller must hold the write lock.
func (r *InMemoryRepository) removeLocked(id string) {
	c, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.byParent, id)

	r.byArticle[c.ArticleID] = removeID(r.byArticle[c.ArticleID], id)
	if c.ParentID != nil {
		if ids, ok := r.byParent[*c.ParentID]; ok {
			r.byParent[*c.ParentID] = removeID(ids, id)
		}
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
