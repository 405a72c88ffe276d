package repomanager

import (
	"context"

	"github.com/inkwell-app/inkwell/internal/server/repositories/articles"
	"github.com/inkwell-app/inkwell/internal/server/repositories/comments"
	"github.com/inkwell-app/inkwell/internal/server/repositories/users"
)

// InMemoryRepositoryManager vends the mutex-guarded in-memory repositories.
// Intended for development and tests; every repository operation is atomic
// on its own, but InTx offers no cross-operation rollback.
type InMemoryRepositoryManager struct {
	repos Repos
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		repos: Repos{
			Users:    users.NewInMemoryRepository(),
			Articles: articles.NewInMemoryRepository(),
			Comments: comments.NewInMemoryRepository(),
		},
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Repos() Repos { return m.repos }

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return fn(ctx, m.repos)
}

func (m *InMemoryRepositoryManager) Close() error { return nil }
