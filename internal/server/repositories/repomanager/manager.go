// Package repomanager wires the repository implementations behind a single
// manager so services take one dependency and the storage backend is chosen
// once at process start.
package repomanager

import (
	"context"

	"github.com/inkwell-app/inkwell/internal/server/repositories/articles"
	"github.com/inkwell-app/inkwell/internal/server/repositories/comments"
	"github.com/inkwell-app/inkwell/internal/server/repositories/users"
)

// Repos bundles the three repositories handed to services, either bound to
// the shared connection or to one transaction.
type Repos struct {
	Users    users.Repository
	Articles articles.Repository
	Comments comments.Repository
}

// RepositoryManager vends repositories and transaction scopes.
type RepositoryManager interface {
	// RunMigrations brings the schema up to date. A no-op for backends
	// without schemas.
	RunMigrations(ctx context.Context) error

	// Repos returns repositories bound to the shared connection.
	Repos() Repos

	// InTx runs fn with repositories bound to one transaction; the
	// transaction commits when fn returns nil and rolls back otherwise.
	// Backends without transactions run fn against the shared repos.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error

	// Close releases the underlying storage handle.
	Close() error
}
