package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/inkwell-app/inkwell/internal/dbx"
	"github.com/inkwell-app/inkwell/internal/server/migrations"
	"github.com/inkwell-app/inkwell/internal/server/repositories/articles"
	"github.com/inkwell-app/inkwell/internal/server/repositories/comments"
	"github.com/inkwell-app/inkwell/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories over one
// *sql.DB and applies the embedded goose migrations.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// NewPostgresRepositoryManager opens the pgx stdlib driver for dsn.
func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return &PostgresRepositoryManager{db: db}, nil
}

func reposFor(db dbx.DBTX) Repos {
	return Repos{
		Users:    users.NewPostgresRepository(db),
		Articles: articles.NewPostgresRepository(db),
		Comments: comments.NewPostgresRepository(db),
	}
}

func (m *PostgresRepositoryManager) Repos() Repos {
	return reposFor(m.db)
}

func (m *PostgresRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, reposFor(tx))
	})
}

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
