package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_UsesEmbeddedFS(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &PostgresRepositoryManager{db: db}

	called := false
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, gdb *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		require.Same(t, db, gdb)
		require.Equal(t, ".", dir)
		return nil
	}
	t.Cleanup(func() { gooseUpContext = orig })

	require.NoError(t, m.RunMigrations(context.Background()))
	require.True(t, called)
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &PostgresRepositoryManager{db: db}

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, gdb *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("migrate failed")
	}
	t.Cleanup(func() { gooseUpContext = orig })

	require.Error(t, m.RunMigrations(context.Background()))
}

func TestInTx_CommitsAndRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := &PostgresRepositoryManager{db: db}

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, m.InTx(context.Background(), func(ctx context.Context, r Repos) error {
		require.NotNil(t, r.Users)
		require.NotNil(t, r.Articles)
		require.NotNil(t, r.Comments)
		return nil
	}))

	mock.ExpectBegin()
	mock.ExpectRollback()
	require.Error(t, m.InTx(context.Background(), func(ctx context.Context, r Repos) error {
		return errors.New("boom")
	}))

	require.NoError(t, mock.ExpectationsWereMet())
}
