package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/dbx"
	"github.com/inkwell-app/inkwell/internal/server/models"
)

// PostgresRepository implements article storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const articleCols = `id, title, content, summary, cover, status, view_count, author_id, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Summary, &a.Cover,
		&a.Status, &a.ViewCount, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, article *models.Article) (*models.Article, error) {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}

	query := `
		INSERT INTO articles (id, title, content, summary, cover, status, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Title, article.Content, article.Summary,
		article.Cover, article.Status, article.AuthorID).
		Scan(&article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return article, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleCols + ` FROM articles WHERE id = $1`
	a, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("article not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, article *models.Article) (*models.Article, error) {
	query := `
		UPDATE articles
		SET title = $2, content = $3, summary = $4, cover = $5, status = $6, updated_at = now()
		WHERE id = $1
		RETURNING view_count, author_id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Title, article.Content, article.Summary,
		article.Cover, article.Status).
		Scan(&article.ViewCount, &article.AuthorID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("article not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return article, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("article not found")
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.Article, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM articles WHERE ($1 = '' OR status = $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := `
		SELECT ` + articleCols + `
		FROM articles
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	offset := (f.Page - 1) * f.Limit
	rows, err := r.db.QueryContext(ctx, query, f.Status, f.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error) {
	query := `
		SELECT ` + articleCols + `
		FROM articles
		WHERE author_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// IncrementViewCount is a single atomic UPDATE, so concurrent views never
// lose increments.
func (r *PostgresRepository) IncrementViewCount(ctx context.Context, id string) (*models.Article, error) {
	query := `
		UPDATE articles
		SET view_count = view_count + 1
		WHERE id = $1
		RETURNING ` + articleCols + `
	`
	a, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("article not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
