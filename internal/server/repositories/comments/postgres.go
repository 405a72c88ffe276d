package comments

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

// PostgresRepository implements comment storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}

	query := `
		INSERT INTO comments (id, article_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.ArticleID, comment.UserID, comment.ParentID, comment.Content).
		Scan(&comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, article_id, user_id, parent_id, content, created_at
		FROM comments
		WHERE id = $1
	`
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.ArticleID, &c.UserID, &c.ParentID, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	query := `
		SELECT id, article_id, user_id, parent_id, content, created_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.UserID, &c.ParentID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteWithReplies removes the comment; the reply subtree goes with it via
// the parent_id ON DELETE CASCADE constraint, atomically in one statement.
func (r *PostgresRepository) DeleteWithReplies(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

func (r *PostgresRepository) DeleteByArticle(ctx context.Context, articleID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
