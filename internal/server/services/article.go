package services

import (
	"context"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/server/authz"
	"github.com/inkwell-app/inkwell/internal/server/models"
	"github.com/inkwell-app/inkwell/internal/server/repositories/articles"
	"github.com/inkwell-app/inkwell/internal/server/repositories/repomanager"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	summaryLength    = 200
)

// CreateArticleInput carries the client-supplied fields of a new article.
// The author is always the resolved identity, never part of the input.
type CreateArticleInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
	Cover   string `json:"cover"`
	Status  string `json:"status"`
}

// ArticleService implements the article side of the content graph. Every
// mutation checks existence first, then ownership, in that order.
type ArticleService struct {
	rm repomanager.RepositoryManager
}

func NewArticleService(rm repomanager.RepositoryManager) *ArticleService {
	return &ArticleService{rm: rm}
}

// Create stores a new article authored by the identity.
func (s *ArticleService) Create(ctx context.Context, ident models.Identity, in CreateArticleInput) (*models.Article, error) {
	if in.Title == "" || in.Content == "" {
		return nil, apperr.Validation("title and content are required")
	}
	if in.Status == "" {
		in.Status = models.StatusDraft
	}
	if !models.ValidStatus(in.Status) {
		return nil, apperr.Validation("unknown status")
	}
	if in.Summary == "" {
		in.Summary = summarize(in.Content)
	}

	return s.rm.Repos().Articles.Create(ctx, &models.Article{
		Title:    in.Title,
		Content:  in.Content,
		Summary:  in.Summary,
		Cover:    in.Cover,
		Status:   in.Status,
		AuthorID: ident.UserID,
	})
}

// summarize derives a default summary from the leading content runes.
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryLength {
		return content
	}
	return string(runes[:summaryLength])
}

// Update applies the present patch fields after the owner-or-admin check.
func (s *ArticleService) Update(ctx context.Context, id string, ident models.Identity, patch models.ArticlePatch) (*models.Article, error) {
	repo := s.rm.Repos().Articles

	article, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOrRole(ident, article.AuthorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		article.Title = *patch.Title
	}
	if patch.Content != nil {
		if *patch.Content == "" {
			return nil, apperr.Validation("content cannot be empty")
		}
		article.Content = *patch.Content
	}
	if patch.Summary != nil {
		article.Summary = *patch.Summary
	}
	if patch.Cover != nil {
		article.Cover = *patch.Cover
	}
	if patch.Status != nil {
		if !models.ValidStatus(*patch.Status) {
			return nil, apperr.Validation("unknown status")
		}
		article.Status = *patch.Status
	}

	return repo.Update(ctx, article)
}

// Delete permanently removes the article and its comments after the
// owner-or-admin check. Both deletes run in one transaction scope.
func (s *ArticleService) Delete(ctx context.Context, id string, ident models.Identity) error {
	article, err := s.rm.Repos().Articles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnerOrRole(ident, article.AuthorID, models.RoleAdmin); err != nil {
		return err
	}

	return s.rm.InTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		if err := r.Comments.DeleteByArticle(ctx, id); err != nil {
			return err
		}
		return r.Articles.Delete(ctx, id)
	})
}

// NormalizePage clamps client-supplied pagination values to the ranges List
// accepts, so callers can report the effective page and limit back.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// List returns one page of articles filtered by status, newest first, with
// the total for the same filter.
func (s *ArticleService) List(ctx context.Context, status string, page, limit int) ([]*models.Article, int64, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, 0, apperr.Validation("unknown status")
	}
	page, limit = NormalizePage(page, limit)

	return s.rm.Repos().Articles.List(ctx, articles.Filter{Status: status, Page: page, Limit: limit})
}

// ListMine returns all of the identity's own articles, drafts included.
func (s *ArticleService) ListMine(ctx context.Context, ident models.Identity) ([]*models.Article, error) {
	return s.rm.Repos().Articles.ListByAuthor(ctx, ident.UserID)
}

// View reads an article and bumps its view count as a side effect. The
// increment happens in the store as one atomic operation, so concurrent
// views are all counted.
func (s *ArticleService) View(ctx context.Context, id string) (*models.Article, error) {
	return s.rm.Repos().Articles.IncrementViewCount(ctx, id)
}
