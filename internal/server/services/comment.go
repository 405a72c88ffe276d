package services

import (
	"context"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/server/authz"
	"github.com/inkwell-app/inkwell/internal/server/models"
	"github.com/inkwell-app/inkwell/internal/server/repositories/repomanager"
)

// CommentService implements the threaded-comment side of the content graph.
type CommentService struct {
	rm repomanager.RepositoryManager
}

func NewCommentService(rm repomanager.RepositoryManager) *CommentService {
	return &CommentService{rm: rm}
}

// Create adds a comment to an article. The article must exist; a parent, if
// given, must exist and belong to the same article.
func (s *CommentService) Create(ctx context.Context, articleID string, ident models.Identity, content string, parentID *string) (*models.Comment, error) {
	if content == "" {
		return nil, apperr.Validation("comment content is required")
	}

	r := s.rm.Repos()

	if _, err := r.Articles.GetByID(ctx, articleID); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := r.Comments.GetByID(ctx, *parentID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return nil, apperr.InvalidParent("parent comment does not exist")
			}
			return nil, err
		}
		if parent.ArticleID != articleID {
			return nil, apperr.InvalidParent("parent comment belongs to another article")
		}
	}

	return r.Comments.Create(ctx, &models.Comment{
		ArticleID: articleID,
		UserID:    ident.UserID,
		ParentID:  parentID,
		Content:   content,
	})
}

// ListForest returns the article's top-level comments, newest first, each
// with its direct replies attached. Replies to replies are stored but not
// attached here; one level is the documented depth limit.
func (s *CommentService) ListForest(ctx context.Context, articleID string) ([]*models.CommentThread, error) {
	all, err := s.rm.Repos().Comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	replies := make(map[string][]*models.Comment)
	for _, c := range all {
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}

	forest := make([]*models.CommentThread, 0)
	for _, c := range all {
		if c.ParentID != nil {
			continue
		}
		thread := &models.CommentThread{Comment: *c}
		thread.Replies = replies[c.ID]
		if thread.Replies == nil {
			thread.Replies = []*models.Comment{}
		}
		forest = append(forest, thread)
	}
	return forest, nil
}

// Delete removes a comment after the owner-or-admin check. Replies are
// deleted with their parent; see the repository's DeleteWithReplies.
func (s *CommentService) Delete(ctx context.Context, id string, ident models.Identity) error {
	comment, err := s.rm.Repos().Comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnerOrRole(ident, comment.UserID, models.RoleAdmin); err != nil {
		return err
	}
	return s.rm.Repos().Comments.DeleteWithReplies(ctx, id)
}
