package articles

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/server/models"
)

func seedArticles(t *testing.T, repo *InMemoryRepository, n int, status string) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		_, err := repo.Create(context.Background(), &models.Article{
			Title:     fmt.Sprintf("article %d", i),
			Content:   "body",
			Status:    status,
			AuthorID:  "author-1",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}
}

func TestInMemory_ListPagination(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()
	seedArticles(t, repo, 15, models.StatusPublished)
	seedArticles(t, repo, 3, models.StatusDraft)

	page, total, err := repo.List(context.Background(), Filter{Status: models.StatusPublished, Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(15), total, "total must reflect the same filter as the page")
	require.Len(t, page, 5)

	// most-recent-first within the page
	for i := 1; i < len(page); i++ {
		require.False(t, page[i].CreatedAt.After(page[i-1].CreatedAt))
	}
}

func TestInMemory_ConcurrentViewCount(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	a, err := repo.Create(context.Background(), &models.Article{Title: "t", Content: "c", Status: models.StatusPublished, AuthorID: "u"})
	require.NoError(t, err)

	const views = 50
	var wg sync.WaitGroup
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementViewCount(context.Background(), a.ID)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(views), got.ViewCount, "concurrent increments must not be lost")
}

func TestInMemory_DeleteAndNotFound(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	a, err := repo.Create(context.Background(), &models.Article{Title: "t", Content: "c", AuthorID: "u"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), a.ID))
	require.True(t, apperr.IsKind(repo.Delete(context.Background(), a.ID), apperr.KindNotFound))

	_, err = repo.GetByID(context.Background(), a.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = repo.IncrementViewCount(context.Background(), a.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
