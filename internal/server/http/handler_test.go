package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/logging"
	"github.com/inkwell-app/inkwell/internal/server/config"
	"github.com/inkwell-app/inkwell/internal/server/models"
	"github.com/inkwell-app/inkwell/internal/server/repositories/repomanager"
	"github.com/inkwell-app/inkwell/internal/server/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rm := repomanager.NewInMemoryRepositoryManager()
	cfg := &config.Config{
		Auth: config.Auth{JWTSecret: "test-secret", AccessTokenTTL: time.Hour},
	}

	us := services.NewUserService(rm, cfg)
	as := services.NewArticleService(rm)
	cs := services.NewCommentService(rm)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewHandler(us, as, cs, logger)

	return h.InitRoutes(), us
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
}

func registerUser(t *testing.T, router *gin.Engine, username string) (token string, userID string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password-123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res services.AuthResult
	decode(t, w, &res)
	require.NotEmpty(t, res.Token)

	return res.Token, res.User.ID
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	token, _ := registerUser(t, router, "alice")
	require.NotEmpty(t, token)

	// duplicate registration
	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "someone-else",
		"email":    "alice@example.com",
		"password": "password-123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// login by email
	w = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"identifier": "alice@example.com",
		"password":   "password-123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res services.AuthResult
	decode(t, w, &res)
	require.Equal(t, "alice", res.User.Username)

	// wrong password
	w = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"identifier": "alice",
		"password":   "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_RoleInBodyIsIgnored(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "sneaky",
		"email":    "sneaky@example.com",
		"password": "password-123",
		"role":     models.RoleAdmin,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var res services.AuthResult
	decode(t, w, &res)
	require.Equal(t, models.RoleUser, res.User.Role)
}

func TestGetMe(t *testing.T) {
	router, _ := newTestRouter(t)

	token, userID := registerUser(t, router, "alice")

	w := doJSON(t, router, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me models.SafeUser
	decode(t, w, &me)
	require.Equal(t, userID, me.ID)
	require.NotContains(t, w.Body.String(), "password")

	// no header, bad scheme, garbage token
	require.Equal(t, http.StatusUnauthorized, doJSON(t, router, http.MethodGet, "/auth/me", "", nil).Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	require.Equal(t, http.StatusUnauthorized, doJSON(t, router, http.MethodGet, "/auth/me", "not-a-jwt", nil).Code)
}

func TestUpdateProfile(t *testing.T) {
	router, _ := newTestRouter(t)

	token, _ := registerUser(t, router, "alice")

	w := doJSON(t, router, http.MethodPut, "/profile", token, gin.H{
		"bio": "likes databases",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.SafeUser
	decode(t, w, &updated)
	require.Equal(t, "likes databases", updated.Bio)
	require.Equal(t, "alice", updated.Username, "fields absent from the patch stay")
}

func TestArticleLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	aliceToken, aliceID := registerUser(t, router, "alice")
	bobToken, _ := registerUser(t, router, "bob")

	// create requires auth
	w := doJSON(t, router, http.MethodPost, "/articles", "", gin.H{
		"title": "t", "content": "c",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/articles", aliceToken, gin.H{
		"title":   "Hello",
		"content": "World",
		"status":  models.StatusPublished,
		// author_id in the body must be ignored
		"author_id": "spoofed",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Article
	decode(t, w, &created)
	require.Equal(t, aliceID, created.AuthorID)

	// public read bumps the view count
	w = doJSON(t, router, http.MethodGet, "/articles/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var viewed models.Article
	decode(t, w, &viewed)
	require.Equal(t, int64(1), viewed.ViewCount)

	// non-owner update is forbidden
	w = doJSON(t, router, http.MethodPut, "/articles/"+created.ID, bobToken, gin.H{
		"title": "hijack",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// owner update
	w = doJSON(t, router, http.MethodPut, "/articles/"+created.ID, aliceToken, gin.H{
		"title": "Hello, again",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Article
	decode(t, w, &updated)
	require.Equal(t, "Hello, again", updated.Title)
	require.Equal(t, "World", updated.Content)

	// non-owner delete is forbidden, owner delete succeeds
	require.Equal(t, http.StatusForbidden, doJSON(t, router, http.MethodDelete, "/articles/"+created.ID, bobToken, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodDelete, "/articles/"+created.ID, aliceToken, nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodGet, "/articles/"+created.ID, "", nil).Code)
}

func TestListArticles_PaginationEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)

	token, _ := registerUser(t, router, "alice")

	for i := 0; i < 15; i++ {
		w := doJSON(t, router, http.MethodPost, "/articles", token, gin.H{
			"title":   fmt.Sprintf("a%d", i),
			"content": "c",
			"status":  models.StatusPublished,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/articles?page=2&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Data       []models.Article `json:"data"`
		Pagination struct {
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"pagination"`
	}
	decode(t, w, &res)

	require.Len(t, res.Data, 5)
	require.Equal(t, 2, res.Pagination.Page)
	require.Equal(t, 10, res.Pagination.Limit)
	require.Equal(t, int64(15), res.Pagination.Total)
	require.Equal(t, 2, res.Pagination.TotalPages)

	// malformed paging params
	require.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/articles?page=abc", "", nil).Code)
	// unknown status filter
	require.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/articles?status=archived", "", nil).Code)
}

func TestListMyArticles_IncludesDrafts(t *testing.T) {
	router, _ := newTestRouter(t)

	token, aliceID := registerUser(t, router, "alice")

	for _, status := range []string{models.StatusDraft, models.StatusPublished} {
		w := doJSON(t, router, http.MethodPost, "/articles", token, gin.H{
			"title": "t", "content": "c", "status": status,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/articles/mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var mine []models.Article
	decode(t, w, &mine)
	require.Len(t, mine, 2)
	for _, a := range mine {
		require.Equal(t, aliceID, a.AuthorID)
	}
}

func TestComments(t *testing.T) {
	router, _ := newTestRouter(t)

	aliceToken, _ := registerUser(t, router, "alice")
	bobToken, _ := registerUser(t, router, "bob")

	w := doJSON(t, router, http.MethodPost, "/articles", aliceToken, gin.H{
		"title": "t", "content": "c", "status": models.StatusPublished,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var article models.Article
	decode(t, w, &article)

	// commenting requires auth
	w = doJSON(t, router, http.MethodPost, "/articles/"+article.ID+"/comments", "", gin.H{"content": "x"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/articles/"+article.ID+"/comments", bobToken, gin.H{
		"content": "first!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var top models.Comment
	decode(t, w, &top)

	w = doJSON(t, router, http.MethodPost, "/articles/"+article.ID+"/comments", aliceToken, gin.H{
		"content":   "welcome",
		"parent_id": top.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// reply to a parent that does not exist
	w = doJSON(t, router, http.MethodPost, "/articles/"+article.ID+"/comments", aliceToken, gin.H{
		"content":   "orphan",
		"parent_id": "no-such-comment",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// comments on a missing article
	w = doJSON(t, router, http.MethodPost, "/articles/missing/comments", aliceToken, gin.H{"content": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)

	// the listing is public and threaded
	w = doJSON(t, router, http.MethodGet, "/articles/"+article.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var forest []models.CommentThread
	decode(t, w, &forest)
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Replies, 1)

	// only the author (or an admin) deletes a comment
	require.Equal(t, http.StatusForbidden, doJSON(t, router, http.MethodDelete, "/comments/"+top.ID, aliceToken, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodDelete, "/comments/"+top.ID, bobToken, nil).Code)

	// the reply went with its parent
	w = doJSON(t, router, http.MethodGet, "/articles/"+article.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &forest)
	require.Empty(t, forest)
}

func TestOptionalAuth_PublicReadsIgnoreBadTokens(t *testing.T) {
	router, _ := newTestRouter(t)

	token, _ := registerUser(t, router, "alice")
	w := doJSON(t, router, http.MethodPost, "/articles", token, gin.H{
		"title": "t", "content": "c", "status": models.StatusPublished,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var article models.Article
	decode(t, w, &article)

	// a stale or garbage token must not break public reads
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/articles", "garbage", nil).Code)
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/articles/"+article.ID, "garbage", nil).Code)
}

func TestDeactivatedUserIsRejected(t *testing.T) {
	router, us := newTestRouter(t)

	token, userID := registerUser(t, router, "alice")

	require.NoError(t, us.Deactivate(context.Background(), userID))

	require.Equal(t, http.StatusUnauthorized, doJSON(t, router, http.MethodGet, "/auth/me", token, nil).Code)
}
