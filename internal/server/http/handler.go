package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/logging"
	"github.com/inkwell-app/inkwell/internal/server/models"
	"github.com/inkwell-app/inkwell/internal/server/services"
)

type Handler struct {
	users    *services.UserService
	articles *services.ArticleService
	comments *services.CommentService
	log      logging.Logger
}

func NewHandler(us *services.UserService, as *services.ArticleService, cs *services.CommentService, l logging.Logger) *Handler {
	return &Handler{
		users:    us,
		articles: as,
		comments: cs,
		log:      l.With("module", "http_handler"),
	}
}

type errorResponse struct {
	Message string `json:"error"`
}

func newErrorResponse(c *gin.Context, statusCode int, errMessage string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: errMessage})
}

// respondError maps a service error to its HTTP status. Internal causes are
// logged in full but never leak into the response body.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.Status(err)

	if status >= http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}

	newErrorResponse(c, status, apperr.Message(err))
}

type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type pagedResponse struct {
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

func newPagedResponse(data any, page, limit int, total int64) pagedResponse {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return pagedResponse{
		Data: data,
		Pagination: pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)

		auth.Use(h.authRequired())
		auth.GET("/me", h.getMe)
	}

	router.PUT("/profile", h.authRequired(), h.updateProfile)

	articles := router.Group("/articles")
	{
		articles.GET("", h.optionalAuth(), h.listArticles)
		articles.GET("/:id", h.optionalAuth(), h.getArticle)
		articles.GET("/:id/comments", h.listComments)

		articles.Use(h.authRequired())
		articles.GET("/mine", h.listMyArticles)
		articles.POST("", h.createArticle)
		articles.PUT("/:id", h.updateArticle)
		articles.DELETE("/:id", h.deleteArticle)
		articles.POST("/:id/comments", h.createComment)
	}

	router.DELETE("/comments/:id", h.authRequired(), h.deleteComment)

	return router
}

// POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	// role is never client-supplied; everyone starts as a regular user
	res, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password, models.RoleUser)
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, res)
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// GET /auth/me
func (h *Handler) getMe(c *gin.Context) {
	ident, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	user, err := h.users.GetByID(c.Request.Context(), ident.UserID)
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, user.Safe())
}

// PUT /profile
func (h *Handler) updateProfile(c *gin.Context) {
	ident, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	var patch services.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), ident.UserID, patch)
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, updated)
}

// GET /articles?status=&page=&limit=
func (h *Handler) listArticles(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "page must be a number")

		return
	}

	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "limit must be a number")

		return
	}

	status := c.DefaultQuery("status", models.StatusPublished)

	items, total, err := h.articles.List(c.Request.Context(), status, page, limit)
	if err != nil {
		h.respondError(c, err)

		return
	}

	page, limit = services.NormalizePage(page, limit)

	c.JSON(http.StatusOK, newPagedResponse(items, page, limit, total))
}

// GET /articles/mine
func (h *Handler) listMyArticles(c *gin.Context) {
	ident, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	items, err := h.articles.ListMine(c.Request.Context(), ident)
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, items)
}

// GET /articles/:id
func (h *Handler) getArticle(c *gin.Context) {
	article, err := h.articles.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, article)
}

// POST /articles
func (h *Handler) createArticle(c *gin.Context) {
	ident, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	var in services.CreateArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	article, err := h.articles.Create(c.Request.Context(), ident, in)
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, article)
}

// PUT /articles/:id
func (h *Handler) updateArticle(c *gin.Context) {
	ident, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	var patch models.ArticlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	article, err := h.articles.Update(c.Request.Context(), c.Param("id"), ident, patch)
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, article)
}

// DELETE /articles/:id
func (h *Handler) deleteArticle(c *gin.Context) {
	ident, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	if err := h.articles.Delete(c.Request.Context(), c.Param("id"), ident); err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// GET /articles/:id/comments
func (h *Handler) listComments(c *gin.Context) {
	forest, err := h.comments.ListForest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, forest)
}

// POST /articles/:id/comments
func (h *Handler) createComment(c *gin.Context) {
	ident, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	var req struct {
		Content  string  `json:"content"`
		ParentID *string `json:"parent_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	comment, err := h.comments.Create(c.Request.Context(), c.Param("id"), ident, req.Content, req.ParentID)
	if err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DELETE /comments/:id
func (h *Handler) deleteComment(c *gin.Context) {
	ident, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	if err := h.comments.Delete(c.Request.Context(), c.Param("id"), ident); err != nil {
		h.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}

	return strconv.Atoi(raw)
}
