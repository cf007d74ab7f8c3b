package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jamal-o/blog-api/internal/middleware"
	"github.com/jamal-o/blog-api/internal/service"
)

// ArticleHandler serves the /blog routes.
type ArticleHandler struct {
	articleService *service.ArticleService
}

// NewArticleHandler creates an ArticleHandler.
func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// CreateArticleRequest is the payload of POST /blog. State is accepted and
// ignored.
type CreateArticleRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Tags        []string `json:"tags"`
	State       string   `json:"state"`
	Body        string   `json:"body" binding:"required"`
}

// UpdateArticleRequest is the payload of PATCH /blog/:id.
type UpdateArticleRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	State       *string   `json:"state"`
	Body        *string   `json:"body"`
}

// PublishResponse is returned by POST /blog/publish/:id.
type PublishResponse struct {
	Message string          `json:"message"`
	Article ArticleResponse `json:"article"`
}

// List handles GET /blog: published articles only.
func (h *ArticleHandler) List(c *gin.Context) {
	params, err := listParams(c)
	if err != nil {
		ErrorDetailResponse(c, http.StatusBadRequest, msgInvalidQuery, err.Error())
		return
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || author == 0 {
			ErrorDetailResponse(c, http.StatusBadRequest, msgInvalidQuery, "author must be a positive integer")
			return
		}
		params.AuthorID = uint(author)
	}

	articles, err := h.articleService.ListPublished(c.Request.Context(), params)
	if err != nil {
		HandleServiceError(c, err, msgInvalidQuery)
		return
	}
	SuccessResponse(c, http.StatusOK, NewArticleResponses(articles))
}

// ListMine handles GET /blog/user: the caller's own articles in any state.
func (h *ArticleHandler) ListMine(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	params, err := listParams(c)
	if err != nil {
		ErrorDetailResponse(c, http.StatusBadRequest, msgInvalidQuery, err.Error())
		return
	}
	params.State = c.Query("state")

	articles, err := h.articleService.ListByAuthor(c.Request.Context(), userID, params)
	if err != nil {
		HandleServiceError(c, err, msgInvalidQuery)
		return
	}
	SuccessResponse(c, http.StatusOK, NewArticleResponses(articles))
}

// Read handles GET /blog/:id and GET /blog/read/:id.
func (h *ArticleHandler) Read(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		ErrorResponse(c, http.StatusNotFound, msgArticleNotFound)
		return
	}

	article, author, err := h.articleService.Read(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err, msgInvalidQuery)
		return
	}

	resp := ReadArticleResponse{Article: NewArticleResponse(article)}
	if author != nil {
		resp.Author = &AuthorResponse{
			FirstName: author.FirstName,
			LastName:  author.LastName,
			Email:     author.Email,
		}
	}
	SuccessResponse(c, http.StatusOK, resp)
}

// Create handles POST /blog.
func (h *ArticleHandler) Create(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Handler.Create: invalid input")
		ErrorDetailResponse(c, http.StatusBadRequest, msgInvalidBlog, err.Error())
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), userID, service.ArticleInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		State:       req.State,
		Body:        req.Body,
	})
	if err != nil {
		HandleServiceError(c, err, msgInvalidBlog)
		return
	}
	SuccessResponse(c, http.StatusCreated, NewArticleResponse(article))
}

// Update handles PATCH /blog/:id. A missing article and one owned by someone
// else both answer 400.
func (h *ArticleHandler) Update(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	id, ok := articleID(c)
	if !ok {
		ErrorResponse(c, http.StatusNotFound, msgArticleNotFound)
		return
	}
	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorDetailResponse(c, http.StatusBadRequest, msgInvalidBlog, err.Error())
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), userID, id, service.ArticlePatch{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		State:       req.State,
		Body:        req.Body,
	})
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			ErrorResponse(c, http.StatusBadRequest, msgInvalidBlog)
			return
		}
		HandleServiceError(c, err, msgInvalidBlog)
		return
	}
	SuccessResponse(c, http.StatusOK, NewArticleResponse(article))
}

// Publish handles POST /blog/publish/:id.
func (h *ArticleHandler) Publish(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	id, ok := articleID(c)
	if !ok {
		ErrorResponse(c, http.StatusNotFound, msgArticleNotFound)
		return
	}

	article, err := h.articleService.Publish(c.Request.Context(), userID, id)
	if err != nil {
		HandleServiceError(c, err, msgInvalidBlog)
		return
	}
	SuccessResponse(c, http.StatusOK, PublishResponse{Message: msgArticlePublished, Article: NewArticleResponse(article)})
}

// Delete handles DELETE /blog/:id.
func (h *ArticleHandler) Delete(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	id, ok := articleID(c)
	if !ok {
		ErrorResponse(c, http.StatusNotFound, msgArticleNotFound)
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), userID, id); err != nil {
		HandleServiceError(c, err, msgInvalidBlog)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": msgArticleDeleted})
}

func (h *ArticleHandler) callerID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		logrus.WithField("path", c.FullPath()).Warn("Handler: user id missing from context")
		ErrorResponse(c, http.StatusUnauthorized, msgUnauthorized)
		return 0, false
	}
	return userID, true
}

func articleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// listQuery binds the paging, sorting and filter parameters shared by both
// listings. Unparseable page numbers fall back to the defaults.
type listQuery struct {
	Title    string `form:"title"`
	Tag      string `form:"tags"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
	Page     string `form:"page"`
	PageSize string `form:"pageSize"`
}

func listParams(c *gin.Context) (service.ListParams, error) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return service.ListParams{}, err
	}
	page, _ := strconv.Atoi(q.Page)
	size, _ := strconv.Atoi(q.PageSize)
	return service.ListParams{
		Title:    q.Title,
		Tag:      q.Tag,
		Search:   q.Search,
		Sort:     q.Sort,
		Page:     page,
		PageSize: size,
	}, nil
}
