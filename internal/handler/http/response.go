package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jamal-o/blog-api/internal/domain"
)

// ErrorResponse writes {"message": message}.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// ErrorDetailResponse writes {"message": message, "error": detail}.
func ErrorDetailResponse(c *gin.Context, code int, message, detail string) {
	c.JSON(code, gin.H{"message": message, "error": detail})
}

// SuccessResponse writes data as JSON.
func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// ArticleResponse is the wire form of an article.
type ArticleResponse struct {
	ID          uint      `json:"id"`
	AuthorID    uint      `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	State       string    `json:"state"`
	Body        string    `json:"body"`
	BodyHTML    string    `json:"body_html"`
	ReadCount   int64     `json:"read_count"`
	ReadingTime float64   `json:"reading_time"`
	Timestamp   time.Time `json:"timestamp"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewArticleResponse converts a domain article.
func NewArticleResponse(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:          a.ID,
		AuthorID:    a.AuthorID,
		Title:       a.Title,
		Description: a.Description,
		Tags:        a.TagNames(),
		State:       string(a.State),
		Body:        a.Body,
		BodyHTML:    RenderBodyHTML(a.Body),
		ReadCount:   a.ReadCount,
		ReadingTime: a.ReadingTime,
		Timestamp:   a.Timestamp,
		UpdatedAt:   a.UpdatedAt,
	}
}

// NewArticleResponses converts a page of articles, never returning nil.
func NewArticleResponses(articles []domain.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, NewArticleResponse(&articles[i]))
	}
	return out
}

// AuthorResponse is the public view of an article's author.
type AuthorResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ReadArticleResponse is returned by single-article reads.
type ReadArticleResponse struct {
	Article ArticleResponse `json:"article"`
	Author  *AuthorResponse `json:"author"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
