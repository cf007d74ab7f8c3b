package repository

import (
	"context"

	"github.com/jamal-o/blog-api/internal/domain"
)

// ArticleRepository stores articles. Every mutation is a single conditional
// statement; ownership is part of the match condition, never a prior read.
type ArticleRepository interface {
	// Create inserts the article and its tags. A taken title yields ErrDuplicateEntry.
	Create(ctx context.Context, article *domain.Article) error

	// List returns one page of articles matching the query. No match is an empty slice.
	List(ctx context.Context, query domain.ArticleQuery) ([]domain.Article, error)

	// IncrementReadCount adds one to read_count and returns the updated article.
	// Returns ErrArticleNotFound when the id is unknown.
	IncrementReadCount(ctx context.Context, id uint) (*domain.Article, error)

	// UpdateOwned applies changes where id and author both match.
	// Returns ErrArticleNotFound when nothing matched, ErrDuplicateEntry on a taken title.
	UpdateOwned(ctx context.Context, id, authorID uint, changes domain.ArticleChanges) (*domain.Article, error)

	// DeleteOwned removes the article where id and author both match.
	// Returns ErrArticleNotFound when nothing matched.
	DeleteOwned(ctx context.Context, id, authorID uint) error
}
