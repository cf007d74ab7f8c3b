package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jamal-o/blog-api/internal/domain"
	"github.com/jamal-o/blog-api/internal/repository"
)

// GormArticleRepository is the GORM implementation of repository.ArticleRepository.
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a GormArticleRepository.
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	if db == nil {
		panic("database connection cannot be nil for GormArticleRepository")
	}
	return &GormArticleRepository{db: db}
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts the article; GORM writes the tag rows in the same transaction.
func (r *GormArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	err := r.db.WithContext(ctx).Create(article).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create article: %w", err)
	}
	return nil
}

// List returns one page of articles matching the query.
func (r *GormArticleRepository) List(ctx context.Context, q domain.ArticleQuery) ([]domain.Article, error) {
	db := r.db.WithContext(ctx).Model(&domain.Article{})

	f := q.Filter
	if f.AuthorID != 0 {
		db = db.Where("author_id = ?", f.AuthorID)
	}
	if f.Title != "" {
		db = db.Where("title = ?", f.Title)
	}
	if f.State != "" {
		db = db.Where("state = ?", string(f.State))
	}
	if f.Tag != "" {
		db = db.Where("id IN (?)", r.db.Model(&domain.ArticleTag{}).Select("article_id").Where("tag = ?", f.Tag))
	}

	if terms := searchTerms(q.Search); len(terms) > 0 {
		conds := make([]string, 0, len(terms)+1)
		args := make([]interface{}, 0, len(terms)+1)
		for _, t := range terms {
			conds = append(conds, "LOWER(title) LIKE ? ESCAPE '!'")
			args = append(args, "%"+likeEscaper.Replace(t)+"%")
		}
		conds = append(conds, "id IN (SELECT article_id FROM article_tags WHERE LOWER(tag) IN ?)")
		args = append(args, terms)
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	if !q.Sort.IsZero() {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: string(q.Sort.Field)}, Desc: q.Sort.Desc})
	}
	db = db.Order("id ASC")

	if q.PageSize > 0 {
		db = db.Offset(q.Offset()).Limit(q.PageSize)
	}

	articles := make([]domain.Article, 0)
	if err := db.Preload("Tags", preloadTags).Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("gorm: list articles: %w", err)
	}
	return articles, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally. '!' is
// the escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// searchTerms splits a search string into lower-cased words.
func searchTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// IncrementReadCount bumps read_count with a single UPDATE and returns the new row.
func (r *GormArticleRepository) IncrementReadCount(ctx context.Context, id uint) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Article{}).
			Where("id = ?", id).
			UpdateColumn("read_count", gorm.Expr("read_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrArticleNotFound
		}
		return tx.Preload("Tags", preloadTags).First(&article, id).Error
	})
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrArticleNotFound
		}
		return nil, fmt.Errorf("gorm: increment read count of article %d: %w", id, err)
	}
	return &article, nil
}

// UpdateOwned applies changes with one UPDATE scoped to (id, author_id).
// Tag replacement and the reload run in the same transaction.
func (r *GormArticleRepository) UpdateOwned(ctx context.Context, id, authorID uint, changes domain.ArticleChanges) (*domain.Article, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Description != nil {
		updates["description"] = *changes.Description
	}
	if changes.State != nil {
		updates["state"] = string(*changes.State)
	}
	if changes.Body != nil {
		updates["body"] = *changes.Body
	}
	if changes.ReadingTime != nil {
		updates["reading_time"] = *changes.ReadingTime
	}

	var article domain.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Article{}).
			Where("id = ? AND author_id = ?", id, authorID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrArticleNotFound
		}

		if changes.TagsSet {
			if err := tx.Where("article_id = ?", id).Delete(&domain.ArticleTag{}).Error; err != nil {
				return err
			}
			if tags := domain.NewArticleTags(id, changes.Tags); len(tags) > 0 {
				if err := tx.Create(&tags).Error; err != nil {
					return err
				}
			}
		}
		return tx.Preload("Tags", preloadTags).First(&article, id).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrArticleNotFound):
			return nil, repository.ErrArticleNotFound
		case isDuplicateEntryError(err):
			return nil, repository.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("gorm: update article %d: %w", id, err)
	}
	return &article, nil
}

// DeleteOwned removes the article with one DELETE scoped to (id, author_id).
func (r *GormArticleRepository) DeleteOwned(ctx context.Context, id, authorID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND author_id = ?", id, authorID).Delete(&domain.Article{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrArticleNotFound
		}
		// SQLite does not enforce the cascade unless foreign keys are switched on.
		return tx.Where("article_id = ?", id).Delete(&domain.ArticleTag{}).Error
	})
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return repository.ErrArticleNotFound
		}
		return fmt.Errorf("gorm: delete article %d: %w", id, err)
	}
	return nil
}
