package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jamal-o/blog-api/internal/domain"
	"github.com/jamal-o/blog-api/internal/repository"
)

// Pagination defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ArticleRecorder receives article lifecycle events for metrics.
type ArticleRecorder interface {
	RecordArticleRead()
	RecordArticleCreated()
	RecordArticlePublished()
}

type noopRecorder struct{}

func (noopRecorder) RecordArticleRead()      {}
func (noopRecorder) RecordArticleCreated()   {}
func (noopRecorder) RecordArticlePublished() {}

// ListParams are the caller-controlled parts of a listing.
type ListParams struct {
	AuthorID uint
	Title    string
	Tag      string
	State    string
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// ArticleInput carries the fields of a new article. State is accepted from
// callers but never honoured: new articles are always drafts.
type ArticleInput struct {
	Title       string
	Description string
	Tags        []string
	State       string
	Body        string
}

// ArticlePatch is a partial update; nil fields are left untouched.
type ArticlePatch struct {
	Title       *string
	Description *string
	Tags        *[]string
	State       *string
	Body        *string
}

// ArticleService runs the article lifecycle under ownership-scoped access control.
type ArticleService struct {
	articleRepo repository.ArticleRepository
	userRepo    repository.UserRepository
	content     *ContentPolicy
	recorder    ArticleRecorder
}

// NewArticleService creates an ArticleService. recorder may be nil.
func NewArticleService(articleRepo repository.ArticleRepository, userRepo repository.UserRepository, recorder ArticleRecorder) *ArticleService {
	if articleRepo == nil {
		panic("ArticleRepository cannot be nil for ArticleService")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for ArticleService")
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &ArticleService{
		articleRepo: articleRepo,
		userRepo:    userRepo,
		content:     NewContentPolicy(),
		recorder:    recorder,
	}
}

// ListPublished lists published articles. Any caller-supplied state is ignored.
func (s *ArticleService) ListPublished(ctx context.Context, p ListParams) ([]domain.Article, error) {
	q := buildQuery(p)
	q.Filter.State = domain.StatePublished
	return s.list(ctx, q)
}

// ListByAuthor lists the caller's own articles, optionally filtered by state.
func (s *ArticleService) ListByAuthor(ctx context.Context, authorID uint, p ListParams) ([]domain.Article, error) {
	q := buildQuery(p)
	q.Filter.AuthorID = authorID
	if p.State != "" {
		state := domain.ArticleState(p.State)
		if !state.Valid() {
			return nil, validationError("state must be one of draft, published")
		}
		q.Filter.State = state
	}
	return s.list(ctx, q)
}

func (s *ArticleService) list(ctx context.Context, q domain.ArticleQuery) ([]domain.Article, error) {
	articles, err := s.articleRepo.List(ctx, q)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"author_id": q.Filter.AuthorID,
			"state":     q.Filter.State,
			"page":      q.Page,
		}).Error("Failed to list articles")
		return nil, ErrInternalServer
	}
	return articles, nil
}

func buildQuery(p ListParams) domain.ArticleQuery {
	page := p.Page
	if page < 1 {
		page = DefaultPage
	}
	size := p.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return domain.ArticleQuery{
		Filter: domain.ArticleFilter{
			AuthorID: p.AuthorID,
			Title:    p.Title,
			Tag:      p.Tag,
		},
		Search:   strings.TrimSpace(p.Search),
		Sort:     domain.ParseSortKey(p.Sort),
		Page:     page,
		PageSize: size,
	}
}

// Read fetches an article, counting the read, together with its author.
func (s *ArticleService) Read(ctx context.Context, id uint) (*domain.Article, *domain.AuthorSummary, error) {
	logCtx := logrus.WithField("article_id", id)

	article, err := s.articleRepo.IncrementReadCount(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return nil, nil, ErrArticleNotFound
		}
		logCtx.WithError(err).Error("Failed to read article")
		return nil, nil, ErrInternalServer
	}
	s.recorder.RecordArticleRead()

	author, err := s.userRepo.FindByID(ctx, article.AuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.WithField("author_id", article.AuthorID).Warn("Article author no longer exists")
			return article, nil, nil
		}
		logCtx.WithError(err).Error("Failed to load article author")
		return nil, nil, ErrInternalServer
	}
	return article, author.Summary(), nil
}

// Create stores a new draft owned by authorID.
func (s *ArticleService) Create(ctx context.Context, authorID uint, in ArticleInput) (*domain.Article, error) {
	logCtx := logrus.WithFields(logrus.Fields{"author_id": authorID, "title": in.Title})

	article := &domain.Article{
		AuthorID:    authorID,
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		State:       domain.StateDraft,
	}
	article.SetTags(in.Tags)
	s.content.PrepareArticle(article)

	if article.Title == "" || article.Description == "" || blank(article.Body) {
		return nil, validationError("title, description and body are required")
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Create article failed: title already exists")
			return nil, ErrTitleTaken
		}
		logCtx.WithError(err).Error("Failed to create article")
		return nil, ErrInternalServer
	}
	s.recorder.RecordArticleCreated()

	logCtx.WithField("article_id", article.ID).Info("Article created")
	return article, nil
}

// Update applies a partial update to an article owned by authorID. A missing
// article and one owned by someone else are indistinguishable.
func (s *ArticleService) Update(ctx context.Context, authorID, id uint, patch ArticlePatch) (*domain.Article, error) {
	changes, err := s.changesFromPatch(patch)
	if err != nil {
		return nil, err
	}
	return s.applyChanges(ctx, authorID, id, changes)
}

// Publish moves an article owned by authorID to the published state.
func (s *ArticleService) Publish(ctx context.Context, authorID, id uint) (*domain.Article, error) {
	published := domain.StatePublished
	article, err := s.applyChanges(ctx, authorID, id, domain.ArticleChanges{State: &published})
	if err != nil {
		return nil, err
	}
	s.recorder.RecordArticlePublished()
	return article, nil
}

// Delete removes an article owned by authorID.
func (s *ArticleService) Delete(ctx context.Context, authorID, id uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"author_id": authorID, "article_id": id})
	if err := s.articleRepo.DeleteOwned(ctx, id, authorID); err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			logCtx.Warn("Delete matched no article owned by caller")
			return ErrArticleNotFound
		}
		logCtx.WithError(err).Error("Failed to delete article")
		return ErrInternalServer
	}
	logCtx.Info("Article deleted")
	return nil
}

func (s *ArticleService) applyChanges(ctx context.Context, authorID, id uint, changes domain.ArticleChanges) (*domain.Article, error) {
	logCtx := logrus.WithFields(logrus.Fields{"author_id": authorID, "article_id": id})

	article, err := s.articleRepo.UpdateOwned(ctx, id, authorID, changes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrArticleNotFound):
			logCtx.Warn("Update matched no article owned by caller")
			return nil, ErrArticleNotFound
		case errors.Is(err, repository.ErrDuplicateEntry):
			logCtx.Warn("Update failed: title already exists")
			return nil, ErrTitleTaken
		}
		logCtx.WithError(err).Error("Failed to update article")
		return nil, ErrInternalServer
	}
	logCtx.Info("Article updated")
	return article, nil
}

func (s *ArticleService) changesFromPatch(p ArticlePatch) (domain.ArticleChanges, error) {
	var c domain.ArticleChanges
	c.Title = p.Title
	c.Description = p.Description
	c.Body = p.Body
	if p.Tags != nil {
		c.Tags = *p.Tags
		c.TagsSet = true
	}
	if p.State != nil {
		state := domain.ArticleState(*p.State)
		if !state.Valid() {
			return c, validationError("state must be one of draft, published")
		}
		c.State = &state
	}
	if c.Empty() {
		return c, validationError("no fields to update")
	}

	s.content.PrepareChanges(&c)
	if (c.Title != nil && *c.Title == "") ||
		(c.Description != nil && *c.Description == "") ||
		(c.Body != nil && blank(*c.Body)) {
		return c, validationError("title, description and body cannot be empty")
	}
	return c, nil
}
