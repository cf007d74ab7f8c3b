package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jamal-o/blog-api/internal/domain"
	"github.com/jamal-o/blog-api/internal/repository"
	"github.com/jamal-o/blog-api/internal/repository/mocks"
	"github.com/jamal-o/blog-api/internal/service"
)

type countingRecorder struct {
	reads, creates, publishes int
}

func (r *countingRecorder) RecordArticleRead()      { r.reads++ }
func (r *countingRecorder) RecordArticleCreated()   { r.creates++ }
func (r *countingRecorder) RecordArticlePublished() { r.publishes++ }

func newArticleService() (*service.ArticleService, *mocks.ArticleRepository, *mocks.UserRepository, *countingRecorder) {
	articles := new(mocks.ArticleRepository)
	users := new(mocks.UserRepository)
	rec := &countingRecorder{}
	return service.NewArticleService(articles, users, rec), articles, users, rec
}

func strPtr(s string) *string { return &s }

func TestArticleService_Create_ForcesDraftAndComputesReadingTime(t *testing.T) {
	svc, articles, _, rec := newArticleService()
	ctx := context.Background()

	articles.On("Create", ctx, mock.MatchedBy(func(a *domain.Article) bool {
		return a.AuthorID == 7 &&
			a.Title == "A" &&
			a.State == domain.StateDraft &&
			a.ReadingTime == 4.0/200
	})).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Article).ID = 11 }).
		Return(nil).Once()

	article, err := svc.Create(ctx, 7, service.ArticleInput{
		Title:       "A",
		Description: "d",
		Body:        "one two three four",
		Tags:        []string{"x", "y"},
		State:       "published",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(11), article.ID)
	assert.Equal(t, domain.StateDraft, article.State)
	assert.InDelta(t, 0.02, article.ReadingTime, 1e-9)
	assert.Equal(t, []string{"x", "y"}, article.TagNames())
	assert.Equal(t, 1, rec.creates)
	articles.AssertExpectations(t)
}

func TestArticleService_Create_StoresContentVerbatim(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	articles.On("Create", ctx, mock.AnythingOfType("*domain.Article")).Return(nil).Once()

	article, err := svc.Create(ctx, 1, service.ArticleInput{
		Title:       "  Generics: List<T> in Go ",
		Description: "literally write &lt;br&gt; in html",
		Body:        "if a < b && c > d",
		Tags:        []string{" <go> ", " "},
	})

	require.NoError(t, err)
	assert.Equal(t, "Generics: List<T> in Go", article.Title)
	assert.Equal(t, "literally write &lt;br&gt; in html", article.Description)
	assert.Equal(t, "if a < b && c > d", article.Body)
	assert.Equal(t, []string{"<go>"}, article.TagNames())
	assert.InDelta(t, 8.0/200, article.ReadingTime, 1e-9)
}

func TestArticleService_Create_DuplicateTitle(t *testing.T) {
	svc, articles, _, rec := newArticleService()
	ctx := context.Background()

	articles.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateEntry).Once()

	_, err := svc.Create(ctx, 1, service.ArticleInput{Title: "A", Description: "d", Body: "b"})

	assert.ErrorIs(t, err, service.ErrTitleTaken)
	assert.Zero(t, rec.creates)
}

func TestArticleService_Create_MissingFields(t *testing.T) {
	svc, articles, _, _ := newArticleService()

	_, err := svc.Create(context.Background(), 1, service.ArticleInput{Title: "Only Title"})

	assert.ErrorIs(t, err, service.ErrValidation)
	articles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArticleService_ListPublished_ForcesPublishedState(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	want := domain.ArticleQuery{
		Filter:   domain.ArticleFilter{State: domain.StatePublished, Tag: "go"},
		Search:   "a new day",
		Sort:     domain.SortKey{Field: domain.SortReadCount},
		Page:     2,
		PageSize: 10,
	}
	articles.On("List", ctx, want).Return([]domain.Article{}, nil).Once()

	got, err := svc.ListPublished(ctx, service.ListParams{
		State:    "draft",
		Tag:      "go",
		Search:   " a new day ",
		Sort:     "read_count",
		Page:     2,
		PageSize: 10,
	})

	require.NoError(t, err)
	assert.Empty(t, got)
	articles.AssertExpectations(t)
}

func TestArticleService_ListPublished_PaginationDefaults(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	articles.On("List", ctx, mock.MatchedBy(func(q domain.ArticleQuery) bool {
		return q.Page == 1 && q.PageSize == service.DefaultPageSize && q.Sort.IsZero()
	})).Return([]domain.Article{}, nil).Once()
	articles.On("List", ctx, mock.MatchedBy(func(q domain.ArticleQuery) bool {
		return q.PageSize == service.MaxPageSize
	})).Return([]domain.Article{}, nil).Once()

	_, err := svc.ListPublished(ctx, service.ListParams{Page: -3, Sort: "unknown"})
	require.NoError(t, err)
	_, err = svc.ListPublished(ctx, service.ListParams{PageSize: 10_000})
	require.NoError(t, err)
	articles.AssertExpectations(t)
}

func TestArticleService_ListByAuthor(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	articles.On("List", ctx, mock.MatchedBy(func(q domain.ArticleQuery) bool {
		return q.Filter.AuthorID == 3 && q.Filter.State == domain.StateDraft
	})).Return([]domain.Article{{ID: 1, AuthorID: 3}}, nil).Once()

	got, err := svc.ListByAuthor(ctx, 3, service.ListParams{AuthorID: 99, State: "draft"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListByAuthor(ctx, 3, service.ListParams{State: "archived"})
	assert.ErrorIs(t, err, service.ErrValidation)
	articles.AssertExpectations(t)
}

func TestArticleService_List_RepositoryFailure(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	articles.On("List", ctx, mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := svc.ListPublished(ctx, service.ListParams{})
	assert.ErrorIs(t, err, service.ErrInternalServer)
}

func TestArticleService_Read(t *testing.T) {
	svc, articles, users, rec := newArticleService()
	ctx := context.Background()

	articles.On("IncrementReadCount", ctx, uint(5)).
		Return(&domain.Article{ID: 5, AuthorID: 2, ReadCount: 1}, nil).Once()
	users.On("FindByID", ctx, uint(2)).
		Return(&domain.User{ID: 2, FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "hash"}, nil).Once()

	article, author, err := svc.Read(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(1), article.ReadCount)
	assert.Equal(t, &domain.AuthorSummary{FirstName: "Ada", LastName: "L", Email: "ada@example.com"}, author)
	assert.Equal(t, 1, rec.reads)
	articles.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestArticleService_Read_NotFound(t *testing.T) {
	svc, articles, users, rec := newArticleService()
	ctx := context.Background()

	articles.On("IncrementReadCount", ctx, uint(404)).Return(nil, repository.ErrArticleNotFound).Once()

	_, _, err := svc.Read(ctx, 404)

	assert.ErrorIs(t, err, service.ErrArticleNotFound)
	assert.Zero(t, rec.reads)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestArticleService_Update_RecomputesReadingTime(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	articles.On("UpdateOwned", ctx, uint(9), uint(1), mock.MatchedBy(func(c domain.ArticleChanges) bool {
		return c.Body != nil && *c.Body == "a b c d e f" &&
			c.ReadingTime != nil && *c.ReadingTime == 6.0/200 &&
			c.Title == nil && !c.TagsSet
	})).Return(&domain.Article{ID: 9, Body: "a b c d e f", ReadingTime: 0.03}, nil).Once()

	article, err := svc.Update(ctx, 1, 9, service.ArticlePatch{Body: strPtr("a b c d e f")})

	require.NoError(t, err)
	assert.InDelta(t, 0.03, article.ReadingTime, 1e-9)
	articles.AssertExpectations(t)
}

func TestArticleService_Update_WithoutBodyLeavesReadingTime(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()
	tags := []string{"one", "two"}

	articles.On("UpdateOwned", ctx, uint(9), uint(1), mock.MatchedBy(func(c domain.ArticleChanges) bool {
		return c.ReadingTime == nil && c.TagsSet && len(c.Tags) == 2 && *c.Title == "New"
	})).Return(&domain.Article{ID: 9}, nil).Once()

	_, err := svc.Update(ctx, 1, 9, service.ArticlePatch{Title: strPtr("New"), Tags: &tags})
	require.NoError(t, err)
	articles.AssertExpectations(t)
}

func TestArticleService_Update_NotOwner(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	articles.On("UpdateOwned", ctx, uint(9), uint(2), mock.Anything).Return(nil, repository.ErrArticleNotFound).Once()

	_, err := svc.Update(ctx, 2, 9, service.ArticlePatch{Title: strPtr("Mine now")})
	assert.ErrorIs(t, err, service.ErrArticleNotFound)
}

func TestArticleService_Update_Invalid(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, 9, service.ArticlePatch{})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Update(ctx, 1, 9, service.ArticlePatch{State: strPtr("archived")})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Update(ctx, 1, 9, service.ArticlePatch{Body: strPtr("   ")})
	assert.ErrorIs(t, err, service.ErrValidation)

	articles.AssertNotCalled(t, "UpdateOwned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArticleService_Update_DuplicateTitle(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	articles.On("UpdateOwned", ctx, uint(9), uint(1), mock.Anything).Return(nil, repository.ErrDuplicateEntry).Once()

	_, err := svc.Update(ctx, 1, 9, service.ArticlePatch{Title: strPtr("Taken")})
	assert.ErrorIs(t, err, service.ErrTitleTaken)
}

func TestArticleService_Publish(t *testing.T) {
	svc, articles, _, rec := newArticleService()
	ctx := context.Background()

	articles.On("UpdateOwned", ctx, uint(9), uint(1), mock.MatchedBy(func(c domain.ArticleChanges) bool {
		return c.State != nil && *c.State == domain.StatePublished && c.Body == nil && c.Title == nil
	})).Return(&domain.Article{ID: 9, State: domain.StatePublished}, nil).Once()
	articles.On("UpdateOwned", ctx, uint(9), uint(2), mock.Anything).Return(nil, repository.ErrArticleNotFound).Once()

	article, err := svc.Publish(ctx, 1, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePublished, article.State)

	_, err = svc.Publish(ctx, 2, 9)
	assert.ErrorIs(t, err, service.ErrArticleNotFound)
	assert.Equal(t, 1, rec.publishes)
	articles.AssertExpectations(t)
}

func TestArticleService_Delete(t *testing.T) {
	svc, articles, _, _ := newArticleService()
	ctx := context.Background()

	articles.On("DeleteOwned", ctx, uint(9), uint(1)).Return(nil).Once()
	articles.On("DeleteOwned", ctx, uint(9), uint(2)).Return(repository.ErrArticleNotFound).Once()
	articles.On("DeleteOwned", ctx, uint(10), uint(1)).Return(errors.New("boom")).Once()

	assert.NoError(t, svc.Delete(ctx, 1, 9))
	assert.ErrorIs(t, svc.Delete(ctx, 2, 9), service.ErrArticleNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1, 10), service.ErrInternalServer)
	articles.AssertExpectations(t)
}
