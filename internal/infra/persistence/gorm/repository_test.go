package gormpersistence_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jamal-o/blog-api/internal/domain"
	gormpersistence "github.com/jamal-o/blog-api/internal/infra/persistence/gorm"
	"github.com/jamal-o/blog-api/internal/infra/setup"
	"github.com/jamal-o/blog-api/internal/repository"
)

// newTestDB opens a private in-memory SQLite database for one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := setup.InitDB(setup.DBOptions{
		Driver: setup.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}, logrus.New())
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedArticle(t *testing.T, repo *gormpersistence.GormArticleRepository, authorID uint, title string, state domain.ArticleState, tags ...string) *domain.Article {
	t.Helper()
	body := "one two three four"
	a := &domain.Article{
		AuthorID:    authorID,
		Title:       title,
		Description: "desc " + title,
		State:       state,
		Body:        body,
		ReadingTime: domain.ReadingTime(body),
	}
	a.SetTags(tags)
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestGormUserRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormUserRepository(db)
	ctx := context.Background()

	user := &domain.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "hash"}
	require.NoError(t, repo.Save(ctx, user))
	assert.NotZero(t, user.ID)

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.FirstName)

	_, err = repo.FindByEmail(ctx, "ADA@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound, "email lookup is case-sensitive")
}

func TestGormUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.User{FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "h"}))
	err := repo.Save(ctx, &domain.User{FirstName: "C", LastName: "D", Email: "dup@example.com", Password: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)

	var count int64
	require.NoError(t, db.Model(&domain.User{}).Where("email = ?", "dup@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormArticleRepository_CreateDuplicateTitle(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormArticleRepository(db)
	ctx := context.Background()

	seedArticle(t, repo, 1, "A", domain.StateDraft)
	second := &domain.Article{AuthorID: 2, Title: "A", Description: "d", State: domain.StateDraft, Body: "b"}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)

	var count int64
	require.NoError(t, db.Model(&domain.Article{}).Where("title = ?", "A").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormArticleRepository_ListFiltersAndTagOrder(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormArticleRepository(db)
	ctx := context.Background()

	seedArticle(t, repo, 1, "Go Generics", domain.StatePublished, "golang", "types")
	seedArticle(t, repo, 1, "Draft Post", domain.StateDraft, "golang")
	seedArticle(t, repo, 2, "Rust Traits", domain.StatePublished, "rust")

	published, err := repo.List(ctx, domain.ArticleQuery{Filter: domain.ArticleFilter{State: domain.StatePublished}, Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, published, 2)
	for _, a := range published {
		assert.Equal(t, domain.StatePublished, a.State)
	}
	assert.Equal(t, []string{"golang", "types"}, published[0].TagNames())

	tagged, err := repo.List(ctx, domain.ArticleQuery{Filter: domain.ArticleFilter{Tag: "golang"}, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, tagged, 2)

	mine, err := repo.List(ctx, domain.ArticleQuery{Filter: domain.ArticleFilter{AuthorID: 1, State: domain.StateDraft}, Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Draft Post", mine[0].Title)
}

func TestGormArticleRepository_ListSearch(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormArticleRepository(db)
	ctx := context.Background()

	seedArticle(t, repo, 1, "A New Day", domain.StatePublished, "morning")
	seedArticle(t, repo, 1, "Evening Walk", domain.StatePublished, "day")
	seedArticle(t, repo, 1, "Unrelated", domain.StatePublished, "misc")

	found, err := repo.List(ctx, domain.ArticleQuery{Search: "DAY", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, found, 2, "title and tag both match")

	none, err := repo.List(ctx, domain.ArticleQuery{Search: "nothing-here", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGormArticleRepository_ListSearchWildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormArticleRepository(db)
	ctx := context.Background()

	seedArticle(t, repo, 1, "Save 50% Today", domain.StatePublished)
	seedArticle(t, repo, 1, "snake_case names", domain.StatePublished)
	seedArticle(t, repo, 1, "Plain Title", domain.StatePublished)
	seedArticle(t, repo, 1, "Wow! Really", domain.StatePublished)

	for term, want := range map[string][]string{
		"%":   {"Save 50% Today"},
		"_":   {"snake_case names"},
		"50%": {"Save 50% Today"},
		"!":   {"Wow! Really"},
	} {
		found, err := repo.List(ctx, domain.ArticleQuery{Search: term, Page: 1, PageSize: 20})
		require.NoError(t, err)
		titles := make([]string, 0, len(found))
		for _, a := range found {
			titles = append(titles, a.Title)
		}
		assert.Equal(t, want, titles, "search %q", term)
	}
}

func TestGormArticleRepository_ListSortAndPagination(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormArticleRepository(db)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		a := seedArticle(t, repo, 1, fmt.Sprintf("Post %02d", i), domain.StatePublished)
		require.NoError(t, db.Model(&domain.Article{}).Where("id = ?", a.ID).Update("read_count", i).Error)
	}

	page2, err := repo.List(ctx, domain.ArticleQuery{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page2, 10)
	assert.Equal(t, "Post 11", page2[0].Title)
	assert.Equal(t, "Post 20", page2[9].Title)

	page3, err := repo.List(ctx, domain.ArticleQuery{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page3, 5)

	beyond, err := repo.List(ctx, domain.ArticleQuery{Page: 9, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	desc, err := repo.List(ctx, domain.ArticleQuery{Sort: domain.ParseSortKey("read_count_desc"), Page: 1, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, int64(25), desc[0].ReadCount)
	assert.Equal(t, int64(23), desc[2].ReadCount)
}

func TestGormArticleRepository_IncrementReadCount(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormArticleRepository(db)
	ctx := context.Background()

	a := seedArticle(t, repo, 1, "Counted", domain.StatePublished)

	const readers = 20
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementReadCount(ctx, a.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.IncrementReadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(readers+1), got.ReadCount)

	_, err = repo.IncrementReadCount(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrArticleNotFound)
}

func TestGormArticleRepository_UpdateOwned(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormArticleRepository(db)
	ctx := context.Background()

	a := seedArticle(t, repo, 1, "Original", domain.StateDraft, "old")
	seedArticle(t, repo, 1, "Taken", domain.StateDraft)

	newTitle := "Stolen"
	_, err := repo.UpdateOwned(ctx, a.ID, 2, domain.ArticleChanges{Title: &newTitle})
	assert.ErrorIs(t, err, repository.ErrArticleNotFound, "non-owner matches nothing")

	var unchanged domain.Article
	require.NoError(t, db.First(&unchanged, a.ID).Error)
	assert.Equal(t, "Original", unchanged.Title)

	body := "a b c d e f g h"
	rt := domain.ReadingTime(body)
	published := domain.StatePublished
	updated, err := repo.UpdateOwned(ctx, a.ID, 1, domain.ArticleChanges{
		Body:        &body,
		ReadingTime: &rt,
		State:       &published,
		Tags:        []string{"new", "tags"},
		TagsSet:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, body, updated.Body)
	assert.InDelta(t, 0.04, updated.ReadingTime, 1e-9)
	assert.Equal(t, domain.StatePublished, updated.State)
	assert.Equal(t, []string{"new", "tags"}, updated.TagNames())

	taken := "Taken"
	_, err = repo.UpdateOwned(ctx, a.ID, 1, domain.ArticleChanges{Title: &taken})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
}

func TestGormArticleRepository_DeleteOwned(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormArticleRepository(db)
	ctx := context.Background()

	a := seedArticle(t, repo, 1, "Doomed", domain.StateDraft, "x")

	assert.ErrorIs(t, repo.DeleteOwned(ctx, a.ID, 2), repository.ErrArticleNotFound)
	require.NoError(t, repo.DeleteOwned(ctx, a.ID, 1))
	assert.ErrorIs(t, repo.DeleteOwned(ctx, a.ID, 1), repository.ErrArticleNotFound)

	var tags int64
	require.NoError(t, db.Model(&domain.ArticleTag{}).Where("article_id = ?", a.ID).Count(&tags).Error)
	assert.Zero(t, tags)
}
