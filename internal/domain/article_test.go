package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jamal-o/blog-api/internal/domain"
)

func TestReadingTime(t *testing.T) {
	assert.InDelta(t, 0.02, domain.ReadingTime("one two three four"), 1e-9)
	assert.InDelta(t, 0.02, domain.ReadingTime("  one\ttwo\nthree   four "), 1e-9)
	assert.Equal(t, 0.0, domain.ReadingTime(""))
	assert.Equal(t, 4, domain.WordCount("one two three four"))
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]domain.SortKey{
		"read_count":        {Field: domain.SortReadCount},
		"read_count_desc":   {Field: domain.SortReadCount, Desc: true},
		"timestamp":         {Field: domain.SortTimestamp},
		"reading_time_desc": {Field: domain.SortReadingTime, Desc: true},
		"title":             {},
		"":                  {},
		"_desc":             {},
	}
	for raw, want := range cases {
		assert.Equal(t, want, domain.ParseSortKey(raw), raw)
	}
	assert.True(t, domain.ParseSortKey("bogus").IsZero())
}

func TestArticleQueryOffset(t *testing.T) {
	assert.Equal(t, 10, domain.ArticleQuery{Page: 2, PageSize: 10}.Offset())
	assert.Equal(t, 0, domain.ArticleQuery{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 0, domain.ArticleQuery{Page: 0, PageSize: 10}.Offset())
}

func TestArticleTags(t *testing.T) {
	a := &domain.Article{ID: 7}
	a.SetTags([]string{"b", "a"})
	assert.Equal(t, []string{"b", "a"}, a.TagNames())
	assert.Equal(t, uint(7), a.Tags[1].ArticleID)
	assert.Equal(t, 1, a.Tags[1].Position)
}

func TestUserSummary(t *testing.T) {
	u := &domain.User{ID: 3, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "hash"}
	assert.Equal(t, &domain.AuthorSummary{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, u.Summary())
}

func TestArticleStateValid(t *testing.T) {
	assert.True(t, domain.StateDraft.Valid())
	assert.True(t, domain.StatePublished.Valid())
	assert.False(t, domain.ArticleState("archived").Valid())
}
