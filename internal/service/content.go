package service

import (
	"strings"

	"github.com/jamal-o/blog-api/internal/domain"
)

// ContentPolicy is the pre-persistence transformation applied to article
// content. Values are stored as sent, apart from surrounding whitespace on
// the single-line fields; reading time is derived from the body.
type ContentPolicy struct{}

// NewContentPolicy creates a ContentPolicy.
func NewContentPolicy() *ContentPolicy {
	return &ContentPolicy{}
}

// Text normalises a single-line field.
func (p *ContentPolicy) Text(s string) string {
	return strings.TrimSpace(s)
}

// Tags trims tags, dropping any left empty.
func (p *ContentPolicy) Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = p.Text(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// PrepareArticle normalises a new article and sets its reading time.
func (p *ContentPolicy) PrepareArticle(a *domain.Article) {
	a.Title = p.Text(a.Title)
	a.Description = p.Text(a.Description)
	a.SetTags(p.Tags(a.TagNames()))
	a.ReadingTime = domain.ReadingTime(a.Body)
}

// PrepareChanges normalises a partial update and recomputes reading time when
// the body is part of it.
func (p *ContentPolicy) PrepareChanges(c *domain.ArticleChanges) {
	if c.Title != nil {
		v := p.Text(*c.Title)
		c.Title = &v
	}
	if c.Description != nil {
		v := p.Text(*c.Description)
		c.Description = &v
	}
	if c.TagsSet {
		c.Tags = p.Tags(c.Tags)
	}
	if c.Body != nil {
		rt := domain.ReadingTime(*c.Body)
		c.ReadingTime = &rt
	} else {
		c.ReadingTime = nil
	}
}

// blank reports whether s holds only whitespace.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
