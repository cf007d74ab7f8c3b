package domain

import "strings"

// SortField is a column an article listing can be ordered by.
type SortField string

const (
	SortReadCount   SortField = "read_count"
	SortTimestamp   SortField = "timestamp"
	SortReadingTime SortField = "reading_time"
)

const descSuffix = "_desc"

// SortKey is a parsed sort request. A zero SortKey means store default order.
type SortKey struct {
	Field SortField
	Desc  bool
}

// IsZero reports whether no recognised sort was requested.
func (k SortKey) IsZero() bool { return k.Field == "" }

// ParseSortKey parses "read_count", "timestamp", "reading_time" and their
// "_desc" variants. Anything else yields the zero SortKey.
func ParseSortKey(raw string) SortKey {
	raw = strings.TrimSpace(raw)
	desc := strings.HasSuffix(raw, descSuffix)
	field := SortField(strings.TrimSuffix(raw, descSuffix))
	switch field {
	case SortReadCount, SortTimestamp, SortReadingTime:
		return SortKey{Field: field, Desc: desc}
	}
	return SortKey{}
}

// ArticleFilter holds exact-match conditions. Zero values are ignored.
type ArticleFilter struct {
	AuthorID uint
	Title    string
	Tag      string
	State    ArticleState
}

// ArticleQuery describes one page of an article listing.
type ArticleQuery struct {
	Filter   ArticleFilter
	Search   string
	Sort     SortKey
	Page     int
	PageSize int
}

// Offset is the number of rows skipped for the current page.
func (q ArticleQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// ArticleChanges is a partial update. Nil fields are left untouched.
type ArticleChanges struct {
	Title       *string
	Description *string
	Tags        []string
	TagsSet     bool
	State       *ArticleState
	Body        *string
	ReadingTime *float64
}

// Empty reports whether the change set modifies nothing.
func (c ArticleChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && !c.TagsSet &&
		c.State == nil && c.Body == nil
}
