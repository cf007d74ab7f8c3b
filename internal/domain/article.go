package domain

import (
	"strings"
	"time"
)

// ArticleState is the publication state of an article.
type ArticleState string

const (
	StateDraft     ArticleState = "draft"
	StatePublished ArticleState = "published"
)

// Valid reports whether s is one of the enumerated states.
func (s ArticleState) Valid() bool {
	return s == StateDraft || s == StatePublished
}

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// Article is a blog post. Title is unique across all authors.
type Article struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	AuthorID    uint         `gorm:"index;not null" json:"author_id"`
	Title       string       `gorm:"type:varchar(191);uniqueIndex:idx_articles_title;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Tags        []ArticleTag `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
	State       ArticleState `gorm:"type:varchar(16);index;not null;default:'draft'" json:"state"`
	Body        string       `gorm:"type:longtext;not null" json:"body"`
	ReadCount   int64        `gorm:"not null;default:0" json:"read_count"`
	ReadingTime float64      `gorm:"not null;default:0" json:"reading_time"`
	Timestamp   time.Time    `gorm:"autoCreateTime;index" json:"timestamp"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ArticleTag stores one tag of an article. Position keeps display order.
type ArticleTag struct {
	ID        uint   `gorm:"primaryKey"`
	ArticleID uint   `gorm:"index:idx_article_tags_article;not null"`
	Tag       string `gorm:"type:varchar(191);index:idx_article_tags_tag;not null"`
	Position  int    `gorm:"not null"`
}

// TagNames returns the tags in display order.
func (a *Article) TagNames() []string {
	names := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		names[i] = t.Tag
	}
	return names
}

// SetTags replaces the tag rows, keeping the given order.
func (a *Article) SetTags(tags []string) {
	a.Tags = NewArticleTags(a.ID, tags)
}

// NewArticleTags builds tag rows for articleID in the given order.
func NewArticleTags(articleID uint, tags []string) []ArticleTag {
	rows := make([]ArticleTag, 0, len(tags))
	for i, t := range tags {
		rows = append(rows, ArticleTag{ArticleID: articleID, Tag: t, Position: i})
	}
	return rows
}

// WordCount counts whitespace-separated words.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// ReadingTime is the estimated reading time of body in minutes.
func ReadingTime(body string) float64 {
	return float64(WordCount(body)) / WordsPerMinute
}
