// Package content defines the articles, notes and images managed by labpress,
// together with the publishing and visibility rules that decide what the
// public site shows.
package content

import (
	"time"

	"github.com/uptrace/bun"
)

// Article is a long-form post. A nil PublishedAt means draft; a PublishedAt in
// the future means scheduled.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID          string     `bun:"id,pk"                json:"id"`
	Title       string     `bun:"title,notnull"        json:"title"`
	Slug        string     `bun:"slug,notnull,unique"  json:"slug"`
	Description *string    `bun:"description"          json:"description"`
	Content     string     `bun:"content,notnull"      json:"content"`
	Tags        *string    `bun:"tags"                 json:"tags"`
	PublishedAt *time.Time `bun:"published_at"         json:"publishedAt"`
	CreatedAt   time.Time  `bun:"created_at,notnull"   json:"createdAt"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"   json:"updatedAt"`
}

// TagList returns the article's tags split and trimmed.
func (a Article) TagList() []string {
	return SplitTags(deref(a.Tags))
}

// Status reports "published", "scheduled" or "draft" at now.
func (a Article) Status(now time.Time, skew time.Duration) string {
	switch {
	case a.PublishedAt == nil:
		return StatusDraft
	case IsVisible(a.PublishedAt, now, skew):
		return StatusPublished
	default:
		return StatusScheduled
	}
}

// Article states shown in the admin area.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// Note is a short entry whose visibility is a plain flag.
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:n"`

	ID        string    `bun:"id,pk"               json:"id"`
	Title     string    `bun:"title,notnull"       json:"title"`
	Content   string    `bun:"content,notnull"     json:"content"`
	Tags      *string   `bun:"tags"                json:"tags"`
	IsPublic  bool      `bun:"is_public,notnull"   json:"isPublic"`
	CreatedAt time.Time `bun:"created_at,notnull"  json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull"  json:"updatedAt"`
}

// TagList returns the note's tags split and trimmed.
func (n Note) TagList() []string {
	return SplitTags(deref(n.Tags))
}

// Image is an uploaded media file served from the static uploads directory.
type Image struct {
	bun.BaseModel `bun:"table:images,alias:i"`

	Filename     string    `bun:"filename,pk"            json:"filename"`
	OriginalName string    `bun:"original_name,notnull"  json:"originalName"`
	Width        int       `bun:"width,notnull"          json:"width"`
	Height       int       `bun:"height,notnull"         json:"height"`
	Size         int       `bun:"size,notnull"           json:"size"`
	UploadedAt   time.Time `bun:"uploaded_at,notnull"    json:"uploadedAt"`
}

// Filter narrows a listing. Empty fields do not filter.
type Filter struct {
	Tag    string
	Search string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
