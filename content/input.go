package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
)

// ArticleInput is the editable part of an article as submitted by the admin
// editor, the JSON API or the markdown importer.
type ArticleInput struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	Content     string     `json:"content"`
	Tags        *string    `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// UnmarshalJSON accepts publishedAt as null, "", an RFC 3339 timestamp or a
// datetime-local value.
func (in *ArticleInput) UnmarshalJSON(b []byte) error {
	type alias ArticleInput
	aux := struct {
		*alias
		PublishedAt *string `json:"publishedAt"`
	}{alias: (*alias)(in)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.PublishedAt == nil {
		in.PublishedAt = nil
		return nil
	}
	t, err := ParseTime(*aux.PublishedAt, time.UTC)
	if err != nil {
		return err
	}
	in.PublishedAt = t
	return nil
}

// Normalize trims the input, derives a slug from the title when none was
// given and turns empty optional fields into nil.
func (in ArticleInput) Normalize() ArticleInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = in.Title
	}
	in.Slug = Slugify(in.Slug)
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			in.Description = nil
		} else {
			in.Description = &d
		}
	}
	in.Tags = NormalizeTags(in.Tags)
	return in
}

// Validate checks the normalized input.
func (in ArticleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("title is required"), validation.RuneLength(1, 300)),
		validation.Field(&in.Slug, validation.Required.Error("slug is required"), validation.RuneLength(1, 200)),
	)
}

// Apply copies the input onto a, reconciling the publish time against now.
func (in ArticleInput) Apply(a *Article, now time.Time) {
	a.Title = in.Title
	a.Slug = in.Slug
	a.Description = in.Description
	a.Content = in.Content
	a.Tags = in.Tags
	a.PublishedAt = ReconcilePublishedAt(in.PublishedAt, now)
}

// NoteInput is the editable part of a note.
type NoteInput struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Tags     *string `json:"tags"`
	IsPublic bool    `json:"isPublic"`
}

// Normalize trims the input.
func (in NoteInput) Normalize() NoteInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Tags = NormalizeTags(in.Tags)
	return in
}

// Validate requires a title and content.
func (in NoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("title is required")),
		validation.Field(&in.Content, validation.Required.Error("content is required")),
	)
}

// Apply copies the input onto n.
func (in NoteInput) Apply(n *Note) {
	n.Title = in.Title
	n.Content = in.Content
	n.Tags = in.Tags
	n.IsPublic = in.IsPublic
}

// Slugify turns s into a URL-safe slug. It returns "" when nothing usable is
// left.
func Slugify(s string) string {
	out, err := slug.Normalize(s)
	if err != nil {
		return ""
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ErrInvalidDate is returned for a publish date in no accepted layout.
var ErrInvalidDate = errors.New("invalid publish date")

// ParseTime parses a submitted timestamp. Values without a zone are read in
// loc. Blank input yields nil.
func ParseTime(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrInvalidDate, s)
}
