// Package importer turns markdown files with YAML front matter into articles.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/v11labs/labpress/content"
	"github.com/v11labs/labpress/store"
)

type frontMatter struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Tags        any    `yaml:"tags"`
	PublishedAt string `yaml:"published_at"`
	Date        string `yaml:"date"`
	Draft       bool   `yaml:"draft"`
}

// Parse reads a front-matter document into normalized, validated article
// input. Tags may be a YAML list or a comma-joined string. Without
// published_at (or date), or with draft: true, the article is a draft.
func Parse(src []byte) (content.ArticleInput, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return content.ArticleInput{}, fmt.Errorf("parse front matter: %w", err)
	}

	in := content.ArticleInput{
		Title:       fm.Title,
		Slug:        fm.Slug,
		Description: &fm.Description,
		Content:     strings.TrimSpace(string(body)),
	}
	if tags := tagString(fm.Tags); tags != "" {
		in.Tags = &tags
	}
	if !fm.Draft {
		when := fm.PublishedAt
		if when == "" {
			when = fm.Date
		}
		t, err := content.ParseTime(when, time.UTC)
		if err != nil {
			return content.ArticleInput{}, err
		}
		in.PublishedAt = t
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return content.ArticleInput{}, err
	}
	return in, nil
}

func tagString(v any) string {
	switch tags := v.(type) {
	case string:
		return content.JoinTags(content.SplitTags(tags))
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s := strings.TrimSpace(fmt.Sprint(t)); s != "" {
				out = append(out, s)
			}
		}
		return content.JoinTags(out)
	default:
		return ""
	}
}

// ArticleStore is the part of the store the importer writes through.
type ArticleStore interface {
	GetArticleBySlug(ctx context.Context, slug string) (content.Article, error)
	CreateArticle(ctx context.Context, a *content.Article) error
	UpdateArticle(ctx context.Context, a *content.Article) error
}

// Importer creates or replaces articles from front-matter documents, keyed
// by slug.
type Importer struct {
	Store ArticleStore
	Now   func() time.Time
}

// Import parses src and writes it. It reports whether a new article was
// created. Front-matter dates are stored as written, so archives keep their
// history and re-imports are stable.
func (im *Importer) Import(ctx context.Context, src []byte) (content.Article, bool, error) {
	in, err := Parse(src)
	if err != nil {
		return content.Article{}, false, err
	}
	now := time.Now()
	if im.Now != nil {
		now = im.Now()
	}

	a, err := im.Store.GetArticleBySlug(ctx, in.Slug)
	switch {
	case err == nil:
		applyImported(in, &a, now)
		a.UpdatedAt = now
		if err := im.Store.UpdateArticle(ctx, &a); err != nil {
			return content.Article{}, false, err
		}
		return a, false, nil
	case errors.Is(err, store.ErrNotFound):
		a = content.Article{CreatedAt: now, UpdatedAt: now}
		applyImported(in, &a, now)
		if err := im.Store.CreateArticle(ctx, &a); err != nil {
			return content.Article{}, false, err
		}
		return a, true, nil
	default:
		return content.Article{}, false, err
	}
}

func applyImported(in content.ArticleInput, a *content.Article, now time.Time) {
	in.Apply(a, now)
	if in.PublishedAt != nil {
		t := *in.PublishedAt
		a.PublishedAt = &t
	}
}
