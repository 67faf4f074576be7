package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/v11labs/labpress/content"
)

// ListArticles returns every article, drafts and scheduled ones included,
// newest first by creation time.
func (s *Store) ListArticles(ctx context.Context, f content.Filter) ([]content.Article, error) {
	articles := []content.Article{}
	q := s.db.NewSelect().Model(&articles).OrderExpr("a.created_at DESC")
	q = s.applyArticleFilter(q, f)
	if err := q.Scan(ctx); err != nil {
		return nil, wrap("list articles", err)
	}
	return articles, nil
}

// ListVisibleArticles returns articles published at or before cutoff, newest
// publish time first.
func (s *Store) ListVisibleArticles(ctx context.Context, f content.Filter, cutoff time.Time) ([]content.Article, error) {
	articles := []content.Article{}
	q := s.db.NewSelect().Model(&articles).
		Apply(visibleAt(cutoff)).
		OrderExpr("a.published_at DESC").
		OrderExpr("a.created_at DESC")
	q = s.applyArticleFilter(q, f)
	if err := q.Scan(ctx); err != nil {
		return nil, wrap("list visible articles", err)
	}
	return articles, nil
}

// RelatedArticles returns up to limit other visible articles sharing a's
// first tag.
func (s *Store) RelatedArticles(ctx context.Context, a content.Article, cutoff time.Time, limit int) ([]content.Article, error) {
	related := []content.Article{}
	tags := a.TagList()
	if len(tags) == 0 || limit <= 0 {
		return related, nil
	}
	err := s.db.NewSelect().Model(&related).
		Apply(visibleAt(cutoff)).
		Where("a.id != ?", a.ID).
		Where(s.likeLower("a.tags"), likePattern(tags[0])).
		OrderExpr("a.published_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, wrap("related articles", err)
	}
	return related, nil
}

// GetArticle returns the article with id regardless of its publish state.
func (s *Store) GetArticle(ctx context.Context, id string) (content.Article, error) {
	var a content.Article
	if err := s.db.NewSelect().Model(&a).Where("a.id = ?", id).Scan(ctx); err != nil {
		return content.Article{}, wrap("get article", err)
	}
	return a, nil
}

// GetArticleBySlug returns the article with slug regardless of its publish
// state.
func (s *Store) GetArticleBySlug(ctx context.Context, slug string) (content.Article, error) {
	var a content.Article
	if err := s.db.NewSelect().Model(&a).Where("a.slug = ?", slug).Scan(ctx); err != nil {
		return content.Article{}, wrap("get article by slug", err)
	}
	return a, nil
}

// GetVisibleArticle returns the article with slug only if it is published at
// or before cutoff. Drafts and scheduled articles yield ErrNotFound.
func (s *Store) GetVisibleArticle(ctx context.Context, slug string, cutoff time.Time) (content.Article, error) {
	var a content.Article
	err := s.db.NewSelect().Model(&a).
		Apply(visibleAt(cutoff)).
		Where("a.slug = ?", slug).
		Scan(ctx)
	if err != nil {
		return content.Article{}, wrap("get visible article", err)
	}
	return a, nil
}

// CreateArticle inserts a. An empty ID is filled with a new UUID and zero
// timestamps are set to now.
func (s *Store) CreateArticle(ctx context.Context, a *content.Article) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := dbTime(time.Now())
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	normalizeArticle(a)
	if err := s.checkSlug(ctx, a.Slug, a.ID); err != nil {
		return wrap("create article", err)
	}
	if _, err := s.db.NewInsert().Model(a).Exec(ctx); err != nil {
		return wrap("create article", err)
	}
	return nil
}

// UpdateArticle replaces the editable fields of the stored article with a's.
// created_at is left untouched and read back into a.
func (s *Store) UpdateArticle(ctx context.Context, a *content.Article) error {
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now()
	}
	normalizeArticle(a)
	if err := s.checkSlug(ctx, a.Slug, a.ID); err != nil {
		return wrap("update article", err)
	}
	res, err := s.db.NewUpdate().Model(a).
		Column("title", "slug", "description", "content", "tags", "published_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return wrap("update article", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return wrap("update article", ErrNotFound)
	}
	var created time.Time
	if err := s.db.NewSelect().Model((*content.Article)(nil)).
		Column("created_at").
		Where("a.id = ?", a.ID).
		Scan(ctx, &created); err != nil {
		return wrap("update article", err)
	}
	a.CreatedAt = created
	return nil
}

// DeleteArticle removes the article with id.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*content.Article)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return wrap("delete article", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return wrap("delete article", ErrNotFound)
	}
	return nil
}

// ArticleCounts returns the total number of articles and how many are
// visible at cutoff.
func (s *Store) ArticleCounts(ctx context.Context, cutoff time.Time) (total, published int, err error) {
	total, err = s.db.NewSelect().Model((*content.Article)(nil)).Count(ctx)
	if err != nil {
		return 0, 0, wrap("count articles", err)
	}
	published, err = s.db.NewSelect().Model((*content.Article)(nil)).Apply(visibleAt(cutoff)).Count(ctx)
	if err != nil {
		return 0, 0, wrap("count articles", err)
	}
	return total, published, nil
}

func (s *Store) checkSlug(ctx context.Context, slug, id string) error {
	taken, err := s.db.NewSelect().Model((*content.Article)(nil)).
		Where("a.slug = ?", slug).
		Where("a.id != ?", id).
		Exists(ctx)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugExists
	}
	return nil
}

func normalizeArticle(a *content.Article) {
	a.CreatedAt = dbTime(a.CreatedAt)
	a.UpdatedAt = dbTime(a.UpdatedAt)
	a.PublishedAt = dbTimePtr(a.PublishedAt)
}

func visibleAt(cutoff time.Time) func(*bun.SelectQuery) *bun.SelectQuery {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("a.published_at IS NOT NULL").Where("a.published_at <= ?", dbTime(cutoff))
	}
}

func (s *Store) applyArticleFilter(q *bun.SelectQuery, f content.Filter) *bun.SelectQuery {
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		q = q.Where(s.likeLower("a.tags"), likePattern(tag))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		p := likePattern(search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(s.likeLower("a.title"), p).
				WhereOr(s.likeLower("a.description"), p).
				WhereOr(s.likeLower("a.content"), p)
		})
	}
	return q
}
