package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/v11labs/labpress/content"
)

// ListNotes returns every note, most recently updated first.
func (s *Store) ListNotes(ctx context.Context, f content.Filter) ([]content.Note, error) {
	notes := []content.Note{}
	q := s.db.NewSelect().Model(&notes).OrderExpr("n.updated_at DESC")
	if err := s.applyNoteFilter(q, f).Scan(ctx); err != nil {
		return nil, wrap("list notes", err)
	}
	return notes, nil
}

// ListPublicNotes returns public notes, most recently updated first.
func (s *Store) ListPublicNotes(ctx context.Context, f content.Filter) ([]content.Note, error) {
	notes := []content.Note{}
	q := s.db.NewSelect().Model(&notes).Where("n.is_public = ?", true).OrderExpr("n.updated_at DESC")
	if err := s.applyNoteFilter(q, f).Scan(ctx); err != nil {
		return nil, wrap("list public notes", err)
	}
	return notes, nil
}

// GetNote returns the note with id.
func (s *Store) GetNote(ctx context.Context, id string) (content.Note, error) {
	var n content.Note
	if err := s.db.NewSelect().Model(&n).Where("n.id = ?", id).Scan(ctx); err != nil {
		return content.Note{}, wrap("get note", err)
	}
	return n, nil
}

// GetPublicNote returns the note with id if it is public.
func (s *Store) GetPublicNote(ctx context.Context, id string) (content.Note, error) {
	var n content.Note
	err := s.db.NewSelect().Model(&n).
		Where("n.id = ?", id).
		Where("n.is_public = ?", true).
		Scan(ctx)
	if err != nil {
		return content.Note{}, wrap("get public note", err)
	}
	return n, nil
}

// CreateNote inserts n, filling an empty ID and zero timestamps.
func (s *Store) CreateNote(ctx context.Context, n *content.Note) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	n.CreatedAt = dbTime(n.CreatedAt)
	n.UpdatedAt = dbTime(n.UpdatedAt)
	if _, err := s.db.NewInsert().Model(n).Exec(ctx); err != nil {
		return wrap("create note", err)
	}
	return nil
}

// UpdateNote replaces the editable fields of the stored note with n's.
func (s *Store) UpdateNote(ctx context.Context, n *content.Note) error {
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now()
	}
	n.UpdatedAt = dbTime(n.UpdatedAt)
	res, err := s.db.NewUpdate().Model(n).
		Column("title", "content", "tags", "is_public", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return wrap("update note", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return wrap("update note", ErrNotFound)
	}
	var created time.Time
	if err := s.db.NewSelect().Model((*content.Note)(nil)).
		Column("created_at").
		Where("n.id = ?", n.ID).
		Scan(ctx, &created); err != nil {
		return wrap("update note", err)
	}
	n.CreatedAt = created
	return nil
}

// DeleteNote removes the note with id.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*content.Note)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return wrap("delete note", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return wrap("delete note", ErrNotFound)
	}
	return nil
}

// NoteCounts returns the total number of notes and how many are public.
func (s *Store) NoteCounts(ctx context.Context) (total, public int, err error) {
	total, err = s.db.NewSelect().Model((*content.Note)(nil)).Count(ctx)
	if err != nil {
		return 0, 0, wrap("count notes", err)
	}
	public, err = s.db.NewSelect().Model((*content.Note)(nil)).Where("n.is_public = ?", true).Count(ctx)
	if err != nil {
		return 0, 0, wrap("count notes", err)
	}
	return total, public, nil
}

func (s *Store) applyNoteFilter(q *bun.SelectQuery, f content.Filter) *bun.SelectQuery {
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		q = q.Where(s.likeLower("n.tags"), likePattern(tag))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		p := likePattern(search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(s.likeLower("n.title"), p).
				WhereOr(s.likeLower("n.content"), p)
		})
	}
	return q
}
