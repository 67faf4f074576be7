package store

import (
	"context"

	"github.com/v11labs/labpress/content"
)

// SaveImage records an uploaded image.
func (s *Store) SaveImage(ctx context.Context, img *content.Image) error {
	img.UploadedAt = dbTime(img.UploadedAt)
	if _, err := s.db.NewInsert().Model(img).Exec(ctx); err != nil {
		return wrap("save image", err)
	}
	return nil
}

// ListImages returns all images, newest upload first.
func (s *Store) ListImages(ctx context.Context) ([]content.Image, error) {
	images := []content.Image{}
	if err := s.db.NewSelect().Model(&images).OrderExpr("i.uploaded_at DESC").Scan(ctx); err != nil {
		return nil, wrap("list images", err)
	}
	return images, nil
}

// GetImage returns the image stored under filename.
func (s *Store) GetImage(ctx context.Context, filename string) (content.Image, error) {
	var img content.Image
	if err := s.db.NewSelect().Model(&img).Where("i.filename = ?", filename).Scan(ctx); err != nil {
		return content.Image{}, wrap("get image", err)
	}
	return img, nil
}

// DeleteImage removes the record for filename. The file itself is the
// caller's to remove.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	res, err := s.db.NewDelete().Model((*content.Image)(nil)).Where("filename = ?", filename).Exec(ctx)
	if err != nil {
		return wrap("delete image", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return wrap("delete image", ErrNotFound)
	}
	return nil
}
