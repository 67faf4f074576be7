package labpress

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/v11labs/labpress/content"
	"github.com/v11labs/labpress/store"
	"github.com/v11labs/labpress/views"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 82
	maxUploadSize = 10 << 20
	uploadsSubdir = "uploads"
)

// processImage decodes src, scales it down to maxImageWidth and re-encodes it
// as JPEG.
func processImage(src io.Reader, originalName string) (content.Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return content.Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxImageWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return content.Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return content.Image{
		Filename:     imageFilename(originalName),
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC(),
	}, buf.Bytes(), nil
}

// imageFilename is the slugged base name plus a short random suffix, so
// uploads never collide.
func imageFilename(originalName string) string {
	base := content.Slugify(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	if base == "" {
		base = "image"
	}
	return base + "-" + uuid.NewString()[:8] + ".jpg"
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.staticDir, uploadsSubdir)
}

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return a.renderImageList(c, http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return a.renderImageList(c, http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return a.renderImageList(c, http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := a.uploadsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	path := filepath.Join(dir, img.Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := a.Store.SaveImage(c.Request().Context(), &img); err != nil {
		_ = os.Remove(path)
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/images/")
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == "/" {
		return a.renderImageList(c, http.StatusBadRequest, "Filename required")
	}
	ctx := c.Request().Context()
	img, err := a.Store.GetImage(ctx, filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.renderImageList(c, http.StatusNotFound, "Image not found")
		}
		return err
	}
	if err := a.Store.DeleteImage(ctx, img.Filename); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(a.uploadsDir(), img.Filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.Logger().Warnf("remove image %s: %v", img.Filename, err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/images/")
}

func (a *App) handleImageList(c echo.Context) error {
	return a.renderImageList(c, http.StatusOK, "")
}

func (a *App) renderImageList(c echo.Context, code int, msg string) error {
	images, err := a.Store.ListImages(c.Request().Context())
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminImages(views.ImagesPage{
		Chrome: a.chrome(c, "Images"),
		Images: images,
		Error:  msg,
	}))
}
