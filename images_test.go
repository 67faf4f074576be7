package labpress

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessImage(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide image is scaled down", 2400, 1000, 1200, 500},
		{"small image is kept", 640, 480, 640, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, data, err := processImage(bytes.NewReader(pngBytes(t, tt.w, tt.h)), "My Photo.PNG")
			if err != nil {
				t.Fatalf("processImage: %v", err)
			}
			if img.Width != tt.wantW || img.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", img.Width, img.Height, tt.wantW, tt.wantH)
			}
			if img.Size != len(data) || len(data) == 0 {
				t.Errorf("size field %d, data %d bytes", img.Size, len(data))
			}
			if !strings.HasPrefix(img.Filename, "my-photo-") || !strings.HasSuffix(img.Filename, ".jpg") {
				t.Errorf("filename = %q", img.Filename)
			}
			if img.OriginalName != "My Photo.PNG" {
				t.Errorf("original name = %q", img.OriginalName)
			}
		})
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, err := processImage(strings.NewReader("not an image"), "x.png"); err == nil {
		t.Fatal("expected an error for non-image input")
	}
}

func TestImageFilenameFallback(t *testing.T) {
	if got := imageFilename("???.png"); !strings.HasPrefix(got, "image-") {
		t.Errorf("imageFilename = %q", got)
	}
}
