package content

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestArticleInputUnmarshalPublishedAt(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *time.Time
	}{
		{"null", `{"title":"t","publishedAt":null}`, nil},
		{"missing", `{"title":"t"}`, nil},
		{"empty", `{"title":"t","publishedAt":""}`, nil},
		{"iso", `{"title":"t","publishedAt":"2025-03-14T12:00:00.000Z"}`, at(0)},
		{"datetime-local", `{"title":"t","publishedAt":"2025-03-14T13:30"}`, at(90 * time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in ArticleInput
			if err := json.Unmarshal([]byte(tt.body), &in); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if in.Title != "t" {
				t.Errorf("Title = %q, want t", in.Title)
			}
			switch {
			case tt.want == nil && in.PublishedAt != nil:
				t.Errorf("PublishedAt = %v, want nil", in.PublishedAt)
			case tt.want != nil && (in.PublishedAt == nil || !in.PublishedAt.Equal(*tt.want)):
				t.Errorf("PublishedAt = %v, want %v", in.PublishedAt, tt.want)
			}
		})
	}
}

func TestArticleInputUnmarshalInvalidDate(t *testing.T) {
	var in ArticleInput
	if err := json.Unmarshal([]byte(`{"publishedAt":"next tuesday"}`), &in); err == nil {
		t.Fatal("expected an error for an unparseable date")
	}
}

func TestArticleInputNormalizeAndValidate(t *testing.T) {
	in := ArticleInput{
		Title:       "  Tensor cores  ",
		Slug:        "tensor-cores",
		Description: strPtr("   "),
		Tags:        strPtr(" gpu "),
	}.Normalize()

	if in.Title != "Tensor cores" {
		t.Errorf("Title = %q", in.Title)
	}
	if in.Slug != "tensor-cores" {
		t.Errorf("Slug = %q", in.Slug)
	}
	if in.Description != nil {
		t.Errorf("Description = %q, want nil", *in.Description)
	}
	if in.Tags == nil || *in.Tags != "gpu" {
		t.Errorf("Tags = %v, want gpu", in.Tags)
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestArticleInputValidateMissingTitle(t *testing.T) {
	in := ArticleInput{Slug: "x"}.Normalize()
	if err := in.Validate(); err == nil {
		t.Fatal("expected a validation error for a missing title")
	}
}

func TestArticleInputApplyReconciles(t *testing.T) {
	var a Article
	ArticleInput{Title: "t", Slug: "t", PublishedAt: at(-5 * time.Second)}.Apply(&a, refNow)
	if a.PublishedAt == nil || !a.PublishedAt.Equal(refNow) {
		t.Errorf("PublishedAt = %v, want now", a.PublishedAt)
	}

	ArticleInput{Title: "t", Slug: "t", PublishedAt: at(time.Hour)}.Apply(&a, refNow)
	if a.PublishedAt == nil || !a.PublishedAt.Equal(refNow.Add(time.Hour)) {
		t.Errorf("PublishedAt = %v, want now+1h", a.PublishedAt)
	}

	ArticleInput{Title: "t", Slug: "t"}.Apply(&a, refNow)
	if a.PublishedAt != nil {
		t.Errorf("PublishedAt = %v, want nil", a.PublishedAt)
	}
}

func TestNoteInputValidate(t *testing.T) {
	if err := (NoteInput{Title: "a", Content: "b"}).Normalize().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := (NoteInput{Title: "  ", Content: "b"}).Normalize().Validate(); err == nil {
		t.Error("expected error for blank title")
	}
	if err := (NoteInput{Title: "a"}).Normalize().Validate(); err == nil {
		t.Error("expected error for missing content")
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("  ", time.UTC)
	if err != nil || got != nil {
		t.Fatalf("ParseTime(blank) = %v, %v", got, err)
	}
	got, err = ParseTime("2025-03-14", time.UTC)
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if !got.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseTime = %v", got)
	}
	if _, err := ParseTime("14/03/2025", time.UTC); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("unsupported layout err = %v, want ErrInvalidDate", err)
	}
	var in ArticleInput
	if err := json.Unmarshal([]byte(`{"title":"x","publishedAt":"soon"}`), &in); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("UnmarshalJSON err = %v, want ErrInvalidDate", err)
	}
}
