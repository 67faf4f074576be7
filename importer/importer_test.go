package importer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/v11labs/labpress/store"
)

const doc = `---
title: Warp Scheduling on Modern GPUs
description: How SMs pick the next warp
tags:
  - gpu
  - hardware
published_at: 2024-02-01T10:00:00Z
---

# Warps

Body text.
`

func TestParse(t *testing.T) {
	in, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if in.Title != "Warp Scheduling on Modern GPUs" {
		t.Errorf("Title = %q", in.Title)
	}
	if in.Slug != "warp-scheduling-on-modern-gpus" {
		t.Errorf("Slug = %q", in.Slug)
	}
	if in.Tags == nil || *in.Tags != "gpu, hardware" {
		t.Errorf("Tags = %v", in.Tags)
	}
	if in.Description == nil || *in.Description != "How SMs pick the next warp" {
		t.Errorf("Description = %v", in.Description)
	}
	if in.Content != "# Warps\n\nBody text." {
		t.Errorf("Content = %q", in.Content)
	}
	want := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	if in.PublishedAt == nil || !in.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", in.PublishedAt, want)
	}
}

func TestParseVariants(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantTags  string
		wantDraft bool
		wantErr   bool
	}{
		{"string tags", "---\ntitle: A\ntags: \"x, y ,z\"\npublished_at: 2024-01-01\n---\nbody", "x, y, z", false, false},
		{"draft flag", "---\ntitle: A\ndraft: true\npublished_at: 2024-01-01\n---\nbody", "", true, false},
		{"no date is draft", "---\ntitle: A\n---\nbody", "", true, false},
		{"date fallback", "---\ntitle: A\ndate: 2024-01-01\n---\nbody", "", false, false},
		{"missing title", "---\nslug: a\n---\nbody", "", false, true},
		{"bad date", "---\ntitle: A\npublished_at: soon\n---\nbody", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Parse([]byte(tt.src))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			tags := ""
			if in.Tags != nil {
				tags = *in.Tags
			}
			if tags != tt.wantTags {
				t.Errorf("Tags = %q, want %q", tags, tt.wantTags)
			}
			if (in.PublishedAt == nil) != tt.wantDraft {
				t.Errorf("PublishedAt = %v, want draft=%v", in.PublishedAt, tt.wantDraft)
			}
		})
	}
}

func TestImportCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "import.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	im := &Importer{Store: s, Now: func() time.Time { return now }}

	first, created, err := im.Import(ctx, []byte(doc))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !created {
		t.Error("first import should create")
	}
	archived := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	if first.PublishedAt == nil || !first.PublishedAt.Equal(archived) {
		t.Errorf("PublishedAt = %v, want %v", first.PublishedAt, archived)
	}

	now = now.Add(24 * time.Hour)
	again, created, err := im.Import(ctx, []byte(doc))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if created || again.PublishedAt == nil || !again.PublishedAt.Equal(archived) {
		t.Errorf("re-import created=%v PublishedAt = %v, want %v", created, again.PublishedAt, archived)
	}

	second, created, err := im.Import(ctx, []byte("---\ntitle: Warp Scheduling on Modern GPUs\n---\nrewritten"))
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if created {
		t.Error("second import should update")
	}
	if second.ID != first.ID {
		t.Errorf("ID changed from %q to %q", first.ID, second.ID)
	}
	got, err := s.GetArticle(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if got.Content != "rewritten" || got.PublishedAt != nil {
		t.Errorf("stored = %q published %v", got.Content, got.PublishedAt)
	}
}
