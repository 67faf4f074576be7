package content

import (
	"reflect"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestSplitTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{" , ,", nil},
		{"go", []string{"go"}},
		{"gpu, hardware ,tech", []string{"gpu", "hardware", "tech"}},
		{"b,a,b", []string{"b", "a", "b"}},
	}
	for _, tt := range tests {
		got := SplitTags(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitTags(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCollectTags(t *testing.T) {
	got := CollectTags("gpu, hardware", "hardware,robotics", "", " Go ")
	want := []string{"Go", "gpu", "hardware", "robotics"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CollectTags = %v, want %v", got, want)
	}
}

func TestCollectTagsIdempotent(t *testing.T) {
	inputs := [][]string{
		{"gpu, hardware", "hardware,robotics"},
		{"  a ,, b", "c", ""},
		{"x"},
		{},
	}
	for _, in := range inputs {
		first := CollectTags(in...)
		second := CollectTags(strings.Join(first, ","))
		if len(first) == 0 && len(second) == 0 {
			continue
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("CollectTags not idempotent for %v: %v then %v", in, first, second)
		}
	}
}

func TestArticleTags(t *testing.T) {
	articles := []Article{
		{Tags: strPtr("gpu, hardware")},
		{Tags: nil},
		{Tags: strPtr("robotics, gpu")},
	}
	want := []string{"gpu", "hardware", "robotics"}
	if got := ArticleTags(articles); !reflect.DeepEqual(got, want) {
		t.Fatalf("ArticleTags = %v, want %v", got, want)
	}
}

func TestMatchesTag(t *testing.T) {
	tests := []struct {
		tags *string
		tag  string
		want bool
	}{
		{strPtr("gpu, hardware"), "gpu", true},
		{strPtr("gpu, hardware"), "GPU", true},
		{strPtr("gpu-architecture"), "gpu", true},
		{strPtr("hardware"), "gpu", false},
		{nil, "gpu", false},
		{nil, "", true},
	}
	for _, tt := range tests {
		if got := MatchesTag(tt.tags, tt.tag); got != tt.want {
			t.Errorf("MatchesTag(%v, %q) = %v, want %v", tt.tags, tt.tag, got, tt.want)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	if got := NormalizeTags(strPtr("   ")); got != nil {
		t.Errorf("NormalizeTags(blank) = %q, want nil", *got)
	}
	if got := NormalizeTags(strPtr(" a, b ")); got == nil || *got != "a, b" {
		t.Errorf("NormalizeTags = %v, want \"a, b\"", got)
	}
	if got := NormalizeTags(nil); got != nil {
		t.Errorf("NormalizeTags(nil) = %v, want nil", got)
	}
}
