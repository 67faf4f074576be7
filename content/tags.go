package content

import (
	"sort"
	"strings"
)

// SplitTags splits a comma-joined tag string, trimming each piece and
// dropping empty ones. Order is preserved and duplicates are kept.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTags joins tags with ", " for display and form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// CollectTags returns the sorted set of tags found across all given tag
// strings. Case is preserved, so "Go" and "go" are distinct.
func CollectTags(tagStrings ...string) []string {
	set := make(map[string]struct{})
	for _, s := range tagStrings {
		for _, t := range SplitTags(s) {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ArticleTags collects the tag set of a list of articles.
func ArticleTags(articles []Article) []string {
	strs := make([]string, 0, len(articles))
	for _, a := range articles {
		strs = append(strs, deref(a.Tags))
	}
	return CollectTags(strs...)
}

// NoteTags collects the tag set of a list of notes.
func NoteTags(notes []Note) []string {
	strs := make([]string, 0, len(notes))
	for _, n := range notes {
		strs = append(strs, deref(n.Tags))
	}
	return CollectTags(strs...)
}

// MatchesTag reports whether tag occurs in the comma-joined tags string,
// ignoring case. This is substring containment: "gpu" matches
// "gpu-architecture". Store queries implement the same rule in SQL.
func MatchesTag(tags *string, tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return true
	}
	return strings.Contains(strings.ToLower(deref(tags)), strings.ToLower(tag))
}

// NormalizeTags trims a submitted tag string. An empty result becomes nil so
// the column is stored as NULL.
func NormalizeTags(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
