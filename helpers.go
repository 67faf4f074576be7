package labpress

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/v11labs/labpress/content"
	"github.com/v11labs/labpress/siteconfig"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema.
func WebsiteJsonLD(site siteconfig.Site, siteURL string) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Name,
		"url":         BuildURL(siteURL),
		"description": site.Description,
	}
	return marshalJsonLD(data)
}

// ArticleJsonLD returns a JSON-LD string for a BlogPosting schema.
func ArticleJsonLD(art content.Article, site siteconfig.Site, siteURL string) string {
	articleURL := BuildURL(siteURL, "articles", art.Slug)
	data := map[string]any{
		"@context":     "https://schema.org",
		"@type":        "BlogPosting",
		"headline":     art.Title,
		"url":          articleURL,
		"dateModified": art.UpdatedAt.UTC().Format(time.RFC3339),
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if art.Description != nil {
		data["description"] = *art.Description
	}
	if art.PublishedAt != nil {
		data["datePublished"] = art.PublishedAt.UTC().Format(time.RFC3339)
	}
	if site.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		}
	}
	if tags := art.TagList(); len(tags) > 0 {
		data["keywords"] = content.JoinTags(tags)
	}
	return marshalJsonLD(data)
}

func marshalJsonLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
