package labpress

import (
	"encoding/xml"
	"net/http"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func TestFeedParses(t *testing.T) {
	a, now := newTestApp(t)
	cookies := login(t, a)
	createArticle(t, a, cookies, `{"title":"Older","description":"first","tags":"go, web","publishedAt":"`+now.Add(-time.Hour).Format(time.RFC3339)+`"}`)
	*now = now.Add(time.Minute)
	createArticle(t, a, cookies, `{"title":"Newer","publishedAt":"`+now.Format(time.RFC3339)+`"}`)
	createArticle(t, a, cookies, `{"title":"Hidden"}`)

	rec := doRequest(a, http.MethodGet, "/feed.xml", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d", rec.Code)
	}
	feed, err := gofeed.NewParser().ParseString(rec.Body.String())
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	if feed.FeedType != "rss" || feed.Title != "Test Lab" {
		t.Errorf("feed = %s %q", feed.FeedType, feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("feed has %d items, want 2", len(feed.Items))
	}
	newer, older := feed.Items[0], feed.Items[1]
	if newer.Title != "Newer" || older.Title != "Older" {
		t.Errorf("item order = %q, %q", newer.Title, older.Title)
	}
	if older.Link != "https://lab.test/articles/older/" || older.Description != "first" {
		t.Errorf("older item = %+v", older)
	}
	if len(older.Categories) != 2 || older.Categories[0] != "go" {
		t.Errorf("older categories = %v", older.Categories)
	}
	if newer.PublishedParsed == nil || !newer.PublishedParsed.Equal(*now) {
		t.Errorf("newer published = %v, want %v", newer.PublishedParsed, *now)
	}
}

func TestSitemap(t *testing.T) {
	a, now := newTestApp(t)
	cookies := login(t, a)
	createArticle(t, a, cookies, `{"title":"Visible","publishedAt":"`+now.Format(time.RFC3339)+`"}`)
	createArticle(t, a, cookies, `{"title":"Draft"}`)

	rec := doRequest(a, http.MethodGet, "/sitemap.xml", "", nil)
	var set sitemapURLSet
	if err := xml.Unmarshal(rec.Body.Bytes(), &set); err != nil {
		t.Fatalf("decode sitemap: %v", err)
	}
	locs := map[string]bool{}
	for _, u := range set.URLs {
		locs[u.Loc] = true
	}
	if !locs["https://lab.test/articles/visible/"] {
		t.Errorf("sitemap missing visible article: %v", locs)
	}
	if locs["https://lab.test/articles/draft/"] {
		t.Errorf("sitemap lists a draft: %v", locs)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://lab.test", nil, "https://lab.test/"},
		{"https://lab.test", []string{"articles", "hello"}, "https://lab.test/articles/hello/"},
		{"https://lab.test/blog", []string{"notes"}, "https://lab.test/blog/notes/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}
