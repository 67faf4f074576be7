package labpress

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/v11labs/labpress/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func (a *App) buildRSS(articles []content.Article) rssXML {
	base := a.Config.URL
	items := make([]rssItem, 0, len(articles))
	var latest time.Time
	for _, art := range articles {
		link := BuildURL(base, "articles", art.Slug)
		item := rssItem{
			Title:      art.Title,
			Link:       link,
			GUID:       link,
			Categories: art.TagList(),
		}
		if art.Description != nil {
			item.Description = *art.Description
		}
		if art.PublishedAt != nil {
			item.PubDate = art.PublishedAt.UTC().Format(time.RFC1123Z)
			if art.PublishedAt.After(latest) {
				latest = *art.PublishedAt
			}
		}
		items = append(items, item)
	}
	ch := rssChannel{
		Title:       a.Site.Name,
		Link:        BuildURL(base),
		Description: a.Site.Description,
		Items:       items,
	}
	if !latest.IsZero() {
		ch.LastBuildDate = latest.UTC().Format(time.RFC1123Z)
	}
	return rssXML{Version: "2.0", Channel: ch}
}

func (a *App) renderRSS(c echo.Context, articles []content.Article) error {
	return writeXML(c, "application/rss+xml; charset=utf-8", a.buildRSS(articles))
}

func writeXML(c echo.Context, contentType string, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(v)
}
