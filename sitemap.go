package labpress

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/v11labs/labpress/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) buildSitemap(articles []content.Article, notes []content.Note) sitemapURLSet {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "articles")},
		{Loc: BuildURL(base, "notes")},
	}
	for _, art := range articles {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "articles", art.Slug),
			LastMod: art.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}
	for _, n := range notes {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "notes", n.ID),
			LastMod: n.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, articles []content.Article, notes []content.Note) error {
	return writeXML(c, "application/xml; charset=utf-8", a.buildSitemap(articles, notes))
}
