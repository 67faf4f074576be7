package labpress

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/v11labs/labpress/content"
	"github.com/v11labs/labpress/store"
	"github.com/v11labs/labpress/views"
)

const (
	homeArticleLimit = 5
	homeNoteLimit    = 5
	relatedLimit     = 3
)

// chrome fills the layout data shared by every page.
func (a *App) chrome(c echo.Context, title string) views.Chrome {
	return views.Chrome{
		Site:      a.Site,
		Links:     a.Site.Links(),
		SiteURL:   a.Config.URL,
		Title:     title,
		Canonical: BuildURL(a.Config.URL, c.Request().URL.Path),
		OGType:    "website",
		CSRF:      CsrfToken(c),
		Admin:     IsAdmin(c),
		Year:      a.now().Year(),
	}
}

// cutoff is the latest publish time visible right now.
func (a *App) cutoff() time.Time {
	return content.VisibleCutoff(a.now(), a.Config.PublishSkew)
}

// degrade logs a failed public read and reports whether the page should be
// rendered with an empty result instead. Missing rows are never degraded.
func (a *App) degrade(c echo.Context, op string, err error) bool {
	if err == nil || errors.Is(err, store.ErrNotFound) {
		return false
	}
	c.Logger().Errorf("%s: %v", op, err)
	return true
}

func filterFromQuery(c echo.Context) content.Filter {
	return content.Filter{
		Tag:    strings.TrimSpace(c.QueryParam("tag")),
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
}

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	cutoff := a.cutoff()
	articles, err := a.Store.ListVisibleArticles(ctx, content.Filter{}, cutoff)
	if a.degrade(c, "home articles", err) {
		articles = nil
	}
	notes, err := a.Store.ListPublicNotes(ctx, content.Filter{})
	if a.degrade(c, "home notes", err) {
		notes = nil
	}
	if len(articles) > homeArticleLimit {
		articles = articles[:homeArticleLimit]
	}
	if len(notes) > homeNoteLimit {
		notes = notes[:homeNoteLimit]
	}
	ch := a.chrome(c, "")
	ch.Canonical = BuildURL(a.Config.URL)
	ch.JSONLD = WebsiteJsonLD(a.Site, a.Config.URL)
	return Render(c, a.Views.Home(views.HomePage{Chrome: ch, Articles: articles, Notes: notes}))
}

func (a *App) handleArticles(c echo.Context) error {
	ctx := c.Request().Context()
	cutoff := a.cutoff()
	tag := strings.TrimSpace(c.QueryParam("tag"))

	all, err := a.Store.ListVisibleArticles(ctx, content.Filter{}, cutoff)
	if a.degrade(c, "list articles", err) {
		all = nil
	}
	articles := all
	if tag != "" {
		articles = nil
		for _, art := range all {
			if content.MatchesTag(art.Tags, tag) {
				articles = append(articles, art)
			}
		}
	}
	return Render(c, a.Views.Articles(views.ArticlesPage{
		Chrome:    a.chrome(c, "Articles"),
		Articles:  articles,
		Tags:      content.ArticleTags(all),
		ActiveTag: tag,
	}))
}

func (a *App) handleArticle(c echo.Context) error {
	ctx := c.Request().Context()
	cutoff := a.cutoff()
	art, err := a.Store.GetVisibleArticle(ctx, c.Param("slug"), cutoff)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	related, err := a.Store.RelatedArticles(ctx, art, cutoff, relatedLimit)
	if a.degrade(c, "related articles", err) {
		related = nil
	}

	ch := a.chrome(c, art.Title)
	ch.Canonical = BuildURL(a.Config.URL, "articles", art.Slug)
	ch.OGType = "article"
	if art.Description != nil {
		ch.Description = *art.Description
	}
	ch.JSONLD = ArticleJsonLD(art, a.Site, a.Config.URL)
	return Render(c, a.Views.Article(views.ArticlePage{
		Chrome:  ch,
		Article: art,
		Related: related,
	}))
}

func (a *App) handleNotes(c echo.Context) error {
	ctx := c.Request().Context()
	f := filterFromQuery(c)
	notes, err := a.Store.ListPublicNotes(ctx, f)
	if a.degrade(c, "list notes", err) {
		notes = nil
	}
	all := notes
	if f.Tag != "" || f.Search != "" {
		all, err = a.Store.ListPublicNotes(ctx, content.Filter{})
		if a.degrade(c, "list note tags", err) {
			all = nil
		}
	}
	return Render(c, a.Views.Notes(views.NotesPage{
		Chrome:    a.chrome(c, "Notes"),
		Notes:     notes,
		Tags:      content.NoteTags(all),
		ActiveTag: f.Tag,
		Search:    f.Search,
	}))
}

func (a *App) handleNote(c echo.Context) error {
	n, err := a.Store.GetPublicNote(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	return Render(c, a.Views.Note(views.NotePage{Chrome: a.chrome(c, n.Title), Note: n}))
}

func (a *App) handleSitemap(c echo.Context) error {
	cutoff := a.cutoff()
	articles, err := a.Store.ListVisibleArticles(c.Request().Context(), content.Filter{}, cutoff)
	if a.degrade(c, "sitemap articles", err) {
		articles = nil
	}
	notes, err := a.Store.ListPublicNotes(c.Request().Context(), content.Filter{})
	if a.degrade(c, "sitemap notes", err) {
		notes = nil
	}
	return a.renderSitemap(c, articles, notes)
}

func (a *App) handleFeed(c echo.Context) error {
	cutoff := a.cutoff()
	articles, err := a.Store.ListVisibleArticles(c.Request().Context(), content.Filter{}, cutoff)
	if a.degrade(c, "feed articles", err) {
		articles = nil
	}
	return a.renderRSS(c, articles)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nDisallow: /admin/\nDisallow: /api/\n\nSitemap: " + a.Config.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

// handleConfig exposes the public site metadata and social links.
func (a *App) handleConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"config": map[string]string{
			"name":        a.Site.Name,
			"description": a.Site.Description,
		},
		"socialLinks": a.Site.Links(),
	})
}

func (a *App) renderNotFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.chrome(c, "Not found")))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		a.apiErrorHandler(err, c)
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.chrome(c, "Error")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
