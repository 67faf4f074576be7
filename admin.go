package labpress

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/v11labs/labpress/content"
	"github.com/v11labs/labpress/editor"
	"github.com/v11labs/labpress/store"
	"github.com/v11labs/labpress/views"
)

const dashboardRecent = 5

func (a *App) handleAdminLoginPage(c echo.Context) error {
	if IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(views.LoginPage{Chrome: a.chrome(c, "Admin login")}))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	if !a.VerifyPassword(c.FormValue("password")) {
		a.loginLimiter.Record(ip)
		return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(views.LoginPage{
			Chrome: a.chrome(c, "Admin login"),
			Error:  "Invalid password",
		}))
	}
	a.loginLimiter.Reset(ip)
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

func (a *App) handleAdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	now := a.now()
	total, published, err := a.Store.ArticleCounts(ctx, a.cutoff())
	if err != nil {
		return err
	}
	notes, public, err := a.Store.NoteCounts(ctx)
	if err != nil {
		return err
	}
	articles, err := a.Store.ListArticles(ctx, content.Filter{})
	if err != nil {
		return err
	}
	if len(articles) > dashboardRecent {
		articles = articles[:dashboardRecent]
	}
	ch := a.chrome(c, "Dashboard")
	ch.Message = c.QueryParam("msg")
	return Render(c, a.Views.AdminDashboard(views.DashboardPage{
		Chrome:            ch,
		TotalArticles:     total,
		PublishedArticles: published,
		TotalNotes:        notes,
		PublicNotes:       public,
		Recent:            a.articleRows(articles, now),
	}))
}

func (a *App) articleRows(articles []content.Article, now time.Time) []views.ArticleRow {
	rows := make([]views.ArticleRow, 0, len(articles))
	for _, art := range articles {
		rows = append(rows, views.ArticleRow{Article: art, Status: art.Status(now, a.Config.PublishSkew)})
	}
	return rows
}

func (a *App) handleAdminArticles(c echo.Context) error {
	f := filterFromQuery(c)
	articles, err := a.Store.ListArticles(c.Request().Context(), f)
	if err != nil {
		return err
	}
	ch := a.chrome(c, "Articles")
	ch.Message = c.QueryParam("msg")
	return Render(c, a.Views.AdminArticles(views.AdminArticlesPage{
		Chrome: ch,
		Rows:   a.articleRows(articles, a.now()),
		Search: f.Search,
	}))
}

func (a *App) handleAdminArticleNew(c echo.Context) error {
	return a.renderArticleForm(c, http.StatusOK, content.Article{}, true, "")
}

func (a *App) handleAdminArticleEdit(c echo.Context) error {
	art, err := a.Store.GetArticle(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	return a.renderArticleForm(c, http.StatusOK, art, false, "")
}

func (a *App) handleAdminArticleCreate(c echo.Context) error {
	now := a.now()
	art := content.Article{CreatedAt: now, UpdatedAt: now}
	in, err := articleFormInput(c, now)
	if err != nil {
		return a.renderArticleForm(c, http.StatusBadRequest, formArticle(art, in), true, err.Error())
	}
	in.Apply(&art, now)
	if err := a.Store.CreateArticle(c.Request().Context(), &art); err != nil {
		if msg, ok := userError(err); ok {
			return a.renderArticleForm(c, http.StatusBadRequest, art, true, msg)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/articles/?msg="+url.QueryEscape("Article created"))
}

func (a *App) handleAdminArticleSave(c echo.Context) error {
	ctx := c.Request().Context()
	art, err := a.Store.GetArticle(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	now := a.now()
	in, err := articleFormInput(c, now)
	if err != nil {
		return a.renderArticleForm(c, http.StatusBadRequest, formArticle(art, in), false, err.Error())
	}
	in.Apply(&art, now)
	art.UpdatedAt = now
	if err := a.Store.UpdateArticle(ctx, &art); err != nil {
		if msg, ok := userError(err); ok {
			return a.renderArticleForm(c, http.StatusBadRequest, art, false, msg)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/articles/?msg="+url.QueryEscape("Article saved"))
}

func (a *App) handleAdminArticleDelete(c echo.Context) error {
	if err := a.Store.DeleteArticle(c.Request().Context(), c.Param("id")); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/articles/?msg="+url.QueryEscape("Article deleted"))
}

// articleFormInput reads the article form. The publish and draft buttons
// override the date field.
func articleFormInput(c echo.Context, now time.Time) (content.ArticleInput, error) {
	in := content.ArticleInput{
		Title:       c.FormValue("title"),
		Slug:        c.FormValue("slug"),
		Description: optional(c.FormValue("description")),
		Content:     c.FormValue("content"),
		Tags:        optional(c.FormValue("tags")),
	}
	switch c.FormValue("action") {
	case "publish":
		in.PublishedAt = &now
	case "draft":
		in.PublishedAt = nil
	default:
		t, err := content.ParseTime(c.FormValue("published_at"), time.UTC)
		if err != nil {
			return in, err
		}
		in.PublishedAt = t
	}
	in = in.Normalize()
	return in, in.Validate()
}

// formArticle echoes rejected input back into the form.
func formArticle(a content.Article, in content.ArticleInput) content.Article {
	a.Title = in.Title
	a.Slug = in.Slug
	a.Description = in.Description
	a.Content = in.Content
	a.Tags = in.Tags
	a.PublishedAt = in.PublishedAt
	return a
}

func (a *App) renderArticleForm(c echo.Context, code int, art content.Article, isNew bool, msg string) error {
	title := "Edit article"
	if isNew {
		title = "New article"
	}
	return RenderStatus(c, code, a.Views.AdminArticleForm(views.ArticleFormPage{
		Chrome:  a.chrome(c, title),
		Article: art,
		IsNew:   isNew,
		Error:   msg,
		Actions: editor.Actions,
	}))
}

func (a *App) handleAdminNotes(c echo.Context) error {
	ctx := c.Request().Context()
	f := filterFromQuery(c)
	notes, err := a.Store.ListNotes(ctx, f)
	if err != nil {
		return err
	}
	all, err := a.Store.ListNotes(ctx, content.Filter{})
	if err != nil {
		return err
	}
	ch := a.chrome(c, "Notes")
	ch.Message = c.QueryParam("msg")
	return Render(c, a.Views.AdminNotes(views.AdminNotesPage{
		Chrome:    ch,
		Notes:     notes,
		Tags:      content.NoteTags(all),
		ActiveTag: f.Tag,
		Search:    f.Search,
	}))
}

func (a *App) handleAdminNoteNew(c echo.Context) error {
	return a.renderNoteForm(c, http.StatusOK, content.Note{}, true, "")
}

func (a *App) handleAdminNoteEdit(c echo.Context) error {
	n, err := a.Store.GetNote(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	return a.renderNoteForm(c, http.StatusOK, n, false, "")
}

func (a *App) handleAdminNoteCreate(c echo.Context) error {
	now := a.now()
	n := content.Note{CreatedAt: now, UpdatedAt: now}
	in := noteFormInput(c)
	in.Apply(&n)
	if err := in.Validate(); err != nil {
		return a.renderNoteForm(c, http.StatusBadRequest, n, true, err.Error())
	}
	if err := a.Store.CreateNote(c.Request().Context(), &n); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/notes/?msg="+url.QueryEscape("Note created"))
}

func (a *App) handleAdminNoteSave(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := a.Store.GetNote(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	in := noteFormInput(c)
	in.Apply(&n)
	if err := in.Validate(); err != nil {
		return a.renderNoteForm(c, http.StatusBadRequest, n, false, err.Error())
	}
	n.UpdatedAt = a.now()
	if err := a.Store.UpdateNote(ctx, &n); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/notes/?msg="+url.QueryEscape("Note saved"))
}

func (a *App) handleAdminNoteDelete(c echo.Context) error {
	if err := a.Store.DeleteNote(c.Request().Context(), c.Param("id")); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/notes/?msg="+url.QueryEscape("Note deleted"))
}

func noteFormInput(c echo.Context) content.NoteInput {
	return content.NoteInput{
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
		Tags:     optional(c.FormValue("tags")),
		IsPublic: c.FormValue("is_public") != "",
	}.Normalize()
}

func (a *App) renderNoteForm(c echo.Context, code int, n content.Note, isNew bool, msg string) error {
	title := "Edit note"
	if isNew {
		title = "New note"
	}
	return RenderStatus(c, code, a.Views.AdminNoteForm(views.NoteFormPage{
		Chrome:  a.chrome(c, title),
		Note:    n,
		IsNew:   isNew,
		Error:   msg,
		Actions: editor.Actions,
	}))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
