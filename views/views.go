// Package views renders labpress pages. Pages are html/template files
// embedded in the binary and exposed as templ components so handlers stay
// independent of how a page is produced.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/v11labs/labpress/content"
	"github.com/v11labs/labpress/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home", "articles", "article", "notes", "note",
	"login", "dashboard", "admin_articles", "article_form",
	"admin_notes", "note_form", "images", "not_found", "server_error",
}

var pages = parsePages()

func parsePages() map[string]*template.Template {
	base := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return out
}

var funcs = template.FuncMap{
	"markdown":      renderMarkdown,
	"date":          formatDate,
	"dateTime":      formatDateTime,
	"dateTimeLocal": formatDateTimeLocal,
	"tags":          tagList,
	"deref":         deref,
	"pathEscape":    url.PathEscape,
	"jsonLD":        func(s string) template.JS { return template.JS(s) },
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", data)
	})
}

// Home renders the landing page.
func Home(p HomePage) templ.Component {
	return page("home", p)
}

func Articles(p ArticlesPage) templ.Component {
	return page("articles", p)
}

func Article(p ArticlePage) templ.Component {
	return page("article", p)
}

func Notes(p NotesPage) templ.Component {
	return page("notes", p)
}

func Note(p NotePage) templ.Component {
	return page("note", p)
}

func AdminLogin(p LoginPage) templ.Component {
	return page("login", p)
}

func AdminDashboard(p DashboardPage) templ.Component {
	return page("dashboard", p)
}

func AdminArticles(p AdminArticlesPage) templ.Component {
	return page("admin_articles", p)
}

func AdminArticleForm(p ArticleFormPage) templ.Component {
	return page("article_form", p)
}

func AdminNotes(p AdminNotesPage) templ.Component {
	return page("admin_notes", p)
}

func AdminNoteForm(p NoteFormPage) templ.Component {
	return page("note_form", p)
}

func AdminImages(p ImagesPage) templ.Component {
	return page("images", p)
}

// NotFound renders the 404 page.
func NotFound(c Chrome) templ.Component {
	return page("not_found", c)
}

// ServerError renders the 500 page.
func ServerError(c Chrome) templ.Component {
	return page("server_error", c)
}

func renderMarkdown(src string) template.HTML {
	out, err := markdown.Render(src)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(out)
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format("January 2, 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.UTC().Format("January 2, 2006")
	}
	return ""
}

func formatDateTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format("2006-01-02 15:04 UTC")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04 UTC")
	}
	return ""
}

// formatDateTimeLocal renders a value for an <input type="datetime-local">.
func formatDateTimeLocal(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04")
}

func tagList(s *string) []string {
	return content.SplitTags(deref(s))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
