package views

import (
	"github.com/v11labs/labpress/content"
	"github.com/v11labs/labpress/siteconfig"
)

// Chrome carries what every page's layout needs: site identity, the current
// admin state and per-page SEO metadata.
type Chrome struct {
	Site        siteconfig.Site
	Links       siteconfig.SocialLinks
	SiteURL     string
	Title       string // page title, without the site name
	Description string // meta description; defaults to the site's
	Canonical   string // canonical + og:url
	OGType      string // "website" or "article"
	CSRF        string
	Admin       bool
	Message     string
	JSONLD      string // structured data for the page, if any
	Year        int    // footer copyright year
}

// HomePage is the landing page.
type HomePage struct {
	Chrome
	Articles []content.Article
	Notes    []content.Note
}

// ArticlesPage lists visible articles, optionally narrowed to one tag.
type ArticlesPage struct {
	Chrome
	Articles  []content.Article
	Tags      []string
	ActiveTag string
}

// ArticlePage is a single published article.
type ArticlePage struct {
	Chrome
	Article content.Article
	Related []content.Article
}

// NotesPage lists notes with tag and search filters.
type NotesPage struct {
	Chrome
	Notes     []content.Note
	Tags      []string
	ActiveTag string
	Search    string
}

// NotePage is a single public note.
type NotePage struct {
	Chrome
	Note content.Note
}

// LoginPage is the admin sign-in form.
type LoginPage struct {
	Chrome
	Error string
}

// DashboardPage summarises the content counts.
type DashboardPage struct {
	Chrome
	TotalArticles     int
	PublishedArticles int
	TotalNotes        int
	PublicNotes       int
	Recent            []ArticleRow
}

// ArticleRow is an article with its publish state at render time.
type ArticleRow struct {
	content.Article
	Status string
}

// AdminArticlesPage is the admin article table.
type AdminArticlesPage struct {
	Chrome
	Rows   []ArticleRow
	Search string
}

// ArticleFormPage edits or creates an article.
type ArticleFormPage struct {
	Chrome
	Article content.Article
	IsNew   bool
	Error   string
	Actions []string
}

// AdminNotesPage is the admin note list.
type AdminNotesPage struct {
	Chrome
	Notes     []content.Note
	Tags      []string
	ActiveTag string
	Search    string
}

// NoteFormPage edits or creates a note.
type NoteFormPage struct {
	Chrome
	Note    content.Note
	IsNew   bool
	Error   string
	Actions []string
}

// ImagesPage is the media library.
type ImagesPage struct {
	Chrome
	Images []content.Image
	Error  string
}
