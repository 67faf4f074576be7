// Package labpress is a small publishing engine for articles and notes built
// with Echo, bun and goldmark. It provides the public site, an admin area, a
// JSON admin API, RSS and a sitemap.
//
// Pages are produced through the ViewFuncs struct; DefaultViews wires the
// templates shipped in the views package.
package labpress

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/v11labs/labpress/siteconfig"
	"github.com/v11labs/labpress/store"
	"github.com/v11labs/labpress/views"
)

// ViewFuncs holds the components the handlers render. Replace any of them to
// customise a page.
type ViewFuncs struct {
	Home             func(views.HomePage) templ.Component
	Articles         func(views.ArticlesPage) templ.Component
	Article          func(views.ArticlePage) templ.Component
	Notes            func(views.NotesPage) templ.Component
	Note             func(views.NotePage) templ.Component
	AdminLogin       func(views.LoginPage) templ.Component
	AdminDashboard   func(views.DashboardPage) templ.Component
	AdminArticles    func(views.AdminArticlesPage) templ.Component
	AdminArticleForm func(views.ArticleFormPage) templ.Component
	AdminNotes       func(views.AdminNotesPage) templ.Component
	AdminNoteForm    func(views.NoteFormPage) templ.Component
	AdminImages      func(views.ImagesPage) templ.Component
	NotFound         func(views.Chrome) templ.Component
	ServerError      func(views.Chrome) templ.Component
}

// DefaultViews returns the built-in page set.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:             views.Home,
		Articles:         views.Articles,
		Article:          views.Article,
		Notes:            views.Notes,
		Note:             views.Note,
		AdminLogin:       views.AdminLogin,
		AdminDashboard:   views.AdminDashboard,
		AdminArticles:    views.AdminArticles,
		AdminArticleForm: views.AdminArticleForm,
		AdminNotes:       views.AdminNotes,
		AdminNoteForm:    views.AdminNoteForm,
		AdminImages:      views.AdminImages,
		NotFound:         views.NotFound,
		ServerError:      views.ServerError,
	}
}

// App is the central labpress application. It wires together the store,
// handlers, middleware and views.
type App struct {
	Config Config
	Site   siteconfig.Site
	Echo   *echo.Echo
	Store  *store.Store
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	now          func() time.Time
	ownsStore    bool
}

// New creates an App. site is resolved once by the caller and never re-read.
func New(cfg Config, site siteconfig.Site, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:       cfg,
		Site:         site,
		Echo:         echo.New(),
		Views:        v,
		loginLimiter: NewLoginLimiter(5, time.Minute),
		staticDir:    "public",
		now:          time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLogLevel(cfg.LogLevel))

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup opens the store unless one was supplied, then installs middleware
// and routes. It is separate from Start so the app can be exercised with
// httptest.
func (a *App) Setup(ctx context.Context) error {
	if a.Config.AdminPassword == DefaultAdminPassword {
		a.Echo.Logger.Warn("labpress: using the default admin password, set ADMIN_PASSWORD")
	}
	if a.Store == nil {
		var opts []store.Option
		if strings.EqualFold(a.Config.LogLevel, "debug") {
			opts = append(opts, store.WithQueryLog(os.Stderr))
		}
		s, err := store.Open(ctx, a.Config.DatabaseURL, opts...)
		if err != nil {
			return fmt.Errorf("labpress: init store: %w", err)
		}
		a.Store = s
		a.ownsStore = true
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start runs Setup and serves until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	a.Echo.Logger.Infof("labpress listening on %s (%s store)", a.Config.Addr, a.Store.Dialect())
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "assets")
	e.StaticFS("/assets", assets)
	e.Static("/public", a.staticDir)
	e.Static("/uploads", filepath.Join(a.staticDir, uploadsSubdir))
	e.GET("/robots.txt", a.handleRobots)

	// Public
	e.GET("/", a.handleHome)
	e.GET("/articles/", a.handleArticles)
	e.GET("/articles/:slug/", a.handleArticle)
	e.GET("/notes/", a.handleNotes)
	e.GET("/notes/:id/", a.handleNote)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/api/config", a.handleConfig)

	// Admin pages
	e.GET("/admin/login/", a.handleAdminLoginPage)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	admin := e.Group("/admin", requireAdminPage)
	admin.GET("/", a.handleAdminDashboard)
	admin.GET("/articles/", a.handleAdminArticles)
	admin.GET("/articles/new/", a.handleAdminArticleNew)
	admin.POST("/articles/new/", a.handleAdminArticleCreate)
	admin.GET("/articles/:id/", a.handleAdminArticleEdit)
	admin.POST("/articles/:id/", a.handleAdminArticleSave)
	admin.POST("/articles/:id/delete/", a.handleAdminArticleDelete)
	admin.GET("/notes/", a.handleAdminNotes)
	admin.GET("/notes/new/", a.handleAdminNoteNew)
	admin.POST("/notes/new/", a.handleAdminNoteCreate)
	admin.GET("/notes/:id/", a.handleAdminNoteEdit)
	admin.POST("/notes/:id/", a.handleAdminNoteSave)
	admin.POST("/notes/:id/delete/", a.handleAdminNoteDelete)
	admin.GET("/images/", a.handleImageList)
	admin.POST("/images/", a.handleImageUpload)
	admin.POST("/images/:filename/delete/", a.handleImageDelete)

	// Admin API
	e.POST("/api/admin/login", a.apiLogin)

	api := e.Group("/api/admin", requireAdminAPI)
	api.POST("/logout", apiLogout)
	api.GET("/articles", a.apiListArticles)
	api.POST("/articles", a.apiCreateArticle)
	api.GET("/articles/:id", a.apiGetArticle)
	api.PUT("/articles/:id", a.apiUpdateArticle)
	api.DELETE("/articles/:id", a.apiDeleteArticle)
	api.GET("/notes", a.apiListNotes)
	api.POST("/notes", a.apiCreateNote)
	api.GET("/notes/:id", a.apiGetNote)
	api.PUT("/notes/:id", a.apiUpdateNote)
	api.DELETE("/notes/:id", a.apiDeleteNote)
	api.POST("/editor", apiEditor)
	api.POST("/preview", apiPreview)
}

// Close releases the store if the app opened it.
func (a *App) Close() error {
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
