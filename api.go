package labpress

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"

	"github.com/v11labs/labpress/content"
	"github.com/v11labs/labpress/editor"
	"github.com/v11labs/labpress/markdown"
	"github.com/v11labs/labpress/store"
)

type apiError struct {
	Error string `json:"error"`
}

type apiSuccess struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, apiError{Error: msg})
}

// userError turns errors the admin can fix into a message. Anything else is
// an internal failure.
func userError(err error) (string, bool) {
	var verr validation.Errors
	switch {
	case errors.Is(err, store.ErrSlugExists):
		return "Slug already exists", true
	case errors.As(err, &verr):
		return verr.Error(), true
	case errors.Is(err, content.ErrInvalidDate):
		return content.ErrInvalidDate.Error(), true
	}
	return "", false
}

// storeFailure maps a store error to the JSON response for op.
func storeFailure(c echo.Context, op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "Not found")
	}
	if msg, ok := userError(err); ok {
		return jsonError(c, http.StatusBadRequest, msg)
	}
	c.Logger().Errorf("%s: %v", op, err)
	return jsonError(c, http.StatusInternalServerError, "Failed to "+op)
}

// apiErrorHandler answers framework errors on /api/ routes in JSON.
func (a *App) apiErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = http.StatusText(code)
	}
	if code >= 500 {
		c.Logger().Errorf("api error: %v", err)
	}
	_ = jsonError(c, code, msg)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (a *App) apiLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.JSON(http.StatusTooManyRequests, apiSuccess{Error: "Too many login attempts. Try again later."})
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, apiSuccess{Error: "Password is required"})
	}
	if !a.VerifyPassword(req.Password) {
		a.loginLimiter.Record(ip)
		return c.JSON(http.StatusUnauthorized, apiSuccess{Error: "Invalid password"})
	}
	a.loginLimiter.Reset(ip)
	if err := setAdminSession(c); err != nil {
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, apiSuccess{Error: "An error occurred. Please try again."})
	}
	return c.JSON(http.StatusOK, apiSuccess{Success: true})
}

func apiLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apiSuccess{Success: true})
}

func (a *App) apiListArticles(c echo.Context) error {
	articles, err := a.Store.ListArticles(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		return storeFailure(c, "fetch articles", err)
	}
	return c.JSON(http.StatusOK, articles)
}

func (a *App) apiGetArticle(c echo.Context) error {
	art, err := a.Store.GetArticle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeFailure(c, "fetch article", err)
	}
	return c.JSON(http.StatusOK, art)
}

func bindArticle(c echo.Context) (content.ArticleInput, error) {
	var in content.ArticleInput
	if err := c.Bind(&in); err != nil {
		return in, err
	}
	in = in.Normalize()
	return in, in.Validate()
}

func (a *App) apiCreateArticle(c echo.Context) error {
	in, err := bindArticle(c)
	if err != nil {
		return badRequest(c, err)
	}
	now := a.now()
	art := content.Article{CreatedAt: now, UpdatedAt: now}
	in.Apply(&art, now)
	if err := a.Store.CreateArticle(c.Request().Context(), &art); err != nil {
		return storeFailure(c, "create article", err)
	}
	return c.JSON(http.StatusOK, art)
}

func (a *App) apiUpdateArticle(c echo.Context) error {
	ctx := c.Request().Context()
	art, err := a.Store.GetArticle(ctx, c.Param("id"))
	if err != nil {
		return storeFailure(c, "update article", err)
	}
	in, err := bindArticle(c)
	if err != nil {
		return badRequest(c, err)
	}
	now := a.now()
	in.Apply(&art, now)
	art.UpdatedAt = now
	if err := a.Store.UpdateArticle(ctx, &art); err != nil {
		return storeFailure(c, "update article", err)
	}
	return c.JSON(http.StatusOK, art)
}

func (a *App) apiDeleteArticle(c echo.Context) error {
	if err := a.Store.DeleteArticle(c.Request().Context(), c.Param("id")); err != nil {
		return storeFailure(c, "delete article", err)
	}
	return c.JSON(http.StatusOK, apiSuccess{Success: true})
}

func (a *App) apiListNotes(c echo.Context) error {
	notes, err := a.Store.ListNotes(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		return storeFailure(c, "fetch notes", err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (a *App) apiGetNote(c echo.Context) error {
	n, err := a.Store.GetNote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeFailure(c, "fetch note", err)
	}
	return c.JSON(http.StatusOK, n)
}

func bindNote(c echo.Context) (content.NoteInput, error) {
	var in content.NoteInput
	if err := c.Bind(&in); err != nil {
		return in, err
	}
	in = in.Normalize()
	return in, in.Validate()
}

func (a *App) apiCreateNote(c echo.Context) error {
	in, err := bindNote(c)
	if err != nil {
		return badRequest(c, err)
	}
	now := a.now()
	n := content.Note{CreatedAt: now, UpdatedAt: now}
	in.Apply(&n)
	if err := a.Store.CreateNote(c.Request().Context(), &n); err != nil {
		return storeFailure(c, "create note", err)
	}
	return c.JSON(http.StatusOK, n)
}

func (a *App) apiUpdateNote(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := a.Store.GetNote(ctx, c.Param("id"))
	if err != nil {
		return storeFailure(c, "update note", err)
	}
	in, err := bindNote(c)
	if err != nil {
		return badRequest(c, err)
	}
	in.Apply(&n)
	n.UpdatedAt = a.now()
	if err := a.Store.UpdateNote(ctx, &n); err != nil {
		return storeFailure(c, "update note", err)
	}
	return c.JSON(http.StatusOK, n)
}

func (a *App) apiDeleteNote(c echo.Context) error {
	if err := a.Store.DeleteNote(c.Request().Context(), c.Param("id")); err != nil {
		return storeFailure(c, "delete note", err)
	}
	return c.JSON(http.StatusOK, apiSuccess{Success: true})
}

// badRequest reports a bind or validation failure.
func badRequest(c echo.Context, err error) error {
	if msg, ok := userError(err); ok {
		return jsonError(c, http.StatusBadRequest, msg)
	}
	return jsonError(c, http.StatusBadRequest, "Invalid request body")
}

type editorRequest struct {
	Action string `json:"action"`
	Text   string `json:"text"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

func apiEditor(c echo.Context) error {
	var req editorRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	res, err := editor.Apply(req.Action, req.Text, editor.Selection{Start: req.Start, End: req.End})
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

type previewRequest struct {
	Content string `json:"content"`
}

func apiPreview(c echo.Context) error {
	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	html, err := markdown.Render(req.Content)
	if err != nil {
		c.Logger().Errorf("preview: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to render preview")
	}
	return c.JSON(http.StatusOK, map[string]string{"html": html})
}
