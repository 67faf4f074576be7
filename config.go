package labpress

import (
	"crypto/sha256"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/v11labs/labpress/store"
)

// DefaultAdminPassword is used when ADMIN_PASSWORD is not set. Setup logs a
// warning when it is in effect.
const DefaultAdminPassword = "admin123"

// Config holds the server settings. Site identity lives in siteconfig.Site.
type Config struct {
	URL  string // Canonical URL (default "http://localhost:3000")
	Addr string // Listen address (default ":3000")

	// DatabaseURL is a postgres:// URL or a SQLite path (default "data/labpress.db").
	DatabaseURL string

	AdminPassword string // default DefaultAdminPassword
	SessionSecret string // cookie signing key; derived from AdminPassword when empty
	CookieSecure  bool   // Set true for HTTPS

	// PublishSkew lets articles scheduled slightly in the future show early.
	PublishSkew time.Duration

	LogLevel string // debug, info, warn, error (default "info")
}

func (c *Config) setDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "data/labpress.db"
	}
	if c.AdminPassword == "" {
		c.AdminPassword = DefaultAdminPassword
	}
	if c.SessionSecret == "" {
		sum := sha256.Sum256([]byte("labpress-session:" + c.AdminPassword))
		c.SessionSecret = string(sum[:])
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func parseLogLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are installed.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static files and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore uses s instead of opening Config.DatabaseURL. The caller keeps
// ownership of s.
func WithStore(s *store.Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithClock replaces time.Now for publish and visibility decisions.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
