package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"github.com/v11labs/labpress"
	"github.com/v11labs/labpress/importer"
	"github.com/v11labs/labpress/siteconfig"
	"github.com/v11labs/labpress/store"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: load .env: %v\n", err)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "migrate":
		err = runMigrate()
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: labpress import <file.md>...")
			os.Exit(1)
		}
		err = runImport(os.Args[2:])
	case "version":
		fmt.Printf("labpress %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configFromEnv() (labpress.Config, error) {
	cfg := labpress.Config{
		URL:           os.Getenv("SITE_URL"),
		Addr:          labpress.EnvOr("ADDR", ":3000"),
		DatabaseURL:   labpress.EnvOr("DATABASE_URL", "data/labpress.db"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  os.Getenv("APP_ENV") == "production",
		LogLevel:      labpress.EnvOr("LOG_LEVEL", "info"),
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = secure
	}
	if v := os.Getenv("PUBLISH_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("PUBLISH_SKEW: %w", err)
		}
		cfg.PublishSkew = d
	}
	return cfg, nil
}

func runServe() error {
	cfg, err := configFromEnv()
	if err != nil {
		return err
	}
	site, err := siteconfig.Load(os.Getenv, labpress.EnvOr("SITE_CONFIG_FILE", "configs/text"))
	if err != nil {
		log.Warnf("site config: %v (using defaults)", err)
	}

	app := labpress.New(cfg, site, labpress.DefaultViews(),
		labpress.WithStaticDir(labpress.EnvOr("STATIC_DIR", "public")),
	)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start(ctx) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	app.Echo.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

func openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, labpress.EnvOr("DATABASE_URL", "data/labpress.db"))
}

func runMigrate() error {
	ctx := context.Background()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	fmt.Printf("%s schema is up to date\n", s.Dialect())
	return nil
}

func runImport(paths []string) error {
	ctx := context.Background()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	im := &importer.Importer{Store: s}
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		a, created, err := im.Import(ctx, src)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		verb := "updated"
		if created {
			verb = "created"
		}
		fmt.Printf("%s %s (%s)\n", verb, a.Slug, a.Status(time.Now(), 0))
	}
	return nil
}

func printUsage() {
	fmt.Println(`labpress - articles and notes with a small admin area

Usage:
  labpress <command> [arguments]

Commands:
  serve               Start the web server
  migrate             Apply database migrations
  import <file.md>... Create or update articles from front-matter markdown
  version             Print the labpress version
  help                Show this help message

Environment:
  ADDR, SITE_URL, DATABASE_URL, ADMIN_PASSWORD, SESSION_SECRET, APP_ENV,
  PUBLISH_SKEW, SITE_CONFIG_FILE, STATIC_DIR, LOG_LEVEL, and the site
  variables SITE_NAME, SITE_DESCRIPTION, INSTAGRAM, X_HANDLE, LINKEDIN, EMAIL.
  A .env file in the working directory is loaded first.`)
}
