// Package store persists articles, notes and images through bun, over SQLite
// or PostgreSQL depending on the DSN.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"
	"modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// unicodeLower replaces SQLite's lower(), which folds ASCII only.
const unicodeLower = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(unicodeLower, 1, foldLower)
}

func foldLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Dialects understood by Open.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Store wraps a bun database and provides CRUD operations for content.
type Store struct {
	db      *bun.DB
	dialect string
}

// Option configures Open.
type Option func(*Store)

// WithQueryLog writes every executed query to w.
func WithQueryLog(w io.Writer) Option {
	return func(s *Store) {
		s.db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithWriter(w),
			bundebug.WithVerbose(true),
		))
	}
}

// Open connects to dsn and runs pending migrations. A postgres:// or
// postgresql:// DSN selects PostgreSQL; anything else is a SQLite path,
// optionally prefixed with file: or sqlite://. The SQLite data directory is
// created if needed.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	var (
		s   *Store
		err error
	)
	if isPostgres(dsn) {
		s, err = openPostgres(dsn)
	} else {
		s, err = openSQLite(sqlitePath(dsn))
	}
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func sqlitePath(dsn string) string {
	for _, prefix := range []string{"sqlite://", "file:"} {
		if strings.HasPrefix(dsn, prefix) {
			return strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// sqlitePragmas are applied by the driver to every pooled connection.
const sqlitePragmas = "?_pragma=busy_timeout(5000)" +
	"&_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=cache_size(-8000)" +
	"&_pragma=foreign_keys(1)"

func openSQLite(path string) (*Store, error) {
	if path == "" {
		return nil, &Error{Op: "open", Err: fmt.Errorf("empty database path")}
	}
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &Error{Op: "open", Err: err}
		}
	}
	sqldb, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	if memory {
		// every connection to :memory: is a separate database
		sqldb.SetMaxOpenConns(1)
	} else {
		sqldb.SetMaxOpenConns(4)
		sqldb.SetMaxIdleConns(4)
	}
	return &Store{db: bun.NewDB(sqldb, sqlitedialect.New()), dialect: DialectSQLite}, nil
}

func openPostgres(dsn string) (*Store, error) {
	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	sqldb.SetMaxOpenConns(10)
	sqldb.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: bun.NewDB(sqldb, pgdialect.New()), dialect: DialectPostgres}, nil
}

// Migrate applies the embedded migrations for the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	dir := "migrations/sqlite"
	dialect := "sqlite3"
	if s.dialect == DialectPostgres {
		dir = "migrations/postgres"
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return &Error{Op: "migrate", Err: err}
	}
	if err := goose.UpContext(ctx, s.db.DB, dir); err != nil {
		return &Error{Op: "migrate", Err: err}
	}
	return nil
}

// Dialect reports DialectSQLite or DialectPostgres.
func (s *Store) Dialect() string {
	return s.dialect
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// dbTime normalizes a timestamp for storage: UTC, microsecond precision.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func dbTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := dbTime(*t)
	return &v
}

// lower wraps col in the dialect's Unicode-aware lowercase function.
func (s *Store) lower(col string) string {
	if s.dialect == DialectSQLite {
		return unicodeLower + "(" + col + ")"
	}
	return "lower(" + col + ")"
}

// likeLower is a case-insensitive "col LIKE ?" condition for use with
// likePattern.
func (s *Store) likeLower(col string) string {
	return s.lower(col) + ` LIKE ? ESCAPE '\'`
}

// likePattern builds a case-insensitive substring pattern for likeLower.
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
