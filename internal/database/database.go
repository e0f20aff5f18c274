// Package database handles connection management and migration execution
// using goose. Postgres (pgx) is the production backend; SQLite (modernc)
// serves local development and tests. Connect returns a ready-to-use *sql.DB
// pool and Migrate applies the embedded schema for the chosen dialect.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"lingopress/internal/query"
)

//go:embed migrations
var embedMigrations embed.FS

// Connect opens a connection pool for dialect. For Postgres dsn is a
// connection URL; for SQLite it is a file path. The connection is verified
// with a ping before returning.
func Connect(dialect query.Dialect, dsn string) (*sql.DB, error) {
	driver := "pgx"
	if dialect == query.SQLite {
		driver = "sqlite"
		dsn = SQLiteDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	if dialect == query.Postgres {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Verify the connection is alive.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "dialect", dialect.String())
	return db, nil
}

// SQLiteDSN turns a file path into a modernc DSN. Pragmas are passed in the
// DSN so every pooled connection gets them, not just the first.
func SQLiteDSN(path string) string {
	return "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)"
}

// Migrate runs all pending goose migrations for dialect from the embedded
// SQL files.
func Migrate(db *sql.DB, dialect query.Dialect) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect.String()); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	dir := "migrations/postgres"
	if dialect == query.SQLite {
		dir = "migrations/sqlite"
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied", "dialect", dialect.String())
	return nil
}
