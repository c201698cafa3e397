package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ConnectDB opens and pings the database for driver. For sqlite the dsn is a
// file path; the parent directory is created when missing.
func ConnectDB(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		path, err := expandHome(dsn)
		if err != nil {
			return nil, err
		}

		// Create the directory structure if it doesn't exist
		if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, ":memory:") {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dsn = path
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows a single writer; an in-memory database also lives on a
	// single connection.
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// expandHome replaces a leading tilde with the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return homeDir + path[1:], nil
}

var schema = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			status BOOLEAN NOT NULL DEFAULT 0,
			title TEXT NOT NULL,
			description TEXT,
			priority INTEGER NOT NULL DEFAULT 2,
			duedate TIMESTAMP,
			category_id TEXT,
			created TIMESTAMP NOT NULL,
			lastmodified TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS todos_created_idx ON todos (created)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			icon TEXT NOT NULL,
			created TIMESTAMP NOT NULL,
			lastmodified TIMESTAMP NOT NULL
		)`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			status BOOLEAN NOT NULL DEFAULT FALSE,
			title TEXT NOT NULL,
			description TEXT,
			priority INTEGER NOT NULL DEFAULT 2,
			duedate TIMESTAMPTZ,
			category_id TEXT,
			created TIMESTAMPTZ NOT NULL,
			lastmodified TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS todos_created_idx ON todos (created)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			icon TEXT NOT NULL,
			created TIMESTAMPTZ NOT NULL,
			lastmodified TIMESTAMPTZ NOT NULL
		)`,
	},
}

// EnsureSchema creates the tables if they don't exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts, ok := schema[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
