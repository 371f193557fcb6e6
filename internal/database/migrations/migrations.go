// Package migrations applies the embedded schema through database/sql.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/juju/errors"
	_ "github.com/lib/pq"

	"github.com/klau55/clicker-mobile-app/internal/logger"
)

//go:embed sql/*.sql
var files embed.FS

// Migration is one embedded SQL file, identified by its file name without extension.
type Migration struct {
	Version string
	SQL     string
}

// Open connects with the lib/pq driver. The pgx pool is kept for request traffic.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Annotate(err, "open migration connection")
	}
	return db, nil
}

// Load returns the embedded migrations in version order.
func Load() ([]Migration, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, errors.Trace(err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		body, err := files.ReadFile(path.Join("sql", entry.Name()))
		if err != nil {
			return nil, errors.Trace(err)
		}
		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(entry.Name(), ".sql"),
			SQL:     string(body),
		})
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Apply runs every migration not yet recorded in schema_migrations, each in
// its own transaction together with its bookkeeping row.
func Apply(ctx context.Context, db *sql.DB) error {
	migrations, err := Load()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	); err != nil {
		return errors.Annotate(err, "create schema_migrations")
	}

	for _, m := range migrations {
		var applied bool
		if err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`,
			m.Version,
		).Scan(&applied); err != nil {
			return errors.Annotatef(err, "check migration %s", m.Version)
		}
		if applied {
			logger.Debug("migration %s already applied", m.Version)
			continue
		}

		if err := applyOne(ctx, db, m); err != nil {
			return err
		}
		logger.Success("Applied migration %s", m.Version)
	}
	return nil
}

func applyOne(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Annotatef(err, "begin migration %s", m.Version)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return errors.Annotatef(err, "run migration %s", m.Version)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES ($1)`,
		m.Version,
	); err != nil {
		return errors.Annotatef(err, "record migration %s", m.Version)
	}
	if err := tx.Commit(); err != nil {
		return errors.Annotatef(err, "commit migration %s", m.Version)
	}
	return nil
}

// Drop removes every table owned by the service, data included.
func Drop(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx,
		`DROP TABLE IF EXISTS tap_activity, user_stats, users, schema_migrations CASCADE`,
	); err != nil {
		return errors.Annotate(err, "drop tables")
	}
	return nil
}
