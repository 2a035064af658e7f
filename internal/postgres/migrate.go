package postgres

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	ierr "github.com/stayquote/stayquote/internal/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`

// Migration is one embedded schema change, applied in Version order
type Migration struct {
	Version string
	SQL     string
}

// Migrations returns the embedded migrations sorted by version
func Migrations() ([]Migration, error) {
	entries, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list migrations").
			Mark(ierr.ErrSystem)
	}
	sort.Strings(entries)

	migrations := make([]Migration, 0, len(entries))
	for _, name := range entries {
		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Failed to read migration %s", name).
				Mark(ierr.ErrSystem)
		}
		version := strings.TrimSuffix(strings.TrimPrefix(name, "migrations/"), ".sql")
		migrations = append(migrations, Migration{Version: version, SQL: string(body)})
	}
	return migrations, nil
}

// Migrate applies every embedded migration that has not run yet. Each migration
// runs in its own transaction together with its bookkeeping row.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create the schema_migrations table").
			Mark(ierr.ErrDatabase)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read applied migrations").
			Mark(ierr.ErrDatabase)
	}
	done := make(map[string]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}

	var ran []string
	for _, m := range migrations {
		if _, ok := done[m.Version]; ok {
			continue
		}

		err := db.WithTx(ctx, func(ctx context.Context) error {
			q := db.GetQuerier(ctx)
			if _, err := q.ExecContext(ctx, m.SQL); err != nil {
				return ierr.WithError(err).
					WithHintf("Migration %s failed", m.Version).
					Mark(ierr.ErrDatabase)
			}
			if _, err := q.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
				return ierr.WithError(err).
					WithHintf("Failed to record migration %s", m.Version).
					Mark(ierr.ErrDatabase)
			}
			return nil
		})
		if err != nil {
			return ran, err
		}

		db.logger.Infow("applied migration", "version", m.Version)
		ran = append(ran, m.Version)
	}

	return ran, nil
}
