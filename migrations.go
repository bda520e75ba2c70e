package auth

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const migrationTable = "schema_migrations"

// RunMigrations applies the embedded SQL migrations that have not been
// applied yet, each inside its own transaction. Files run in lexical
// order, so names carry a sortable timestamp prefix. Statements go
// through bun so placeholders work on every wired dialect.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	return RunMigrationsFS(ctx, db, MigrationsFS, MigrationsDir)
}

// RunMigrationsFS is RunMigrations over an arbitrary filesystem, mostly
// for tests that supply their own fixtures.
func RunMigrationsFS(ctx context.Context, db *bun.DB, migrations fs.FS, dir string) error {
	if db == nil {
		return goerrors.New("migrations require a database handle", goerrors.CategoryInternal)
	}

	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migrations directory")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
		name VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP
	)`); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ensure migration table")
	}

	for _, file := range files {
		applied, err := migrationApplied(ctx, db, file)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrations, path.Join(dir, file))
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration "+file)
		}

		upSQL := strings.TrimSpace(extractUpMigration(string(content)))
		if upSQL == "" {
			continue
		}

		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range splitStatements(upSQL) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to exec migration "+file)
				}
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, CURRENT_TIMESTAMP) ON CONFLICT (name) DO NOTHING`,
				file,
			); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to record migration "+file)
			}

			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func migrationApplied(ctx context.Context, db *bun.DB, name string) (bool, error) {
	count, err := db.NewSelect().
		Table(migrationTable).
		Where("name = ?", name).
		Count(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check migration "+name)
	}
	return count > 0, nil
}

// extractUpMigration returns the SQL in the -- +migrate Up section.
func extractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	content = content[upIdx+len("-- +migrate Up"):]

	if downIdx := strings.Index(content, "-- +migrate Down"); downIdx != -1 {
		content = content[:downIdx]
	}

	return content
}

// splitStatements breaks a migration section into single statements. The
// embedded migrations keep one statement per semicolon and do not use
// triggers or procedural bodies, so a plain split is enough.
func splitStatements(sqlText string) []string {
	parts := strings.Split(sqlText, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if stmt := strings.TrimSpace(p); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
