package authfile

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations applies the embedded schema files in lexical order. The
// statements are idempotent, so replaying them on boot is safe.
func RunMigrations(ctx context.Context, db bun.IDB) error {
	entries, err := fs.Glob(migrationsFS, "data/sql/migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(entries)

	for _, name := range entries {
		raw, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(raw)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
