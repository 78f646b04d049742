package gormrepo

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

const migrationsTable = "schema_migrations"

// ApplyMigrations runs every *.sql file of fsys not yet recorded in
// schema_migrations, in lexical order, each in its own transaction.
func ApplyMigrations(ctx context.Context, db *gorm.DB, fsys fs.FS) ([]string, error) {
	createMetaTableSQL := `
CREATE TABLE IF NOT EXISTS ` + migrationsTable + ` (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if err := db.WithContext(ctx).Exec(createMetaTableSQL).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", migrationsTable, err)
	}

	pending, err := PendingMigrations(ctx, db, fsys)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, name := range pending {
		version := strings.TrimSuffix(name, ".sql")
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
			if err := tx.Exec(`INSERT INTO `+migrationsTable+`(version, applied_at) VALUES (?, ?)`, version, time.Now()).Error; err != nil {
				return fmt.Errorf("record migration %s: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		slog.InfoContext(ctx, "migration applied", "version", version)
		applied = append(applied, version)
	}
	return applied, nil
}

// PendingMigrations lists the *.sql files of fsys without a schema_migrations row.
func PendingMigrations(ctx context.Context, db *gorm.DB, fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migration dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var done []string
	if err := db.WithContext(ctx).Table(migrationsTable).Pluck("version", &done).Error; err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	seen := make(map[string]struct{}, len(done))
	for _, v := range done {
		seen[v] = struct{}{}
	}

	out := make([]string, 0, len(files))
	for _, name := range files {
		if _, ok := seen[strings.TrimSuffix(name, ".sql")]; !ok {
			out = append(out, name)
		}
	}
	return out, nil
}
