// Package bootstrap opens the configured store and returns the repository
// set the commands wire their use cases over.
package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	gormrepo "soloville/internal/adapter/repo/gorm"
	"soloville/internal/adapter/repo/memory"
	"soloville/internal/adapter/seed"
	"soloville/internal/app/ports"
	"soloville/internal/platform/config"
	"soloville/migrations"
)

type Repos struct {
	Tx         ports.TxManager
	Citizens   ports.CitizenRepository
	Resources  ports.ResourceRepository
	Balances   ports.BalanceRepository
	Tools      ports.ToolRepository
	Actions    ports.ActionRepository
	Recipes    ports.RecipeRepository
	History    ports.HistoryRepository
	Operations ports.OperationRepository
	Catalog    ports.CatalogWriter

	close func() error
}

func (r Repos) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open returns postgres repositories with pending migrations applied, or an
// in-memory store loaded from the catalog file.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (Repos, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return openMemory(ctx, cfg, logger)
	default:
		return openPostgres(ctx, cfg, logger)
	}
}

func openMemory(ctx context.Context, cfg config.Config, logger *slog.Logger) (Repos, error) {
	store := memory.NewStore()
	repos := Repos{
		Tx:         memory.NewTxManager(store),
		Citizens:   memory.NewCitizenRepo(store),
		Resources:  memory.NewResourceRepo(store),
		Balances:   memory.NewBalanceRepo(store),
		Tools:      memory.NewToolRepo(store),
		Actions:    memory.NewActionRepo(store),
		Recipes:    memory.NewRecipeRepo(store),
		History:    memory.NewHistoryRepo(store),
		Operations: memory.NewOperationRepo(store),
		Catalog:    memory.NewCatalogRepo(store),
	}
	if _, err := SeedCatalog(ctx, repos, cfg.CatalogPath, logger); err != nil {
		return Repos{}, err
	}
	return repos, nil
}

func openPostgres(ctx context.Context, cfg config.Config, logger *slog.Logger) (Repos, error) {
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		return Repos{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return Repos{}, fmt.Errorf("postgres pool: %w", err)
	}
	applied, err := gormrepo.ApplyMigrations(ctx, db, MigrationsFS(cfg))
	if err != nil {
		_ = sqlDB.Close()
		return Repos{}, fmt.Errorf("migrate: %w", err)
	}
	logger.InfoContext(ctx, "database ready", "migrations_applied", len(applied))
	return Repos{
		Tx:         gormrepo.NewTxManager(db),
		Citizens:   gormrepo.NewCitizenRepo(db),
		Resources:  gormrepo.NewResourceRepo(db),
		Balances:   gormrepo.NewBalanceRepo(db),
		Tools:      gormrepo.NewToolRepo(db),
		Actions:    gormrepo.NewActionRepo(db),
		Recipes:    gormrepo.NewRecipeRepo(db),
		History:    gormrepo.NewHistoryRepo(db),
		Operations: gormrepo.NewOperationRepo(db),
		Catalog:    gormrepo.NewCatalogRepo(db),
		close:      sqlDB.Close,
	}, nil
}

// MigrationsFS prefers an on-disk directory when one is configured.
func MigrationsFS(cfg config.Config) fs.FS {
	if dir := strings.TrimSpace(cfg.MigrationsDir); dir != "" {
		return os.DirFS(dir)
	}
	return migrations.FS
}

// SeedCatalog loads the catalog file and upserts it.
func SeedCatalog(ctx context.Context, repos Repos, path string, logger *slog.Logger) (seed.Summary, error) {
	c, err := seed.LoadFile(path)
	if err != nil {
		return seed.Summary{}, err
	}
	sum, err := seed.Apply(ctx, repos.Tx, repos.Catalog, c)
	if err != nil {
		return seed.Summary{}, fmt.Errorf("apply catalog %s: %w", path, err)
	}
	logger.InfoContext(ctx, "catalog applied",
		"path", path, "resources", sum.Resources, "tools", sum.Tools, "actions", sum.Actions, "recipes", sum.Recipes)
	return sum, nil
}
