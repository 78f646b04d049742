// Command seed applies pending migrations and upserts the catalog file into
// the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"soloville/internal/platform/bootstrap"
	"soloville/internal/platform/config"
	"soloville/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	var catalogPath string
	flag.StringVar(&catalogPath, "catalog", cfg.CatalogPath, "catalog yaml file")
	flag.Parse()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.Store == config.StoreMemory {
		logger.Warn("memory store selected; the seeded catalog is discarded on exit")
	}

	ctx := context.Background()
	// Open seeds the memory store itself from cfg.CatalogPath.
	cfg.CatalogPath = catalogPath
	repos, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", "err", err)
		os.Exit(1)
	}
	defer repos.Close()

	if cfg.Store == config.StoreMemory {
		return
	}
	if _, err := bootstrap.SeedCatalog(ctx, repos, catalogPath, logger); err != nil {
		logger.Error("seed catalog", "err", err)
		os.Exit(1)
	}
}
