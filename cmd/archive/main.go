// Command archive exports a window of history entries to a zstd-compressed
// JSON Lines file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"soloville/internal/adapter/archive"
	"soloville/internal/app/history"
	"soloville/internal/platform/bootstrap"
	"soloville/internal/platform/config"
	"soloville/internal/platform/logging"
)

func main() {
	var fromRaw, toRaw, out string
	flag.StringVar(&fromRaw, "from", "", "window start, RFC3339 (inclusive)")
	flag.StringVar(&toRaw, "to", "", "window end, RFC3339 (exclusive); defaults to now")
	flag.StringVar(&out, "out", "history.jsonl.zst", "output file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	from, to, err := parseWindow(fromRaw, toRaw, time.Now())
	if err != nil {
		logger.Error("invalid window", "err", err)
		os.Exit(2)
	}

	ctx := context.Background()
	repos, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", "err", err)
		os.Exit(1)
	}
	defer repos.Close()

	f, err := os.Create(out)
	if err != nil {
		logger.Error("create output", "path", out, "err", err)
		os.Exit(1)
	}
	n, err := archive.Export(ctx, history.UseCase{Citizens: repos.Citizens, History: repos.History}, from, to, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logger.Error("export history", "err", err)
		os.Exit(1)
	}
	logger.Info("history archived", "path", out, "entries", n, "from", from, "to", to)
}

func parseWindow(fromRaw, toRaw string, now time.Time) (time.Time, time.Time, error) {
	if fromRaw == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("-from is required")
	}
	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse -from: %w", err)
	}
	to := now
	if toRaw != "" {
		if to, err = time.Parse(time.RFC3339, toRaw); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse -to: %w", err)
		}
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("-from must be before -to")
	}
	return from, to, nil
}
