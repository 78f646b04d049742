package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	metricsinmem "soloville/internal/adapter/metrics/inmemory"
	"soloville/internal/app/action"
	"soloville/internal/platform/bootstrap"
	"soloville/internal/platform/config"
)

func memoryConfig() config.Config {
	return config.Config{
		Store:              config.StoreMemory,
		CatalogPath:        "../../configs/catalog.yaml",
		LuckScheme:         "range",
		MaxConflictRetries: 3,
		WellWindow:         24 * time.Hour,
		StartingEnergy:     20,
		RandomSeed:         7,
	}
}

func TestBuildHandler_WiresEconomyOverMemoryStore(t *testing.T) {
	cfg := memoryConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos, err := bootstrap.Open(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	kpi := metricsinmem.NewRecorder()
	h, err := buildHandler(cfg, repos, logger, kpi)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}

	ctx := context.Background()
	if _, err := h.CitizenUC.Register(ctx, "Ada", "test"); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := h.ActionUC.Perform(ctx, action.Request{CitizenName: "Ada", ActionCode: "talar"})
	if err != nil {
		t.Fatalf("perform: %v", err)
	}
	if out.Energy >= 20 {
		t.Fatalf("expected energy to drop below 20, got %v", out.Energy)
	}
	if got := kpi.Snapshot().OperationSuccess; got != 2 {
		t.Fatalf("recorded successes got=%d want=2", got)
	}
}

func TestBuildHandler_RejectsUnknownLuckScheme(t *testing.T) {
	cfg := memoryConfig()
	cfg.LuckScheme = "chaotic"
	if _, err := buildHandler(cfg, bootstrap.Repos{}, slog.Default(), metricsinmem.NewRecorder()); err == nil {
		t.Fatalf("expected error for unknown luck scheme")
	}
}
