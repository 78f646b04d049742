package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	httpadapter "soloville/internal/adapter/http"
	metricsinmem "soloville/internal/adapter/metrics/inmemory"
	"soloville/internal/app/action"
	"soloville/internal/app/catalog"
	"soloville/internal/app/citizen"
	"soloville/internal/app/craft"
	"soloville/internal/app/dwelling"
	"soloville/internal/app/history"
	"soloville/internal/app/ledger"
	"soloville/internal/app/shared/txrun"
	"soloville/internal/domain/village"
	"soloville/internal/platform/bootstrap"
	"soloville/internal/platform/config"
	"soloville/internal/platform/logging"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.opentelemetry.io/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	repos, err := bootstrap.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("open store", "store", cfg.Store, "err", err)
		os.Exit(1)
	}
	defer repos.Close()

	kpiRecorder := metricsinmem.NewRecorder()
	h, err := buildHandler(cfg, repos, logger, kpiRecorder)
	if err != nil {
		logger.Error("build handler", "err", err)
		os.Exit(1)
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	logger.Info("soloville server listening", "addr", cfg.HTTPAddr, "store", cfg.Store, "luck", cfg.LuckScheme)
	s.Spin()
}

func buildHandler(cfg config.Config, repos bootstrap.Repos, logger *slog.Logger, kpi *metricsinmem.Recorder) (httpadapter.Handler, error) {
	luck, err := village.LuckPolicyByName(cfg.LuckScheme)
	if err != nil {
		return httpadapter.Handler{}, err
	}
	seed := cfg.RandomSeed
	if seed == 0 {
		if seed, err = village.NewSeed(); err != nil {
			return httpadapter.Handler{}, err
		}
	}

	runner := txrun.Runner{
		TxManager:  repos.Tx,
		Metrics:    kpi,
		Logger:     logger,
		Tracer:     otel.Tracer("soloville"),
		MaxRetries: cfg.MaxConflictRetries,
	}
	reg := catalog.Registry{Resources: repos.Resources, Actions: repos.Actions, Recipes: repos.Recipes}
	led := ledger.Ledger{Resources: repos.Resources, Balances: repos.Balances, Citizens: repos.Citizens, Now: time.Now}

	return httpadapter.Handler{
		CitizenUC: citizen.UseCase{
			Runner:         runner,
			Citizens:       repos.Citizens,
			Resources:      repos.Resources,
			Balances:       repos.Balances,
			Tools:          repos.Tools,
			StartingEnergy: cfg.StartingEnergy,
			Now:            time.Now,
		},
		ActionUC: action.UseCase{
			Runner:     runner,
			Citizens:   repos.Citizens,
			Tools:      repos.Tools,
			History:    repos.History,
			Operations: repos.Operations,
			Catalog:    reg,
			Ledger:     led,
			Luck:       luck,
			Roller:     village.NewRandRoller(seed),
			WellWindow: cfg.WellWindow,
			Logger:     logger,
			Now:        time.Now,
		},
		CraftUC: craft.UseCase{
			Runner:     runner,
			Citizens:   repos.Citizens,
			History:    repos.History,
			Operations: repos.Operations,
			Catalog:    reg,
			Ledger:     led,
			Logger:     logger,
			Now:        time.Now,
		},
		DwellingUC: dwelling.UseCase{
			Runner:     runner,
			Citizens:   repos.Citizens,
			History:    repos.History,
			Operations: repos.Operations,
			Ledger:     led,
			Logger:     logger,
			Now:        time.Now,
		},
		HistoryUC:   history.UseCase{Citizens: repos.Citizens, History: repos.History},
		Ledger:      led,
		KPI:         kpi,
		Limiter:     httpadapter.NewCitizenLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		AllowOrigin: cfg.CORSAllowOrigin,
	}, nil
}
