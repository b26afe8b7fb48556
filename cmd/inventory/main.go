package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/subosito/gotenv"

	"github.com/ufchem/factory-inventory/internal/config"
	"github.com/ufchem/factory-inventory/internal/domain/ledger"
	"github.com/ufchem/factory-inventory/internal/domain/masters"
	"github.com/ufchem/factory-inventory/internal/domain/mill"
	"github.com/ufchem/factory-inventory/internal/domain/recording"
	"github.com/ufchem/factory-inventory/internal/domain/stock"
	httpx "github.com/ufchem/factory-inventory/internal/infra/http"
	"github.com/ufchem/factory-inventory/internal/infra/logger"
	"github.com/ufchem/factory-inventory/internal/infra/metrics"
)

func main() {
	_ = gotenv.Load()

	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/example.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn("unknown timezone, using UTC", "tz", cfg.App.Timezone)
		loc = time.UTC
	}

	ledgerStore, err := ledger.Open(cfg.Data.LedgerFile, log)
	if err != nil {
		log.Error("ledger open failed", "err", err)
		return
	}
	registry, err := masters.Open(cfg.Data.MastersFile, log)
	if err != nil {
		log.Error("masters open failed", "err", err)
		return
	}
	log.Info("data files loaded",
		"ledger", cfg.Data.LedgerFile, "masters", cfg.Data.MastersFile,
		"rows", len(ledgerStore.All()))

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := recording.New(ledgerStore, registry,
		cfg.Mills.Names, ledger.IDGenerator{Strategy: ledger.Strategy(cfg.IDs.Strategy)},
		m, log)
	svc.RefreshGauges()

	rows := ledgerStore.All()
	rep := stock.ClosingStock(rows, time.Now().In(loc), registry.List(masters.CategoryMaterial))
	occ := mill.Occupancy(rows, cfg.Mills.Names)
	log.Info("startup snapshot",
		"raw_material_items", len(rep.RawMaterials),
		"finished_items", len(rep.Finished),
		"open_mills", occ.Open)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
