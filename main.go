package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"mesas/m/internal/alerts"
	"mesas/m/internal/api"
	"mesas/m/internal/config"
	"mesas/m/internal/database"
	"mesas/m/internal/inventory"
	"mesas/m/internal/migrations"
	"mesas/m/internal/reports"
	"mesas/m/internal/seed"
	"mesas/m/internal/stats"
	"mesas/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	var st store.Store
	if cfg.DatabaseDSN == "memory" {
		logger.Warn("using in-memory store, data will not survive a restart")
		st = store.NewMemoryStore()
	} else {
		db, err := database.Connect(cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal(err)
		}
		defer db.Close()
		if err := migrations.Run(db); err != nil {
			logger.Fatal(err)
		}
		st = store.NewSQLStore(db)
	}

	statsSvc := stats.NewService(st)
	manager := inventory.NewManager(st, alerts.NewEngine(st, statsSvc).WithLogger(logger))
	reportEngine := reports.NewEngine(st, st, alerts.SystemClock)

	ctx := context.Background()
	admin, err := api.BootstrapAdmin(ctx, st, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		logger.WithError(err).Warn("admin account unavailable, skipping sample inventory")
	} else if _, err := seed.LoadMedicines(ctx, manager, logger, cfg.SeedPath, admin.ID); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Infof("no sample inventory at %s", cfg.SeedPath)
		} else {
			logger.WithError(err).Warn("unable to seed sample inventory")
		}
	}

	handler := api.New(api.Dependencies{
		Users:       st,
		Inventory:   manager,
		Reports:     reportEngine,
		Stats:       statsSvc,
		Clock:       alerts.SystemClock,
		Logger:      logger,
		Secret:      cfg.Secret,
		CORSOrigins: cfg.CORSOrigins,
	})

	logger.Infof("MESAS server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
