package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/storage/db"
	"resume-screener/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	if _, err := telemetry.Setup(cfg.LogFormat, cfg.LogLevel); err != nil {
		log.Fatalf("logger setup: %v", err)
	}
	defer telemetry.Sync()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DBDriver, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"driver": cfg.DBDriver, "error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, cfg.DBDriver); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"driver": cfg.DBDriver, "error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"driver": cfg.DBDriver})
}
