package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"ocr-backend/internal/shared/config"
	"ocr-backend/internal/shared/storage/db"
	"ocr-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Configure(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	conn, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		conn.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"dialect": string(conn.Dialect)})
}
