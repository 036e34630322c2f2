package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ocr-backend/internal/bootstrap"
	"ocr-backend/internal/images"
	"ocr-backend/internal/ocr"
	"ocr-backend/internal/shared/config"
	"ocr-backend/internal/shared/storage/db"
	"ocr-backend/internal/shared/storage/object"
)

// env supplies the pieces commands need so tests can swap them.
type env struct {
	loadConfig func() config.Config
	newEngine  func(cfg config.Config) ocr.Engine
	openStore  func(ctx context.Context, cfg config.Config) (object.ObjectStore, error)
}

func defaultEnv() env {
	return env{
		loadConfig: config.Load,
		newEngine: func(cfg config.Config) ocr.Engine {
			return ocr.NewTesseractEngine(cfg.TessdataPrefix)
		},
		openStore: bootstrap.NewObjectStore,
	}
}

func newRootCmd(e env) *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:          "ocrctl",
		Short:        "Extract text from images and inspect OCR history",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "override DATABASE_URL")

	openRepo := func(ctx context.Context) (*images.SQLRepo, func(), error) {
		cfg := e.loadConfig()
		url := cfg.DatabaseURL
		if databaseURL != "" {
			url = databaseURL
		}
		conn, err := db.Connect(ctx, url, db.OptionsFromEnv(db.DefaultMigrateOptions()))
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return images.NewSQLRepo(conn), func() { _ = conn.Close() }, nil
	}

	root.AddCommand(
		newExtractCmd(e),
		newHistoryCmd(openRepo),
		newFetchCmd(e, openRepo),
		newMigrateCmd(e, &databaseURL),
	)
	return root
}

type repoOpener func(ctx context.Context) (*images.SQLRepo, func(), error)
