package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"ocr-backend/internal/shared/config"
	"ocr-backend/internal/shared/storage/db"
)

func TestBuildClosesDatabaseWhenStoreFails(t *testing.T) {
	var opened *db.DB
	prev := connectDB
	connectDB = func(ctx context.Context, url string, opts db.Options) (*db.DB, error) {
		conn, err := db.Connect(ctx, url, opts)
		opened = conn
		return conn, err
	}
	defer func() { connectDB = prev }()

	cfg := config.Config{
		Env:             "dev",
		DatabaseURL:     "sqlite:" + filepath.Join(t.TempDir(), "ocr.db"),
		ObjectStoreType: "s3",
	}
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected error for s3 store without bucket")
	}
	if opened == nil {
		t.Fatalf("expected the database to be opened")
	}
	if err := opened.PingContext(context.Background()); err == nil {
		t.Fatalf("expected database to be closed after failed build")
	}
}
