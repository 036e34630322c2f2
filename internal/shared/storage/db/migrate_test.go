package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRunMigrationsCreatesImagesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ocr.db")
	database, err := Connect(context.Background(), "sqlite:"+path, DefaultMigrateOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer database.Close()

	if err := RunMigrations(context.Background(), database); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	// Second run is a no-op.
	if err := RunMigrations(context.Background(), database); err != nil {
		t.Fatalf("RunMigrations again: %v", err)
	}

	if _, err := database.ExecContext(context.Background(),
		`INSERT INTO images (file_id, extracted_text, tesseract_config) VALUES (?, ?, ?)`,
		"id-1", "hello", "--psm 6 --oem 3 -l eng"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var count int
	var hasTimestamp bool
	row := database.QueryRowContext(context.Background(), `SELECT COUNT(*), MAX(upload_timestamp IS NOT NULL) FROM images`)
	if err := row.Scan(&count, &hasTimestamp); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 1 || !hasTimestamp {
		t.Fatalf("expected one row with default timestamp, got count=%d ts=%v", count, hasTimestamp)
	}
}

func TestRunMigrationsNilIsNoop(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil db to be a no-op, got %v", err)
	}
}
