package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ocr-backend/internal/shared/storage/db"
)

// SQLRepo implements Repo over database/sql for SQLite and Postgres.
type SQLRepo struct {
	DB      *sql.DB
	Dialect db.Dialect
}

// NewSQLRepo builds a repo on an open connection.
func NewSQLRepo(conn *db.DB) *SQLRepo {
	return &SQLRepo{DB: conn.DB, Dialect: conn.Dialect}
}

// Insert adds a new record row.
func (r *SQLRepo) Insert(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO images (file_id, extracted_text, tesseract_config, upload_timestamp)
VALUES (?, ?, ?, ?)`

	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		rec.FileID,
		rec.ExtractedText,
		rec.TesseractConfig,
		rec.UploadedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert image record: %w", err)
	}
	return nil
}

// GetByID returns the record for fileID or ErrNotFound.
func (r *SQLRepo) GetByID(ctx context.Context, fileID string) (Record, error) {
	const query = `
SELECT file_id, extracted_text, tesseract_config, upload_timestamp
FROM images
WHERE file_id = ?`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), fileID))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get image record: %w", err)
	}
	return rec, nil
}

// ListRecent returns up to limit records ordered by upload time, newest first.
func (r *SQLRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	const query = `
SELECT file_id, extracted_text, tesseract_config, upload_timestamp
FROM images
ORDER BY upload_timestamp DESC
LIMIT ?`

	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(query), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list image records: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, normalizeLimit(limit))
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list image records: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec    Record
		text   sql.NullString
		config sql.NullString
		ts     sql.NullTime
	)
	if err := row.Scan(&rec.FileID, &text, &config, &ts); err != nil {
		return Record{}, err
	}
	rec.ExtractedText = text.String
	rec.TesseractConfig = config.String
	if ts.Valid {
		rec.UploadedAt = ts.Time.UTC()
	}
	return rec, nil
}

var _ Repo = (*SQLRepo)(nil)
