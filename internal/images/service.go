package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"ocr-backend/internal/imageproc"
	"ocr-backend/internal/ocr"
	"ocr-backend/internal/queue"
	"ocr-backend/internal/settings"
	"ocr-backend/internal/shared/metrics"
	"ocr-backend/internal/shared/storage/object"
	"ocr-backend/internal/shared/telemetry"
)

// Service runs the upload pipeline and serves stored records.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	Engine   ocr.Engine
	Settings *settings.Store
	// Events is optional; when set, completed uploads are announced on it.
	Events queue.Client

	now   func() time.Time
	newID func() string
}

// UploadResult is what a caller learns from a successful upload.
type UploadResult struct {
	FileID   string
	Text     string
	Settings settings.Settings
}

// Upload binarizes and recognizes data, then stores the source bytes and a
// record. Nothing is written unless preprocessing and OCR both succeed.
// requestID is only used to correlate logs and events.
func (s *Service) Upload(ctx context.Context, requestID string, r io.Reader) (UploadResult, error) {
	metrics.IncUploadStarted()

	data, err := io.ReadAll(r)
	if err != nil {
		metrics.IncUploadFailed()
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}

	pre, err := imageproc.Preprocess(data)
	if err != nil {
		metrics.IncUploadRejected()
		return UploadResult{}, err
	}

	snap := s.Settings.Get()
	started := time.Now()
	text, err := s.Engine.Recognize(ctx, pre.Image, snap)
	metrics.ObserveOCRDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncUploadFailed()
		return UploadResult{}, fmt.Errorf("ocr: %w", err)
	}

	fileID := s.generateID()
	key := StorageKey(fileID, pre.Format)
	if _, err := s.Store.SaveWithKey(ctx, key, ContentType(pre.Format), bytes.NewReader(data)); err != nil {
		metrics.IncUploadFailed()
		return UploadResult{}, fmt.Errorf("save upload: %w", err)
	}

	rec := Record{
		FileID:          fileID,
		ExtractedText:   text,
		TesseractConfig: snap.String(),
		UploadedAt:      s.clock().UTC(),
	}
	if err := s.Repo.Insert(ctx, rec); err != nil {
		metrics.IncUploadFailed()
		s.discard(key, fileID)
		return UploadResult{}, fmt.Errorf("insert record: %w", err)
	}

	metrics.IncUploadCompleted()
	telemetry.Info("upload.complete", map[string]any{
		"request_id":       requestID,
		"file_id":          fileID,
		"format":           pre.Format,
		"width":            pre.Width(),
		"height":           pre.Height(),
		"threshold":        pre.Threshold,
		"tesseract_config": rec.TesseractConfig,
		"text_length":      len(text),
	})
	s.publish(ctx, queue.NewMessage(fileID, requestID, rec.TesseractConfig, len(text)))

	return UploadResult{FileID: fileID, Text: text, Settings: snap}, nil
}

// Get returns the record for fileID.
func (s *Service) Get(ctx context.Context, fileID string) (Record, error) {
	if fileID == "" {
		return Record{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, fileID)
}

// OpenOriginal streams the source bytes stored for fileID and reports the
// storage key they were found under. The caller closes the reader.
func (s *Service) OpenOriginal(ctx context.Context, fileID string) (io.ReadCloser, string, error) {
	if _, err := s.Get(ctx, fileID); err != nil {
		return nil, "", err
	}
	for _, format := range storedFormats {
		key := StorageKey(fileID, format)
		rc, err := s.Store.Open(ctx, key)
		if err == nil {
			return rc, key, nil
		}
		if !errors.Is(err, object.ErrNotFound) {
			return nil, "", fmt.Errorf("open %s: %w", key, err)
		}
	}
	return nil, "", ErrOriginalMissing
}

// History returns up to limit recent records, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]Record, error) {
	return s.Repo.ListRecent(ctx, normalizeLimit(limit))
}

// discard removes a stored file whose record could not be written. It runs
// detached from the request context so a canceled request still cleans up.
func (s *Service) discard(key, fileID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Store.Delete(ctx, key); err != nil {
		metrics.IncCleanupFailed()
		telemetry.Error("upload.cleanup_failed", map[string]any{
			"file_id": fileID,
			"key":     key,
			"error":   err.Error(),
		})
	}
}

// publish announces a completed upload. Failures are logged, not returned:
// the upload itself already succeeded.
func (s *Service) publish(ctx context.Context, msg queue.Message) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Send(ctx, msg); err != nil {
		telemetry.Warn("upload.event_failed", map[string]any{
			"file_id": msg.FileID,
			"error":   err.Error(),
		})
	}
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Service) generateID() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}
