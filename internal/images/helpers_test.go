package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ocr-backend/internal/ocr"
	"ocr-backend/internal/queue"
	"ocr-backend/internal/settings"
	localstore "ocr-backend/internal/shared/storage/object/local"
)

func whitePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func halfDarkPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBA{R: 230, G: 230, B: 230, A: 255}
			if x < 10 {
				c = color.RGBA{R: 20, G: 20, B: 20, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// whiteIsBlankEngine returns "" for an all-white raster and a fixed text otherwise.
func whiteIsBlankEngine(text string) ocr.Engine {
	return ocr.EngineFunc(func(_ context.Context, raster *image.Gray, _ settings.Settings) (string, error) {
		for _, v := range raster.Pix {
			if v != 255 {
				return text, nil
			}
		}
		return "", nil
	})
}

type failingRepo struct {
	*MemoryRepo
	err error
}

func (r failingRepo) Insert(context.Context, Record) error { return r.err }

type recordingQueue struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (q *recordingQueue) Send(_ context.Context, msg queue.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msg.FileID)
	return q.err
}

type fixture struct {
	svc   *Service
	repo  *MemoryRepo
	dir   string
	store *localstore.Store
}

func newFixture(t *testing.T, engine ocr.Engine) *fixture {
	t.Helper()
	dir := t.TempDir()
	repo := NewMemoryRepo()
	store := localstore.New(dir)
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	var tick int64
	var mu sync.Mutex
	svc := &Service{
		Store:    store,
		Repo:     repo,
		Engine:   engine,
		Settings: settings.NewStore(settings.Default()),
		now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			tick++
			return base.Add(time.Duration(tick) * time.Millisecond)
		},
	}
	return &fixture{svc: svc, repo: repo, dir: dir, store: store}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return out
}
